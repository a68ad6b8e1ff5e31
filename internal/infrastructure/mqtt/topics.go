package mqtt

import "fmt"

// Topic prefixes for the Homebus MQTT scheme.
//
// Device topics use the flat scheme: homebus/{category}/{provider}/{device}
const (
	// TopicPrefix is the base for all Homebus topics.
	TopicPrefix = "homebus"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "homebus/system"
)

// Topics provides builders for Homebus MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.DeviceState("mqtt-main", "light-living")
//	// Returns: "homebus/state/mqtt-main/light-living"
type Topics struct{}

// DeviceState returns the topic for device state updates.
//
// Example: homebus/state/mqtt-main/light-living
func (Topics) DeviceState(providerID, deviceID string) string {
	return fmt.Sprintf("%s/state/%s/%s", TopicPrefix, providerID, deviceID)
}

// DeviceCommand returns the topic for commands to a device.
//
// Example: homebus/command/mqtt-main/light-living
func (Topics) DeviceCommand(providerID, deviceID string) string {
	return fmt.Sprintf("%s/command/%s/%s", TopicPrefix, providerID, deviceID)
}

// DeviceEvent returns the topic for device event notifications published
// by the core after processing provider updates.
//
// Example: homebus/event/light-living
func (Topics) DeviceEvent(deviceID string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefix, deviceID)
}

// SystemStatus returns the system status topic.
//
// Example: homebus/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDeviceStates returns a pattern matching all device state updates.
//
// Pattern: homebus/state/+/+
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/state/+/+", TopicPrefix)
}

// AllDeviceCommands returns a pattern matching all device commands.
//
// Pattern: homebus/command/+/+
func (Topics) AllDeviceCommands() string {
	return fmt.Sprintf("%s/command/+/+", TopicPrefix)
}

// AllTopics returns a pattern matching all Homebus topics.
// Use with caution, this receives ALL traffic.
//
// Pattern: homebus/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
