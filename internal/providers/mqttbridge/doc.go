// Package mqttbridge implements the builtin MQTT bridge provider.
//
// The bridge adapts MQTT-native integrations to the device provider
// contract. Devices are declared statically in the provider
// configuration; each maps to a state topic the bridge subscribes to
// and a command topic it publishes to.
//
//	state topic  --> JSON payload merged into device state, event emitted
//	command      --> validated against the device's domain, published as JSON
//
// The bridge shares the core's MQTT client rather than opening its own
// broker connection. Connect subscribes the configured state topics;
// Disconnect removes them.
package mqttbridge
