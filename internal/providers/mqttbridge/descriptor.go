package mqttbridge

import (
	"github.com/oakmere/homebus-core/internal/device"
	"github.com/oakmere/homebus-core/internal/domain"
	"github.com/oakmere/homebus-core/internal/provider"
)

// TypeName is the descriptor id configuration files reference in the
// provider type field.
const TypeName = "mqtt-bridge"

// Spec returns the bridge's descriptor spec bound to the given MQTT
// client. Every provider instance created from the descriptor shares
// that client.
func Spec(client mqttClient) provider.Spec {
	return provider.Spec{
		ID:          TypeName,
		DisplayName: "MQTT Bridge",
		Description: "Bridges MQTT-native integrations into the device registry via configured state and command topics.",
		Origin:      provider.OriginBuiltin,
		ConfigFields: []provider.ConfigField{
			{
				Name:        "id",
				DisplayName: "Instance ID",
				Description: "Stable identifier of this provider instance.",
				Type:        domain.FieldString,
				Required:    true,
			},
			{
				Name:        "topic_prefix",
				DisplayName: "Topic Prefix",
				Description: "Base of derived state and command topics.",
				Type:        domain.FieldString,
				Default:     "homebus",
			},
			{
				Name:        "qos",
				DisplayName: "QoS",
				Description: "Quality of service for subscriptions and publishes.",
				Type:        domain.FieldNumber,
				Default:     1,
				Min:         f(0),
				Max:         f(2),
			},
			{
				Name:        "devices",
				DisplayName: "Devices",
				Description: "Bridged device declarations.",
				Type:        domain.FieldObject,
				Required:    true,
			},
		},
		Validate: validateConfig,
		Factory: func(cfg map[string]any) (device.Provider, error) {
			return New(cfg, client)
		},
	}
}

func f(v float64) *float64 { return &v }
