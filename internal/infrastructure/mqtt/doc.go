// Package mqtt provides MQTT client connectivity for Homebus Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// Homebus uses MQTT to reach integrations that speak the bus natively:
// the builtin MQTT bridge provider subscribes to device state topics
// and publishes commands through this client. Subscriptions are tracked
// and restored automatically after a reconnect.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllDeviceStates(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("state: %s = %s", topic, payload)
//	        return nil
//	    })
package mqtt
