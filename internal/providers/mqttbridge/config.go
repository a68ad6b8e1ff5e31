package mqttbridge

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/oakmere/homebus-core/internal/domain"
	"github.com/oakmere/homebus-core/internal/infrastructure/mqtt"
)

// bridgeConfig is the parsed provider configuration.
type bridgeConfig struct {
	ID          string         `yaml:"id"`
	TopicPrefix string         `yaml:"topic_prefix"`
	QoS         int            `yaml:"qos"`
	Devices     []deviceConfig `yaml:"devices"`
}

// deviceConfig declares one bridged device.
//
// StateTopic and CommandTopic default to the standard Homebus scheme
// (homebus/state/{provider}/{device} and homebus/command/...) when not
// set; integrations with their own topic layout override them.
type deviceConfig struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Domain       string   `yaml:"domain"`
	Area         string   `yaml:"area"`
	AreaName     string   `yaml:"area_name"`
	StateTopic   string   `yaml:"state_topic"`
	CommandTopic string   `yaml:"command_topic"`
	Features     []string `yaml:"features"`
	Roles        []string `yaml:"roles"`
}

// parseConfig decodes a raw configuration map into a bridgeConfig and
// applies defaults. The map comes from YAML (via the core config file)
// or JSON, so a re-marshal round-trip gives us typed decoding for free.
func parseConfig(raw map[string]any) (*bridgeConfig, error) {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding bridge config: %w", err)
	}

	var cfg bridgeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding bridge config: %w", err)
	}

	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = mqtt.TopicPrefix
	}
	// QoS 0 is a legal setting; only absence gets the default.
	if v, ok := raw["qos"]; !ok || v == nil {
		cfg.QoS = 1
	}

	for i := range cfg.Devices {
		d := &cfg.Devices[i]
		if d.StateTopic == "" {
			d.StateTopic = fmt.Sprintf("%s/state/%s/%s", cfg.TopicPrefix, cfg.ID, d.ID)
		}
		if d.CommandTopic == "" {
			d.CommandTopic = fmt.Sprintf("%s/command/%s/%s", cfg.TopicPrefix, cfg.ID, d.ID)
		}
		if d.Name == "" {
			d.Name = d.ID
		}
	}

	return &cfg, nil
}

// validateConfig is the descriptor's integration hook. It checks the
// structured devices list, which the generic field walk only sees as an
// opaque value: device ids must be present and unique, and each device
// must name a known domain.
func validateConfig(raw map[string]any) []string {
	cfg, err := parseConfig(raw)
	if err != nil {
		return []string{err.Error()}
	}

	var problems []string

	if len(cfg.Devices) == 0 {
		problems = append(problems, "devices must declare at least one device")
	}

	seen := make(map[string]struct{}, len(cfg.Devices))
	for i, d := range cfg.Devices {
		if d.ID == "" {
			problems = append(problems, fmt.Sprintf("devices[%d].id is required", i))
			continue
		}
		if _, dup := seen[d.ID]; dup {
			problems = append(problems, fmt.Sprintf("devices[%d].id %q is duplicated", i, d.ID))
		}
		seen[d.ID] = struct{}{}

		if d.Domain == "" {
			problems = append(problems, fmt.Sprintf("devices[%d].domain is required", i))
			continue
		}
		if _, ok := domain.Get(d.Domain); !ok {
			problems = append(problems, fmt.Sprintf("devices[%d].domain %q is not a known domain", i, d.Domain))
		}
	}

	return problems
}
