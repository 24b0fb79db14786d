package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ServiceType int

const (
	ServiceTypeAPIServer ServiceType = iota
	ServiceTypeInterfaceMonitor
	ServiceTypeLLDP
)

func (t ServiceType) String() string {
	switch t {
	case ServiceTypeAPIServer:
		return "APIServer"
	case ServiceTypeInterfaceMonitor:
		return "InterfaceMonitor"
	case ServiceTypeLLDP:
		return "LLDP"
	default:
		return fmt.Sprintf("unknown service type: %d", t)
	}
}

type ServiceID struct {
	Type ServiceType
	Name string
}

var (
	ServiceAPIServer        = ServiceID{Type: ServiceTypeAPIServer, Name: "APIServer"}
	ServiceInterfaceMonitor = ServiceID{Type: ServiceTypeInterfaceMonitor, Name: "InterfaceMonitor"}
	ServiceLLDP             = ServiceID{Type: ServiceTypeLLDP, Name: "LLDP"}
)

// Bootstrap is everything needed to start a service: its ID and a copy of its
// config, which is nil for services that don't have one.
type Bootstrap struct {
	ID     ServiceID
	Config any
}

type protocolConfig interface {
	shouldRun() bool
	dependencies() []ServiceID
	copy() protocolConfig
}

type Config struct {
	protocols map[ServiceID]protocolConfig
}

func loadConfig(path string) (*Config, error) {
	s, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := parseConfig(string(s))
	if err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func parseConfig(s string) (*Config, error) {
	var data map[string]interface{}

	if err := yaml.Unmarshal([]byte(s), &data); err != nil {
		return nil, err
	}

	c := Config{
		protocols: make(map[ServiceID]protocolConfig),
	}

	for k, v := range data {
		switch k {
		case "lldp":
			// An empty "lldp:" section runs with the defaults.
			if v == nil {
				v = map[string]interface{}{}
			}

			v, ok := v.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("lldp must be a map")
			}

			lldpConfig, err := parseLLDPConfig(v)
			if err != nil {
				return nil, err
			}

			c.protocols[ServiceLLDP] = lldpConfig
		default:
			return nil, fmt.Errorf("unknown top level key: %s", k)
		}
	}

	return &c, nil
}

// Bootstraps returns the services that should be running, dependencies first.
func (c *Config) Bootstraps() []Bootstrap {
	g := newGraph()

	g.addNode(ServiceAPIServer)

	for s, p := range c.protocols {
		if p.shouldRun() {
			g.addNode(s, p.dependencies()...)
		}
	}

	ids := g.topologicalSort()
	bootstraps := make([]Bootstrap, len(ids))

	for i, id := range ids {
		bootstraps[i] = Bootstrap{ID: id}

		if p, ok := c.protocols[id]; ok {
			bootstraps[i].Config = p.copy()
		}
	}

	return bootstraps
}

// LLDP returns a copy of the LLDP config, or nil if there isn't one.
func (c *Config) LLDP() *LLDPConfig {
	p, ok := c.protocols[ServiceLLDP]
	if !ok {
		return nil
	}

	return p.copy().(*LLDPConfig)
}

func (c *Config) copy() *Config {
	newConfig := Config{
		protocols: make(map[ServiceID]protocolConfig),
	}

	for k, v := range c.protocols {
		newConfig.protocols[k] = v.copy()
	}

	return &newConfig
}

func (c *Config) validate() error {
	if p, ok := c.protocols[ServiceLLDP]; ok {
		return p.(*LLDPConfig).validate()
	}

	return nil
}
