package config

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/davidbalbert/lldpd/lldp"
)

// Mode controls whether an interface sends LLDPDUs, receives them, or both.
type Mode int

const (
	ModeRxTx Mode = iota
	ModeRx
	ModeTx
)

func (m Mode) String() string {
	switch m {
	case ModeRxTx:
		return "rx-tx"
	case ModeRx:
		return "rx"
	case ModeTx:
		return "tx"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) Transmits() bool {
	return m == ModeRxTx || m == ModeTx
}

func (m Mode) Receives() bool {
	return m == ModeRxTx || m == ModeRx
}

func parseMode(s string) (Mode, error) {
	switch s {
	case "rx-tx":
		return ModeRxTx, nil
	case "rx":
		return ModeRx, nil
	case "tx":
		return ModeTx, nil
	default:
		return 0, fmt.Errorf("mode must be one of rx-tx, rx or tx: %s", s)
	}
}

func parseDestination(s string) (net.HardwareAddr, error) {
	switch s {
	case "nearest-bridge":
		return lldp.NearestBridge, nil
	case "nearest-non-tpmr-bridge":
		return lldp.NearestNonTPMRBridge, nil
	case "nearest-customer-bridge":
		return lldp.NearestCustomerBridge, nil
	default:
		return nil, fmt.Errorf("destination must be one of nearest-bridge, nearest-non-tpmr-bridge or nearest-customer-bridge: %s", s)
	}
}

const (
	defaultInterval = 30 * time.Second

	// IEEE 802.1AB msgTxHold
	txHold = 4
)

type LLDPConfig struct {
	Interval            time.Duration
	TTL                 int
	ChassisID           string
	SystemName          string
	SystemDescription   string
	Capabilities        lldp.Capability
	EnabledCapabilities lldp.Capability
	Destination         net.HardwareAddr
	ManagementAddresses bool
	OrgSpecific         []OrgSpecificConfig

	// When empty, every up, non-loopback Ethernet interface is used.
	Interfaces map[string]LLDPInterfaceConfig
}

type LLDPInterfaceConfig struct {
	Description string
	Mode        Mode
	Promiscuous bool
}

type OrgSpecificConfig struct {
	OUI     [3]byte
	Subtype byte
	Info    []byte
}

func (c *LLDPConfig) shouldRun() bool {
	return true
}

func (c *LLDPConfig) dependencies() []ServiceID {
	return []ServiceID{ServiceInterfaceMonitor}
}

func (c *LLDPConfig) copy() protocolConfig {
	newConfig := *c

	newConfig.Destination = make(net.HardwareAddr, len(c.Destination))
	copy(newConfig.Destination, c.Destination)

	newConfig.OrgSpecific = make([]OrgSpecificConfig, len(c.OrgSpecific))
	for i, o := range c.OrgSpecific {
		newConfig.OrgSpecific[i] = OrgSpecificConfig{
			OUI:     o.OUI,
			Subtype: o.Subtype,
			Info:    bytes.Clone(o.Info),
		}
	}

	newConfig.Interfaces = make(map[string]LLDPInterfaceConfig)
	for k, v := range c.Interfaces {
		newConfig.Interfaces[k] = v
	}

	return &newConfig
}

// InterfaceConfig returns the config for the named interface. If no interfaces
// are configured, every interface gets the default config.
func (c *LLDPConfig) InterfaceConfig(name string) (LLDPInterfaceConfig, bool) {
	if len(c.Interfaces) == 0 {
		return LLDPInterfaceConfig{Mode: ModeRxTx}, true
	}

	ic, ok := c.Interfaces[name]
	return ic, ok
}

func (c *LLDPConfig) validate() error {
	if c.EnabledCapabilities&^c.Capabilities != 0 {
		return fmt.Errorf("lldp: enabled-capabilities must be a subset of capabilities: %v", c.EnabledCapabilities&^c.Capabilities)
	}

	if c.TTL < int(c.Interval/time.Second) {
		return fmt.Errorf("lldp: ttl (%d) must not be shorter than interval (%v)", c.TTL, c.Interval)
	}

	return nil
}

func parseLLDPConfig(data map[string]interface{}) (*LLDPConfig, error) {
	c := &LLDPConfig{
		Interval:            defaultInterval,
		Destination:         lldp.NearestBridge,
		ManagementAddresses: true,
		Interfaces:          make(map[string]LLDPInterfaceConfig),
	}

	for k, v := range data {
		if k == "interval" {
			v, ok := v.(int)
			if !ok {
				return nil, fmt.Errorf("lldp: interval must be an integer")
			}

			if v < 1 {
				return nil, fmt.Errorf("lldp: interval too small: %d", v)
			} else if v > 3600 {
				return nil, fmt.Errorf("lldp: interval too big: %d", v)
			}

			c.Interval = time.Duration(v) * time.Second
		} else if k == "ttl" {
			v, ok := v.(int)
			if !ok {
				return nil, fmt.Errorf("lldp: ttl must be an integer")
			}

			if v < 1 {
				return nil, fmt.Errorf("lldp: ttl too small: %d", v)
			} else if v > lldp.MaxTTL {
				return nil, fmt.Errorf("lldp: ttl too big: %d", v)
			}

			c.TTL = v
		} else if k == "chassis-id" {
			v, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("lldp: chassis-id must be a string")
			}

			if _, err := lldp.NewChassisID(lldp.ChassisLocal, []byte(v)); err != nil {
				return nil, fmt.Errorf("lldp: invalid chassis-id: %w", err)
			}

			c.ChassisID = v
		} else if k == "system-name" {
			v, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("lldp: system-name must be a string")
			}

			if _, err := lldp.NewSystemName(v); err != nil {
				return nil, fmt.Errorf("lldp: invalid system-name: %w", err)
			}

			c.SystemName = v
		} else if k == "system-description" {
			v, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("lldp: system-description must be a string")
			}

			if _, err := lldp.NewSystemDescription(v); err != nil {
				return nil, fmt.Errorf("lldp: invalid system-description: %w", err)
			}

			c.SystemDescription = v
		} else if k == "capabilities" || k == "enabled-capabilities" {
			caps, err := parseCapabilities(k, v)
			if err != nil {
				return nil, err
			}

			if k == "capabilities" {
				c.Capabilities = caps
			} else {
				c.EnabledCapabilities = caps
			}
		} else if k == "destination" {
			v, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("lldp: destination must be a string")
			}

			dst, err := parseDestination(v)
			if err != nil {
				return nil, fmt.Errorf("lldp: %w", err)
			}

			c.Destination = dst
		} else if k == "management-addresses" {
			v, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("lldp: management-addresses must be a boolean")
			}

			c.ManagementAddresses = v
		} else if k == "org-specific" {
			v, ok := v.([]interface{})
			if !ok {
				return nil, fmt.Errorf("lldp: org-specific must be a list")
			}

			for i, item := range v {
				item, ok := item.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("lldp: org-specific %d must be a map", i)
				}

				o, err := parseOrgSpecificConfig(i, item)
				if err != nil {
					return nil, err
				}

				c.OrgSpecific = append(c.OrgSpecific, *o)
			}
		} else if strings.HasPrefix(k, "interface ") {
			name := strings.TrimPrefix(k, "interface ")

			// "interface eth0:" with nothing under it
			if v == nil {
				v = map[string]interface{}{}
			}

			v, ok := v.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("lldp: interface %s must be a map", name)
			}

			ic, err := parseLLDPInterfaceConfig(name, v)
			if err != nil {
				return nil, err
			}

			c.Interfaces[name] = *ic
		} else {
			return nil, fmt.Errorf("lldp: unknown key: %s", k)
		}
	}

	if c.TTL == 0 {
		c.TTL = txHold * int(c.Interval/time.Second)
		if c.TTL > lldp.MaxTTL {
			c.TTL = lldp.MaxTTL
		}
	}

	return c, nil
}

func parseCapabilities(key string, v interface{}) (lldp.Capability, error) {
	names, ok := v.([]interface{})
	if !ok {
		return 0, fmt.Errorf("lldp: %s must be a list", key)
	}

	var caps lldp.Capability
	for _, name := range names {
		name, ok := name.(string)
		if !ok {
			return 0, fmt.Errorf("lldp: %s must be a list of strings", key)
		}

		c, err := lldp.ParseCapability(name)
		if err != nil {
			return 0, fmt.Errorf("lldp: %s: %w", key, err)
		}

		caps |= c
	}

	return caps, nil
}

func parseOrgSpecificConfig(i int, data map[string]interface{}) (*OrgSpecificConfig, error) {
	o := &OrgSpecificConfig{}
	hasOUI := false

	for k, v := range data {
		if k == "oui" {
			v, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("lldp: org-specific %d: oui must be a string", i)
			}

			b, err := hex.DecodeString(strings.ReplaceAll(v, ":", ""))
			if err != nil || len(b) != 3 {
				return nil, fmt.Errorf("lldp: org-specific %d: oui must be three hex bytes: %s", i, v)
			}

			copy(o.OUI[:], b)
			hasOUI = true
		} else if k == "subtype" {
			v, ok := v.(int)
			if !ok {
				return nil, fmt.Errorf("lldp: org-specific %d: subtype must be an integer", i)
			}

			if v < 0 {
				return nil, fmt.Errorf("lldp: org-specific %d: subtype too small: %d", i, v)
			} else if v > 255 {
				return nil, fmt.Errorf("lldp: org-specific %d: subtype too big: %d", i, v)
			}

			o.Subtype = byte(v)
		} else if k == "value" {
			v, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("lldp: org-specific %d: value must be a hex string", i)
			}

			b, err := hex.DecodeString(v)
			if err != nil {
				return nil, fmt.Errorf("lldp: org-specific %d: invalid value: %w", i, err)
			}

			if len(b) > lldp.MaxOrgInfoLen {
				return nil, fmt.Errorf("lldp: org-specific %d: value too long: %d bytes", i, len(b))
			}

			o.Info = b
		} else {
			return nil, fmt.Errorf("lldp: org-specific %d: unknown key: %s", i, k)
		}
	}

	if !hasOUI {
		return nil, fmt.Errorf("lldp: org-specific %d: missing oui", i)
	}

	return o, nil
}

func parseLLDPInterfaceConfig(name string, data map[string]interface{}) (*LLDPInterfaceConfig, error) {
	ic := &LLDPInterfaceConfig{
		Mode: ModeRxTx,
	}

	for k, v := range data {
		if k == "description" {
			v, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("lldp: interface %s: description must be a string", name)
			}

			if _, err := lldp.NewPortDescription(v); err != nil {
				return nil, fmt.Errorf("lldp: interface %s: invalid description: %w", name, err)
			}

			ic.Description = v
		} else if k == "mode" {
			v, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("lldp: interface %s: mode must be a string", name)
			}

			mode, err := parseMode(v)
			if err != nil {
				return nil, fmt.Errorf("lldp: interface %s: %w", name, err)
			}

			ic.Mode = mode
		} else if k == "promiscuous" {
			v, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("lldp: interface %s: promiscuous must be a boolean", name)
			}

			ic.Promiscuous = v
		} else {
			return nil, fmt.Errorf("lldp: interface %s: unknown key: %s", name, k)
		}
	}

	return ic, nil
}
