package topology

import (
	"fmt"

	"github.com/ruminaider/dashpick/internal/catalog"
)

// Component identifies a kind of cluster instance.
type Component string

const (
	PD      Component = "pd"
	TiDB    Component = "tidb"
	TiKV    Component = "tikv"
	TiFlash Component = "tiflash"
)

// Components lists every component in table order.
var Components = []Component{PD, TiDB, TiKV, TiFlash}

// DisplayName returns the human-facing component name.
func (c Component) DisplayName() string {
	switch c {
	case PD:
		return "PD"
	case TiDB:
		return "TiDB"
	case TiKV:
		return "TiKV"
	case TiFlash:
		return "TiFlash"
	default:
		return string(c)
	}
}

// Status is the reported health of an instance.
type Status string

const (
	StatusUp          Status = "up"
	StatusDown        Status = "down"
	StatusOffline     Status = "offline"
	StatusTombstone   Status = "tombstone"
	StatusUnreachable Status = "unreachable"
)

// Instance is one cluster member as reported by a topology source.
type Instance struct {
	Address string `yaml:"address"`
	Status  Status `yaml:"status,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// Snapshot is the combined topology across all components.
type Snapshot struct {
	PD      []Instance `yaml:"pd,omitempty"`
	TiDB    []Instance `yaml:"tidb,omitempty"`
	TiKV    []Instance `yaml:"tikv,omitempty"`
	TiFlash []Instance `yaml:"tiflash,omitempty"`
}

// Of returns the instances of one component.
func (s Snapshot) Of(c Component) []Instance {
	switch c {
	case PD:
		return s.PD
	case TiDB:
		return s.TiDB
	case TiKV:
		return s.TiKV
	case TiFlash:
		return s.TiFlash
	default:
		return nil
	}
}

// Only returns a copy of s restricted to the given components.
func (s Snapshot) Only(cs ...Component) Snapshot {
	var out Snapshot
	for _, c := range cs {
		out = out.with(c, s.Of(c))
	}
	return out
}

// Merge returns s with the non-empty components of other laid over it.
func (s Snapshot) Merge(other Snapshot) Snapshot {
	for _, c := range Components {
		if inst := other.Of(c); len(inst) > 0 {
			s = s.with(c, inst)
		}
	}
	return s
}

func (s Snapshot) with(c Component, inst []Instance) Snapshot {
	switch c {
	case PD:
		s.PD = inst
	case TiDB:
		s.TiDB = inst
	case TiKV:
		s.TiKV = inst
	case TiFlash:
		s.TiFlash = inst
	}
	return s
}

// Attribute names set on instance catalog items.
const (
	AttrComponent = "component"
	AttrStatus    = "status"
	AttrVersion   = "version"
)

// BuildInstanceTable flattens a snapshot into catalog items in component
// order. The item key is the instance address. TiFlash instances are only
// included when includeTiFlash is set.
func BuildInstanceTable(s Snapshot, includeTiFlash bool) []catalog.Item {
	var items []catalog.Item
	for _, c := range Components {
		if c == TiFlash && !includeTiFlash {
			continue
		}
		for _, inst := range s.Of(c) {
			status := inst.Status
			if status == "" {
				status = StatusUp
			}
			items = append(items, catalog.Item{
				Key:   inst.Address,
				Label: fmt.Sprintf("%s %s", c.DisplayName(), inst.Address),
				Attrs: map[string]string{
					AttrComponent: string(c),
					AttrStatus:    string(status),
					AttrVersion:   inst.Version,
				},
			})
		}
	}
	return items
}
