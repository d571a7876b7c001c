package store

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/roadpack/roadpack/manager"
)

// PropertyInfo describes one encoded property of a layout.
type PropertyInfo struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Offset   int    `json:"offset"`
	Bits     int    `json:"bits"`
	Directed bool   `json:"directed"`
}

// ProfileInfo describes one bound profile's bit claims.
type ProfileInfo struct {
	Name         string `json:"name"`
	Version      int    `json:"version"`
	NodeBits     int    `json:"node_bits"`
	RelationBits int    `json:"relation_bits"`
	TurnBits     int    `json:"turn_bits"`
}

// LayoutInfo is the JSON rendering of a manager's complete layout, meant
// for inspection tooling and debugging, not for compatibility checks (the
// snapshot fingerprint covers those).
type LayoutInfo struct {
	Profiles         []ProfileInfo  `json:"profiles"`
	Properties       []PropertyInfo `json:"properties"`
	FlagBytes        int            `json:"flag_bytes"`
	ExtendedDataSize int            `json:"extended_data_size"`
	UsedBits         int            `json:"used_bits"`
	Fingerprint      string         `json:"fingerprint"`
}

// LayoutJSON renders the manager's layout as indented JSON.
func LayoutJSON(m *manager.Manager) ([]byte, error) {
	info := LayoutInfo{
		FlagBytes:        m.FlagBytes(),
		ExtendedDataSize: m.ExtendedDataSize(),
		UsedBits:         m.UsedBits(),
		Fingerprint:      fmt.Sprintf("%016x", m.LayoutFingerprint()),
	}
	for _, p := range m.Profiles() {
		b := p.Binding()
		info.Profiles = append(info.Profiles, ProfileInfo{
			Name:         p.Name(),
			Version:      p.Version(),
			NodeBits:     b.Node.Bits,
			RelationBits: b.Relation.Bits,
			TurnBits:     b.Turn.Bits,
		})
	}
	for _, v := range m.Properties() {
		info.Properties = append(info.Properties, PropertyInfo{
			Name:     v.Name(),
			Kind:     v.Kind().String(),
			Offset:   v.Offset(),
			Bits:     v.Bits(),
			Directed: v.Directed(),
		})
	}

	return json.MarshalIndent(info, "", "  ")
}
