package core

import (
	"github.com/aretw0/introspection"
)

// ManagerState exposes internal state for observability.
type ManagerState struct {
	AdapterType string   `json:"adapter_type"`
	ReadOnly    bool     `json:"read_only"`
	Collections []string `json:"collections"`
}

// State implements introspection.Introspectable.
// Collections lists the handles handed out so far, not the backend contents.
func (m *DocumentManager) State() any {
	adapter := m.adapter
	readOnly := false
	if ro, ok := adapter.(*readOnlyAdapter); ok {
		adapter = ro.inner
		readOnly = true
	}

	adapterType := "adapter"
	if comp, ok := adapter.(introspection.Component); ok {
		adapterType = comp.ComponentType()
	}

	names := make([]string, 0, m.collections.Size())
	m.collections.Range(func(name string, _ *Collection) bool {
		names = append(names, name)
		return true
	})

	return ManagerState{
		AdapterType: adapterType,
		ReadOnly:    readOnly,
		Collections: names,
	}
}

// ComponentType implements introspection.Component.
func (m *DocumentManager) ComponentType() string {
	return "document_manager"
}

// SynchronizerState exposes internal state for observability.
type SynchronizerState struct {
	Source  any     `json:"source"`
	Target  any     `json:"target"`
	Runs    int64   `json:"runs"`
	LastRun *Report `json:"last_run,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Synchronizer) State() any {
	return SynchronizerState{
		Source:  s.source.State(),
		Target:  s.target.State(),
		Runs:    s.runs.Load(),
		LastRun: s.lastRun.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Synchronizer) ComponentType() string {
	return "synchronizer"
}

var _ introspection.Introspectable = (*DocumentManager)(nil)
var _ introspection.Component = (*DocumentManager)(nil)
var _ introspection.Introspectable = (*Synchronizer)(nil)
var _ introspection.Component = (*Synchronizer)(nil)
