package metrics

import "time"

// ResultLabel enumerates outcomes for counters.
type ResultLabel string

const (
	ResultSuccess   ResultLabel = "success"
	ResultFailed    ResultLabel = "failed"
	ResultUnchanged ResultLabel = "unchanged"
)

// GateDecision enumerates version gate outcomes.
type GateDecision string

const (
	GateRedirect GateDecision = "redirect"
	GatePass     GateDecision = "pass"
	GateExempt   GateDecision = "exempt"
)

// Recorder defines the metric hooks used by the gate, the navigation API and
// the registry store.
type Recorder interface {
	IncGateDecision(d GateDecision)
	IncVersionFallback()
	IncAdjacentLookup(found bool)
	IncRegistryReload(result ResultLabel)
	SetRegistryVersions(n int)
	ObserveHTTPRequest(route string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncGateDecision(GateDecision)                      {}
func (NoopRecorder) IncVersionFallback()                               {}
func (NoopRecorder) IncAdjacentLookup(bool)                            {}
func (NoopRecorder) IncRegistryReload(ResultLabel)                     {}
func (NoopRecorder) SetRegistryVersions(int)                           {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration)     {}
