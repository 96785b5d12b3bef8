package harness

// TraceSnapshot is the run-independent part of a Result.
// Signatures, addresses, run IDs and program logs are excluded so the
// snapshot is identical across runs.
type TraceSnapshot struct {
	ScenarioName string
	Variant      string
	Steps        []StepResult
	Storage      StorageState
}

// NewTraceSnapshot extracts the snapshot of result.
func NewTraceSnapshot(name string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: name,
		Variant:      result.Variant,
		Steps:        result.Steps,
		Storage:      result.Storage,
	}
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical
// JSON serialization.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = map[string]any{
			"index":   step.Index,
			"action":  step.Action,
			"payload": step.Payload,
			"expect":  step.Expect,
			"outcome": step.Outcome,
		}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"variant":       s.Variant,
		"steps":         steps,
		"storage": map[string]any{
			"exists": s.Storage.Exists,
			"data":   s.Storage.Data,
		},
	}
}

// MarshalCanonical returns the snapshot's canonical JSON.
func (s *TraceSnapshot) MarshalCanonical() ([]byte, error) {
	return MarshalCanonical(s.toCanonicalMap())
}
