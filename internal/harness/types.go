package harness

// StepResult is the observed outcome of one scenario step.
type StepResult struct {
	Index     int      `json:"index"`
	Action    string   `json:"action"`
	Payload   string   `json:"payload"` // hex
	Expect    string   `json:"expect"`
	Outcome   string   `json:"outcome"`
	Error     string   `json:"error,omitempty"`
	Signature string   `json:"signature"`
	Logs      []string `json:"logs"`
}

// StorageState is the storage account after the last step.
type StorageState struct {
	Address string `json:"address"`
	Exists  bool   `json:"exists"`
	Data    string `json:"data"` // hex
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step matched its expectation and every assertion held.
	Pass bool `json:"pass"`

	// RunID correlates the run's log lines.
	RunID string `json:"run_id"`

	Variant string       `json:"variant"`
	Steps   []StepResult `json:"steps"`
	Storage StorageState `json:"storage"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep records a step outcome.
func (r *Result) AddStep(step StepResult) {
	r.Steps = append(r.Steps, step)
}
