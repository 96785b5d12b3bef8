package harness

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/clockstate/internal/clockcodec"
	"github.com/roach88/clockstate/internal/program"
	"github.com/roach88/clockstate/internal/pubkey"
)

// ExpectOK is the expectation for steps that must succeed.
const ExpectOK = "ok"

// Scenario defines a scripted sequence of writes and checks on the final
// storage account.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Variant selects the payload layout the program is deployed with.
	// Empty means clock.
	Variant string `yaml:"variant,omitempty"`

	// Steps are submitted in order, one transaction each.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final storage account.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one write. Exactly one of SetTimestamp, SetClock and SetRaw is set.
type Step struct {
	SetTimestamp *uint64           `yaml:"set_timestamp,omitempty"`
	SetClock     *clockcodec.Clock `yaml:"set_clock,omitempty"`

	// SetRaw is a hex payload sent without encoding.
	SetRaw *string `yaml:"set_raw,omitempty"`

	// Storage replaces the derived storage address in the instruction.
	Storage string `yaml:"storage,omitempty"`

	// Expect is ExpectOK or an error code. Empty means ExpectOK.
	Expect string `yaml:"expect,omitempty"`
}

// Assertion validates the final storage account.
type Assertion struct {
	// Type specifies the assertion type:
	// - "account_exists": Check Exists
	// - "timestamp": Check the decoded u64 equals Value
	// - "clock": Check the decoded record equals Clock
	// - "data_len": Check the account holds Len bytes
	Type string `yaml:"type"`

	Exists *bool             `yaml:"exists,omitempty"`
	Value  *uint64           `yaml:"value,omitempty"`
	Clock  *clockcodec.Clock `yaml:"clock,omitempty"`
	Len    *int              `yaml:"len,omitempty"`
}

// Assertion type constants.
const (
	AssertAccountExists = "account_exists"
	AssertTimestamp     = "timestamp"
	AssertClock         = "clock"
	AssertDataLen       = "data_len"
)

// Step action names used in traces.
const (
	ActionSetTimestamp = "set_timestamp"
	ActionSetClock     = "set_clock"
	ActionSetRaw       = "set_raw"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// ProgramVariant returns the scenario's variant, defaulting to clock.
func (s *Scenario) ProgramVariant() (program.Variant, error) {
	if s.Variant == "" {
		return program.VariantClock, nil
	}
	return program.ParseVariant(s.Variant)
}

// Action returns the trace name of the step's write.
func (s Step) Action() string {
	switch {
	case s.SetTimestamp != nil:
		return ActionSetTimestamp
	case s.SetClock != nil:
		return ActionSetClock
	default:
		return ActionSetRaw
	}
}

// Payload encodes the step's write.
func (s Step) Payload() ([]byte, error) {
	switch {
	case s.SetTimestamp != nil:
		return clockcodec.EncodeTimestamp(*s.SetTimestamp), nil
	case s.SetClock != nil:
		return s.SetClock.Encode(), nil
	case s.SetRaw != nil:
		return hex.DecodeString(*s.SetRaw)
	default:
		return nil, fmt.Errorf("step has no write")
	}
}

// Expected returns the expected outcome, defaulting to ExpectOK.
func (s Step) Expected() string {
	if s.Expect == "" {
		return ExpectOK
	}
	return s.Expect
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := s.ProgramVariant(); err != nil {
		return err
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks that a step names exactly one write.
func validateStep(index int, step Step) error {
	writes := 0
	for _, set := range []bool{step.SetTimestamp != nil, step.SetClock != nil, step.SetRaw != nil} {
		if set {
			writes++
		}
	}
	if writes != 1 {
		return fmt.Errorf("steps[%d]: exactly one of set_timestamp, set_clock, set_raw is required", index)
	}

	if step.SetRaw != nil {
		if _, err := hex.DecodeString(*step.SetRaw); err != nil {
			return fmt.Errorf("steps[%d]: set_raw: %w", index, err)
		}
	}

	if step.Storage != "" {
		if _, err := pubkey.ParsePubkey(step.Storage); err != nil {
			return fmt.Errorf("steps[%d]: storage: %w", index, err)
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertAccountExists:
		if a.Exists == nil {
			return fmt.Errorf("assertions[%d]: exists is required for account_exists", index)
		}
	case AssertTimestamp:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for timestamp", index)
		}
	case AssertClock:
		if a.Clock == nil {
			return fmt.Errorf("assertions[%d]: clock is required for clock", index)
		}
	case AssertDataLen:
		if a.Len == nil || *a.Len < 0 {
			return fmt.Errorf("assertions[%d]: non-negative len is required for data_len", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
