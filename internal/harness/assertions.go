package harness

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/roach88/clockstate/internal/clockcodec"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Steps    []StepResult // Step outcomes for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Steps) > 0 {
		fmt.Fprintf(&buf, "\nSteps:\n")
		for _, step := range e.Steps {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %s\n", step.Index, step.Action, step.Payload, step.Outcome)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the result and returns
// the failure messages in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	data, err := hex.DecodeString(result.Storage.Data)
	if err != nil {
		return fmt.Errorf("decode storage data: %w", err)
	}

	switch a.Type {
	case AssertAccountExists:
		return assertAccountExists(result, *a.Exists)
	case AssertTimestamp:
		return assertTimestamp(result, data, *a.Value)
	case AssertClock:
		return assertClock(result, data, *a.Clock)
	case AssertDataLen:
		return assertDataLen(result, data, *a.Len)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertAccountExists(result *Result, want bool) error {
	if result.Storage.Exists == want {
		return nil
	}
	return &AssertionError{
		Type:     AssertAccountExists,
		Expected: fmt.Sprintf("exists=%t", want),
		Actual:   fmt.Sprintf("exists=%t", result.Storage.Exists),
		Steps:    result.Steps,
	}
}

func assertTimestamp(result *Result, data []byte, want uint64) error {
	got, err := clockcodec.DecodeTimestamp(data)
	if err != nil {
		return &AssertionError{
			Type:     AssertTimestamp,
			Expected: fmt.Sprintf("timestamp %d", want),
			Actual:   err.Error(),
			Steps:    result.Steps,
		}
	}
	if got != want {
		return &AssertionError{
			Type:     AssertTimestamp,
			Expected: fmt.Sprintf("timestamp %d", want),
			Actual:   fmt.Sprintf("timestamp %d", got),
			Steps:    result.Steps,
		}
	}
	return nil
}

func assertClock(result *Result, data []byte, want clockcodec.Clock) error {
	got, err := clockcodec.DecodeClock(data)
	if err != nil {
		return &AssertionError{
			Type:     AssertClock,
			Expected: fmt.Sprintf("%+v", want),
			Actual:   err.Error(),
			Steps:    result.Steps,
		}
	}
	if got != want {
		return &AssertionError{
			Type:     AssertClock,
			Expected: fmt.Sprintf("%+v", want),
			Actual:   fmt.Sprintf("%+v", got),
			Steps:    result.Steps,
		}
	}
	return nil
}

func assertDataLen(result *Result, data []byte, want int) error {
	if len(data) == want {
		return nil
	}
	return &AssertionError{
		Type:     AssertDataLen,
		Expected: fmt.Sprintf("%d bytes", want),
		Actual:   fmt.Sprintf("%d bytes", len(data)),
		Steps:    result.Steps,
	}
}
