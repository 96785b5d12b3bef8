package harness

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/clockstate/internal/clockcodec"
	"github.com/roach88/clockstate/internal/config"
	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/program"
	"github.com/roach88/clockstate/internal/pubkey"
)

func u64(v uint64) *uint64 { return &v }
func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func TestRun_TimestampScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/timestamp_overwrite.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "timestamp", result.Variant)

	require.Len(t, result.Steps, 4)
	assert.Equal(t, ExpectOK, result.Steps[0].Outcome)
	assert.NotEmpty(t, result.Steps[0].Signature)
	assert.Contains(t, result.Steps[1].Logs, "Program log: New timestamp - timestamp: 28234982")
	assert.Equal(t, "ADDRESS_MISMATCH", result.Steps[3].Outcome)
	assert.NotEmpty(t, result.Steps[3].Error)

	assert.True(t, result.Storage.Exists)
	assert.Equal(t, program.DeriveStorageAddress(config.DefaultProgramID).Address.String(), result.Storage.Address)
}

func TestRun_UnexpectedOutcomeFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_expectation",
		Description: "A write that succeeds but is expected to fail",
		Variant:     "timestamp",
		Steps: []Step{
			{SetTimestamp: u64(1), Expect: "INVALID_PAYLOAD"},
		},
		Assertions: []Assertion{
			{Type: AssertTimestamp, Value: u64(2)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expected INVALID_PAYLOAD, got ok")
	assert.Contains(t, result.Errors[1], "timestamp 2")
}

func TestRun_CustomProgramID(t *testing.T) {
	id := pubkey.Pubkey{42}
	scenario := &Scenario{
		Name:        "custom_id",
		Description: "Program deployed at a non-default address",
		Variant:     "timestamp",
		Steps:       []Step{{SetTimestamp: u64(9)}},
		Assertions:  []Assertion{{Type: AssertTimestamp, Value: u64(9)}},
	}

	result, err := Run(scenario, WithProgramID(id))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, program.DeriveStorageAddress(id).Address.String(), result.Storage.Address)
}

func TestRun_InsufficientRentBudget(t *testing.T) {
	// Rent so high the payer cannot fund the storage account.
	rent := ledger.Rent{LamportsPerByteYear: 1 << 40, ExemptionThreshold: 2, AccountStorageOverhead: 128}
	scenario := &Scenario{
		Name:        "unfunded",
		Description: "Creation fails when the payer cannot cover rent",
		Variant:     "timestamp",
		Steps:       []Step{{SetTimestamp: u64(1), Expect: string(program.ErrCodeCreationFailure)}},
		Assertions:  []Assertion{{Type: AssertAccountExists, Exists: boolPtr(false)}},
	}

	result, err := Run(scenario, WithRent(rent))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_InvalidVariant(t *testing.T) {
	_, err := Run(&Scenario{Name: "x", Variant: "sundial"})
	require.Error(t, err)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, ExpectOK, Outcome(nil))

	programErr := &ledger.InstructionError{
		Code: ledger.ErrCodeProgramFailed,
		Err:  &program.Error{Code: program.ErrCodeInvalidPayload},
	}
	assert.Equal(t, "INVALID_PAYLOAD", Outcome(programErr))

	ledgerErr := &ledger.InstructionError{
		Code: ledger.ErrCodeUnknownProgram,
		Err:  ledger.ErrUnknownProgram,
	}
	assert.Equal(t, "UNKNOWN_PROGRAM", Outcome(fmt.Errorf("wrapped: %w", ledgerErr)))

	assert.Equal(t, "ERROR", Outcome(errors.New("boom")))
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult()
	result.Storage = StorageState{Exists: true, Data: "6400000000000000"}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertAccountExists, Exists: boolPtr(true)},
		{Type: AssertTimestamp, Value: u64(100)},
		{Type: AssertDataLen, Len: intPtr(8)},
	})
	assert.Empty(t, errs)

	errs = EvaluateAssertions(result, []Assertion{
		{Type: AssertAccountExists, Exists: boolPtr(false)},
		{Type: AssertDataLen, Len: intPtr(40)},
		{Type: AssertClock, Clock: &clockcodec.Clock{}},
	})
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "exists=false")
	assert.Contains(t, errs[1], "40 bytes")
	assert.Contains(t, errs[2], "decode clock")
}

func TestAssertionError_IncludesSteps(t *testing.T) {
	err := &AssertionError{
		Type:     AssertDataLen,
		Expected: "8 bytes",
		Actual:   "0 bytes",
		Steps:    []StepResult{{Index: 0, Action: ActionSetRaw, Payload: "00", Outcome: "INVALID_PAYLOAD"}},
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: data_len")
	assert.Contains(t, msg, "[0] set_raw 00 -> INVALID_PAYLOAD")
}
