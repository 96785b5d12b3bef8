package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunWithGolden_Scenarios runs every scenario under testdata/scenarios
// and compares its trace with testdata/golden/<name>.golden.
//
// Regenerate with:
//
//	go test ./internal/harness -run TestRunWithGolden_Scenarios -update
func TestRunWithGolden_Scenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			require.Equal(t, name, scenario.Name, "scenario name must match its file name")

			result, err := runWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestTraceSnapshot_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/clock_record.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	// Signatures and run IDs differ between runs; snapshots must not.
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.NotEqual(t, first.Steps[0].Signature, second.Steps[0].Signature)

	s1 := NewTraceSnapshot(scenario.Name, first)
	s2 := NewTraceSnapshot(scenario.Name, second)
	j1, err := s1.MarshalCanonical()
	require.NoError(t, err)
	j2, err := s2.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, string(j1), string(j2))
}

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"sorted keys", map[string]any{"b": 1, "a": true}, `{"a":true,"b":1}`},
		{"nested", map[string]any{"x": []any{"y", int64(-2), uint64(18446744073709551615)}}, `{"x":["y",-2,18446744073709551615]}`},
		{"no html escape", "<a&b>", `"<a&b>"`},
		{"control chars", "a\nb\x01", `"a\nb\u0001"`},
		{"quote and backslash", `"\`, `"\"\\"`},
		{"line separator kept", "a\u2028b", "\"a\u2028b\""},
		{"nfc", "e\u0301", "\"\u00e9\""},
		{"empty object", map[string]any{}, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	for _, input := range []any{nil, 1.5, map[string]any{"k": nil}, []any{float32(1)}, struct{}{}} {
		_, err := MarshalCanonical(input)
		assert.Error(t, err, "%#v", input)
	}
}

func TestLessUTF16(t *testing.T) {
	// U+FF61 sorts after U+1F600 by code point but before it by UTF-16
	// code unit (the surrogate 0xD83D is smaller than 0xFF61).
	assert.True(t, lessUTF16("\U0001F600", "\uFF61"))
	assert.True(t, lessUTF16("a", "ab"))
	assert.False(t, lessUTF16("b", "a"))
}
