package program

import (
	"fmt"

	"github.com/roach88/clockstate/internal/clockcodec"
)

// Variant selects the payload layout a deployment accepts. The two layouts
// have different sizes, so one storage address must only ever be served by
// one variant.
type Variant string

const (
	// VariantClock accepts exactly one 40-byte clock record.
	VariantClock Variant = "clock"

	// VariantTimestamp accepts exactly one 8-byte little-endian u64.
	VariantTimestamp Variant = "timestamp"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantClock, VariantTimestamp:
		return v, nil
	default:
		return "", fmt.Errorf("unknown variant %q: must be %q or %q", s, VariantClock, VariantTimestamp)
	}
}

// PayloadSize returns the exact payload length the variant accepts.
func (v Variant) PayloadSize() int {
	if v == VariantTimestamp {
		return clockcodec.TimestampSize
	}
	return clockcodec.ClockSize
}

// validate decodes payload and returns log attributes describing it.
func (v Variant) validate(payload []byte) ([]any, error) {
	switch v {
	case VariantTimestamp:
		ts, err := clockcodec.DecodeTimestamp(payload)
		if err != nil {
			return nil, err
		}
		return []any{"timestamp", ts}, nil
	case VariantClock:
		c, err := clockcodec.DecodeClock(payload)
		if err != nil {
			return nil, err
		}
		return []any{
			"slot", c.Slot,
			"epoch_start_timestamp", c.EpochStartTimestamp,
			"epoch", c.Epoch,
			"leader_schedule_epoch", c.LeaderScheduleEpoch,
			"unix_timestamp", c.UnixTimestamp,
		}, nil
	default:
		return nil, fmt.Errorf("unknown variant %q", v)
	}
}
