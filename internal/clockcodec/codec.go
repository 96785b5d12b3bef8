// Package clockcodec encodes and decodes the two payload layouts accepted by
// the clock program.
//
// Both layouts are fixed width and little-endian with no padding:
//
//	Clock (40 bytes):
//	  [0:8]   slot                   u64
//	  [8:16]  epoch_start_timestamp  i64
//	  [16:24] epoch                  u64
//	  [24:32] leader_schedule_epoch  u64
//	  [32:40] unix_timestamp         i64
//
//	Timestamp (8 bytes):
//	  [0:8]   value                  u64
//
// Decoding is strict: short buffers and trailing bytes are both rejected.
package clockcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	ClockSize     = 40
	TimestampSize = 8
)

var (
	ErrShortBuffer   = errors.New("buffer too short")
	ErrTrailingBytes = errors.New("trailing bytes after record")
)

// Clock is the five-field ledger clock record.
type Clock struct {
	Slot                uint64 `json:"slot" yaml:"slot"`
	EpochStartTimestamp int64  `json:"epoch_start_timestamp" yaml:"epoch_start_timestamp"`
	Epoch               uint64 `json:"epoch" yaml:"epoch"`
	LeaderScheduleEpoch uint64 `json:"leader_schedule_epoch" yaml:"leader_schedule_epoch"`
	UnixTimestamp       int64  `json:"unix_timestamp" yaml:"unix_timestamp"`
}

// Encode returns the 40-byte wire form.
func (c Clock) Encode() []byte {
	b := make([]byte, ClockSize)
	binary.LittleEndian.PutUint64(b[0:8], c.Slot)
	binary.LittleEndian.PutUint64(b[8:16], uint64(c.EpochStartTimestamp))
	binary.LittleEndian.PutUint64(b[16:24], c.Epoch)
	binary.LittleEndian.PutUint64(b[24:32], c.LeaderScheduleEpoch)
	binary.LittleEndian.PutUint64(b[32:40], uint64(c.UnixTimestamp))
	return b
}

// DecodeClock parses exactly ClockSize bytes.
func DecodeClock(b []byte) (Clock, error) {
	if err := checkSize(b, ClockSize); err != nil {
		return Clock{}, fmt.Errorf("decode clock: %w", err)
	}
	return Clock{
		Slot:                binary.LittleEndian.Uint64(b[0:8]),
		EpochStartTimestamp: int64(binary.LittleEndian.Uint64(b[8:16])),
		Epoch:               binary.LittleEndian.Uint64(b[16:24]),
		LeaderScheduleEpoch: binary.LittleEndian.Uint64(b[24:32]),
		UnixTimestamp:       int64(binary.LittleEndian.Uint64(b[32:40])),
	}, nil
}

// EncodeTimestamp returns the 8-byte wire form of v.
func EncodeTimestamp(v uint64) []byte {
	b := make([]byte, TimestampSize)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// DecodeTimestamp parses exactly TimestampSize bytes.
func DecodeTimestamp(b []byte) (uint64, error) {
	if err := checkSize(b, TimestampSize); err != nil {
		return 0, fmt.Errorf("decode timestamp: %w", err)
	}
	return binary.LittleEndian.Uint64(b), nil
}

func checkSize(b []byte, want int) error {
	switch {
	case len(b) < want:
		return fmt.Errorf("%w: got %d bytes, need %d", ErrShortBuffer, len(b), want)
	case len(b) > want:
		return fmt.Errorf("%w: got %d bytes, need %d", ErrTrailingBytes, len(b), want)
	}
	return nil
}
