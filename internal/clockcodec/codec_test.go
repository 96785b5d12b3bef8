package clockcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_EncodeLayout(t *testing.T) {
	c := Clock{
		Slot:                1,
		EpochStartTimestamp: -2,
		Epoch:               3,
		LeaderScheduleEpoch: 4,
		UnixTimestamp:       5,
	}
	b := c.Encode()
	require.Len(t, b, ClockSize)

	assert.Equal(t, byte(1), b[0])
	assert.Equal(t, []byte{0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, b[8:16])
	assert.Equal(t, byte(3), b[16])
	assert.Equal(t, byte(4), b[24])
	assert.Equal(t, byte(5), b[32])

	decoded, err := DecodeClock(b)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
}

func TestDecodeClock_RejectsTrailingBytes(t *testing.T) {
	b := append(Clock{Slot: 9}.Encode(), 0)
	_, err := DecodeClock(b)
	assert.ErrorIs(t, err, ErrTrailingBytes)
}

func TestDecodeClock_RejectsShortBuffer(t *testing.T) {
	_, err := DecodeClock(make([]byte, ClockSize-1))
	assert.ErrorIs(t, err, ErrShortBuffer)

	_, err = DecodeClock(nil)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestTimestamp_LittleEndian(t *testing.T) {
	assert.Equal(t, []byte{100, 0, 0, 0, 0, 0, 0, 0}, EncodeTimestamp(100))

	v, err := DecodeTimestamp(EncodeTimestamp(28234982))
	require.NoError(t, err)
	assert.Equal(t, uint64(28234982), v)
}

func TestDecodeTimestamp_WrongLength(t *testing.T) {
	_, err := DecodeTimestamp([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrShortBuffer)

	_, err = DecodeTimestamp(make([]byte, 9))
	assert.ErrorIs(t, err, ErrTrailingBytes)
}
