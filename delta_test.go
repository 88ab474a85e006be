package osmpbf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeltaEncoderFirstValueIsAbsolute(t *testing.T) {
	var d deltaEncoder[int64]
	require.EqualValues(t, 5, d.update(5))
}

func TestDeltaEncoderEmitsDifferences(t *testing.T) {
	var d deltaEncoder[int64]
	in := []int64{10, 12, 10, 100, 99}
	want := []int64{10, 2, -2, 90, -1}

	for i, v := range in {
		require.Equal(t, want[i], d.update(v))
	}
}

func TestDeltaEncoderRoundTrip(t *testing.T) {
	var d deltaEncoder[int64]
	in := []int64{1000, 1005, 1003, 2000}

	var deltas []int64
	for _, v := range in {
		deltas = append(deltas, d.update(v))
	}

	var sum int64
	got := make([]int64, len(deltas))
	for i, delta := range deltas {
		sum += delta
		got[i] = sum
	}
	require.Equal(t, in, got)
}

func TestDeltaEncoderInt32(t *testing.T) {
	var d deltaEncoder[int32]
	require.EqualValues(t, 3, d.update(3))
	require.EqualValues(t, 4, d.update(7))
}
