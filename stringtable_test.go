package osmpbf

import (
	"testing"

	"github.com/osmpbfio/pbfwriter/internal/wire"
	"github.com/osmpbfio/pbfwriter/internal/wiretest"
	"github.com/stretchr/testify/require"
)

func TestStringTableIndexZeroIsEmptyString(t *testing.T) {
	st := newStringTable()
	require.Equal(t, uint32(0), st.add(""))
}

func TestStringTableAssignsStableIndices(t *testing.T) {
	st := newStringTable()
	a := st.add("amenity")
	b := st.add("parking")
	a2 := st.add("amenity")

	require.Equal(t, a, a2, "repeated insertion of the same string returns the same index")
	require.NotEqual(t, a, b)
	require.Equal(t, uint32(1), a, "first non-empty insertion takes index 1 after the reserved empty string")
}

func TestStringTableResetClearsEntriesButKeepsIndexZero(t *testing.T) {
	st := newStringTable()
	st.add("highway")
	st.reset()

	require.Equal(t, uint32(0), st.add(""))
	require.Equal(t, 1, len(st.entries))
}

func TestStringTableSerializesInInsertionOrder(t *testing.T) {
	st := newStringTable()
	st.add("b")
	st.add("a")

	enc := wire.NewEncoder()
	st.write(enc)

	fields, err := wiretest.ParseMessage(enc.Bytes())
	require.NoError(t, err)
	require.Len(t, fields, 3)
	require.Equal(t, "", string(fields[0].Bytes))
	require.Equal(t, "b", string(fields[1].Bytes))
	require.Equal(t, "a", string(fields[2].Bytes))
}
