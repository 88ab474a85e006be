package osmpbf

import "github.com/osmpbfio/pbfwriter/internal/wire"

// stringTable interns byte strings for one primitive block. Index 0
// is reserved for the empty string and is inserted eagerly by
// newStringTable / reset, resolving the empty-string convention by
// pre-insertion rather than synthesizing it at serialization time.
type stringTable struct {
	entries []string
	index   map[string]uint32
}

func newStringTable() *stringTable {
	st := &stringTable{index: make(map[string]uint32)}
	st.reset()
	return st
}

// reset clears the table back to just the index-0 empty string,
// matching a fresh block's string table.
func (st *stringTable) reset() {
	st.entries = st.entries[:0]
	for k := range st.index {
		delete(st.index, k)
	}
	st.add("")
}

// add returns the existing index for s, or interns it and returns the
// newly assigned index. Total: every call returns a valid index.
func (st *stringTable) add(s string) uint32 {
	if idx, ok := st.index[s]; ok {
		return idx
	}
	idx := uint32(len(st.entries))
	st.entries = append(st.entries, s)
	st.index[s] = idx
	return idx
}

// size reports the serialized byte size of the table: the sum of
// each entry's length-delimited field, used by primitiveBlock.size()
// to include the string table in the block-fullness estimate.
func (st *stringTable) size() int {
	total := 0
	for _, e := range st.entries {
		total += 1 + varintLen(uint64(len(e))) + len(e)
	}
	return total
}

func varintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}

// write serializes the table as a StringTable message's repeated
// s field, one entry per index in insertion order.
func (st *stringTable) write(enc *wire.Encoder) {
	for _, e := range st.entries {
		enc.String(fieldStringTableS, e)
	}
}
