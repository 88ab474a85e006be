package osmpbf

import "github.com/osmpbfio/pbfwriter/internal/wire"

// groupType identifies which kind of entity a primitiveBlock is
// currently accumulating. A block carries exactly one kind at a time;
// switching kinds always flushes the previous block.
type groupType int

const (
	groupUnknown groupType = iota
	groupDenseNodes
	groupNodes
	groupWays
	groupRelations
)

// primitiveBlock accumulates entities of one group type into a single
// PrimitiveGroup, owns the per-block string table, and tracks
// fullness against the count and size limits. It is owned exclusively
// by the producer; a finalized block's payload is handed off by value
// to a worker task, never shared.
type primitiveBlock struct {
	kind   groupType
	buf    []byte // serialized PrimitiveGroup payload for non-dense kinds
	st     *stringTable
	dense  *denseNodesPacker
	count  int

	metadata    MetadataMask
	visibleFlag bool
}

func newPrimitiveBlock(metadata MetadataMask, visibleFlag bool) *primitiveBlock {
	b := &primitiveBlock{
		st:          newStringTable(),
		metadata:    metadata,
		visibleFlag: visibleFlag,
	}
	return b
}

// canAdd reports whether an entity of the given kind can be appended
// without first flushing: the kind must match the current kind (or
// the block must still be unknown), the count must be under the
// per-block entity cap, and the estimated size must be under the
// 95%-of-16MiB threshold.
func (b *primitiveBlock) canAdd(kind groupType) bool {
	if b.kind != groupUnknown && b.kind != kind {
		return false
	}
	if b.count >= maxEntitiesPerBlock {
		return false
	}
	if b.size() >= maxUsedBlobSize {
		return false
	}
	return true
}

// size estimates the serialized byte size of the block so far: the
// group buffer, the string table (by byte length of its entries, not
// a count), and the dense-nodes packer's own lower-bound estimate.
func (b *primitiveBlock) size() int {
	total := len(b.buf) + b.st.size()
	if b.dense != nil {
		total += b.dense.size()
	}
	return total
}

// reset clears the block and sets its new group kind, discarding the
// string table, dense-nodes packer, and buffer. Delta encoders living
// inside the dense-nodes packer are discarded along with it, so a
// fresh block always starts every column's delta state at zero.
func (b *primitiveBlock) reset(kind groupType) {
	b.kind = kind
	b.buf = b.buf[:0]
	b.st.reset()
	b.dense = nil
	b.count = 0
}

// storeInStringTable interns s and returns its index as a signed
// value, for wire fields declared sint32/int32 (e.g. Relation.roles_sid).
func (b *primitiveBlock) storeInStringTable(s string) int32 {
	return int32(b.st.add(s))
}

// storeInStringTableUnsigned interns s and returns its index as an
// unsigned value, for wire fields declared uint32 (e.g. Node.keys,
// Node.vals). The index is the same value as storeInStringTable for
// the same string; only the wire representation differs at the call
// site.
func (b *primitiveBlock) storeInStringTableUnsigned(s string) uint32 {
	return b.st.add(s)
}

// group returns a fresh message builder for one non-dense entity and
// increments the block's entity count. The caller is responsible for
// appending the built message's bytes into the block via addGroupMessage.
func (b *primitiveBlock) group() *wire.Encoder {
	b.count++
	return wire.NewEncoder()
}

// addGroupMessage appends one already-built entity message (Node,
// Way, or Relation) into the block's PrimitiveGroup buffer under the
// given field number.
func (b *primitiveBlock) addGroupMessage(field int, msg []byte) {
	tmp := wire.NewEncoder()
	tmp.Message(field, msg)
	b.buf = append(b.buf, tmp.Bytes()...)
}

// addDenseNode creates the dense-nodes packer on first use, forwards
// n to it, and increments the block's entity count.
func (b *primitiveBlock) addDenseNode(n denseNode) {
	if b.dense == nil {
		b.dense = newDenseNodesPacker(b.metadata, b.visibleFlag)
	}
	b.dense.addNode(n)
	b.count++
}

// groupData finalizes the block's PrimitiveGroup payload: for the
// dense-nodes kind it serializes the packer as the group's DenseNodes
// field into a fresh buffer and returns that (the group buffer is left
// untouched); for every other kind the group buffer is already
// complete and is returned as is.
func (b *primitiveBlock) groupData() []byte {
	if b.kind == groupDenseNodes && b.dense != nil {
		enc := wire.NewEncoder()
		b.dense.write(enc, fieldPrimitiveGroupDenseNodes)
		return enc.Bytes()
	}
	return b.buf
}

// empty reports whether the block has accumulated no entities, used
// by storePrimitiveBlock to skip emitting an empty flush.
func (b *primitiveBlock) empty() bool {
	return b.count == 0
}

// writeStringTable serializes the block's string table into enc as a
// StringTable sub-message under the given field number.
func (b *primitiveBlock) writeStringTable(enc *wire.Encoder, field int) {
	st := wire.NewEncoder()
	b.st.write(st)
	enc.Message(field, st.Bytes())
}

func fieldForGroupType(kind groupType) int {
	switch kind {
	case groupNodes:
		return fieldPrimitiveGroupNodes
	case groupWays:
		return fieldPrimitiveGroupWays
	case groupRelations:
		return fieldPrimitiveGroupRelations
	default:
		return fieldPrimitiveGroupDenseNodes
	}
}
