package osmpbf

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/paulmach/osm"

	"github.com/osmpbfio/pbfwriter/internal/pipeline"
	"github.com/osmpbfio/pbfwriter/internal/wire"
)

const (
	defaultMaxConcurrency = 4
	defaultQueueDepth     = 16
)

// Encoder is the writer front-end: it consumes entity callbacks,
// decides block boundaries, and submits each finished block to a
// worker pool whose results are written out, in submission order, by
// the pool's internal drain goroutine. The Encoder itself is driven
// by a single producer goroutine; concurrency lives entirely inside
// the pool.
type Encoder struct {
	cfg    Config
	header Header
	w      io.Writer

	pool *pipeline.Pool
	ctx  context.Context

	block  *primitiveBlock
	closed bool

	writeMu sync.Mutex // serializes the drain goroutine's writes to w
}

// NewEncoder builds an Encoder writing framed blobs to w. header
// supplies the bounding boxes and File-style fields folded into the
// HeaderBlock; opts configures the block/compression behavior.
func NewEncoder(w io.Writer, header Header, opts ...Option) (*Encoder, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	e := &Encoder{
		cfg:    *cfg,
		header: header,
		w:      w,
	}
	e.block = newPrimitiveBlock(cfg.Metadata, e.visibleFlag())
	return e, nil
}

func (e *Encoder) visibleFlag() bool {
	if e.cfg.VisibleFlag != nil {
		return *e.cfg.VisibleFlag
	}
	return e.header.HasMultipleObjectVersions
}

func (e *Encoder) log(format string, v ...interface{}) {
	if e.cfg.Logger != nil {
		e.cfg.Logger.Printf(format, v...)
	}
}

// Start writes the OSMHeader frame and prepares the Encoder to accept
// entities. It must be called exactly once, before any WriteNode /
// WriteWay / WriteRelation / WriteObject call.
func (e *Encoder) Start(ctx context.Context) error {
	e.ctx = ctx
	e.pool = pipeline.New(defaultMaxConcurrency, defaultQueueDepth, e.writeOut)

	payload, err := buildHeaderBlock(e.header, e.cfg)
	if err != nil {
		return err
	}
	e.log("osmpbf: writing header block (writingprogram=%q)", e.header.Generator)
	return e.submit(payload, blobTypeHeader)
}

func (e *Encoder) writeOut(b []byte) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	_, err := e.w.Write(b)
	return err
}

func (e *Encoder) submit(payload []byte, blobType string) error {
	task := blobTask{
		payload:     payload,
		blobType:    blobType,
		compression: e.cfg.Compression,
		level:       e.cfg.effectiveLevel(),
	}
	return e.pool.Submit(e.ctx, func() ([]byte, error) { return task.run() })
}

// switchPrimitiveBlockType flushes and resets the current block if it
// cannot accept another entity of kind, then returns. After this
// call, e.block.canAdd(kind) is guaranteed true.
func (e *Encoder) switchPrimitiveBlockType(kind groupType) error {
	if !e.block.canAdd(kind) {
		if err := e.storePrimitiveBlock(); err != nil {
			return err
		}
		e.block.reset(kind)
	} else if e.block.kind == groupUnknown {
		e.block.reset(kind)
	}
	return nil
}

// storePrimitiveBlock finalizes the current block, if non-empty, into
// a PrimitiveBlock payload and submits it to the pool. It does not
// wait for serialization or compression to finish.
func (e *Encoder) storePrimitiveBlock() error {
	if e.block.empty() {
		return nil
	}

	enc := wire.NewEncoder()
	e.block.writeStringTable(enc, fieldPrimitiveBlockStringTable)
	enc.Message(fieldPrimitiveBlockPrimitiveGroup, e.block.groupData())

	e.log("osmpbf: flushing block (%d entities, %d bytes)", e.block.count, enc.Len())
	return e.submit(enc.Bytes(), blobTypeData)
}

// WriteNode encodes one node, choosing the DenseNodes path when
// configured, otherwise a standalone Node submessage.
func (e *Encoder) WriteNode(n *osm.Node) error {
	if e.closed {
		return ErrClosed
	}
	kind := groupNodes
	if e.cfg.DenseNodes {
		kind = groupDenseNodes
	}
	if err := e.switchPrimitiveBlockType(kind); err != nil {
		return err
	}

	if e.cfg.DenseNodes {
		dn, err := e.buildDenseNode(n)
		if err != nil {
			return err
		}
		e.block.addDenseNode(dn)
		return nil
	}

	enc := e.block.group()
	enc.Sint64(fieldNodeID, int64(n.ID))
	if err := e.addMeta(enc, nodeMeta(n)); err != nil {
		return err
	}
	enc.Sint64(fieldNodeLat, lonlatToInt(n.Lat))
	enc.Sint64(fieldNodeLon, lonlatToInt(n.Lon))
	e.block.addGroupMessage(fieldForGroupType(groupNodes), enc.Bytes())
	return nil
}

func (e *Encoder) buildDenseNode(n *osm.Node) (denseNode, error) {
	dn := denseNode{
		id:  int64(n.ID),
		lat: lonlatToInt(n.Lat),
		lon: lonlatToInt(n.Lon),
	}
	if e.cfg.Metadata.Version {
		v, err := toInt32("version", int64(n.Version))
		if err != nil {
			return denseNode{}, err
		}
		dn.version = v
	}
	dn.timestamp = truncatedUnixSeconds(n.Timestamp)
	dn.changeset = int64(n.ChangesetID)
	if e.cfg.Metadata.UID {
		uid, err := toInt32("uid", int64(n.UserID))
		if err != nil {
			return denseNode{}, err
		}
		dn.uid = uid
	}
	if e.cfg.Metadata.User {
		dn.userSid = e.block.storeInStringTableUnsigned(n.User)
	}
	dn.visible = n.Visible

	for _, t := range n.Tags {
		dn.keysVals = append(dn.keysVals,
			int32(e.block.storeInStringTableUnsigned(t.Key)),
			int32(e.block.storeInStringTableUnsigned(t.Value)),
		)
	}
	return dn, nil
}

// WriteWay encodes one way: its id, metadata, a packed delta-encoded
// refs column, and, iff LocationsOnWays is configured, packed
// delta-encoded per-ref lon/lat columns. A way with no nodes still
// emits the (empty) packed refs field.
func (e *Encoder) WriteWay(w *osm.Way) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.switchPrimitiveBlockType(groupWays); err != nil {
		return err
	}

	enc := e.block.group()
	enc.Int64(fieldWayID, int64(w.ID))
	if err := e.addMeta(enc, wayMeta(w)); err != nil {
		return err
	}

	var refDelta deltaEncoder[int64]
	refs := make([]int64, len(w.Nodes))
	for i, wn := range w.Nodes {
		refs[i] = refDelta.update(int64(wn.ID))
	}
	enc.PackedSint64(fieldWayRefs, refs)

	if e.cfg.LocationsOnWays {
		var lonDelta, latDelta deltaEncoder[int64]
		lons := make([]int64, len(w.Nodes))
		lats := make([]int64, len(w.Nodes))
		for i, wn := range w.Nodes {
			lons[i] = lonDelta.update(lonlatToInt(wn.Lon))
			lats[i] = latDelta.update(lonlatToInt(wn.Lat))
		}
		enc.PackedSint64(fieldWayLon, lons)
		enc.PackedSint64(fieldWayLat, lats)
	}

	e.block.addGroupMessage(fieldForGroupType(groupWays), enc.Bytes())
	return nil
}

// WriteRelation encodes one relation: its id, metadata, a packed
// roles_sid column (role strings interned), a packed delta-encoded
// memids column, and a packed types column.
func (e *Encoder) WriteRelation(r *osm.Relation) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.switchPrimitiveBlockType(groupRelations); err != nil {
		return err
	}

	enc := e.block.group()
	enc.Int64(fieldRelationID, int64(r.ID))
	if err := e.addMeta(enc, relationMeta(r)); err != nil {
		return err
	}

	roles := make([]int32, len(r.Members))
	var memidDelta deltaEncoder[int64]
	memids := make([]int64, len(r.Members))
	types := make([]int32, len(r.Members))
	for i, m := range r.Members {
		roles[i] = e.block.storeInStringTable(m.Role)
		memids[i] = memidDelta.update(m.Ref)
		idx, err := memberTypeIndex(m.Type)
		if err != nil {
			return err
		}
		types[i] = idx
	}
	enc.PackedInt32(fieldRelationRolesSid, roles)
	enc.PackedSint64(fieldRelationMemids, memids)
	enc.PackedInt32(fieldRelationTypes, types)

	e.block.addGroupMessage(fieldForGroupType(groupRelations), enc.Bytes())
	return nil
}

// WriteObject dispatches to WriteNode, WriteWay, or WriteRelation
// based on o's dynamic type, the tagged-union equivalent of the
// source's visitor double-dispatch.
func (e *Encoder) WriteObject(o osm.Object) error {
	switch v := o.(type) {
	case *osm.Node:
		return e.WriteNode(v)
	case *osm.Way:
		return e.WriteWay(v)
	case *osm.Relation:
		return e.WriteRelation(v)
	default:
		return fmt.Errorf("osmpbf: unsupported object type %T", o)
	}
}

// entityMeta collects the fields addMeta needs, independent of which
// concrete osm type produced them.
type entityMeta struct {
	tags      osm.Tags
	version   int
	timestamp time.Time
	changeset osm.ChangesetID
	uid       osm.UserID
	user      string
	visible   bool
}

func nodeMeta(n *osm.Node) entityMeta {
	return entityMeta{n.Tags, n.Version, n.Timestamp, n.ChangesetID, n.UserID, n.User, n.Visible}
}

func wayMeta(w *osm.Way) entityMeta {
	return entityMeta{w.Tags, w.Version, w.Timestamp, w.ChangesetID, w.UserID, w.User, w.Visible}
}

func relationMeta(r *osm.Relation) entityMeta {
	return entityMeta{r.Tags, r.Version, r.Timestamp, r.ChangesetID, r.UserID, r.User, r.Visible}
}

// addMeta emits the packed keys/vals tag columns (via the unsigned
// string-table accessor, in tag-iteration order) and, iff any
// metadata or the visible flag is configured, an Info submessage with
// the configured columns.
func (e *Encoder) addMeta(enc *wire.Encoder, m entityMeta) error {
	keys := make([]uint32, len(m.tags))
	vals := make([]uint32, len(m.tags))
	for i, t := range m.tags {
		keys[i] = e.block.storeInStringTableUnsigned(t.Key)
		vals[i] = e.block.storeInStringTableUnsigned(t.Value)
	}
	enc.PackedUint32(fieldNodeKeys, keys)
	enc.PackedUint32(fieldNodeVals, vals)

	if !e.cfg.Metadata.any() && !e.visibleFlag() {
		return nil
	}

	info := wire.NewEncoder()
	if e.cfg.Metadata.Version {
		v, err := toInt32("version", int64(m.version))
		if err != nil {
			return err
		}
		info.Int32(fieldInfoVersion, v)
	}
	if e.cfg.Metadata.Timestamp {
		info.Int64(fieldInfoTimestamp, truncatedUnixSeconds(m.timestamp))
	}
	if e.cfg.Metadata.Changeset {
		info.Int64(fieldInfoChangeset, int64(m.changeset))
	}
	if e.cfg.Metadata.UID {
		v, err := toInt32("uid", int64(m.uid))
		if err != nil {
			return err
		}
		info.Int32(fieldInfoUID, v)
	}
	if e.cfg.Metadata.User {
		info.Uint32(fieldInfoUserSid, e.block.storeInStringTableUnsigned(m.user))
	}
	if e.visibleFlag() {
		info.Bool(fieldInfoVisible, m.visible)
	}
	enc.Message(fieldNodeInfo, info.Bytes())
	return nil
}

// Flush finalizes and submits the current block without closing the
// Encoder; callers wanting a file boundary mid-stream can use this.
func (e *Encoder) Flush() error {
	if err := e.storePrimitiveBlock(); err != nil {
		return err
	}
	e.block.reset(groupUnknown)
	return nil
}

// WriteEnd flushes the current block and stops accepting entities.
// It does not wait for outstanding blobs to finish writing; call
// Close for that.
func (e *Encoder) WriteEnd() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.storePrimitiveBlock()
}

// Close calls WriteEnd if not already called, then waits for every
// submitted task to finish and returns the first error encountered
// by any task or by the underlying writer.
func (e *Encoder) Close() error {
	if err := e.WriteEnd(); err != nil {
		return err
	}
	return e.pool.Close()
}

func toInt32(field string, v int64) (int32, error) {
	if v > int64(^uint32(0)>>1) || v < -int64(^uint32(0)>>1)-1 {
		return 0, &EncodingInvariantViolationError{Field: field, Detail: fmt.Sprintf("value %d exceeds int32 range", v)}
	}
	return int32(v), nil
}

// truncatedUnixSeconds deliberately routes the timestamp through a
// uint32 intermediate before widening to int64: readers treating the
// wire field as signed wrap in 2038, matching the system this writer
// is bit-compatible with.
func truncatedUnixSeconds(t time.Time) int64 {
	return int64(uint32(t.Unix()))
}

func memberTypeIndex(t osm.Type) (int32, error) {
	switch t {
	case osm.TypeNode:
		return memberTypeNode, nil
	case osm.TypeWay:
		return memberTypeWay, nil
	case osm.TypeRelation:
		return memberTypeRelation, nil
	default:
		return 0, &EncodingInvariantViolationError{Field: "member.type", Detail: fmt.Sprintf("unknown member type %q", t)}
	}
}
