package osmpbf

import "github.com/osmpbfio/pbfwriter/internal/wire"

// denseNode is the subset of an OSM node's data the packer needs; the
// Encoder front-end translates from github.com/paulmach/osm values
// into this shape before handing it to the packer, keeping the packer
// itself independent of the OSM entity model.
type denseNode struct {
	id        int64
	lat, lon  int64
	version   int32
	timestamp int64 // seconds since epoch, already truncated per the uint32 wraparound rule
	changeset int64
	uid       int32
	userSid   uint32
	visible   bool
	// keysVals holds this node's alternating key/value string-table
	// indices; the packer appends it (and the sentinel) verbatim.
	keysVals []int32
}

// denseNodesPacker accumulates nodes into the parallel delta-encoded
// columns DenseNodes needs. It is created lazily by primitiveBlock on
// the first dense node of a block and discarded on reset.
type denseNodesPacker struct {
	metadata    MetadataMask
	visibleFlag bool

	ids       []int64
	lats      []int64
	lons      []int64
	versions  []int32
	timestamps []int64
	changesets []int64
	uids      []int32
	userSids  []int32
	visibles  []bool
	keysVals  []int32

	idDelta        deltaEncoder[int64]
	latDelta       deltaEncoder[int64]
	lonDelta       deltaEncoder[int64]
	timestampDelta deltaEncoder[int64]
	changesetDelta deltaEncoder[int64]
	uidDelta       deltaEncoder[int32]
	userSidDelta   deltaEncoder[int32]
}

func newDenseNodesPacker(metadata MetadataMask, visibleFlag bool) *denseNodesPacker {
	return &denseNodesPacker{metadata: metadata, visibleFlag: visibleFlag}
}

// addNode pushes one entry onto every active column, per the column
// rules: id/lat/lon are always present; metadata columns are present
// iff requested; visible is present iff the visible flag is active.
// keysVals is always terminated with the 0 sentinel, even for a node
// with no tags.
func (p *denseNodesPacker) addNode(n denseNode) {
	p.ids = append(p.ids, p.idDelta.update(n.id))
	p.lats = append(p.lats, p.latDelta.update(n.lat))
	p.lons = append(p.lons, p.lonDelta.update(n.lon))

	if p.metadata.any() || p.visibleFlag {
		if p.metadata.Version {
			p.versions = append(p.versions, n.version)
		}
		if p.metadata.Timestamp {
			p.timestamps = append(p.timestamps, p.timestampDelta.update(n.timestamp))
		}
		if p.metadata.Changeset {
			p.changesets = append(p.changesets, p.changesetDelta.update(n.changeset))
		}
		if p.metadata.UID {
			p.uids = append(p.uids, p.uidDelta.update(n.uid))
		}
		if p.metadata.User {
			p.userSids = append(p.userSids, p.userSidDelta.update(int32(n.userSid)))
		}
		if p.visibleFlag {
			p.visibles = append(p.visibles, n.visible)
		}
	}

	p.keysVals = append(p.keysVals, n.keysVals...)
	p.keysVals = append(p.keysVals, 0)
}

// count reports how many nodes have been added, i.e. len(ids).
func (p *denseNodesPacker) count() int {
	return len(p.ids)
}

// size is a conservative lower bound on the serialized size, used by
// primitiveBlock's fullness check: ids_count * 3 columns (id, lat,
// lon) * 8 bytes each, ignoring metadata and keys_vals, matching the
// original's dense-nodes size estimate.
func (p *denseNodesPacker) size() int {
	return p.count() * 3 * 8
}

func (p *denseNodesPacker) hasDenseInfo() bool {
	return p.metadata.any() || p.visibleFlag
}

// write serializes the accumulated columns as a DenseNodes message
// and appends it to enc under the given field number.
func (p *denseNodesPacker) write(enc *wire.Encoder, field int) {
	dn := wire.NewEncoder()
	dn.PackedSint64(fieldDenseNodesID, p.ids)

	if p.hasDenseInfo() {
		info := wire.NewEncoder()
		if p.metadata.Version {
			info.PackedInt32(fieldDenseInfoVersion, p.versions)
		}
		if p.metadata.Timestamp {
			info.PackedSint64(fieldDenseInfoTimestamp, p.timestamps)
		}
		if p.metadata.Changeset {
			info.PackedSint64(fieldDenseInfoChangeset, p.changesets)
		}
		if p.metadata.UID {
			info.PackedSint32(fieldDenseInfoUID, p.uids)
		}
		if p.metadata.User {
			info.PackedSint32(fieldDenseInfoUserSid, p.userSids)
		}
		if p.visibleFlag {
			info.PackedBool(fieldDenseInfoVisible, p.visibles)
		}
		dn.Message(fieldDenseNodesDenseInfo, info.Bytes())
	}

	dn.PackedSint64(fieldDenseNodesLat, p.lats)
	dn.PackedSint64(fieldDenseNodesLon, p.lons)
	dn.PackedInt32(fieldDenseNodesKeysVals, p.keysVals)

	enc.Message(field, dn.Bytes())
}
