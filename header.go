package osmpbf

import (
	"strconv"
	"time"

	"github.com/osmpbfio/pbfwriter/internal/wire"
)

// Bounds is one bounding box in degrees, matching the precision a
// caller's input source reports its boxes in.
type Bounds struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// joinedBounds computes the smallest Bounds enclosing all of boxes.
// An empty input yields the zero Bounds and ok=false, matching the
// original's "no bbox" case (HeaderBBox is then omitted entirely).
func joinedBounds(boxes []Bounds) (Bounds, bool) {
	if len(boxes) == 0 {
		return Bounds{}, false
	}
	joined := boxes[0]
	for _, b := range boxes[1:] {
		if b.MinLon < joined.MinLon {
			joined.MinLon = b.MinLon
		}
		if b.MinLat < joined.MinLat {
			joined.MinLat = b.MinLat
		}
		if b.MaxLon > joined.MaxLon {
			joined.MaxLon = b.MaxLon
		}
		if b.MaxLat > joined.MaxLat {
			joined.MaxLat = b.MaxLat
		}
	}
	return joined, true
}

// Header carries the input-side metadata the writer folds into the
// HeaderBlock: bounding boxes, the multiple-object-versions signal
// that drives both HistoricalInformation and the visible flag, and
// the osmium "File" string fields the original reads with get().
type Header struct {
	Boxes                      []Bounds
	HasMultipleObjectVersions  bool
	Sorting                    string // read verbatim; "Type_then_ID" enables the optional feature
	Generator                  string
	OsmosisReplicationTimestamp string // ISO-8601; empty means omit
	OsmosisReplicationSequence  string // integer; empty means omit
	OsmosisReplicationBaseURL   string
}

// buildHeaderBlock serializes a HeaderBlock message for h under cfg.
// required_features always includes OsmSchema-V0.6 and, iff
// cfg.DenseNodes, DenseNodes; HistoricalInformation is required iff
// h.HasMultipleObjectVersions. LocationsOnWays and Sort.Type_then_ID
// are optional features, never required, matching the original's
// field choice.
func buildHeaderBlock(h Header, cfg Config) ([]byte, error) {
	enc := wire.NewEncoder()

	if bbox, ok := joinedBounds(h.Boxes); ok {
		bb := wire.NewEncoder()
		bb.Sint64(fieldHeaderBBoxLeft, headerBBoxScale(bbox.MinLon))
		bb.Sint64(fieldHeaderBBoxRight, headerBBoxScale(bbox.MaxLon))
		bb.Sint64(fieldHeaderBBoxTop, headerBBoxScale(bbox.MaxLat))
		bb.Sint64(fieldHeaderBBoxBottom, headerBBoxScale(bbox.MinLat))
		enc.Message(fieldHeaderBlockBBox, bb.Bytes())
	}

	enc.String(fieldHeaderBlockRequiredFeatures, requiredFeatureOsmSchema)
	if cfg.DenseNodes {
		enc.String(fieldHeaderBlockRequiredFeatures, requiredFeatureDenseNodes)
	}
	if h.HasMultipleObjectVersions {
		enc.String(fieldHeaderBlockRequiredFeatures, requiredFeatureHistoricalInformation)
	}

	if cfg.LocationsOnWays {
		enc.String(fieldHeaderBlockOptionalFeatures, optionalFeatureLocationsOnWays)
	}
	if h.Sorting == "Type_then_ID" {
		enc.String(fieldHeaderBlockOptionalFeatures, optionalFeatureSortTypeThenID)
	}

	enc.String(fieldHeaderBlockWritingProgram, h.Generator)

	if h.OsmosisReplicationTimestamp != "" {
		ts, err := time.Parse(time.RFC3339, h.OsmosisReplicationTimestamp)
		if err != nil {
			return nil, &InvalidOptionError{Name: "osmosis_replication_timestamp", Reason: "not ISO-8601: " + err.Error()}
		}
		// Deliberately truncated through uint32 seconds-since-epoch
		// before widening back to int64: readers that treat the wire
		// field as signed will wrap in 2038, matching the source this
		// writer is bit-compatible with.
		truncated := uint32(ts.Unix())
		enc.Int64(fieldHeaderBlockOsmosisTimestamp, int64(truncated))
	}
	if h.OsmosisReplicationSequence != "" {
		seq, err := strconv.ParseInt(h.OsmosisReplicationSequence, 10, 64)
		if err != nil {
			return nil, &InvalidOptionError{Name: "osmosis_replication_sequence_number", Reason: "not an integer: " + err.Error()}
		}
		enc.Int64(fieldHeaderBlockOsmosisSeqNumber, seq)
	}
	if h.OsmosisReplicationBaseURL != "" {
		enc.String(fieldHeaderBlockOsmosisBaseURL, h.OsmosisReplicationBaseURL)
	}

	return enc.Bytes(), nil
}
