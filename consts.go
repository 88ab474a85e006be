package osmpbf

import "math"

// Field numbers for the OSMPBF wire messages (fileformat.proto and
// osmformat.proto). These are the stable, public OSM PBF schema field
// assignments; kept together here because internal/wire has no notion
// of a schema and every message builder in this package needs them.
const (
	fieldBlobRaw      = 1
	fieldBlobRawSize  = 2
	fieldBlobZlibData = 3
	fieldBlobLz4Data  = 6

	fieldBlobHeaderType      = 1
	fieldBlobHeaderIndexdata = 2
	fieldBlobHeaderDatasize  = 3

	fieldHeaderBlockBBox             = 1
	fieldHeaderBlockRequiredFeatures = 4
	fieldHeaderBlockOptionalFeatures = 5
	fieldHeaderBlockWritingProgram   = 16
	fieldHeaderBlockOsmosisTimestamp = 32
	fieldHeaderBlockOsmosisSeqNumber = 33
	fieldHeaderBlockOsmosisBaseURL   = 34

	fieldHeaderBBoxLeft   = 1
	fieldHeaderBBoxRight  = 2
	fieldHeaderBBoxTop    = 3
	fieldHeaderBBoxBottom = 4

	fieldPrimitiveBlockStringTable    = 1
	fieldPrimitiveBlockPrimitiveGroup = 2

	fieldPrimitiveGroupNodes      = 1
	fieldPrimitiveGroupDenseNodes = 2
	fieldPrimitiveGroupWays       = 3
	fieldPrimitiveGroupRelations  = 4

	fieldStringTableS = 1

	fieldInfoVersion   = 1
	fieldInfoTimestamp = 2
	fieldInfoChangeset = 3
	fieldInfoUID       = 4
	fieldInfoUserSid   = 5
	fieldInfoVisible   = 6

	fieldDenseInfoVersion   = 1
	fieldDenseInfoTimestamp = 2
	fieldDenseInfoChangeset = 3
	fieldDenseInfoUID       = 4
	fieldDenseInfoUserSid   = 5
	fieldDenseInfoVisible   = 6

	fieldDenseNodesID        = 1
	fieldDenseNodesDenseInfo = 5
	fieldDenseNodesLat       = 8
	fieldDenseNodesLon       = 9
	fieldDenseNodesKeysVals  = 10

	fieldNodeID   = 1
	fieldNodeKeys = 2
	fieldNodeVals = 3
	fieldNodeInfo = 4
	fieldNodeLat  = 8
	fieldNodeLon  = 9

	fieldWayID   = 1
	fieldWayKeys = 2
	fieldWayVals = 3
	fieldWayInfo = 4
	fieldWayRefs = 8
	fieldWayLat  = 9
	fieldWayLon  = 10

	fieldRelationID       = 1
	fieldRelationKeys     = 2
	fieldRelationVals     = 3
	fieldRelationInfo     = 4
	fieldRelationRolesSid = 8
	fieldRelationMemids   = 9
	fieldRelationTypes    = 10
)

// Relation.MemberType enum values.
const (
	memberTypeNode     int32 = 0
	memberTypeWay      int32 = 1
	memberTypeRelation int32 = 2
)

// Size and count limits from the on-wire contract.
const (
	maxEntitiesPerBlock     = 8000
	maxUncompressedBlobSize = 16 * 1024 * 1024
	maxUsedBlobSizeFraction = 0.95
	coordinateGranularity   = 100
)

var maxUsedBlobSize = int(math.Floor(float64(maxUncompressedBlobSize) * maxUsedBlobSizeFraction))

// Blob type names carried in BlobHeader.type.
const (
	blobTypeHeader = "OSMHeader"
	blobTypeData   = "OSMData"
)

const requiredFeatureOsmSchema = "OsmSchema-V0.6"
const requiredFeatureDenseNodes = "DenseNodes"
const requiredFeatureHistoricalInformation = "HistoricalInformation"
const optionalFeatureLocationsOnWays = "LocationsOnWays"
const optionalFeatureSortTypeThenID = "Sort.Type_then_ID"
