package osmpbf

import "math"

// lonlatToInt converts a coordinate in degrees to the writer's wire
// units: round(x * 1e9 / granularity), where 1e9 converts degrees to
// nanodegrees and granularity is fixed at 100, i.e. round(x * 1e7) in
// 100-nanodegree ticks. This writer never emits a per-block
// granularity override, so this constant must stay in sync with
// coordinateGranularity.
func lonlatToInt(x float64) int64 {
	return int64(math.Round(x * 1e9 / float64(coordinateGranularity)))
}

// headerBBoxScale converts a HeaderBBox coordinate in degrees to the
// wire units that field uses: round(x * 1e7). Unlike lonlatToInt, the
// bounding box is never subject to the per-block granularity divisor
// — it is written once per file, outside any PrimitiveBlock.
func headerBBoxScale(x float64) int64 {
	return int64(math.Round(x * 1e7))
}
