package osmpbf

// deltaEncoder emits successive differences of a monotone or
// near-monotone sequence: update(v) returns v - last and sets
// last = v. The zero value starts from last = 0, so the first update
// yields the value itself. One instance belongs to exactly one
// logically independent column (ids, timestamps, lat, lon, ...) and
// is never shared across columns or reused across a block boundary;
// a fresh block gets a fresh encoder.
type deltaEncoder[T int32 | int64] struct {
	last T
}

// update returns the delta between v and the previously seen value,
// then advances the encoder's state to v.
func (d *deltaEncoder[T]) update(v T) T {
	delta := v - d.last
	d.last = v
	return delta
}
