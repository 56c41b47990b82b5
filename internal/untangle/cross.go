package untangle

import "math/bits"

/*
sides reports on which side of the line through a1-a2 the points b1 and
b2 lie. Each result is the dot product of (b - a1) with a vector
perpendicular to (a2 - a1); only its sign is meaningful. Differences are
taken over the product of the two denominators involved, which scales
each vector by a positive factor and so leaves the signs intact.
*/
func sides(a1, a2, b1, b2 Point) (d1, d2 int64) {
	b1x := b1.X*a1.D - a1.X*b1.D
	b1y := b1.Y*a1.D - a1.Y*b1.D
	b2x := b2.X*a1.D - a1.X*b2.D
	b2y := b2.Y*a1.D - a1.Y*b2.D
	px := a1.Y*a2.D - a2.Y*a1.D
	py := a2.X*a1.D - a1.X*a2.D
	return b1x*px + b1y*py, b2x*px + b2y*py
}

func sameSide(d1, d2 int64) bool {
	return (d1 > 0 && d2 > 0) || (d1 < 0 && d2 < 0)
}

/*
overlap decides whether b1-b2, already known to be collinear with a1-a2,
shares at least one point with it. Both b points are projected onto the
direction of a2-a1; the segments are apart only if both projections fall
strictly before a1 or strictly beyond a2.

A projection d carries the factor a1.D²·b.D·a2.D and the squared length
d3 carries a1.D²·a2.D², so b lies beyond a2 when d·a2.D > d3·b.D.
*/
func overlap(a1, a2, b1, b2 Point) bool {
	b1x := b1.X*a1.D - a1.X*b1.D
	b1y := b1.Y*a1.D - a1.Y*b1.D
	b2x := b2.X*a1.D - a1.X*b2.D
	b2y := b2.Y*a1.D - a1.Y*b2.D
	px := a2.X*a1.D - a1.X*a2.D
	py := a2.Y*a1.D - a1.Y*a2.D

	d1 := b1x*px + b1y*py
	d2 := b2x*px + b2y*py
	if d1 < 0 && d2 < 0 {
		return false
	}
	d3 := px*px + py*py
	return !(beyond(d1, a2.D, d3, b1.D) && beyond(d2, a2.D, d3, b2.D))
}

// beyond reports whether d*num > ref*den. ref, num and den must be
// non-negative; the products are formed in 128 bits.
func beyond(d, num, ref, den int64) bool {
	if d <= 0 {
		return false
	}
	hi1, lo1 := bits.Mul64(uint64(d), uint64(num))
	hi2, lo2 := bits.Mul64(uint64(ref), uint64(den))
	return hi1 > hi2 || (hi1 == hi2 && lo1 > lo2)
}

/*
Cross determines whether the segments a1-a2 and b1-b2 intersect. Touching
counts: an endpoint lying on the other segment is an intersection, and so
is any overlap of collinear segments. A zero-length segment is a point and
intersects whatever passes through it.

All arithmetic is on integers. Inputs must satisfy [Point.Valid].
*/
func Cross(a1, a2, b1, b2 Point) bool {
	if a1.Equal(a2) {
		if b1.Equal(b2) {
			return a1.Equal(b1)
		}
		// only the non-degenerate side gives a meaningful line
		return Cross(b1, b2, a1, a2)
	}

	d1, d2 := sides(a1, a2, b1, b2)
	if sameSide(d1, d2) {
		return false
	}
	if d1 == 0 && d2 == 0 && !overlap(a1, a2, b1, b2) {
		return false
	}

	d1, d2 = sides(b1, b2, a1, a2)
	return !sameSide(d1, d2)
}

// OnSegment reports whether p lies on the closed segment a-b.
func OnSegment(p, a, b Point) bool {
	return Cross(a, b, p, p)
}
