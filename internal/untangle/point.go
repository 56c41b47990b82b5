// source: https://git.tartarus.org/simon/puzzles.git/untangle.c

package untangle

import "fmt"

// MaxCoord bounds the magnitude of every coordinate and denominator the
// engine accepts. With all inputs inside it, every product formed by
// [Cross] stays well inside int64.
const MaxCoord = 1<<14 - 1

/*
Point is a position with rational coordinates X/D, Y/D sharing one
positive denominator.
*/
type Point struct {
	X, Y, D int64
}

// Pt is shorthand for an integer point.
func Pt(x, y int64) Point {
	return Point{X: x, Y: y, D: 1}
}

func (p Point) Valid() bool {
	return p.D > 0 && p.D <= MaxCoord &&
		-MaxCoord <= p.X && p.X <= MaxCoord &&
		-MaxCoord <= p.Y && p.Y <= MaxCoord
}

// Equal compares the rational values, so 1/2 equals 2/4.
func (p Point) Equal(q Point) bool {
	return p.X*q.D == q.X*p.D && p.Y*q.D == q.Y*p.D
}

// Float returns an approximation for drawing. It is never used to decide
// crossings.
func (p Point) Float() (x, y float64) {
	return float64(p.X) / float64(p.D), float64(p.Y) / float64(p.D)
}

// Point implements [fmt.Stringer]
func (p Point) String() string {
	return fmt.Sprintf("%d,%d/%d", p.X, p.Y, p.D)
}

/*
Mix interpolates exactly between a and b: the result is a + (num/den)(b-a).
Callers animating a move use it to draw intermediate frames. The result's
denominator grows with the inputs', so it is meant for drawing only and
may fall outside [MaxCoord].
*/
func Mix(a, b Point, num, den int64) Point {
	return Point{
		X: a.X*b.D*den + num*(b.X*a.D-a.X*b.D),
		Y: a.Y*b.D*den + num*(b.Y*a.D-a.Y*b.D),
		D: a.D * b.D * den,
	}
}
