package untangle

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// PointDensity scales the side of the square grid points are drawn
	// from: w = isqrt(n * PointDensity).
	PointDensity = 3
	MaxDegree    = 4

	// MaxPoints keeps circle coordinates inside [MaxCoord].
	MaxPoints = 1000

	DefaultPoints = 10
)

type Params struct {
	N int `json:"n"`
}

type Preset struct {
	Title  string `json:"title"`
	Params Params `json:"params"`
}

var presets = []int{6, 10, 15, 20, 25}

func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, n := range presets {
		out = append(out, Preset{Title: fmt.Sprintf("%d points", n), Params: Params{N: n}})
	}
	return out
}

func DefaultParams() Params {
	return Params{N: DefaultPoints}
}

func (p Params) Validate() error {
	if p.N < 4 {
		return &ConfigurationError{"Number of points must be at least four"}
	}
	if p.N > MaxPoints {
		return &ConfigurationError{fmt.Sprintf("Number of points must be at most %d", MaxPoints)}
	}
	return nil
}

// Params implements [fmt.Stringer]
func (p Params) String() string {
	return strconv.Itoa(p.N)
}

/*
ParseParams reads the decimal point count the way atoi does: leading
digits are taken, anything after them is ignored, and a string with no
leading digits gives zero. The result is not validated.
*/
func ParseParams(s string) Params {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		n = 0
	}
	return Params{N: n}
}

// CoordLimit is the side of the square scattered points are drawn from.
func (p Params) CoordLimit() int {
	return isqrt(p.N * PointDensity)
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
