package untangle

import (
	"log/slog"
	"math"
	"math/rand/v2"
)

const (
	// CircleDenominator is the fixed denominator of circle layouts. It is
	// kept small so coordinates stay far from overflow.
	CircleDenominator = 64

	// MaxScrambleAttempts caps the random permutation search before a
	// crossing is forced.
	MaxScrambleAttempts = 1000
)

// makeCircle places n points evenly on a circle inside the box (0,0)-(w,w),
// leaving a margin around it.
func makeCircle(n, w int) []Point {
	d := CircleDenominator
	c := d * w / 2
	r := d * w * 3 / 7

	pts := make([]Point, n)
	for i := range pts {
		angle := float64(i) * 2 * math.Pi / float64(n)
		x := float64(r) * math.Sin(angle)
		y := -float64(r) * math.Cos(angle)
		pts[i] = Point{
			X: int64(math.Floor(float64(c) + x + 0.5)),
			Y: int64(math.Floor(float64(c) + y + 0.5)),
			D: int64(d),
		}
	}
	return pts
}

func place(circle []Point, perm []int) []Point {
	pts := make([]Point, len(perm))
	for i, slot := range perm {
		pts[i] = circle[slot]
	}
	return pts
}

/*
scramble looks for a permutation sending vertex i to circle slot perm[i]
under which at least one pair of disjoint edges crosses, so the puzzle
does not start out solved. It returns the permutation and the number of
random permutations drawn.
*/
func scramble(graph *Graph, circle []Point, r *rand.Rand) (perm []int, attempts int, err error) {
	n := len(circle)
	perm = make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	for attempts < MaxScrambleAttempts {
		attempts++
		r.Shuffle(n, func(i, j int) {
			perm[i], perm[j] = perm[j], perm[i]
		})
		if _, _, ok := graph.crossing(place(circle, perm)); ok {
			return perm, attempts, nil
		}
	}

	Log.Debug("scramble attempts exhausted, forcing a crossing",
		slog.Int("n", n), slog.Int("edges", graph.Len()))
	perm, err = forceCrossing(graph, circle, r)
	return perm, attempts, err
}

/*
forceCrossing takes the first pair of disjoint edges a-b and c-d and puts
a, c, b, d on slots a quarter of the circle apart, so the two chords
interleave. The other vertices fill the remaining slots at random.
*/
func forceCrossing(graph *Graph, circle []Point, r *rand.Rand) ([]int, error) {
	n := len(circle)
	edges := graph.Edges()

	var e, f Edge
	found := false
	for i := 0; i < len(edges) && !found; i++ {
		for _, g := range edges[i+1:] {
			if !edges[i].Shares(g) {
				e, f, found = edges[i], g, true
				break
			}
		}
	}
	if !found {
		return nil, ErrNoCrossingLayout
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = -1
	}
	quarter := []int{0, n / 4, n / 2, 3 * n / 4}
	perm[e.A], perm[f.A], perm[e.B], perm[f.B] = quarter[0], quarter[1], quarter[2], quarter[3]

	used := make([]bool, n)
	for _, slot := range quarter {
		used[slot] = true
	}
	free := make([]int, 0, n-4)
	for slot := range n {
		if !used[slot] {
			free = append(free, slot)
		}
	}
	r.Shuffle(len(free), func(i, j int) {
		free[i], free[j] = free[j], free[i]
	})
	for i := range perm {
		if perm[i] < 0 {
			perm[i], free = free[0], free[1:]
		}
	}

	if _, _, ok := graph.crossing(place(circle, perm)); !ok {
		return nil, ErrNoCrossingLayout
	}
	return perm, nil
}
