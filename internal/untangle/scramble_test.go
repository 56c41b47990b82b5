package untangle

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphOf(edges ...Edge) *Graph {
	g := newGraph()
	for _, e := range edges {
		g.add(e.A, e.B)
	}
	return g
}

func TestMakeCircle(t *testing.T) {
	assert.Equal(t, []Point{
		{96, 14, 64},
		{178, 96, 64},
		{96, 178, 64},
		{14, 96, 64},
	}, makeCircle(4, 3))

	w := Params{N: MaxPoints}.CoordLimit()
	for _, p := range makeCircle(MaxPoints, w) {
		require.True(t, p.Valid(), "%v", p)
	}
}

func TestScramble(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for _, n := range []int{4, 6, 10, 25, 100} {
		w := Params{N: n}.CoordLimit()
		circle := makeCircle(n, w)
		for range 5 {
			graph := synthesize(scatter(n, w, r))
			perm, attempts, err := scramble(graph, circle, r)
			if err != nil {
				require.ErrorIs(t, err, ErrNoCrossingLayout)
				continue
			}
			require.Positive(t, attempts)

			seen := make([]bool, n)
			for _, slot := range perm {
				require.False(t, seen[slot])
				seen[slot] = true
			}
			_, _, crossed := graph.crossing(place(circle, perm))
			assert.True(t, crossed, "n=%d", n)
		}
	}
}

func TestForceCrossing(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))

	circle := makeCircle(4, 3)
	perm, err := forceCrossing(graphOf(Edge{0, 1}, Edge{2, 3}), circle, r)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1, 3}, perm)

	circle = makeCircle(30, Params{N: 30}.CoordLimit())
	graph := graphOf(Edge{4, 17}, Edge{17, 22}, Edge{8, 9})
	perm, err = forceCrossing(graph, circle, r)
	require.NoError(t, err)
	_, _, crossed := graph.crossing(place(circle, perm))
	assert.True(t, crossed)
}

func TestScrambleStar(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	star := graphOf(Edge{0, 1}, Edge{0, 2}, Edge{0, 3}, Edge{0, 4})

	_, attempts, err := scramble(star, makeCircle(5, Params{N: 5}.CoordLimit()), r)
	assert.ErrorIs(t, err, ErrNoCrossingLayout)
	assert.Equal(t, MaxScrambleAttempts, attempts)
}
