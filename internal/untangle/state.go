package untangle

import (
	"bytes"
	"encoding/gob"
)

/*
State is one snapshot of a puzzle in play. States are never modified once
returned: every move yields a new State sharing the same Graph.
*/
type State struct {
	Params Params
	W, H   int
	Points []Point
	Graph  *Graph

	// Completed is sticky: once set it is carried into every later State.
	Completed bool
	Cheated   bool
	// JustSolved marks the one transition that solved the puzzle, either
	// by a solve move or by the player's own move. The next move clears it.
	JustSolved bool
}

// NewState decodes desc and lays the points out on the starting circle.
func NewState(params Params, desc string) (*State, error) {
	graph, err := ParseDesc(params, desc)
	if err != nil {
		return nil, err
	}
	w := params.CoordLimit()
	state := &State{
		Params: params,
		W:      w,
		H:      w,
		Points: makeCircle(params.N, w),
		Graph:  graph,
	}
	return state, nil
}

func (s *State) Edges() []Edge {
	return s.Graph.Edges()
}

// Crossing returns a pair of crossing edges in the current layout, if any.
func (s *State) Crossing() (e, f Edge, ok bool) {
	return s.Graph.crossing(s.Points)
}

/*
Apply parses move and applies it. On a parse error s is returned as it
was, together with the error.
*/
func (s *State) Apply(move string) (*State, error) {
	m, err := ParseMove(s.Params.N, move)
	if err != nil {
		return s, err
	}
	return s.ApplyMove(m), nil
}

// ApplyMove applies an already parsed move. m must have been parsed for
// this puzzle's point count.
func (s *State) ApplyMove(m Move) *State {
	next := &State{
		Params:    s.Params,
		W:         s.W,
		H:         s.H,
		Points:    make([]Point, len(s.Points)),
		Graph:     s.Graph,
		Completed: s.Completed,
		Cheated:   s.Cheated || m.Solve,
	}
	copy(next.Points, s.Points)
	for _, u := range m.Updates {
		next.Points[u.Index] = u.Point
	}

	if !next.Completed {
		_, _, crossed := next.Crossing()
		next.Completed = !crossed
	}
	next.JustSolved = m.Solve || (next.Completed && !s.Completed)
	return next
}

/*
SolveMove returns the move that jumps to the known solution. aux is the
solution recorded when the puzzle was generated; an empty aux means the
puzzle came from a bare description and has none.
*/
func SolveMove(aux string) (string, error) {
	if aux == "" {
		return "", ErrSolutionUnknown
	}
	return aux, nil
}

// ShouldFlash reports whether going from prev to next deserves a
// completion flash: the puzzle became solved and not by a solve move.
func ShouldFlash(prev, next *State) bool {
	return next.Completed && !prev.Completed && !next.Cheated
}

func DecodeState(buf []byte) (*State, error) {
	var state State
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&state)
	if err != nil {
		return nil, err
	}
	if state.Graph == nil {
		state.Graph = newGraph()
	}
	return &state, nil
}

func (s State) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(s)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
