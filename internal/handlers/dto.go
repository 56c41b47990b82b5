package handlers

import (
	"strconv"
	"time"

	"github.com/vancomm/untangle-server/internal/repository"
	"github.com/vancomm/untangle-server/internal/untangle"
)

type NewPuzzleDTO struct {
	N int `schema:"n" validate:"min=4"`
}

type MoveDTO struct {
	Move string `schema:"move" validate:"required,max=65536"`
}

type HighscoresDTO struct {
	N        *int    `schema:"n" validate:"omitempty,min=4"`
	Username *string `schema:"username" validate:"omitempty,min=1,max=64"`
	Limit    int     `schema:"limit" validate:"omitempty,min=1,max=100"`
}

type CredentialsDTO struct {
	Username string `schema:"username" validate:"required,min=1,max=64,printascii"`
	Password string `schema:"password" validate:"required,max=72"`
}

type PointDTO struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	D int64 `json:"d"`
}

type PuzzleSessionDTO struct {
	PuzzleSessionId string     `json:"puzzle_session_id"`
	N               int        `json:"n"`
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	Points          []PointDTO `json:"points"`
	Edges           [][2]int   `json:"edges"`
	MoveCount       int        `json:"move_count"`
	Completed       bool       `json:"completed"`
	Cheated         bool       `json:"cheated"`
	JustSolved      bool       `json:"just_solved"`
	JustCompleted   bool       `json:"just_completed"`
	StartedAt       int64      `json:"started_at"`
	EndedAt         *int64     `json:"ended_at,omitempty"`
}

func NewPuzzleSessionDTO(
	session *repository.PuzzleSession,
	state *untangle.State,
	justCompleted bool,
) *PuzzleSessionDTO {
	var endedAt *int64
	if session.EndedAt != nil {
		e := session.EndedAt.UnixMilli()
		endedAt = &e
	}

	points := make([]PointDTO, len(state.Points))
	for i, p := range state.Points {
		points[i] = PointDTO{p.X, p.Y, p.D}
	}
	edges := make([][2]int, 0, state.Graph.Len())
	for _, e := range state.Graph.All() {
		edges = append(edges, [2]int{e.A, e.B})
	}

	dto := &PuzzleSessionDTO{
		PuzzleSessionId: strconv.FormatInt(session.PuzzleSessionId, 10),
		N:               state.Params.N,
		Width:           state.W,
		Height:          state.H,
		Points:          points,
		Edges:           edges,
		MoveCount:       session.MoveCount,
		Completed:       state.Completed,
		Cheated:         state.Cheated,
		JustSolved:      state.JustSolved,
		JustCompleted:   justCompleted,
		StartedAt:       session.StartedAt.UnixMilli(),
		EndedAt:         endedAt,
	}
	return dto
}

type PresetsDTO struct {
	Presets   []untangle.Preset `json:"presets"`
	Default   untangle.Params   `json:"default"`
	MaxPoints int               `json:"max_points"`
}

func endedNow() *time.Time {
	t := time.Now().UTC()
	return &t
}
