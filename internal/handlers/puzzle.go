package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/vancomm/untangle-server/internal/config"
	"github.com/vancomm/untangle-server/internal/metrics"
	"github.com/vancomm/untangle-server/internal/middleware"
	"github.com/vancomm/untangle-server/internal/repository"
	"github.com/vancomm/untangle-server/internal/untangle"
)

type PuzzleHandler struct {
	logger    *slog.Logger
	store     Store
	ws        *config.WebSocket
	maxPoints int

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

func NewPuzzleHandler(
	logger *slog.Logger,
	store Store,
	ws *config.WebSocket,
	maxPoints int,
	rnd *rand.Rand,
) *PuzzleHandler {
	handler := &PuzzleHandler{
		logger:    logger,
		store:     store,
		ws:        ws,
		maxPoints: maxPoints,
		rnd:       rnd,
	}
	return handler
}

func (h *PuzzleHandler) Presets(w http.ResponseWriter, r *http.Request) {
	presets := make([]untangle.Preset, 0)
	for _, p := range untangle.Presets() {
		if p.Params.N <= h.maxPoints {
			presets = append(presets, p)
		}
	}
	sendJSONOrLog(w, h.logger, PresetsDTO{
		Presets:   presets,
		Default:   untangle.DefaultParams(),
		MaxPoints: h.maxPoints,
	})
}

func (h *PuzzleHandler) generate(params untangle.Params) (*untangle.Puzzle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	puzzle, err := untangle.NewPuzzle(params, h.rnd)
	if err != nil {
		return nil, err
	}
	metrics.ObserveGeneration(params.N, time.Since(start), puzzle.ScrambleAttempts)
	return puzzle, nil
}

func (h *PuzzleHandler) NewPuzzle(w http.ResponseWriter, r *http.Request) {
	dto := NewPuzzleDTO{N: untangle.DefaultPoints}
	if err := decode(&dto, r.URL.Query()); err != nil {
		fail(w, h.logger, err)
		return
	}
	if dto.N > h.maxPoints {
		fail(w, h.logger, &untangle.ConfigurationError{
			Message: fmt.Sprintf("Number of points must be at most %d", h.maxPoints),
		})
		return
	}

	params := untangle.Params{N: dto.N}
	puzzle, err := h.generate(params)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	state, err := untangle.NewState(params, puzzle.Desc)
	if err != nil {
		fail(w, h.logger, fmt.Errorf("generated description does not parse: %w", err))
		return
	}
	b, err := state.Bytes()
	if err != nil {
		fail(w, h.logger, fmt.Errorf("unable to encode puzzle state: %w", err))
		return
	}

	var playerId *int64
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		playerId = &claims.PlayerId
	}

	session, err := h.store.CreatePuzzleSession(r.Context(), repository.CreatePuzzleSessionParams{
		PlayerId:    playerId,
		PointCount:  params.N,
		Description: puzzle.Desc,
		Solution:    &puzzle.Aux,
		State:       b,
	})
	if err != nil {
		fail(w, h.logger, fmt.Errorf("unable to create puzzle session: %w", err))
		return
	}

	h.logger.Debug("created puzzle session",
		slog.Int64("puzzleSessionId", session.PuzzleSessionId),
		slog.Int("n", params.N),
		slog.Int("edges", puzzle.Edges),
	)

	sendJSONOrLog(w, h.logger, NewPuzzleSessionDTO(session, state, false))
}

func (h *PuzzleHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := sessionId(r)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	session, err := h.store.FetchPuzzleSession(r.Context(), id)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	state, err := untangle.DecodeState(session.State)
	if err != nil {
		fail(w, h.logger, fmt.Errorf("db returned invalid puzzle_session.state: %w", err))
		return
	}
	sendJSONOrLog(w, h.logger, NewPuzzleSessionDTO(session, state, false))
}

func (h *PuzzleHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := sessionId(r)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	var dto MoveDTO
	if err := decode(&dto, r.URL.Query()); err != nil {
		fail(w, h.logger, err)
		return
	}
	view, err := h.play(r.Context(), id, dto.Move, false)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, view)
}

func (h *PuzzleHandler) Solve(w http.ResponseWriter, r *http.Request) {
	id, err := sessionId(r)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	view, err := h.play(r.Context(), id, "", true)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, view)
}

// authorize lets anyone play anonymous puzzles, and only their owner play
// a player's puzzle.
func authorize(ctx context.Context, session *repository.PuzzleSession) error {
	if session.PlayerId == nil {
		return nil
	}
	claims, ok := middleware.PlayerClaims(ctx)
	if !ok || claims.PlayerId != *session.PlayerId {
		return ErrForbidden
	}
	return nil
}

/*
play applies one move to a stored session. With solve set the move is
the session's recorded solution instead. The write only lands if the
session was not moved concurrently; otherwise [repository.ErrConflict]
is returned.
*/
func (h *PuzzleHandler) play(ctx context.Context, id int64, move string, solve bool) (*PuzzleSessionDTO, error) {
	session, err := h.store.FetchPuzzleSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, session); err != nil {
		return nil, err
	}
	state, err := untangle.DecodeState(session.State)
	if err != nil {
		return nil, fmt.Errorf("db returned invalid puzzle_session.state: %w", err)
	}

	if solve {
		aux := ""
		if session.Solution != nil {
			aux = *session.Solution
		}
		if move, err = untangle.SolveMove(aux); err != nil {
			return nil, err
		}
	}

	next, err := state.Apply(move)
	if err != nil {
		metrics.ObserveMove(metrics.MoveRejected)
		return nil, err
	}

	var endedAt *time.Time
	if next.Completed && !state.Completed {
		endedAt = endedNow()
	}
	b, err := next.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to encode puzzle state: %w", err)
	}

	updated, err := h.store.UpdatePuzzleSession(ctx, id, repository.UpdatePuzzleSessionParams{
		MoveCount: session.MoveCount,
		State:     b,
		Completed: next.Completed,
		Cheated:   next.Cheated,
		EndedAt:   endedAt,
	})
	if err != nil {
		if statusOf(err) == http.StatusConflict {
			metrics.ObserveMove(metrics.MoveConflict)
		}
		return nil, err
	}

	metrics.ObserveMove(metrics.MoveApplied)
	if endedAt != nil {
		metrics.ObserveCompletion(next.Cheated)
	}

	return NewPuzzleSessionDTO(updated, next, untangle.ShouldFlash(state, next)), nil
}
