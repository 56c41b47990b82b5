package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/untangle-server/internal/repository"
)

// memStore keeps sessions and players in memory and enforces the same
// move_count check as the postgres queries.
type memStore struct {
	mu       sync.Mutex
	nextId   int64
	sessions map[int64]repository.PuzzleSession
	players  map[string]repository.Player
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[int64]repository.PuzzleSession),
		players:  make(map[string]repository.Player),
	}
}

func (s *memStore) CreatePuzzleSession(
	_ context.Context, params repository.CreatePuzzleSessionParams,
) (*repository.PuzzleSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	now := time.Now().UTC()
	session := repository.PuzzleSession{
		PuzzleSessionId: s.nextId,
		PlayerId:        params.PlayerId,
		PointCount:      params.PointCount,
		Description:     params.Description,
		Solution:        params.Solution,
		State:           params.State,
		StartedAt:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.sessions[session.PuzzleSessionId] = session
	return &session, nil
}

func (s *memStore) FetchPuzzleSession(
	_ context.Context, id int64,
) (*repository.PuzzleSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (s *memStore) UpdatePuzzleSession(
	_ context.Context, id int64, params repository.UpdatePuzzleSessionParams,
) (*repository.PuzzleSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || session.MoveCount != params.MoveCount {
		return nil, repository.ErrConflict
	}
	session.State = params.State
	session.MoveCount++
	session.Completed = params.Completed
	session.Cheated = params.Cheated
	if session.EndedAt == nil {
		session.EndedAt = params.EndedAt
	}
	session.UpdatedAt = time.Now().UTC()
	s.sessions[id] = session
	return &session, nil
}

func (s *memStore) GetHighscores(
	_ context.Context, filter repository.HighscoreFilter,
) ([]repository.Highscore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var highscores []repository.Highscore
	for _, session := range s.sessions {
		if !session.Completed || session.Cheated || session.EndedAt == nil {
			continue
		}
		if filter.PointCount != nil && *filter.PointCount != session.PointCount {
			continue
		}
		var username *string
		for _, p := range s.players {
			if session.PlayerId != nil && p.PlayerId == *session.PlayerId {
				username = &p.Username
			}
		}
		if filter.Username != nil && (username == nil || *username != *filter.Username) {
			continue
		}
		highscores = append(highscores, repository.Highscore{
			PuzzleSessionId: session.PuzzleSessionId,
			Username:        username,
			PointCount:      session.PointCount,
			MoveCount:       session.MoveCount,
			PlaytimeMs:      float64(session.EndedAt.Sub(session.StartedAt).Milliseconds()),
		})
	}
	return highscores, nil
}

func (s *memStore) CreatePlayer(
	_ context.Context, params repository.CreatePlayerParams,
) (*repository.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[params.Username]; ok {
		return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}
	s.nextId++
	player := repository.Player{
		PlayerId:     s.nextId,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
	}
	s.players[player.Username] = player
	return &player, nil
}

func (s *memStore) FetchPlayer(_ context.Context, username string) (*repository.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &player, nil
}

// racingStore loses every update to a concurrent writer.
type racingStore struct {
	*memStore
}

func (s racingStore) UpdatePuzzleSession(
	context.Context, int64, repository.UpdatePuzzleSessionParams,
) (*repository.PuzzleSession, error) {
	return nil, repository.ErrConflict
}
