package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type PuzzleSession struct {
	PuzzleSessionId int64      `db:"puzzle_session_id"`
	PlayerId        *int64     `db:"player_id"`
	PointCount      int        `db:"point_count"`
	Description     string     `db:"description"`
	Solution        *string    `db:"solution"`
	State           []byte     `db:"state"`
	MoveCount       int        `db:"move_count"`
	Completed       bool       `db:"completed"`
	Cheated         bool       `db:"cheated"`
	StartedAt       time.Time  `db:"started_at"`
	EndedAt         *time.Time `db:"ended_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

type CreatePuzzleSessionParams struct {
	PlayerId    *int64
	PointCount  int
	Description string
	Solution    *string
	State       []byte
}

func (q Queries) CreatePuzzleSession(
	ctx context.Context, params CreatePuzzleSessionParams,
) (*PuzzleSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO puzzle_session (
			player_id, point_count, description, solution, state
		)
		VALUES (
			@player_id, @point_count, @description, @solution, @state
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"player_id":   params.PlayerId,
			"point_count": params.PointCount,
			"description": params.Description,
			"solution":    params.Solution,
			"state":       params.State,
		},
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[PuzzleSession],
	)
}

func (q Queries) FetchPuzzleSession(
	ctx context.Context, puzzleSessionId int64,
) (*PuzzleSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM puzzle_session WHERE puzzle_session_id = $1",
		puzzleSessionId,
	)
	session, err := pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[PuzzleSession],
	)
	return session, orNotFound(err)
}

/*
UpdatePuzzleSessionParams carries a new state for a session. MoveCount is
the count the caller read; the update only lands if nobody else has
moved since.
*/
type UpdatePuzzleSessionParams struct {
	MoveCount int
	State     []byte
	Completed bool
	Cheated   bool
	EndedAt   *time.Time
}

func (q Queries) UpdatePuzzleSession(
	ctx context.Context, puzzleSessionId int64, params UpdatePuzzleSessionParams,
) (*PuzzleSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`UPDATE puzzle_session
		SET
			state = @state,
			move_count = move_count + 1,
			completed = @completed,
			cheated = @cheated,
			ended_at = COALESCE(ended_at, @ended_at),
			updated_at = now()
		WHERE puzzle_session_id = @puzzle_session_id
			AND move_count = @move_count
		RETURNING *;`,
		pgx.NamedArgs{
			"puzzle_session_id": puzzleSessionId,
			"move_count":        params.MoveCount,
			"state":             params.State,
			"completed":         params.Completed,
			"cheated":           params.Cheated,
			"ended_at":          params.EndedAt,
		},
	)
	session, err := pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[PuzzleSession],
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConflict
	}
	return session, err
}
