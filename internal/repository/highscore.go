package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

type Highscore struct {
	PuzzleSessionId int64   `json:"puzzle_session_id" db:"puzzle_session_id"`
	Username        *string `json:"username" db:"username"`
	PointCount      int     `json:"point_count" db:"point_count"`
	MoveCount       int     `json:"move_count" db:"move_count"`
	PlaytimeMs      float64 `json:"playtime_ms" db:"playtime_ms"`
}

const defaultHighscoreLimit = 50

type HighscoreFilter struct {
	Username   *string
	PointCount *int
	Limit      int
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.PointCount != nil {
		clauses = append(clauses, "point_count = @point_count")
		args["point_count"] = *f.PointCount
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultHighscoreLimit
	}
	args["limit"] = limit
	return strings.Join(clauses, " AND "), args
}

// GetHighscores lists the fastest solves made without the solve move.
func (q Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		puzzle_session_id,
		username,
		point_count,
		move_count,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM puzzle_session
		LEFT OUTER JOIN player using (player_id)
	WHERE
		completed = true
		AND cheated = false
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY playtime_ms LIMIT @limit;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
