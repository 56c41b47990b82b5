package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/vancomm/untangle-server/internal/repository"
	"github.com/vancomm/untangle-server/internal/untangle"
)

// Store is the persistence the handlers need; *repository.Queries
// implements it.
type Store interface {
	CreatePuzzleSession(context.Context, repository.CreatePuzzleSessionParams) (*repository.PuzzleSession, error)
	FetchPuzzleSession(context.Context, int64) (*repository.PuzzleSession, error)
	UpdatePuzzleSession(context.Context, int64, repository.UpdatePuzzleSessionParams) (*repository.PuzzleSession, error)
	GetHighscores(context.Context, repository.HighscoreFilter) ([]repository.Highscore, error)
	CreatePlayer(context.Context, repository.CreatePlayerParams) (*repository.Player, error)
	FetchPlayer(context.Context, string) (*repository.Player, error)
}

var (
	ErrBadSessionId = errors.New("invalid puzzle session id")
	ErrForbidden    = errors.New("puzzle belongs to another player")
	errInternal     = errors.New("internal error")
)

var (
	decoder  = newDecoder()
	validate = validator.New(validator.WithRequiredStructEnabled())
)

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

// decode fills dst from src and checks its validate tags.
func decode(dst any, src map[string][]string) error {
	if err := decoder.Decode(dst, src); err != nil {
		return err
	}
	return validate.Struct(dst)
}

func sessionId(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadSessionId
	}
	return id, nil
}

func SendJSON(w http.ResponseWriter, status int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	sendStatusOrLog(w, logger, http.StatusOK, v)
}

func sendStatusOrLog(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	_, err := SendJSON(w, status, v)
	if err != nil {
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

// statusOf maps an error to the status code it is reported with.
func statusOf(err error) int {
	var (
		formatErr *untangle.FormatError
		cfgErr    *untangle.ConfigurationError
		schemaErr schema.MultiError
		invalid   validator.ValidationErrors
	)
	switch {
	case errors.As(err, &formatErr),
		errors.As(err, &cfgErr),
		errors.As(err, &schemaErr),
		errors.As(err, &invalid),
		errors.Is(err, ErrBadSessionId):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, untangle.ErrSolutionUnknown):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail reports err to the client, hiding the details of internal errors.
func fail(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("unable to handle request", slog.Any("error", err))
		err = errInternal
	}
	sendStatusOrLog(w, logger, status, wrapError(err))
}
