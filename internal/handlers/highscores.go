package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vancomm/untangle-server/internal/repository"
)

type HighscoreHandler struct {
	logger *slog.Logger
	store  Store
}

func NewHighscoreHandler(logger *slog.Logger, store Store) *HighscoreHandler {
	return &HighscoreHandler{logger: logger, store: store}
}

func (h *HighscoreHandler) List(w http.ResponseWriter, r *http.Request) {
	var dto HighscoresDTO
	if err := decode(&dto, r.URL.Query()); err != nil {
		fail(w, h.logger, err)
		return
	}

	highscores, err := h.store.GetHighscores(r.Context(), repository.HighscoreFilter{
		Username:   dto.Username,
		PointCount: dto.N,
		Limit:      dto.Limit,
	})
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	if highscores == nil {
		highscores = []repository.Highscore{}
	}
	sendJSONOrLog(w, h.logger, highscores)
}
