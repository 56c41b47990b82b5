package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/untangle-server/internal/untangle"
)

/*
Connect upgrades to a websocket over which a client plays one session.
Every text frame holds moves separated by newlines; they are applied in
order and the frame is answered with the resulting session, or with an
error object for the first move that failed.
*/
func (h *PuzzleHandler) Connect(w http.ResponseWriter, r *http.Request) {
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
	if err := authorize(r.Context(), session); err != nil {
		fail(w, h.logger, err)
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(h.ws.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(h.ws.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.ws.PongWait))
	})

	replies := make(chan any)
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		defer close(replies)
		for {
			kind, msg, err := conn.ReadMessage()
			if err != nil {
				return err
			}
			if kind != websocket.TextMessage {
				continue
			}
			reply := h.playFrame(ctx, id, string(msg))
			select {
			case replies <- reply:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	g.Go(func() error {
		defer conn.Close()
		ticker := time.NewTicker(h.ws.PingPeriod)
		defer ticker.Stop()
		for {
			select {
			case reply, ok := <-replies:
				conn.SetWriteDeadline(time.Now().Add(h.ws.WriteWait))
				if !ok {
					conn.WriteMessage(websocket.CloseMessage, []byte{})
					return nil
				}
				if err := conn.WriteJSON(reply); err != nil {
					return err
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(h.ws.WriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	err = g.Wait()
	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		h.logger.Error("websocket closed unexpectedly",
			slog.Int64("puzzleSessionId", id), slog.Any("error", err))
	}
}

// playFrame applies every move in frame and returns the reply to send.
func (h *PuzzleHandler) playFrame(ctx context.Context, id int64, frame string) any {
	var view *PuzzleSessionDTO
	for _, move := range strings.Split(frame, "\n") {
		move = strings.TrimSpace(move)
		if move == "" {
			continue
		}

		var err error
		if move == "solve" {
			view, err = h.play(ctx, id, "", true)
		} else {
			view, err = h.play(ctx, id, move, false)
		}
		if err != nil {
			return h.frameError(id, err)
		}
	}
	if view != nil {
		return view
	}

	session, err := h.store.FetchPuzzleSession(ctx, id)
	if err != nil {
		return h.frameError(id, err)
	}
	state, err := untangle.DecodeState(session.State)
	if err != nil {
		return h.frameError(id, fmt.Errorf("db returned invalid puzzle_session.state: %w", err))
	}
	return NewPuzzleSessionDTO(session, state, false)
}

func (h *PuzzleHandler) frameError(id int64, err error) map[string]string {
	if statusOf(err) == http.StatusInternalServerError {
		h.logger.Error("unable to play websocket frame",
			slog.Int64("puzzleSessionId", id), slog.Any("error", err))
		err = errInternal
	}
	return wrapError(err)
}
