package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/untangle-server/internal/config"
	"github.com/vancomm/untangle-server/internal/middleware"
	"github.com/vancomm/untangle-server/internal/repository"
)

type Auth struct {
	logger  *slog.Logger
	store   Store
	cookies *config.Cookies
	jwt     *config.JWT
	cost    int
}

func NewAuth(
	logger *slog.Logger,
	store Store,
	cookies *config.Cookies,
	jwt *config.JWT,
) *Auth {
	auth := &Auth{
		logger:  logger,
		store:   store,
		cookies: cookies,
		jwt:     jwt,
		cost:    bcrypt.DefaultCost,
	}
	return auth
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

var (
	ErrBadAuthBody        = errors.New("request body must contain url-encoded username and password")
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

func (a *Auth) credentials(r *http.Request) (*CredentialsDTO, error) {
	if err := r.ParseForm(); err != nil {
		return nil, ErrBadAuthBody
	}
	var dto CredentialsDTO
	if err := decode(&dto, r.PostForm); err != nil {
		return nil, errors.Join(ErrBadAuthBody, err)
	}
	if len([]byte(dto.Password)) > 72 {
		return nil, ErrBadAuthBody
	}
	return &dto, nil
}

// signIn issues fresh cookies for the player.
func (a *Auth) signIn(w http.ResponseWriter, playerId int64, username string) error {
	claims := config.NewPlayerClaims(playerId, username)
	token, err := a.jwt.Sign(claims)
	if err != nil {
		return err
	}
	if err := a.cookies.Refresh(w, token, claims.ExpiresAt.Time); err != nil {
		return err
	}
	sendJSONOrLog(w, a.logger, Status{
		LoggedIn: true,
		Player:   &PlayerInfo{playerId, username},
	})
	return nil
}

func (a *Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		a.cookies.Clear(w)
		sendJSONOrLog(w, a.logger, Status{LoggedIn: false})
		return
	}
	a.logger.Debug("refresh cookies", slog.String("username", claims.Username))
	if err := a.signIn(w, claims.PlayerId, claims.Username); err != nil {
		fail(w, a.logger, err)
	}
}

func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	creds, err := a.credentials(r)
	if err != nil {
		sendStatusOrLog(w, a.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), a.cost)
	if err != nil {
		fail(w, a.logger, err)
		return
	}

	player, err := a.store.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     creds.Username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		sendStatusOrLog(w, a.logger, http.StatusConflict, wrapError(ErrUsernameTaken))
		return
	}
	if err != nil {
		fail(w, a.logger, err)
		return
	}

	if err := a.signIn(w, player.PlayerId, player.Username); err != nil {
		fail(w, a.logger, err)
	}
}

func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := a.credentials(r)
	if err != nil {
		sendStatusOrLog(w, a.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	player, err := a.store.FetchPlayer(r.Context(), creds.Username)
	if errors.Is(err, repository.ErrNotFound) {
		sendStatusOrLog(w, a.logger, http.StatusUnauthorized, wrapError(ErrInvalidCredentials))
		return
	}
	if err != nil {
		fail(w, a.logger, err)
		return
	}

	err = bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(creds.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		sendStatusOrLog(w, a.logger, http.StatusUnauthorized, wrapError(ErrInvalidCredentials))
		return
	}
	if err != nil {
		fail(w, a.logger, err)
		return
	}

	if err := a.signIn(w, player.PlayerId, player.Username); err != nil {
		fail(w, a.logger, err)
	}
}

func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	sendJSONOrLog(w, a.logger, Status{LoggedIn: false})
}
