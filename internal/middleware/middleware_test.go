package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/untangle-server/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWrapOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.NotFoundHandler(), tag("inner"), tag("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestLogging(t *testing.T) {
	var seen string
	h := Logging(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestId(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	id := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", id)
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, id, seen)
}

func TestBasePath(t *testing.T) {
	h := BasePath("/api")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.Path)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/presets", nil))
	assert.Equal(t, "/presets", rec.Body.String())
}

func TestAuth(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwt := config.NewJWTWithKeys(key, &key.PublicKey, time.Hour)
	cookies := &config.Cookies{}

	var claims *config.PlayerClaims
	var loggedIn bool
	h := Auth(discard, cookies, jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, loggedIn = PlayerClaims(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, loggedIn)

	token, err := jwt.Sign(config.NewPlayerClaims(3, "grace"))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Refresh(rec, token, time.Now().Add(time.Hour)))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.True(t, loggedIn)
	assert.Equal(t, "grace", claims.Username)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "auth", Value: "forged.payload"})
	r.AddCookie(&http.Cookie{Name: "sign", Value: "bad"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.False(t, loggedIn)
	assert.Len(t, rec.Result().Cookies(), 2)
}

func TestCors(t *testing.T) {
	h := Cors()(http.NotFoundHandler())
	r := httptest.NewRequest(http.MethodOptions, "/puzzle", nil)
	r.Header.Set("Origin", "https://example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
