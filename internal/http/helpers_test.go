package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
	httpserver "storefront/internal/http"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{
		Env:                "test",
		DBDriver:           "sqlite",
		DBDSN:              ":memory:",
		JWTSecret:          testSecret,
		AllowedOrigin:      "http://localhost:3000",
		BuyerCookieTTL:     30 * 24 * time.Hour,
		CacheProductTTL:    time.Minute,
		MaxBasketQuantity:  1000,
		RateLimitPerMinute: 1000,
	}
}

func newTestApp(t *testing.T, cfg config.Config) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN, cfg.DBMaxConns)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.SeedIfEmpty(context.Background(), db))

	return httpserver.New(cfg, handlers.NewDeps(db, cfg)), db
}

type reqOpt func(*http.Request)

func withCookie(name, value string) reqOpt {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

func withBearer(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func do(t *testing.T, app *fiber.App, method, target string, opts ...reqOpt) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, o := range opts {
		o(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func buyerCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == handlers.BuyerCookie {
			return c
		}
	}
	return nil
}

type basketBody struct {
	ID      int64  `json:"id"`
	BuyerID string `json:"buyerId"`
	Items   []struct {
		ProductID  int64  `json:"productId"`
		Name       string `json:"name"`
		Price      int64  `json:"price"`
		PictureURL string `json:"pictureUrl"`
		Brand      string `json:"brand"`
		Type       string `json:"type"`
		Quantity   int    `json:"quantity"`
	} `json:"items"`
}

func decodeBasket(t *testing.T, resp *http.Response) basketBody {
	t.Helper()
	var b basketBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
	return b
}

type problemBody struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func decodeProblem(t *testing.T, resp *http.Response) problemBody {
	t.Helper()
	require.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	var p problemBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Audit  bool           `json:"audit"`
	Status int            `json:"status"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	applog.SetOutput(buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}
