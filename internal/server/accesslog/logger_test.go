package accesslog

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, opts ...Option) (*AccessLogger, string) {
	t.Helper()
	dir := t.TempDir()
	al, err := New(dir, slog.Default(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = al.Close() })
	return al, dir
}

func TestEntry_JSONRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	in := Entry{Timestamp: ts, Actor: "alice", Route: "/api/v1/storage/rename", Method: "POST", Target: "a/ -> b/", Status: 207, Outcome: OutcomePartial}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp":"2026-03-14 09:26:53.589 UTC"`)

	var out Entry
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeOK, OutcomeOf(http.StatusOK))
	assert.Equal(t, OutcomePartial, OutcomeOf(http.StatusMultiStatus))
	assert.Equal(t, OutcomeError, OutcomeOf(http.StatusNotFound))
	assert.Equal(t, OutcomeError, OutcomeOf(http.StatusBadGateway))
}

func TestSanitizeActor(t *testing.T) {
	tests := map[string]string{
		"alice@example.com": "alice@example.com",
		"../../etc":         ".._.._etc",
		"a/b":               "a_b",
		"..":                anonymous,
		"":                  anonymous,
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeActor(in), in)
	}
}

func TestAccessLogger_LogAndRecent(t *testing.T) {
	al, dir := newTestLogger(t)

	for i := 0; i < 5; i++ {
		al.Log(Entry{Actor: "bob", Route: "/api/v1/storage/list", Method: "GET", Status: 200, Outcome: OutcomeOK})
	}
	al.Log(Entry{Route: "/api/v1/storage/list", Method: "GET", Status: 400, Outcome: OutcomeError})

	entries, err := al.Recent("bob", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.False(t, entries[0].Timestamp.IsZero())

	anon, err := al.Recent(anonymous, 10)
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Equal(t, anonymous, anon[0].Actor)

	none, err := al.Recent("nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	info, err := os.Stat(filepath.Join(dir, "bob"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestAccessLogger_Rotation(t *testing.T) {
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	al, dir := newTestLogger(t, WithRotation(256, 2), WithClock(clock))

	for i := 0; i < 20; i++ {
		al.Log(Entry{Actor: "dave", Route: "/api/v1/storage/object", Method: "DELETE", Target: "reports/q1.pdf", Status: 200, Outcome: OutcomeOK})
	}

	files, err := logFiles(filepath.Join(dir, "dave"))
	require.NoError(t, err)
	// two rotated files plus the live one
	assert.LessOrEqual(t, len(files), 3)
	assert.GreaterOrEqual(t, len(files), 2)

	entries, err := al.Recent("dave", 100)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
	assert.Less(t, len(entries), 20)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	al, _ := newTestLogger(t)

	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		if u := ctx.GetHeader("X-Test-User"); u != "" {
			ctx.Set(api.UserContextKey, u)
		}
	})
	r.Use(Middleware(al))
	r.DELETE("/object", func(ctx *gin.Context) {
		ctx.Set(api.TargetContextKey, ctx.Query("key"))
		ctx.Status(http.StatusMultiStatus)
	})

	req := httptest.NewRequest(http.MethodDelete, "/object?key=docs/", nil)
	req.Header.Set("X-Test-User", "erin")
	req.Header.Set("User-Agent", "storagehub-test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusMultiStatus, w.Code)

	entries, err := al.Recent("erin", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "/object", e.Route)
	assert.Equal(t, http.MethodDelete, e.Method)
	assert.Equal(t, "docs/", e.Target)
	assert.Equal(t, OutcomePartial, e.Outcome)
	assert.Equal(t, "storagehub-test", e.UserAgent)
}
