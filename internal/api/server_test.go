package api

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Flyrell/evdash/internal/logging"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/Flyrell/evdash/internal/timeline"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	srv   *Server
	store *record.Store
	logs  *bytes.Buffer
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := record.NewStore(t.TempDir())
	store.SetClock(func() time.Time { return refNow })
	logs := new(bytes.Buffer)
	srv := New(store, Options{
		ClientOrigin: "http://app.test",
		Logger:       logging.New(logging.LevelInfo, logging.NewWriterOutput(logs, logging.FormatText)),
		Now:          func() time.Time { return refNow },
	})
	return testEnv{srv: srv, store: store, logs: logs}
}

func (e testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const validProject = `{"name":"Battery pack","team":"Power","status":"in_progress","startDate":"2025-01-01","endDate":"2025-01-31"}`

// --- general ---

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodOptions, "/projects", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	rec = env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "")
	generated := rec.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Contains(t, env.logs.String(), "request_id="+generated)
	assert.Contains(t, env.logs.String(), "status=200")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestDefaults(t *testing.T) {
	srv := New(record.NewStore(t.TempDir()), Options{})
	assert.Equal(t, "0.0.0.0:4000", srv.Addr())
	assert.Equal(t, "http://localhost:5173", srv.origin)
}

// --- projects ---

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/projects", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/projects", validProject)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[record.Project](t, rec)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Battery pack", created.Name)

	rec = env.do(t, http.MethodPatch, "/projects/1", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decodeBody[record.Project](t, rec).Status)

	rec = env.do(t, http.MethodGet, "/projects", "")
	list := decodeBody[[]record.Project](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "completed", list[0].Status)

	rec = env.do(t, http.MethodDelete, "/projects/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/projects/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, rec.Body.String())
}

func TestCreateProjectErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"name":`, "Invalid JSON body"},
		{"missing name", `{"team":"Power","status":"in_progress","startDate":"2025-01-01","endDate":"2025-01-02"}`, "name is required"},
		{"bad status", `{"name":"X","team":"Power","status":"paused","startDate":"2025-01-01","endDate":"2025-01-02"}`, "status must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/projects", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody[message](t, rec).Message, tt.want)
		})
	}
}

func TestUpdateProjectErrors(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/projects", validProject).Code)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPatch, "/projects/abc", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPatch, "/projects/99", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, "/projects/1", `{"name":"  "}`).Code)
}

// --- teams & milestones ---

func TestTeamLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/teams", `{"name":"Power"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, decodeBody[record.Team](t, rec).ID)

	rec = env.do(t, http.MethodPatch, "/teams/1", `{"name":"Power electronics"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Power electronics", decodeBody[record.Team](t, rec).Name)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/teams/1", "").Code)
	assert.JSONEq(t, `[]`, env.do(t, http.MethodGet, "/teams", "").Body.String())
}

func TestMilestoneLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/milestones", `{"title":"Prototype","dueDate":"2025-02-10","status":"upcoming"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPatch, "/milestones/1", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decodeBody[record.Milestone](t, rec).Status)

	list := decodeBody[[]record.Milestone](t, env.do(t, http.MethodGet, "/milestones", ""))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/milestones/1", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/milestones/1", "").Code)
}

// --- views ---

func TestTimelineEndpoint(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/projects", validProject).Code)

	rec := env.do(t, http.MethodGet, "/timeline?granularity=month", "")
	require.Equal(t, http.StatusOK, rec.Code)

	vm := decodeBody[timeline.ViewModel](t, rec)
	assert.Equal(t, timeline.Month, vm.Granularity)
	require.Len(t, vm.Bars, 1)
	assert.Equal(t, "1", vm.Bars[0].ID)
	assert.NotEmpty(t, vm.Ticks)

	vm = decodeBody[timeline.ViewModel](t, env.do(t, http.MethodGet, "/timeline?granularity=fortnight", ""))
	assert.Equal(t, timeline.Week, vm.Granularity)
}

func TestTimelineEndpointEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/timeline", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bars":[]`)
}

func TestAnalyticsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/projects", validProject).Code)

	rec := env.do(t, http.MethodGet, "/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(80), got["averageHealth"])
	summary := got["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["projects"])
}

// --- lifecycle ---

func TestServeShutsDownOnCancel(t *testing.T) {
	env := newTestEnv(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStartInvalidAddr(t *testing.T) {
	srv := New(record.NewStore(t.TempDir()), Options{Addr: "256.0.0.1:bad", Logger: logging.Discard()})
	err := srv.Start(context.Background())
	assert.Error(t, err)
}
