package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/igbcscore/internal/cue"
	"github.com/dotcommander/igbcscore/internal/engine"
	"github.com/dotcommander/igbcscore/internal/types"
)

func newTestServer(t *testing.T, withSchema bool) (*Server, *httptest.Server) {
	t.Helper()
	opts := Options{}
	if withSchema {
		v := cue.NewValidator()
		require.NoError(t, v.LoadSchemas())
		opts.Validator = v
	}
	s := New(engine.NewStore(nil), opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func createSession(t *testing.T, ts *httptest.Server, body string) sessionResponse {
	t.Helper()
	status, data := do(t, ts, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, status, string(data))
	return decode[sessionResponse](t, data)
}

func TestHealthAndCatalog(t *testing.T) {
	_, ts := newTestServer(t, false)

	status, data := do(t, ts, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, string(data))

	status, data = do(t, ts, http.MethodGet, "/credits", "")
	require.Equal(t, http.StatusOK, status)
	credits := decode[creditsResponse](t, data)
	assert.Len(t, credits.Credits, 13)
	assert.Len(t, credits.Categories, 2)
	assert.Equal(t, 40, credits.MaxTotal)

	status, data = do(t, ts, http.MethodGet, "/fields", "")
	require.Equal(t, http.StatusOK, status)
	fields := decode[[]fieldInfo](t, data)
	var retv fieldInfo
	for _, f := range fields {
		if f.Path == "enhancedEnergy.retv" {
			retv = f
		}
	}
	assert.Equal(t, "number", retv.Kind)
	assert.Equal(t, "retv", string(retv.Group))

	status, _ = do(t, ts, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestScore(t *testing.T) {
	_, ts := newTestServer(t, false)

	status, data := do(t, ts, http.MethodPost, "/score",
		`{"topography": {"option": "B", "siteArea": 1000, "naturalArea": "400"}}`)
	require.Equal(t, http.StatusOK, status, string(data))
	report := decode[engine.Report](t, data)
	sd1, ok := report.Credit(types.SDCredit1)
	require.True(t, ok)
	assert.Equal(t, 4, sd1.Points)
	assert.Equal(t, 40, report.MaxTotal)
	assert.NotEmpty(t, report.Insights)

	status, _ = do(t, ts, http.MethodPost, "/score", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, ts, http.MethodPost, "/score", "{")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestScoreSchemaValidation(t *testing.T) {
	_, ts := newTestServer(t, true)

	status, data := do(t, ts, http.MethodPost, "/score", `{"topography": {"option": "C"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(data), "details")

	status, _ = do(t, ts, http.MethodPost, "/score", `{"topography": {"option": "B"}}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestSessionLifecycle(t *testing.T) {
	s, ts := newTestServer(t, false)

	sess := createSession(t, ts, "")
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, 20, sess.Report.Total)
	assert.Equal(t, types.SourcePreset, sess.Sources["retv"])
	assert.Equal(t, 1, s.store.Len())

	status, data := do(t, ts, http.MethodGet, "/sessions/"+sess.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, sess.ID, decode[sessionResponse](t, data).ID)

	// a single edit
	status, data = do(t, ts, http.MethodPatch, "/sessions/"+sess.ID, `{"field": "topography.naturalArea", "value": 200}`)
	require.Equal(t, http.StatusOK, status, string(data))
	report := decode[engine.Report](t, data)
	sd1, _ := report.Credit(types.SDCredit1)
	assert.Equal(t, 2, sd1.Points)
	assert.Equal(t, 21, report.Total)

	// a batch
	status, data = do(t, ts, http.MethodPatch, "/sessions/"+sess.ID,
		`{"edits": [{"field": "amenities.playArea", "value": true}, {"field": "amenities.seatingArea", "value": "true"}]}`)
	require.Equal(t, http.StatusOK, status, string(data))

	status, data = do(t, ts, http.MethodGet, "/sessions/"+sess.ID, "")
	require.Equal(t, http.StatusOK, status)
	got := decode[sessionResponse](t, data)
	assert.Equal(t, 3, got.Edits)
	assert.True(t, got.Input.Amenities.PlayArea)

	status, _ = do(t, ts, http.MethodDelete, "/sessions/"+sess.ID, "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, ts, http.MethodGet, "/sessions/"+sess.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, ts, http.MethodDelete, "/sessions/"+sess.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionFromBody(t *testing.T) {
	_, ts := newTestServer(t, false)
	sess := createSession(t, ts, `{"amenities": {"playArea": true}}`)
	assert.True(t, sess.Input.Amenities.PlayArea)
	assert.Equal(t, types.SourceCustom, sess.Sources["retv"])
}

func TestEditErrors(t *testing.T) {
	_, ts := newTestServer(t, false)
	sess := createSession(t, ts, "")
	path := "/sessions/" + sess.ID

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown field", path, `{"field": "topography.height", "value": 1}`, http.StatusBadRequest},
		{"wrong kind", path, `{"field": "amenities.playArea", "value": 3}`, http.StatusBadRequest},
		{"bad choice", path, `{"field": "topography.option", "value": "C"}`, http.StatusBadRequest},
		{"preset locked", path, `{"field": "enhancedEnergy.retv", "value": 16}`, http.StatusConflict},
		{"missing field", path, `{}`, http.StatusBadRequest},
		{"invalid json", path, `{`, http.StatusBadRequest},
		{"unknown session", "/sessions/nope", `{"field": "amenities.playArea", "value": true}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, ts, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.status, status, string(data))
			assert.Contains(t, string(data), `"error"`)
		})
	}

	status, data := do(t, ts, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, decode[sessionResponse](t, data).Edits, "rejected edits leave the session untouched")
}

func TestSetSource(t *testing.T) {
	_, ts := newTestServer(t, false)
	sess := createSession(t, ts, "")
	path := "/sessions/" + sess.ID

	status, data := do(t, ts, http.MethodPut, path+"/sources/retv", `{"source": "custom"}`)
	require.Equal(t, http.StatusOK, status, string(data))

	status, data = do(t, ts, http.MethodPatch, path, `{"field": "enhancedEnergy.retv", "value": "16"}`)
	require.Equal(t, http.StatusOK, status, string(data))

	status, data = do(t, ts, http.MethodPut, path+"/sources/retv", `{"source": "preset"}`)
	require.Equal(t, http.StatusOK, status, string(data))
	assert.Equal(t, 20, decode[engine.Report](t, data).Total)

	status, _ = do(t, ts, http.MethodPut, path+"/sources/bogus", `{"source": "preset"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, ts, http.MethodPut, path+"/sources/retv", `{"source": "sd+"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, ts, http.MethodPut, "/sessions/nope/sources/retv", `{"source": "preset"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMetrics(t *testing.T) {
	_, ts := newTestServer(t, false)
	createSession(t, ts, "")
	do(t, ts, http.MethodGet, "/health", "")

	status, data := do(t, ts, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
	body := string(data)
	assert.Contains(t, body, `http_requests_total{route="health",status="200"} 1`)
	assert.Contains(t, body, "igbc_evaluations_total 1")
	assert.Contains(t, body, "igbc_sessions_active 1")
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.Evaluated(3)
	m.Edit("field", nil)
	m.SetSessions(2)

	rec := httptest.NewRecorder()
	m.WrapHandler("x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestAccessLogAndRecovery(t *testing.T) {
	var access bytes.Buffer
	s := New(engine.NewStore(nil), Options{AccessLog: &access})
	s.router.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, access.String(), "GET /health")

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListenAndServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	s := New(engine.NewStore(nil), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
