package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/mcq-platform/internal/auth"
	"github.com/gokatarajesh/mcq-platform/internal/logging"
	"github.com/gokatarajesh/mcq-platform/internal/mcq"
	"github.com/gokatarajesh/mcq-platform/internal/metrics"
	"github.com/gokatarajesh/mcq-platform/internal/timetable"
)

type emptyGateway struct{}

func (emptyGateway) GetQuestion(context.Context, string) (*mcq.Question, error) { return nil, nil }

func (emptyGateway) ListQuestions(context.Context, mcq.QuestionQuery) ([]mcq.Question, error) {
	return nil, nil
}

func newTestHandler(t *testing.T, pingers map[string]Pinger, authenticate func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	table, err := timetable.Load("")
	require.NoError(t, err)
	loc, err := mcq.ParseOffset(mcq.DefaultOffset)
	require.NoError(t, err)

	svc := mcq.NewService(emptyGateway{}, mcq.NewScheduleResolver(table, loc), mcq.NewListPager(mcq.DefaultPageSize),
		mcq.ServiceOptions{}, zerolog.Nop())
	handler := mcq.NewHTTPHandler(svc, metrics.NewHTTP(prometheus.NewRegistry()))
	return NewHandler(zerolog.Nop(), pingers, handler, authenticate)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPing(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	h := newTestHandler(t, map[string]Pinger{"postgres": ok, "redis": ok}, nil)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pong":true}`, rec.Body.String())

	h = newTestHandler(t, map[string]Pinger{"postgres": ok, "redis": down}, nil)
	rec = serve(h, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"upstream error","code":"upstream_error"}`, rec.Body.String())
}

func TestRequestIDIsAssignedAndEchoed(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, given)
	rec = serve(h, req)
	assert.Equal(t, given, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	rec = serve(h, req)
	assert.NotEqual(t, "not a uuid", rec.Header().Get(RequestIDHeader))
}

func TestRequestLoggerReachesHandlers(t *testing.T) {
	var got zerolog.Logger
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := serve(withRequestLogging(zerolog.New(nil), inner), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEqual(t, zerolog.Disabled, got.GetLevel())
}

func TestAPIRoutesRunBehindAuthentication(t *testing.T) {
	var seen []string
	authenticate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.URL.Path)
			ac := auth.Context{User: &auth.User{Code: "A1", Admin: true}, Elevated: true}
			next.ServeHTTP(w, r.WithContext(auth.IntoContext(r.Context(), ac)))
		})
	}
	h := newTestHandler(t, nil, authenticate)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/mcq-get/schedule?topic=anything", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Positive(t, body["schedule"])

	serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, []string{"/mcq-get/schedule"}, seen)
}

func TestUnknownAPIPath(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	for _, path := range []string{"/mcq-get/unknown", "/mcq-get"} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.JSONEq(t, `{"error":"Not found","code":"not_found"}`, rec.Body.String(), path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
