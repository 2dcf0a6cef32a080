package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bastiangx/wordgraph/pkg/config"
	"github.com/bastiangx/wordgraph/pkg/engine"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestEngine() *engine.Engine {
	return engine.New(engine.WithLogger(quietLogger()))
}

func newTestHTTPServer(t *testing.T, cfg *config.Config) (*HTTPServer, *engine.Engine) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.Server.RateLimit = 0
	}
	eng := newTestEngine()
	return NewHTTPServer(eng, cfg, NewMetrics(eng), quietLogger()), eng
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeChat(t *testing.T, rec *httptest.ResponseRecorder) ChatReply {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reply ChatReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	return reply
}

func TestChatConversation(t *testing.T) {
	srv, _ := newTestHTTPServer(t, nil)
	h := srv.Handler()

	first := decodeChat(t, do(t, h, http.MethodPost, "/chat", `{"message": "the quick fox"}`))
	assert.Equal(t, ChatReply{
		TopWords:     "the, quick, fox",
		LastWord:     "fox",
		Suggestions:  "fox",
		NextWord:     "None",
		RelatedWords: "None",
	}, first)

	decodeChat(t, do(t, h, http.MethodPost, "/chat", `{"message": "the quick dog"}`))

	third := decodeChat(t, do(t, h, http.MethodPost, "/chat", `{"message": "the"}`))
	assert.Equal(t, "the, quick, fox", third.TopWords)
	assert.Equal(t, "the", third.LastWord)
	assert.Equal(t, "quick", third.NextWord)
	assert.Equal(t, "quick", third.RelatedWords)

	fourth := decodeChat(t, do(t, h, http.MethodPost, "/chat", `{"message": "quick"}`))
	assert.Equal(t, "fox, dog", fourth.RelatedWords)
	assert.Equal(t, "fox", fourth.NextWord)
}

func TestChatRejectsEmptyInput(t *testing.T) {
	srv, eng := newTestHTTPServer(t, nil)
	h := srv.Handler()

	testCases := []struct {
		name    string
		body    string
		message string
	}{
		{"empty message", `{"message": ""}`, "No input provided"},
		{"missing field", `{}`, "No input provided"},
		{"not json", `hello`, "invalid request: body must be JSON with a message field"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/chat", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tc.message, errResp.Error)
			assert.Equal(t, http.StatusBadRequest, errResp.Status)
		})
	}
	assert.Zero(t, eng.Stats().Sentences)
}

func TestChatWhitespaceReportsTopWords(t *testing.T) {
	srv, eng := newTestHTTPServer(t, nil)
	h := srv.Handler()
	decodeChat(t, do(t, h, http.MethodPost, "/chat", `{"message": "a b"}`))

	reply := decodeChat(t, do(t, h, http.MethodPost, "/chat", `{"message": "   "}`))
	assert.Equal(t, ChatReply{
		TopWords:     "a, b",
		LastWord:     "",
		Suggestions:  "a, b",
		NextWord:     "None",
		RelatedWords: "None",
	}, reply)
	assert.Equal(t, 1, eng.Stats().Sentences)
}

func TestCompleteEndpoint(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.RateLimit = 0
	cfg.Server.MaxPrefix = 4
	cfg.Server.MaxLimit = 2
	srv, eng := newTestHTTPServer(t, cfg)
	eng.Ingest("quick quiet quick quilt quiver")
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/complete?prefix=qu&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var reply CompleteReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "qu", reply.Prefix)
	require.Len(t, reply.Suggestions, 1)
	assert.Equal(t, "quick", reply.Suggestions[0].Word)
	assert.Equal(t, 2, reply.Suggestions[0].Frequency)

	rec = do(t, h, http.MethodGet, "/complete?prefix=qu&limit=50", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, 2, reply.Count, "limit is capped by max_limit")

	for _, target := range []string{
		"/complete",
		"/complete?prefix=quilts",
		"/complete?prefix=qu&limit=many",
	} {
		rec := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	srv, _ := newTestHTTPServer(t, nil)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestStatsAndMetrics(t *testing.T) {
	srv, _ := newTestHTTPServer(t, nil)
	h := srv.Handler()
	do(t, h, http.MethodPost, "/chat", `{"message": "a b a"}`)

	rec := do(t, h, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats engine.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Sentences)
	assert.Equal(t, 3, stats.Tokens)
	assert.Equal(t, 2, stats.DistinctWords)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `wordgraph_requests_total{action="/chat",code="200",transport="http"} 1`)
	assert.Contains(t, body, "wordgraph_ingested_tokens_total 3")
	assert.Contains(t, body, "wordgraph_engine_distinct_words 2")

	families, err := srv.metrics.Registry().Gather()
	require.NoError(t, err)
	tokens := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				tokens[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 3.0, tokens["wordgraph_ingested_tokens_total"])
	assert.GreaterOrEqual(t, tokens["wordgraph_requests_total"], 3.0)
}

func TestRateLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.RateLimit = 0.001
	cfg.Server.Burst = 1
	srv, _ := newTestHTTPServer(t, cfg)
	h := srv.Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/stats", "").Code)
	limited := do(t, h, http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)

	relaxed := config.DefaultConfig()
	relaxed.Server.RateLimit = 0
	srv.UpdateConfig(relaxed)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/stats", "").Code)
}

func TestUpdateConfigTopWords(t *testing.T) {
	srv, _ := newTestHTTPServer(t, nil)
	h := srv.Handler()

	cfg := config.DefaultConfig()
	cfg.Server.RateLimit = 0
	cfg.Engine.TopWords = 1
	cfg.CLI.Placeholder = "-"
	srv.UpdateConfig(cfg)

	reply := decodeChat(t, do(t, h, http.MethodPost, "/chat", `{"message": "a b"}`))
	assert.Equal(t, "a", reply.TopWords)
	assert.Equal(t, "-", reply.NextWord)
}

type panicEngine struct {
	*engine.Engine
}

func (panicEngine) Stats() engine.Stats {
	panic("boom")
}

func TestRecoveryMiddleware(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.RateLimit = 0
	srv := NewHTTPServer(panicEngine{newTestEngine()}, cfg, nil, quietLogger())

	rec := do(t, srv.Handler(), http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error","status":500}`, rec.Body.String())

	rec = do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormatReplyPlaceholders(t *testing.T) {
	got := FormatReply(engine.Reply{NextWord: "", HasNext: false}, "None")
	assert.Equal(t, ChatReply{
		TopWords:     "None",
		LastWord:     "",
		Suggestions:  "None",
		NextWord:     "None",
		RelatedWords: "None",
	}, got)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusCode(nil))
	assert.Equal(t, http.StatusBadRequest, StatusCode(ErrEmptyMessage))
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(ErrRateLimited))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(bytes.ErrTooLarge))
}
