package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/slackabout-go/internal/metrics"
	"github.com/raphaelgruber/slackabout-go/internal/stats"
)

const testToken = "shhh"

// fakeService records the last Collect call and returns a canned ack.
type fakeService struct {
	ack stats.Ack

	called      bool
	kind        stats.Kind
	raw         string
	responseURL string
}

func (s *fakeService) Collect(_ context.Context, kind stats.Kind, raw, responseURL string) stats.Ack {
	s.called = true
	s.kind = kind
	s.raw = raw
	s.responseURL = responseURL
	return s.ack
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postAsk(t *testing.T, handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleAsk_InvalidToken(t *testing.T) {
	service := &fakeService{}
	handler := New(service, testToken, testLogger(), nil).Handler()

	rec := postAsk(t, handler, url.Values{
		"token": {"wrong"},
		"text":  {"@alice"},
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Request denied. Invalid or missing API token.", rec.Body.String())
	assert.False(t, service.called)
}

func TestHandleAsk_MissingToken(t *testing.T) {
	service := &fakeService{}
	handler := New(service, testToken, testLogger(), nil).Handler()

	rec := postAsk(t, handler, url.Values{"text": {"@alice"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, service.called)
}

func TestHandleAsk_EmptyText(t *testing.T) {
	service := &fakeService{}
	handler := New(service, testToken, testLogger(), nil).Handler()

	for _, text := range []string{"", "   "} {
		rec := postAsk(t, handler, url.Values{
			"token": {testToken},
			"text":  {text},
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Specify @user, #channel or a keyword.", rec.Body.String())
	}
	assert.False(t, service.called)
}

func TestHandleAsk_Classification(t *testing.T) {
	tests := []struct {
		text     string
		wantKind stats.Kind
		wantRaw  string
	}{
		{"@alice", stats.KindUser, "alice"},
		{"#general", stats.KindChannel, "general"},
		{"docker", stats.KindKeyword, "docker"},
		{"machine learning", stats.KindKeyword, "machine learning"},
		{"  @alice  ", stats.KindUser, "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			service := &fakeService{ack: stats.Ack{Status: http.StatusOK, Text: "ok"}}
			handler := New(service, testToken, testLogger(), nil).Handler()

			postAsk(t, handler, url.Values{
				"token":        {testToken},
				"text":         {tt.text},
				"response_url": {"https://hooks.slack.test/respond/T1"},
			})

			require.True(t, service.called)
			assert.Equal(t, tt.wantKind, service.kind)
			assert.Equal(t, tt.wantRaw, service.raw)
			assert.Equal(t, "https://hooks.slack.test/respond/T1", service.responseURL)
		})
	}
}

func TestHandleAsk_AckPassthrough(t *testing.T) {
	tests := []struct {
		name string
		ack  stats.Ack
	}{
		{"accepted", stats.Ack{Status: http.StatusOK, Text: "Collecting information about user alice."}},
		{"validation", stats.Ack{Status: http.StatusBadRequest, Text: "Please specify only one Slack channel name."}},
		{"not found", stats.Ack{Status: http.StatusNotFound, Text: "Channel ghost is unknown."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeService{ack: tt.ack}
			handler := New(service, testToken, testLogger(), nil).Handler()

			rec := postAsk(t, handler, url.Values{
				"token": {testToken},
				"text":  {"@alice"},
			})

			assert.Equal(t, tt.ack.Status, rec.Code)
			assert.Equal(t, tt.ack.Text, rec.Body.String())
		})
	}
}

func TestHandleAsk_MethodRouting(t *testing.T) {
	handler := New(&fakeService{}, testToken, testLogger(), nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/ask", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	handler := New(&fakeService{}, testToken, testLogger(), nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestHandleStats(t *testing.T) {
	collector := metrics.NewCollector()
	collector.RecordTiming(metrics.OpResolve, 0)
	handler := New(&fakeService{}, testToken, testLogger(), collector).Handler()

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Contains(t, snapshot, "resolve")
}
