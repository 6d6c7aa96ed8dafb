package stats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/slackabout-go/internal/metrics"
	"github.com/raphaelgruber/slackabout-go/internal/models"
	"github.com/raphaelgruber/slackabout-go/internal/slack"
)

const testResponseURL = "https://hooks.slack.test/respond/T1"

func newTestCollector(gw *fakeGateway, sink *captureSink) *Collector {
	return NewCollector(Dependencies{
		Gateway: gw,
		Sink:    sink,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: metrics.NewCollector(),
	}, time.Second, time.Second)
}

func awaitDelivery(t *testing.T, sink *captureSink) delivery {
	t.Helper()
	select {
	case d := <-sink.posts:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery within deadline")
		return delivery{}
	}
}

func assertNoDelivery(t *testing.T, sink *captureSink) {
	t.Helper()
	select {
	case d := <-sink.posts:
		t.Fatalf("unexpected delivery: %+v", d)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCollect_UserHappyPath(t *testing.T) {
	gw := newFakeGateway()
	gw.user = &models.UserVertex{
		ID:      models.NewRecordID("user", "alice"),
		Name:    "alice",
		SlackID: "U123",
	}
	gw.userChannelCount = 3
	gw.userTopChannels = []models.ChannelActivity{
		{Name: "general", MessageCount: 120},
		{Name: "dev", MessageCount: 40},
	}
	sink := newCaptureSink()
	collector := newTestCollector(gw, sink)

	ack := collector.Collect(context.Background(), KindUser, "alice", testResponseURL)

	assert.Equal(t, http.StatusOK, ack.Status)
	assert.Equal(t, "Collecting information about user alice.", ack.Text)

	got := awaitDelivery(t, sink)
	assert.Equal(t, testResponseURL, got.url)
	assert.Equal(t, "Statistics for user *alice*.", got.msg.Text)
	require.Len(t, got.msg.Attachments, 2)
	assert.Equal(t, "Member in 3 channels.", got.msg.Attachments[0].Text)
	assert.Equal(t, "Most active in #general, #dev", got.msg.Attachments[1].Text)
}

func TestCollect_ValidationRejected(t *testing.T) {
	gw := newFakeGateway()
	sink := newCaptureSink()
	collector := newTestCollector(gw, sink)

	ack := collector.Collect(context.Background(), KindChannel, "eng team", testResponseURL)

	assert.Equal(t, http.StatusBadRequest, ack.Status)
	assert.Equal(t, "Please specify only one Slack channel name.", ack.Text)
	assert.Equal(t, 0, gw.totalCalls())
	assertNoDelivery(t, sink)
}

func TestCollect_NotFound(t *testing.T) {
	gw := newFakeGateway()
	sink := newCaptureSink()
	collector := newTestCollector(gw, sink)

	ack := collector.Collect(context.Background(), KindChannel, "ghost", testResponseURL)

	assert.Equal(t, http.StatusNotFound, ack.Status)
	assert.Equal(t, "Channel ghost is unknown.", ack.Text)
	assertNoDelivery(t, sink)
}

func TestCollect_MissingResponseURL(t *testing.T) {
	gw := newFakeGateway()
	sink := newCaptureSink()
	collector := newTestCollector(gw, sink)

	ack := collector.Collect(context.Background(), KindUser, "alice", "")

	assert.Equal(t, http.StatusInternalServerError, ack.Status)
	assert.Equal(t, "The statistics service cannot process this request: missing input.", ack.Text)
	assert.Equal(t, 0, gw.totalCalls())
}

func TestCollect_AggregationFailureDeliversNothing(t *testing.T) {
	gw := newFakeGateway()
	gw.user = &models.UserVertex{
		ID:   models.NewRecordID("user", "alice"),
		Name: "alice",
	}
	gw.userTopChannelsErr = errors.New("boom")
	sink := newCaptureSink()
	collector := newTestCollector(gw, sink)

	// The acknowledgement has already gone out when aggregation runs, so
	// the failure surfaces only as an absent follow-up.
	ack := collector.Collect(context.Background(), KindUser, "alice", testResponseURL)
	assert.Equal(t, http.StatusOK, ack.Status)
	assertNoDelivery(t, sink)
}

func TestCollect_DeliveryFailureIsSwallowed(t *testing.T) {
	gw := newFakeGateway()
	gw.user = &models.UserVertex{
		ID:   models.NewRecordID("user", "alice"),
		Name: "alice",
	}
	sink := newCaptureSink()
	sink.err = errors.New("connection refused")
	collector := newTestCollector(gw, sink)

	ack := collector.Collect(context.Background(), KindUser, "alice", testResponseURL)
	assert.Equal(t, http.StatusOK, ack.Status)

	// Exactly one attempt, no retry.
	awaitDelivery(t, sink)
	assertNoDelivery(t, sink)
}

func TestCollect_SurvivesRequestCancellation(t *testing.T) {
	gw := newFakeGateway()
	gw.user = &models.UserVertex{
		ID:   models.NewRecordID("user", "alice"),
		Name: "alice",
	}
	gw.userChannelCount = 1
	sink := newCaptureSink()
	collector := newTestCollector(gw, sink)

	ctx, cancel := context.WithCancel(context.Background())
	ack := collector.Collect(ctx, KindUser, "alice", testResponseURL)
	cancel()

	// The background continuation is detached from the request context.
	assert.Equal(t, http.StatusOK, ack.Status)
	awaitDelivery(t, sink)
}

func TestCollect_DeliversOverHTTP(t *testing.T) {
	gw := newFakeGateway()
	gw.channel = &models.ChannelVertex{
		ID:      models.NewRecordID("channel", "general"),
		Name:    "general",
		SlackID: "C042",
	}
	gw.channelMemberCount = 17
	gw.channelTopMembers = []string{"alice", "bob"}

	received := make(chan slack.Message, 1)
	callback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg slack.Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		received <- msg
		w.WriteHeader(http.StatusOK)
	}))
	defer callback.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := NewCollector(Dependencies{
		Gateway: gw,
		Sink:    slack.NewSender(time.Second, logger),
		Logger:  logger,
		Metrics: metrics.NewCollector(),
	}, time.Second, time.Second)

	ack := collector.Collect(context.Background(), KindChannel, "general", callback.URL)
	assert.Equal(t, http.StatusOK, ack.Status)
	assert.Equal(t, "Collecting information about channel general.", ack.Text)

	select {
	case msg := <-received:
		assert.Equal(t, slack.ResponseTypeEphemeral, msg.ResponseType)
		assert.Equal(t, "Statistics for channel *general*.", msg.Text)
		require.Len(t, msg.Attachments, 4)
		assert.Equal(t, "Total members: 17", msg.Attachments[0].Text)
		assert.Equal(t, "Most active members: @alice, @bob", msg.Attachments[1].Text)
	case <-time.After(2 * time.Second):
		t.Fatal("callback endpoint never received the message")
	}
}

func TestSummarize(t *testing.T) {
	gw := newFakeGateway()
	gw.channel = &models.ChannelVertex{
		ID:      models.NewRecordID("channel", "general"),
		Name:    "general",
		SlackID: "C042",
	}
	gw.channelMemberCount = 17
	collector := newTestCollector(gw, newCaptureSink())

	msg, err := collector.Summarize(context.Background(), KindChannel, "general")
	require.NoError(t, err)
	assert.Equal(t, "Statistics for channel *general*.", msg.Text)
	require.Len(t, msg.Attachments, 4)
	assert.Equal(t, "Total members: 17", msg.Attachments[0].Text)
}

func TestSummarize_PropagatesErrors(t *testing.T) {
	gw := newFakeGateway()
	collector := newTestCollector(gw, newCaptureSink())

	_, err := collector.Summarize(context.Background(), KindUser, "ghost")
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}
