package stats

import (
	"context"
	"sync"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/raphaelgruber/slackabout-go/internal/models"
	"github.com/raphaelgruber/slackabout-go/internal/slack"
)

// fakeGateway is a canned-response Gateway. Return values are set per
// query; errors override results. Calls are counted by query name so tests
// can assert exactly which queries ran.
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	user     *models.UserVertex
	userErr  error
	channel  *models.ChannelVertex
	chanErr  error
	keywords []models.KeywordVertex
	kwErr    error

	userChannelCount    int
	userChannelCountErr error
	userTopChannels     []models.ChannelActivity
	userTopChannelsErr  error

	channelMemberCount    int
	channelMemberCountErr error
	channelTopMembers     []string
	channelTopMembersErr  error
	channelMentionedIn    []models.MentionGroup
	channelMentionedInErr error
	channelMentions       []models.MentionGroup
	channelMentionsErr    error

	keywordUsers       []models.PlatformRef
	keywordUsersErr    error
	keywordChannels    []models.PlatformRef
	keywordChannelsErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: make(map[string]int)}
}

func (g *fakeGateway) record(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[name]++
}

func (g *fakeGateway) callCount(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

func (g *fakeGateway) totalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := 0
	for _, n := range g.calls {
		total += n
	}
	return total
}

func (g *fakeGateway) QueryUserByName(_ context.Context, _ string) (*models.UserVertex, error) {
	g.record("userByName")
	return g.user, g.userErr
}

func (g *fakeGateway) QueryChannelByName(_ context.Context, _ string) (*models.ChannelVertex, error) {
	g.record("channelByName")
	return g.channel, g.chanErr
}

func (g *fakeGateway) QueryKeywordsMatching(_ context.Context, _ string) ([]models.KeywordVertex, error) {
	g.record("keywordsMatching")
	return g.keywords, g.kwErr
}

func (g *fakeGateway) QueryUserChannelCount(_ context.Context, _ surrealmodels.RecordID) (int, error) {
	g.record("userChannelCount")
	return g.userChannelCount, g.userChannelCountErr
}

func (g *fakeGateway) QueryUserTopChannels(_ context.Context, _ surrealmodels.RecordID) ([]models.ChannelActivity, error) {
	g.record("userTopChannels")
	return g.userTopChannels, g.userTopChannelsErr
}

func (g *fakeGateway) QueryChannelMemberCount(_ context.Context, _ surrealmodels.RecordID) (int, error) {
	g.record("channelMemberCount")
	return g.channelMemberCount, g.channelMemberCountErr
}

func (g *fakeGateway) QueryChannelTopMembers(_ context.Context, _ surrealmodels.RecordID) ([]string, error) {
	g.record("channelTopMembers")
	return g.channelTopMembers, g.channelTopMembersErr
}

func (g *fakeGateway) QueryChannelMentionedIn(_ context.Context, _ surrealmodels.RecordID) ([]models.MentionGroup, error) {
	g.record("channelMentionedIn")
	return g.channelMentionedIn, g.channelMentionedInErr
}

func (g *fakeGateway) QueryChannelMentions(_ context.Context, _ surrealmodels.RecordID) ([]models.MentionGroup, error) {
	g.record("channelMentions")
	return g.channelMentions, g.channelMentionsErr
}

func (g *fakeGateway) QueryKeywordUsers(_ context.Context, _ []surrealmodels.RecordID) ([]models.PlatformRef, error) {
	g.record("keywordUsers")
	return g.keywordUsers, g.keywordUsersErr
}

func (g *fakeGateway) QueryKeywordChannels(_ context.Context, _ []surrealmodels.RecordID) ([]models.PlatformRef, error) {
	g.record("keywordChannels")
	return g.keywordChannels, g.keywordChannelsErr
}

// delivery is one captured sink call.
type delivery struct {
	url string
	msg slack.Message
}

// captureSink records every Post attempt on a channel so tests can wait
// for the background delivery without polling. A configured err is
// returned after recording the attempt.
type captureSink struct {
	err   error
	posts chan delivery
}

func newCaptureSink() *captureSink {
	return &captureSink{posts: make(chan delivery, 4)}
}

func (s *captureSink) Post(_ context.Context, url string, msg slack.Message) error {
	s.posts <- delivery{url: url, msg: msg}
	return s.err
}
