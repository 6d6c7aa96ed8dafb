package stats

import (
	"context"
	"log/slog"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/raphaelgruber/slackabout-go/internal/metrics"
	"github.com/raphaelgruber/slackabout-go/internal/models"
	"github.com/raphaelgruber/slackabout-go/internal/slack"
)

// Gateway is the read-only graph query surface the pipeline depends on.
// *db.Client satisfies it. Calls may be slow and may fail; result ordering
// beyond an explicit ORDER BY must not be assumed.
type Gateway interface {
	QueryUserByName(ctx context.Context, name string) (*models.UserVertex, error)
	QueryChannelByName(ctx context.Context, name string) (*models.ChannelVertex, error)
	QueryKeywordsMatching(ctx context.Context, needle string) ([]models.KeywordVertex, error)

	QueryUserChannelCount(ctx context.Context, userID surrealmodels.RecordID) (int, error)
	QueryUserTopChannels(ctx context.Context, userID surrealmodels.RecordID) ([]models.ChannelActivity, error)

	QueryChannelMemberCount(ctx context.Context, channelID surrealmodels.RecordID) (int, error)
	QueryChannelTopMembers(ctx context.Context, channelID surrealmodels.RecordID) ([]string, error)
	QueryChannelMentionedIn(ctx context.Context, channelID surrealmodels.RecordID) ([]models.MentionGroup, error)
	QueryChannelMentions(ctx context.Context, channelID surrealmodels.RecordID) ([]models.MentionGroup, error)

	QueryKeywordUsers(ctx context.Context, keywordIDs []surrealmodels.RecordID) ([]models.PlatformRef, error)
	QueryKeywordChannels(ctx context.Context, keywordIDs []surrealmodels.RecordID) ([]models.PlatformRef, error)
}

// Sink delivers a formatted message to a callback URL.
type Sink interface {
	Post(ctx context.Context, url string, msg slack.Message) error
}

// Dependencies holds the shared services of the pipeline.
type Dependencies struct {
	Gateway Gateway
	Sink    Sink
	Logger  *slog.Logger
	Metrics *metrics.Collector
}
