package db

import (
	"context"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/raphaelgruber/slackabout-go/internal/models"
)

// The statistics pipeline issues raw identifier strings taken from chat
// input. Every query here passes them as $vars, never splices them into
// the query text.

// countRow decodes a GROUP ALL count projection.
type countRow struct {
	Total int `json:"total"`
}

// nameRow decodes a single projected name.
type nameRow struct {
	Name string `json:"name"`
}

// QueryUserByName looks up a user vertex by its exact, case-sensitive name.
// Returns nil when no vertex matches. Names are unique by loader invariant;
// should the graph ever violate that, the first row wins.
func (c *Client) QueryUserByName(ctx context.Context, name string) (*models.UserVertex, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.UserVertex](ctx, c.db, `
		SELECT id, name, slack_id FROM user WHERE name = $name
	`, map[string]any{"name": name})
	c.observe(start, err)
	if err != nil {
		return nil, wrapQueryError("user lookup", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// QueryChannelByName looks up a channel vertex by its exact, case-sensitive
// name. Returns nil when no vertex matches.
func (c *Client) QueryChannelByName(ctx context.Context, name string) (*models.ChannelVertex, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.ChannelVertex](ctx, c.db, `
		SELECT id, name, slack_id FROM channel WHERE name = $name
	`, map[string]any{"name": name})
	c.observe(start, err)
	if err != nil {
		return nil, wrapQueryError("channel lookup", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// QueryKeywordsMatching returns all keyword vertices whose word contains
// needle. Callers lowercase and trim the needle at the boundary; stored
// words are lowercased by the loader, making the match case-insensitive.
func (c *Client) QueryKeywordsMatching(ctx context.Context, needle string) ([]models.KeywordVertex, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.KeywordVertex](ctx, c.db, `
		SELECT id, word FROM keyword WHERE string::contains(word, $needle)
	`, map[string]any{"needle": needle})
	c.observe(start, err)
	if err != nil {
		return nil, wrapQueryError("keyword lookup", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.KeywordVertex{}, nil
	}
	return (*results)[0].Result, nil
}

// QueryUserChannelCount returns the number of channels the user belongs to.
func (c *Client) QueryUserChannelCount(ctx context.Context, userID surrealmodels.RecordID) (int, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]countRow](ctx, c.db, `
		SELECT count() AS total FROM member_of WHERE in = $user GROUP ALL
	`, map[string]any{"user": userID})
	c.observe(start, err)
	if err != nil {
		return 0, wrapQueryError("user channel count", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Total, nil
}

// QueryUserTopChannels returns the top 5 channels the user is a member of,
// ordered by descending membership message count. Ties keep store order.
func (c *Client) QueryUserTopChannels(ctx context.Context, userID surrealmodels.RecordID) ([]models.ChannelActivity, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.ChannelActivity](ctx, c.db, `
		SELECT out.name AS name, message_count
		FROM member_of WHERE in = $user
		ORDER BY message_count DESC LIMIT 5
	`, map[string]any{"user": userID})
	c.observe(start, err)
	if err != nil {
		return nil, wrapQueryError("user top channels", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.ChannelActivity{}, nil
	}
	return (*results)[0].Result, nil
}

// QueryChannelMemberCount returns the number of distinct active members.
func (c *Client) QueryChannelMemberCount(ctx context.Context, channelID surrealmodels.RecordID) (int, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]countRow](ctx, c.db, `
		SELECT count() AS total FROM member_of WHERE out = $channel GROUP ALL
	`, map[string]any{"channel": channelID})
	c.observe(start, err)
	if err != nil {
		return 0, wrapQueryError("channel member count", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Total, nil
}

// QueryChannelTopMembers returns the names of the top 5 members of the
// channel by membership message count.
func (c *Client) QueryChannelTopMembers(ctx context.Context, channelID surrealmodels.RecordID) ([]string, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]nameRow](ctx, c.db, `
		SELECT in.name AS name, message_count
		FROM member_of WHERE out = $channel
		ORDER BY message_count DESC LIMIT 5
	`, map[string]any{"channel": channelID})
	c.observe(start, err)
	if err != nil {
		return nil, wrapQueryError("channel top members", err)
	}

	if results == nil || len(*results) == 0 {
		return []string{}, nil
	}

	names := make([]string, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		names = append(names, row.Name)
	}
	return names, nil
}

// QueryChannelMentionedIn returns, for each channel that mentions this one,
// the mentioning channel's name and its summed mention count, ordered by
// descending count. No limit: the aggregator needs the distinct total and
// truncates the display list itself.
func (c *Client) QueryChannelMentionedIn(ctx context.Context, channelID surrealmodels.RecordID) ([]models.MentionGroup, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.MentionGroup](ctx, c.db, `
		SELECT in.name AS name, math::sum(mention_count) AS total
		FROM mentions WHERE out = $channel
		GROUP BY name ORDER BY total DESC
	`, map[string]any{"channel": channelID})
	c.observe(start, err)
	if err != nil {
		return nil, wrapQueryError("channel mentioned-in", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.MentionGroup{}, nil
	}
	return (*results)[0].Result, nil
}

// QueryChannelMentions returns, for each channel mentioned by this one, the
// mentioned channel's name and its summed mention count, ordered by
// descending count.
func (c *Client) QueryChannelMentions(ctx context.Context, channelID surrealmodels.RecordID) ([]models.MentionGroup, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.MentionGroup](ctx, c.db, `
		SELECT out.name AS name, math::sum(mention_count) AS total
		FROM mentions WHERE in = $channel
		GROUP BY name ORDER BY total DESC
	`, map[string]any{"channel": channelID})
	c.observe(start, err)
	if err != nil {
		return nil, wrapQueryError("channel mentions", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.MentionGroup{}, nil
	}
	return (*results)[0].Result, nil
}

// QueryKeywordUsers returns the users that referenced any of the given
// keyword vertices. Rows may repeat a user across keywords; the aggregator
// deduplicates by Slack id.
func (c *Client) QueryKeywordUsers(ctx context.Context, keywordIDs []surrealmodels.RecordID) ([]models.PlatformRef, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.PlatformRef](ctx, c.db, `
		SELECT in.slack_id AS id, in.name AS name
		FROM mentions_keyword WHERE out IN $keywords
	`, map[string]any{"keywords": keywordIDs})
	c.observe(start, err)
	if err != nil {
		return nil, wrapQueryError("keyword users", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.PlatformRef{}, nil
	}
	return (*results)[0].Result, nil
}

// QueryKeywordChannels returns the channels any of the given keyword
// vertices appeared in.
func (c *Client) QueryKeywordChannels(ctx context.Context, keywordIDs []surrealmodels.RecordID) ([]models.PlatformRef, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.PlatformRef](ctx, c.db, `
		SELECT out.slack_id AS id, out.name AS name
		FROM used_in WHERE in IN $keywords
	`, map[string]any{"keywords": keywordIDs})
	c.observe(start, err)
	if err != nil {
		return nil, wrapQueryError("keyword channels", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.PlatformRef{}, nil
	}
	return (*results)[0].Result, nil
}
