package stats

import (
	"context"
	"fmt"
	"sort"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"golang.org/x/sync/errgroup"

	"github.com/raphaelgruber/slackabout-go/internal/models"
)

// Aggregate runs the fixed statistic query set for the entity's kind in
// parallel and merges the results into a single record. The policy is
// all-or-nothing: if any query fails, the whole aggregation fails and no
// record is produced. Ties within a ranking keep the order the store
// returned them in.
func Aggregate(ctx context.Context, gateway Gateway, entity *Entity) (*StatRecord, error) {
	if gateway == nil || entity == nil {
		return nil, &MissingInputError{Reason: "no gateway or entity"}
	}

	switch entity.Kind {
	case KindUser:
		userStats, err := aggregateUser(ctx, gateway, entity)
		if err != nil {
			return nil, err
		}
		return &StatRecord{User: userStats}, nil
	case KindChannel:
		channelStats, err := aggregateChannel(ctx, gateway, entity)
		if err != nil {
			return nil, err
		}
		return &StatRecord{Channel: channelStats}, nil
	case KindKeyword:
		keywordStats, err := aggregateKeyword(ctx, gateway, entity)
		if err != nil {
			return nil, err
		}
		return &StatRecord{Keyword: keywordStats}, nil
	default:
		return nil, &MissingInputError{Reason: fmt.Sprintf("unsupported entity kind %d", entity.Kind)}
	}
}

// aggregateUser collects channel membership count and the top channels by
// membership activity. The two queries run concurrently and each writes a
// distinct field of the result.
func aggregateUser(ctx context.Context, gateway Gateway, entity *Entity) (*UserStats, error) {
	var stats UserStats

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		count, err := gateway.QueryUserChannelCount(ctx, entity.VertexID)
		if err != nil {
			return fmt.Errorf("channel count for user %s: %w", entity.Name, err)
		}
		stats.ChannelCount = count
		return nil
	})

	group.Go(func() error {
		rows, err := gateway.QueryUserTopChannels(ctx, entity.VertexID)
		if err != nil {
			return fmt.Errorf("top channels for user %s: %w", entity.Name, err)
		}
		names := make([]string, 0, len(rows))
		for _, row := range rows {
			names = append(names, row.Name)
		}
		stats.TopChannels = truncateTop(names)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// aggregateChannel collects the four channel statistics concurrently:
// member count, most active members, channels mentioning this one and
// channels mentioned by this one.
func aggregateChannel(ctx context.Context, gateway Gateway, entity *Entity) (*ChannelStats, error) {
	var stats ChannelStats

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		count, err := gateway.QueryChannelMemberCount(ctx, entity.VertexID)
		if err != nil {
			return fmt.Errorf("member count for channel %s: %w", entity.Name, err)
		}
		stats.MemberCount = count
		return nil
	})

	group.Go(func() error {
		names, err := gateway.QueryChannelTopMembers(ctx, entity.VertexID)
		if err != nil {
			return fmt.Errorf("top members for channel %s: %w", entity.Name, err)
		}
		stats.TopMembers = truncateTop(names)
		return nil
	})

	group.Go(func() error {
		groups, err := gateway.QueryChannelMentionedIn(ctx, entity.VertexID)
		if err != nil {
			return fmt.Errorf("mentioned-in for channel %s: %w", entity.Name, err)
		}
		stats.MentionedIn = mentionStats(groups)
		return nil
	})

	group.Go(func() error {
		groups, err := gateway.QueryChannelMentions(ctx, entity.VertexID)
		if err != nil {
			return fmt.Errorf("mentions for channel %s: %w", entity.Name, err)
		}
		stats.Mentions = mentionStats(groups)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// aggregateKeyword collects the users and channels referencing any of the
// matched keyword vertices. Both queries run over the union of all matched
// vertex ids; their results are deduplicated by Slack id and sorted by name.
func aggregateKeyword(ctx context.Context, gateway Gateway, entity *Entity) (*KeywordStats, error) {
	ids := make([]surrealmodels.RecordID, 0, len(entity.Matches))
	for _, match := range entity.Matches {
		ids = append(ids, match.VertexID)
	}

	var stats KeywordStats

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		refs, err := gateway.QueryKeywordUsers(ctx, ids)
		if err != nil {
			return fmt.Errorf("users for keyword %s: %w", entity.Name, err)
		}
		stats.Users = dedupeSorted(refs)
		return nil
	})

	group.Go(func() error {
		refs, err := gateway.QueryKeywordChannels(ctx, ids)
		if err != nil {
			return fmt.Errorf("channels for keyword %s: %w", entity.Name, err)
		}
		stats.Channels = dedupeSorted(refs)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// mentionStats truncates a grouped mention ranking for display while
// keeping the distinct counterpart count over the full result.
func mentionStats(groups []models.MentionGroup) MentionStats {
	names := make([]string, 0, len(groups))
	for _, group := range groups {
		names = append(names, group.Name)
	}
	return MentionStats{
		Distinct: len(groups),
		Top:      truncateTop(names),
	}
}

// truncateTop limits a ranked name list to the display length, preserving
// the order rows were returned in.
func truncateTop(names []string) []string {
	if len(names) > maxTopEntries {
		return names[:maxTopEntries]
	}
	return names
}

// dedupeSorted keeps the first occurrence per Slack id and sorts the
// result by name. Multiple keyword vertices may reference the same user or
// channel, so the dedup key is the platform id, not the vertex.
func dedupeSorted(refs []models.PlatformRef) []models.PlatformRef {
	seen := make(map[string]bool, len(refs))
	out := make([]models.PlatformRef, 0, len(refs))
	for _, ref := range refs {
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		out = append(out, ref)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
