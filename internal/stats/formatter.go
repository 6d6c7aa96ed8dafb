package stats

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/slackabout-go/internal/models"
	"github.com/raphaelgruber/slackabout-go/internal/slack"
)

// Format renders a statistics record as a Slack message. It is a pure
// function: the same entity and record always produce the same message.
// Block order is fixed per kind and does not depend on which query
// finished first.
func Format(entity *Entity, record *StatRecord) (slack.Message, error) {
	switch {
	case entity == nil || record == nil:
		return slack.Message{}, fmt.Errorf("format: nil entity or record")
	case entity.Kind == KindUser && record.User != nil:
		return FormatUserStats(entity.Name, *record.User), nil
	case entity.Kind == KindChannel && record.Channel != nil:
		return FormatChannelStats(entity.Name, *record.Channel), nil
	case entity.Kind == KindKeyword && record.Keyword != nil:
		return FormatKeywordStats(entity.Name, *record.Keyword), nil
	default:
		return slack.Message{}, fmt.Errorf("format: record does not match %s entity", entity.Kind)
	}
}

// FormatUserStats renders the user summary: membership count first, then
// the top channels by activity.
func FormatUserStats(name string, stats UserStats) slack.Message {
	return slack.Message{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("Statistics for user *%s*.", name),
		Mrkdwn:       true,
		Attachments: []slack.Attachment{
			{
				Text:     fmt.Sprintf("Member in %d channels.", stats.ChannelCount),
				MrkdwnIn: []string{"text"},
			},
			{
				Text:     "Most active in " + joinSigil("#", stats.TopChannels),
				MrkdwnIn: []string{"text"},
			},
		},
	}
}

// FormatChannelStats renders the channel summary in fixed block order:
// total members, most active members, mentioned-in, mentions. The distinct
// mention counts are collected but not displayed.
func FormatChannelStats(name string, stats ChannelStats) slack.Message {
	return slack.Message{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("Statistics for channel *%s*.", name),
		Mrkdwn:       true,
		Attachments: []slack.Attachment{
			{
				Text:     fmt.Sprintf("Total members: %d", stats.MemberCount),
				MrkdwnIn: []string{"text"},
			},
			{
				Text:     "Most active members: " + joinSigil("@", stats.TopMembers),
				MrkdwnIn: []string{"text"},
			},
			{
				Text:     "Most frequently mentioned in: " + joinSigil("#", stats.MentionedIn.Top),
				MrkdwnIn: []string{"text"},
			},
			{
				Text:     "Most frequently mentioned: " + joinSigil("#", stats.Mentions.Top),
				MrkdwnIn: []string{"text"},
			},
		},
	}
}

// FormatKeywordStats renders the keyword summary as a single block: the
// keyword plus the mentioning users and channels as platform mention
// tokens.
func FormatKeywordStats(keyword string, stats KeywordStats) slack.Message {
	return slack.Message{
		ResponseType: slack.ResponseTypeEphemeral,
		Text: fmt.Sprintf("Statistics for keyword *%s*\nMentioned by these users: %s\nMentioned in these channels: %s",
			keyword,
			joinTokens(stats.Users, slack.UserToken),
			joinTokens(stats.Channels, slack.ChannelToken)),
		Mrkdwn: true,
	}
}

// joinSigil prefixes each name with a sigil and joins with ", ". An empty
// list renders as an empty string, not an omitted block.
func joinSigil(sigil string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, sigil+name)
	}
	return strings.Join(parts, ", ")
}

// joinTokens renders refs as mention tokens joined with ", ".
func joinTokens(refs []models.PlatformRef, token func(id, name string) string) string {
	if len(refs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		parts = append(parts, token(ref.ID, ref.Name))
	}
	return strings.Join(parts, ", ")
}
