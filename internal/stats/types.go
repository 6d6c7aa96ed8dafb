// Package stats implements the statistics-resolution pipeline: it resolves
// a raw identifier to a graph vertex, fans out the fixed statistic queries
// for that entity kind, and renders the merged result as a Slack message.
package stats

import (
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/raphaelgruber/slackabout-go/internal/models"
)

// Kind identifies which resolution and aggregation rules apply.
type Kind int

const (
	KindUser Kind = iota
	KindChannel
	KindKeyword
)

// String returns the lowercase kind name as used in log lines and
// acknowledgement texts.
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindChannel:
		return "channel"
	case KindKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// Title returns the capitalized kind name as used in user-facing messages.
func (k Kind) Title() string {
	switch k {
	case KindUser:
		return "User"
	case KindChannel:
		return "Channel"
	case KindKeyword:
		return "Keyword"
	default:
		return "Unknown"
	}
}

// Entity is the result of a successful resolution. It is owned by a single
// in-flight request and never persisted.
type Entity struct {
	Kind     Kind
	VertexID surrealmodels.RecordID
	Name     string
	SlackID  string

	// Matches is set for keyword entities only: a keyword may legitimately
	// match several vertices, unlike user and channel resolution.
	Matches []KeywordMatch
}

// KeywordMatch is one keyword vertex whose word contains the requested
// keyword.
type KeywordMatch struct {
	VertexID surrealmodels.RecordID
	Word     string
}

// maxTopEntries is the display length of every "top N" ranking.
const maxTopEntries = 5

// UserStats are the statistics collected for a user entity.
type UserStats struct {
	ChannelCount int
	TopChannels  []string
}

// MentionStats is a grouped mention ranking: the distinct number of
// counterpart channels and the display names of the top entries.
type MentionStats struct {
	Distinct int
	Top      []string
}

// ChannelStats are the statistics collected for a channel entity.
type ChannelStats struct {
	MemberCount int
	TopMembers  []string
	MentionedIn MentionStats
	Mentions    MentionStats
}

// KeywordStats are the statistics collected over the union of all matched
// keyword vertices. Both lists are deduplicated by Slack id and sorted by
// name.
type KeywordStats struct {
	Users    []models.PlatformRef
	Channels []models.PlatformRef
}

// StatRecord is the fixed-shape merge of one aggregation. Exactly one field
// is non-nil, matching the entity kind.
type StatRecord struct {
	User    *UserStats
	Channel *ChannelStats
	Keyword *KeywordStats
}
