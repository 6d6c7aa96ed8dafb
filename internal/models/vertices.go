// Package models defines data structures for the Slack social graph.
package models

import (
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// UserVertex is the projection of a user vertex as stored in the graph.
// SlackID is the platform-native id used to build mention tokens.
type UserVertex struct {
	ID      surrealmodels.RecordID `json:"id"`
	Name    string                 `json:"name"`
	SlackID string                 `json:"slack_id"`
}

// ChannelVertex is the projection of a channel vertex.
type ChannelVertex struct {
	ID      surrealmodels.RecordID `json:"id"`
	Name    string                 `json:"name"`
	SlackID string                 `json:"slack_id"`
}

// KeywordVertex is the projection of a keyword vertex. Word is stored
// lowercased by the graph loader.
type KeywordVertex struct {
	ID   surrealmodels.RecordID `json:"id"`
	Word string                 `json:"word"`
}

// ChannelActivity is one row of a per-membership activity ranking:
// a channel name with the message count recorded on the membership edge.
type ChannelActivity struct {
	Name         string `json:"name"`
	MessageCount int    `json:"message_count"`
}

// MentionGroup is one row of a grouped mention ranking: a channel name
// with the summed mention count across all edges for that name.
type MentionGroup struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// PlatformRef identifies a user or channel by its Slack id and name.
// Deduplication of keyword statistics keys on ID, not on the vertex.
type PlatformRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
