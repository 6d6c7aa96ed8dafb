// Package slack provides the Slack response payload types and the
// delivery sink that POSTs them to a response URL.
package slack

import "fmt"

// Message is a formatted Slack message as accepted by a slash-command
// response URL.
type Message struct {
	ResponseType string       `json:"response_type,omitempty"`
	Text         string       `json:"text"`
	Mrkdwn       bool         `json:"mrkdwn"`
	Attachments  []Attachment `json:"attachments,omitempty"`
}

// Attachment is a single text block of a message.
type Attachment struct {
	Text     string   `json:"text"`
	MrkdwnIn []string `json:"mrkdwn_in,omitempty"`
}

// ResponseTypeEphemeral makes the message visible only to the requesting
// user.
const ResponseTypeEphemeral = "ephemeral"

// UserToken renders a Slack user mention token.
func UserToken(id, name string) string {
	return fmt.Sprintf("<@%s|%s>", id, name)
}

// ChannelToken renders a Slack channel mention token.
func ChannelToken(id, name string) string {
	return fmt.Sprintf("<#%s|%s>", id, name)
}
