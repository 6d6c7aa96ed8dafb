package stats

import (
	"context"
	"fmt"
	"strings"
)

// Resolve validates raw and looks up the matching vertex (or vertices, for
// keywords) through the gateway. Validation failures are reported before
// any query is issued; exactly one query runs per resolution.
func Resolve(ctx context.Context, gateway Gateway, kind Kind, raw string) (*Entity, error) {
	if gateway == nil {
		return nil, &MissingInputError{Reason: "no graph gateway"}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, &MissingInputError{Reason: "empty identifier"}
	}

	switch kind {
	case KindUser:
		if len(strings.Fields(raw)) > 1 {
			return nil, &ValidationError{Kind: kind, Input: raw}
		}

		vertex, err := gateway.QueryUserByName(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("resolve user %q: %w", raw, err)
		}
		if vertex == nil {
			return nil, &NotFoundError{Kind: kind, Name: raw}
		}
		return &Entity{
			Kind:     kind,
			VertexID: vertex.ID,
			Name:     vertex.Name,
			SlackID:  vertex.SlackID,
		}, nil

	case KindChannel:
		if len(strings.Fields(raw)) > 1 {
			return nil, &ValidationError{Kind: kind, Input: raw}
		}

		vertex, err := gateway.QueryChannelByName(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("resolve channel %q: %w", raw, err)
		}
		if vertex == nil {
			return nil, &NotFoundError{Kind: kind, Name: raw}
		}
		return &Entity{
			Kind:     kind,
			VertexID: vertex.ID,
			Name:     vertex.Name,
			SlackID:  vertex.SlackID,
		}, nil

	case KindKeyword:
		needle := strings.ToLower(strings.TrimSpace(raw))

		vertices, err := gateway.QueryKeywordsMatching(ctx, needle)
		if err != nil {
			return nil, fmt.Errorf("resolve keyword %q: %w", needle, err)
		}
		if len(vertices) == 0 {
			return nil, &NotFoundError{Kind: kind, Name: needle}
		}

		matches := make([]KeywordMatch, 0, len(vertices))
		for _, v := range vertices {
			matches = append(matches, KeywordMatch{VertexID: v.ID, Word: v.Word})
		}
		return &Entity{
			Kind:    kind,
			Name:    needle,
			Matches: matches,
		}, nil

	default:
		return nil, &MissingInputError{Reason: fmt.Sprintf("unsupported entity kind %d", kind)}
	}
}
