package stats

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports malformed input: a user or channel name that
// contains more than one token. It is returned before any gateway query
// is issued.
type ValidationError struct {
	Kind  Kind
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s name %q must be a single token", e.Kind, e.Input)
}

// NotFoundError reports that no vertex matched the requested identifier.
type NotFoundError struct {
	Kind Kind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q is unknown", e.Kind, e.Name)
}

// MissingInputError reports a violated internal precondition (no gateway,
// no callback URL, empty identifier). It indicates a caller or bootstrap
// bug, not a user error.
type MissingInputError struct {
	Reason string
}

func (e *MissingInputError) Error() string {
	return "missing input: " + e.Reason
}

// Ack is the synchronous acknowledgement returned to the HTTP layer.
type Ack struct {
	Status int
	Text   string
}

// AckForError maps a pipeline error to the acknowledgement sent back to
// Slack. Errors during aggregation or delivery never reach this: the
// acknowledgement has already been sent by then.
func AckForError(err error) Ack {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return Ack{
			Status: http.StatusBadRequest,
			Text:   fmt.Sprintf("Please specify only one Slack %s name.", validationErr.Kind),
		}
	}

	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return Ack{
			Status: http.StatusNotFound,
			Text:   fmt.Sprintf("%s %s is unknown.", notFoundErr.Kind.Title(), notFoundErr.Name),
		}
	}

	var missingErr *MissingInputError
	if errors.As(err, &missingErr) {
		return Ack{
			Status: http.StatusInternalServerError,
			Text:   "The statistics service cannot process this request: missing input.",
		}
	}

	return Ack{
		Status: http.StatusInternalServerError,
		Text:   "Activity summary cannot be created.",
	}
}
