package audit

import (
	"context"
	"strings"

	"council/pkg/domain"
	dErrors "council/pkg/domain-errors"
	"council/pkg/requestcontext"
)

// Recorder builds well-formed audit entries. It is a pure constructor:
// persistence is the caller's responsibility. Timestamps come from the
// request clock so every entry produced within one command agrees with the
// record it narrates.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record validates the inputs and returns a fresh entry. Action and actor
// must be non-empty after trimming. The details map is copied so later
// mutation by the caller cannot reach the entry.
func (r *Recorder) Record(ctx context.Context, action Action, actor domain.Actor, details map[string]string) (Entry, error) {
	trimmedAction := Action(strings.TrimSpace(string(action)))
	if trimmedAction == "" {
		return Entry{}, dErrors.New(dErrors.CodeValidation, "audit action must be a non-empty string")
	}
	trimmedActor := domain.Actor(strings.TrimSpace(string(actor)))
	if trimmedActor == "" {
		return Entry{}, dErrors.New(dErrors.CodeValidation, "audit actor must be a non-empty string")
	}

	var copied map[string]string
	if details != nil {
		copied = make(map[string]string, len(details))
		for k, v := range details {
			copied[k] = v
		}
	}

	return Entry{
		ID:        domain.NewEntryID(),
		Timestamp: requestcontext.Now(ctx),
		Action:    trimmedAction,
		Actor:     trimmedActor,
		Details:   copied,
	}, nil
}
