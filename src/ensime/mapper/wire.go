// Package mapper converts between wire-level models and domain entities.
package mapper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/model"
)

// ErrNoSessionUUID indicates that a context is missing the session UUID.
var ErrNoSessionUUID = errors.New("context does not contain a session UUID")

// ContextToSessionUUID extracts the session UUID from a context.
func ContextToSessionUUID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(entity.SessionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoSessionUUID
	}
	return id, nil
}

// PayloadTypehint extracts the typehint discriminator from a raw payload.
func PayloadTypehint(payload json.RawMessage) (string, error) {
	var probe model.PayloadProbe
	if err := json.Unmarshal(payload, &probe); err != nil {
		return "", fmt.Errorf("probing payload typehint: %w", err)
	}
	if probe.Typehint == "" {
		return "", errors.New("payload has no typehint")
	}
	return probe.Typehint, nil
}

// NoteToEntity flattens a wire note into its entity form.
func NoteToEntity(n model.Note) entity.Note {
	return entity.Note{
		File:     n.File,
		Message:  n.Message,
		Severity: n.Severity.Typehint,
		Line:     n.Line,
		Col:      n.Col,
		Beg:      n.Beg,
		End:      n.End,
	}
}

// NotesToEntity converts a batch of wire notes.
func NotesToEntity(notes []model.Note) []entity.Note {
	out := make([]entity.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteToEntity(n))
	}
	return out
}
