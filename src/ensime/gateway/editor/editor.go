// Package editor is the outbound gateway to the hosting editor. Controllers
// never touch buffers or UI directly; they go through this interface so the
// engine stays editor-agnostic and tests can substitute a mock.
package editor

import (
	"context"

	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/mapper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Editor exposes the buffer, cursor and UI operations the engine needs from
// its hosting editor.
type Editor interface {
	// Path returns the file path of the current buffer.
	Path(ctx context.Context) (string, error)
	// Cursor returns the current cursor position.
	Cursor(ctx context.Context) (entity.Position, error)
	// SetCursor moves the cursor within the current buffer.
	SetCursor(ctx context.Context, pos entity.Position) error
	// Lines returns the lines of the current buffer.
	Lines(ctx context.Context) ([]string, error)
	// CurrentWord returns the word under the cursor.
	CurrentWord(ctx context.Context) (string, error)
	// SelectionRange returns the start and end of the visual selection.
	SelectionRange(ctx context.Context) (entity.Position, entity.Position, error)
	// SaveBuffer writes the current buffer to disk.
	SaveBuffer(ctx context.Context) error
	// AskInput prompts the user for a line of input.
	AskInput(ctx context.Context, prompt string, initial string) (string, error)
	// ShowMessage displays a one-line message in the editor's status area.
	ShowMessage(ctx context.Context, msg string) error
	// ShowPreview displays multi-line content in a scratch view.
	ShowPreview(ctx context.Context, content string) error
	// GotoPosition opens file and places the cursor at pos. split selects the
	// window to open it in: "", "split" or "vsplit".
	GotoPosition(ctx context.Context, file string, pos entity.Position, split string) error
	// Reload re-reads all open buffers from disk, discarding stale content.
	Reload(ctx context.Context) error
	// ShowNotes renders typecheck diagnostics in the editor.
	ShowNotes(ctx context.Context, notes []entity.Note) error
	// ClearNotes removes all rendered diagnostics.
	ClearNotes(ctx context.Context) error
}

// Params define values to be used by Editor.
type Params struct {
	fx.In

	Logger *zap.SugaredLogger
}

// headless is the default Editor used when the client runs without an editor
// attached. UI operations log and succeed, buffer queries return zero values.
type headless struct {
	logger *zap.SugaredLogger
}

// New creates a headless Editor.
func New(p Params) Editor {
	return &headless{logger: p.Logger}
}

// log attributes output to the calling session when the context carries one.
func (h *headless) log(ctx context.Context) *zap.SugaredLogger {
	if id, err := mapper.ContextToSessionUUID(ctx); err == nil {
		return h.logger.With("session", id.String())
	}
	return h.logger
}

func (h *headless) Path(ctx context.Context) (string, error) { return "", nil }

func (h *headless) Cursor(ctx context.Context) (entity.Position, error) {
	return entity.Position{Row: 1, Col: 0}, nil
}

func (h *headless) SetCursor(ctx context.Context, pos entity.Position) error {
	h.logger.Debugw("set cursor", "row", pos.Row, "col", pos.Col)
	return nil
}

func (h *headless) Lines(ctx context.Context) ([]string, error) { return nil, nil }

func (h *headless) CurrentWord(ctx context.Context) (string, error) { return "", nil }

func (h *headless) SelectionRange(ctx context.Context) (entity.Position, entity.Position, error) {
	return entity.Position{Row: 1}, entity.Position{Row: 1}, nil
}

func (h *headless) SaveBuffer(ctx context.Context) error { return nil }

func (h *headless) AskInput(ctx context.Context, prompt string, initial string) (string, error) {
	return initial, nil
}

func (h *headless) ShowMessage(ctx context.Context, msg string) error {
	h.log(ctx).Infow("editor message", "msg", msg)
	return nil
}

func (h *headless) ShowPreview(ctx context.Context, content string) error {
	h.log(ctx).Infow("editor preview", "content", content)
	return nil
}

func (h *headless) GotoPosition(ctx context.Context, file string, pos entity.Position, split string) error {
	h.log(ctx).Infow("goto", "file", file, "row", pos.Row, "col", pos.Col, "split", split)
	return nil
}

func (h *headless) Reload(ctx context.Context) error {
	h.logger.Debug("reload buffers")
	return nil
}

func (h *headless) ShowNotes(ctx context.Context, notes []entity.Note) error {
	for _, n := range notes {
		h.logger.Infow("note", "file", n.File, "line", n.Line, "severity", n.Severity, "msg", n.Message)
	}
	return nil
}

func (h *headless) ClearNotes(ctx context.Context) error { return nil }
