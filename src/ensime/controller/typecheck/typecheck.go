// Package typecheck coordinates typecheck requests and the diagnostic events
// the server streams back. Notes arrive incrementally and are buffered so the
// editor always sees the full set for the current typecheck pass.
package typecheck

import (
	"context"
	"sync"

	"github.com/uber/ensime-client/src/ensime/controller/engine"
	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/gateway/editor"
	"github.com/uber/ensime-client/src/ensime/mapper"
	"github.com/uber/ensime-client/src/ensime/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Controller issues typecheck requests and renders the resulting diagnostics.
type Controller interface {
	engine.TypecheckHandler

	// TypecheckFile typechecks the current buffer's file.
	TypecheckFile(ctx context.Context) error
}

// Params define values to be used by Controller.
type Params struct {
	fx.In

	Engine engine.Sender
	Editor editor.Editor
	Logger *zap.SugaredLogger
}

type controller struct {
	engine engine.Sender
	editor editor.Editor
	logger *zap.SugaredLogger

	mu    sync.Mutex
	notes []entity.Note
}

// New creates a new typecheck Controller.
func New(p Params) Controller {
	return &controller{
		engine: p.Engine,
		editor: p.Editor,
		logger: p.Logger,
	}
}

func (c *controller) TypecheckFile(ctx context.Context) error {
	path, err := c.editor.Path(ctx)
	if err != nil {
		return err
	}
	if err := c.editor.SaveBuffer(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.notes = nil
	c.mu.Unlock()
	if err := c.editor.ClearNotes(ctx); err != nil {
		c.logger.Warnw("clearing notes failed", "error", err)
	}

	c.engine.SendRequest(ctx, model.TypecheckFilesReq{
		Typehint: "TypecheckFilesReq",
		Files:    []string{path},
	}, nil)
	return c.editor.ShowMessage(ctx, "Typechecking...")
}

// HandleNotes buffers an incremental batch and re-renders the full set.
func (c *controller) HandleNotes(ctx context.Context, ev model.NewScalaNotesEvent) {
	incoming := mapper.NotesToEntity(ev.Notes)

	c.mu.Lock()
	c.notes = append(c.notes, incoming...)
	all := make([]entity.Note, len(c.notes))
	copy(all, c.notes)
	c.mu.Unlock()

	if err := c.editor.ShowNotes(ctx, all); err != nil {
		c.logger.Warnw("rendering notes failed", "error", err)
	}
}

// HandleClearNotes resets the buffer at the start of a new typecheck pass.
func (c *controller) HandleClearNotes(ctx context.Context) {
	c.mu.Lock()
	c.notes = nil
	c.mu.Unlock()

	if err := c.editor.ClearNotes(ctx); err != nil {
		c.logger.Warnw("clearing notes failed", "error", err)
	}
}

func (c *controller) HandleTypecheckComplete(ctx context.Context) {
	c.mu.Lock()
	count := len(c.notes)
	c.mu.Unlock()

	msg := "Typecheck complete"
	if count > 0 {
		msg = "Typecheck complete with issues"
	}
	if err := c.editor.ShowMessage(ctx, msg); err != nil {
		c.logger.Warnw("editor message failed", "error", err)
	}
}
