// Package debugger coordinates remote-VM debugging: breakpoint management,
// attach, continue and backtraces. The server pushes debug events without
// call ids, so the controller keeps the last suspended thread id to address
// follow-up commands.
package debugger

import (
	"context"
	"fmt"
	"sync"

	"github.com/uber/ensime-client/src/ensime/controller/engine"
	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/gateway/editor"
	"github.com/uber/ensime-client/src/ensime/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_defaultHost = "localhost"
	_defaultPort = "5005"

	_backtraceFrameCount = 100
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Controller drives a debug session against a remote VM.
type Controller interface {
	engine.DebugHandler

	// SetBreak sets a breakpoint on the cursor line.
	SetBreak(ctx context.Context) error
	// ClearBreaks removes all breakpoints.
	ClearBreaks(ctx context.Context) error
	// Attach attaches to a VM. Empty hostname or port fall back to
	// localhost:5005.
	Attach(ctx context.Context, hostname string, port string) error
	// Continue resumes the last suspended thread.
	Continue(ctx context.Context) error
	// Backtrace requests a backtrace of the last suspended thread.
	Backtrace(ctx context.Context) error
}

// Params define values to be used by Controller.
type Params struct {
	fx.In

	Engine engine.Sender
	Editor editor.Editor
	Logger *zap.SugaredLogger
}

type breakpoint struct {
	file string
	line int
}

type controller struct {
	engine engine.Sender
	editor editor.Editor
	logger *zap.SugaredLogger

	mu       sync.Mutex
	threadID int64
	breaks   []breakpoint
}

// New creates a new debugger Controller.
func New(p Params) Controller {
	return &controller{
		engine: p.Engine,
		editor: p.Editor,
		logger: p.Logger,
	}
}

func (c *controller) SetBreak(ctx context.Context) error {
	path, err := c.editor.Path(ctx)
	if err != nil {
		return err
	}
	pos, err := c.editor.Cursor(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.breaks = append(c.breaks, breakpoint{file: path, line: pos.Row})
	c.mu.Unlock()

	c.engine.SendRequest(ctx, model.DebugSetBreakReq{
		Typehint:   "DebugSetBreakReq",
		File:       path,
		Line:       pos.Row,
		MaxResults: 0,
	}, nil)
	return c.editor.ShowMessage(ctx, fmt.Sprintf("Breakpoint set at %s:%d", path, pos.Row))
}

func (c *controller) ClearBreaks(ctx context.Context) error {
	c.mu.Lock()
	c.breaks = nil
	c.mu.Unlock()

	c.engine.SendRequest(ctx, model.DebugClearAllBreaksReq{
		Typehint: "DebugClearAllBreaksReq",
	}, nil)
	return c.editor.ShowMessage(ctx, "All breakpoints cleared")
}

// Attach connects to the VM and replays breakpoints set before attaching.
func (c *controller) Attach(ctx context.Context, hostname string, port string) error {
	if hostname == "" {
		hostname = _defaultHost
	}
	if port == "" {
		port = _defaultPort
	}

	c.engine.SendRequest(ctx, model.DebugAttachReq{
		Typehint: "DebugAttachReq",
		Hostname: hostname,
		Port:     port,
	}, nil)

	c.mu.Lock()
	breaks := make([]breakpoint, len(c.breaks))
	copy(breaks, c.breaks)
	c.mu.Unlock()
	for _, b := range breaks {
		c.engine.SendRequest(ctx, model.DebugSetBreakReq{
			Typehint: "DebugSetBreakReq",
			File:     b.file,
			Line:     b.line,
		}, nil)
	}

	return c.editor.ShowMessage(ctx, fmt.Sprintf("Attaching debugger to %s:%s", hostname, port))
}

func (c *controller) Continue(ctx context.Context) error {
	c.mu.Lock()
	threadID := c.threadID
	c.mu.Unlock()

	c.engine.SendRequest(ctx, model.DebugContinueReq{
		Typehint: "DebugContinueReq",
		ThreadID: threadID,
	}, nil)
	return nil
}

func (c *controller) Backtrace(ctx context.Context) error {
	c.mu.Lock()
	threadID := c.threadID
	c.mu.Unlock()

	c.engine.SendRequest(ctx, model.DebugBacktraceReq{
		Typehint: "DebugBacktraceReq",
		ThreadID: threadID,
		Index:    0,
		Count:    _backtraceFrameCount,
	}, nil)
	return nil
}

func (c *controller) HandleOutput(ctx context.Context, ev model.DebugOutputEvent) {
	if err := c.editor.ShowMessage(ctx, ev.Body); err != nil {
		c.logger.Warnw("editor message failed", "error", err)
	}
}

// HandleBreak records the suspended thread so Continue and Backtrace know who
// to address, then jumps the editor to the break site.
func (c *controller) HandleBreak(ctx context.Context, ev model.DebugBreakEvent) {
	c.mu.Lock()
	c.threadID = ev.ThreadID
	c.mu.Unlock()

	msg := fmt.Sprintf("Thread %d suspended at %s:%d", ev.ThreadID, ev.File, ev.Line)
	if err := c.editor.ShowMessage(ctx, msg); err != nil {
		c.logger.Warnw("editor message failed", "error", err)
	}
	if ev.File == "" {
		return
	}
	row := ev.Line
	if row < 1 {
		row = 1
	}
	if err := c.editor.GotoPosition(ctx, ev.File, entity.Position{Row: row}, ""); err != nil {
		c.logger.Warnw("jumping to break site failed", "error", err)
	}
}

func (c *controller) HandleBacktrace(ctx context.Context, ev model.DebugBacktrace) {
	var content string
	for _, frame := range ev.Frames {
		content += string(frame) + "\n"
	}
	if content == "" {
		content = fmt.Sprintf("No frames for thread %d", ev.ThreadID)
	}
	if err := c.editor.ShowPreview(ctx, content); err != nil {
		c.logger.Warnw("rendering backtrace failed", "error", err)
	}
}

func (c *controller) HandleVMDisconnect(ctx context.Context) {
	c.mu.Lock()
	c.threadID = 0
	c.mu.Unlock()

	if err := c.editor.ShowMessage(ctx, "Debug VM disconnected"); err != nil {
		c.logger.Warnw("editor message failed", "error", err)
	}
}
