package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/uber/ensime-client/src/ensime/mapper"
	"github.com/uber/ensime-client/src/ensime/model"
)

const _completionMaxResults = 100

// completionState buffers completion candidates between the request and the
// editor's follow-up call for results.
type completionState struct {
	mu          sync.Mutex
	active      bool
	suggestions []model.CompletionInfo
}

func (c *completionState) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
	c.suggestions = nil
}

func (c *completionState) fill(suggestions []model.CompletionInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.suggestions = suggestions
}

func (c *completionState) take() []model.CompletionInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.suggestions
	c.active = false
	c.suggestions = nil
	return out
}

// CompletionBegin snapshots the current buffer and requests completions at
// the cursor. The full buffer contents travel with the request so the server
// sees unsaved edits.
func (e *engine) CompletionBegin(ctx context.Context) error {
	path, err := e.editor.Path(ctx)
	if err != nil {
		return err
	}
	pos, err := e.editor.Cursor(ctx)
	if err != nil {
		return err
	}
	lines, err := e.editor.Lines(ctx)
	if err != nil {
		return err
	}

	e.completion.begin()
	e.SendRequest(ctx, model.CompletionsReq{
		Typehint:   "CompletionsReq",
		Point:      mapper.PositionToOffset(lines, pos),
		MaxResults: _completionMaxResults,
		CaseSens:   true,
		FileInfo:   model.FileInfo{File: path, Contents: strings.Join(lines, "\n")},
		Reload:     false,
	}, nil)
	return nil
}

// CompletionResults waits for the response to the last CompletionBegin and
// returns the buffered candidates. A drain timeout yields an empty result,
// never an error; stale results are discarded with the state reset.
func (e *engine) CompletionResults(ctx context.Context) []model.CompletionInfo {
	e.Drain(ctx, e.cfg.completionTimeout(), true)
	return e.completion.take()
}

func (e *engine) handleCompletionList(ctx context.Context, ev model.CompletionInfoList) {
	e.completion.fill(ev.Completions)
}
