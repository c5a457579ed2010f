// Package refactor coordinates server-side refactorings. A request carries a
// procedure id allocated here; the server writes a unified diff to disk and
// answers with its path, which is applied to the working tree with the
// external patch tool. Reject files land in the engine's per-session scratch
// directory.
package refactor

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	godiff "github.com/sourcegraph/go-diff/diff"
	"github.com/uber/ensime-client/src/ensime/controller/engine"
	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/gateway/editor"
	"github.com/uber/ensime-client/src/ensime/internal/executor"
	"github.com/uber/ensime-client/src/ensime/internal/fs"
	"github.com/uber/ensime-client/src/ensime/mapper"
	"github.com/uber/ensime-client/src/ensime/model"
	"github.com/uber/ensime-client/src/ensime/repository/refactors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Refactoring kinds whose diffs this controller knows how to apply.
var _supportedKinds = map[string]bool{
	"Rename":          true,
	"InlineLocal":     true,
	"AddImport":       true,
	"OrganizeImports": true,
	"OrganiseImports": true,
}

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Controller issues refactoring requests and applies the resulting diffs.
type Controller interface {
	engine.RefactorHandler

	// Rename renames the symbol under the cursor. An empty newName prompts
	// the user, pre-filled with the current word.
	Rename(ctx context.Context, newName string) error
	// InlineLocal inlines the local value under the cursor.
	InlineLocal(ctx context.Context) error
	// OrganizeImports reorganizes the current file's import section.
	OrganizeImports(ctx context.Context) error
	// AddImport adds an import to the current file, prompting when empty.
	AddImport(ctx context.Context, importName string) error
}

// Params define values to be used by Controller.
type Params struct {
	fx.In

	Engine   engine.Sender
	Editor   editor.Editor
	Executor executor.Executor
	FS       fs.ClientFS
	Records  refactors.Repository
	Logger   *zap.SugaredLogger
}

type controller struct {
	engine   engine.Sender
	editor   editor.Editor
	executor executor.Executor
	fs       fs.ClientFS
	records  refactors.Repository
	logger   *zap.SugaredLogger
}

// New creates a new refactor Controller.
func New(p Params) Controller {
	return &controller{
		engine:   p.Engine,
		editor:   p.Editor,
		executor: p.Executor,
		fs:       p.FS,
		records:  p.Records,
		logger:   p.Logger,
	}
}

func (c *controller) Rename(ctx context.Context, newName string) error {
	path, lines, pos, word, err := c.wordLocation(ctx)
	if err != nil {
		return err
	}
	if newName == "" {
		newName, err = c.editor.AskInput(ctx, "Rename to: ", word)
		if err != nil {
			return err
		}
		if newName == "" {
			return nil
		}
	}
	start := mapper.PositionToOffset(lines, pos)
	return c.request(ctx, path, map[string]interface{}{
		"typehint": "RenameRefactorDesc",
		"newName":  newName,
		"file":     path,
		"start":    start,
		"end":      start + len(word),
	})
}

func (c *controller) InlineLocal(ctx context.Context) error {
	path, lines, pos, word, err := c.wordLocation(ctx)
	if err != nil {
		return err
	}
	start := mapper.PositionToOffset(lines, pos)
	return c.request(ctx, path, map[string]interface{}{
		"typehint": "InlineLocalRefactorDesc",
		"file":     path,
		"start":    start,
		"end":      start + len(word),
	})
}

func (c *controller) OrganizeImports(ctx context.Context) error {
	path, err := c.editor.Path(ctx)
	if err != nil {
		return err
	}
	return c.request(ctx, path, map[string]interface{}{
		"typehint": "OrganiseImportsRefactorDesc",
		"file":     path,
	})
}

func (c *controller) AddImport(ctx context.Context, importName string) error {
	if importName == "" {
		var err error
		importName, err = c.editor.AskInput(ctx, "Qualified import name: ", "")
		if err != nil {
			return err
		}
		if importName == "" {
			return nil
		}
	}
	path, err := c.editor.Path(ctx)
	if err != nil {
		return err
	}
	return c.request(ctx, path, map[string]interface{}{
		"typehint":      "AddImportRefactorDesc",
		"qualifiedName": importName,
		"file":          path,
	})
}

func (c *controller) wordLocation(ctx context.Context) (path string, lines []string, pos entity.Position, word string, err error) {
	if path, err = c.editor.Path(ctx); err != nil {
		return
	}
	if lines, err = c.editor.Lines(ctx); err != nil {
		return
	}
	if pos, err = c.editor.Cursor(ctx); err != nil {
		return
	}
	word, err = c.editor.CurrentWord(ctx)
	return
}

// request saves the buffer, allocates a procedure id and sends the
// refactoring description. The server may otherwise work from stale file
// contents; the diff it returns applies against what is on disk.
func (c *controller) request(ctx context.Context, path string, params map[string]interface{}) error {
	if err := c.editor.SaveBuffer(ctx); err != nil {
		return err
	}
	rec := c.records.Begin(path)
	c.engine.SendRequest(ctx, model.RefactorReq{
		Typehint:    "RefactorReq",
		ProcID:      rec.ID,
		Params:      params,
		Interactive: false,
	}, nil)
	return nil
}

// HandleDiff applies the diff the server produced for a procedure. Whatever
// the outcome, the editor reloads its buffers: a partial or failed patch may
// still have touched files on disk.
func (c *controller) HandleDiff(ctx context.Context, ev model.RefactorDiffEffect) {
	kind := ev.RefactorType.Typehint
	if !_supportedKinds[kind] {
		c.logger.Warnw("unsupported refactoring kind", "kind", kind, "procId", ev.ProcedureID)
		return
	}
	rec, ok := c.records.Lookup(ev.ProcedureID)
	if !ok {
		c.logger.Warnw("diff for unknown procedure", "procId", ev.ProcedureID)
		return
	}

	c.apply(ctx, rec.File, ev.Diff)
	c.records.Finish(ev.ProcedureID)

	if err := c.editor.Reload(ctx); err != nil {
		c.logger.Warnw("buffer reload failed", "error", err)
	}
}

// apply patches target with the server-written diff file at diffPath.
func (c *controller) apply(ctx context.Context, target string, diffPath string) {
	scratch := c.engine.ScratchDir()

	// The diff file itself is only read for reporting; patch consumes the path.
	var fileDiffs []*godiff.FileDiff
	if data, err := c.fs.ReadFile(diffPath); err != nil {
		c.logger.Warnw("diff file not readable", "path", diffPath, "error", err)
	} else if parsed, err := godiff.ParseMultiFileDiff(data); err != nil {
		c.logger.Warnw("diff file not parseable", "path", diffPath, "error", err)
	} else {
		fileDiffs = parsed
	}

	rejectFile := filepath.Join(scratch, c.fs.Base(target)+".rej")
	cmd := exec.CommandContext(ctx, "patch",
		"--reject-file="+rejectFile,
		"--prefix="+scratch+string(filepath.Separator),
		target,
		diffPath,
	)
	stdout, stderr, exitCode, err := c.executor.Run(cmd)
	if err != nil || exitCode != 0 {
		c.logger.Warnw("patch failed",
			"exitCode", exitCode, "stdout", stdout, "stderr", stderr, "error", err)
		c.message(ctx, fmt.Sprintf("Refactoring did not apply cleanly; rejects in %s", rejectFile))
		return
	}

	files, hunks := diffStats(fileDiffs)
	c.logger.Infow("refactoring applied", "target", target, "files", files, "hunks", hunks)
	c.message(ctx, fmt.Sprintf("Refactoring applied: %d file(s), %d hunk(s)", files, hunks))
}

func (c *controller) message(ctx context.Context, msg string) {
	if err := c.editor.ShowMessage(ctx, msg); err != nil {
		c.logger.Warnw("editor message failed", "error", err)
	}
}

func diffStats(fileDiffs []*godiff.FileDiff) (files int, hunks int) {
	files = len(fileDiffs)
	for _, fd := range fileDiffs {
		hunks += len(fd.Hunks)
	}
	return files, hunks
}
