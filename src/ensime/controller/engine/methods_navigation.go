package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/mapper"
	"github.com/uber/ensime-client/src/ensime/model"
)

// Call option keys consumed when the matching response arrives.
const (
	_optOpenDefinition = "openDefinition"
	_optSplit          = "split"
	_optBrowse         = "browse"
	_optWord           = "word"
	_optFalseMessage   = "falseMessage"
)

const (
	_symbolSearchMaxResults = 25
	_importMaxResults       = 10
)

// displayState holds user-toggleable presentation preferences.
type displayState struct {
	mu        sync.Mutex
	fullTypes bool
}

func (d *displayState) toggleFullTypes() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fullTypes = !d.fullTypes
	return d.fullTypes
}

func (d *displayState) showFullTypes() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fullTypes
}

// bufferLocation snapshots the editor state every location-bearing request needs.
func (e *engine) bufferLocation(ctx context.Context) (path string, lines []string, pos entity.Position, err error) {
	if path, err = e.editor.Path(ctx); err != nil {
		return
	}
	if lines, err = e.editor.Lines(ctx); err != nil {
		return
	}
	pos, err = e.editor.Cursor(ctx)
	return
}

func (e *engine) TypeAtPoint(ctx context.Context) error {
	path, lines, pos, err := e.bufferLocation(ctx)
	if err != nil {
		return err
	}
	beg, end, err := e.editor.SelectionRange(ctx)
	if err != nil {
		return err
	}
	if beg == end {
		beg, end = pos, pos
	}
	from, to := mapper.RangeToOffsets(lines, beg, end)

	e.SendRequest(ctx, model.AtPointReq{
		Typehint: "TypeAtPointReq",
		FileInfo: &model.FileInfo{File: path, Contents: strings.Join(lines, "\n")},
		Range:    &model.OffsetRange{From: from, To: to},
	}, nil)
	return nil
}

func (e *engine) ToggleFullTypes(ctx context.Context) error {
	if e.display.toggleFullTypes() {
		return e.editor.ShowMessage(ctx, "Showing fully-qualified types")
	}
	return e.editor.ShowMessage(ctx, "Showing short types")
}

func (e *engine) SymbolAtPoint(ctx context.Context) error {
	return e.symbolRequest(ctx, nil)
}

func (e *engine) OpenDeclaration(ctx context.Context, split string) error {
	return e.symbolRequest(ctx, entity.CallOptions{
		_optOpenDefinition: true,
		_optSplit:          split,
		_optFalseMessage:   "Couldn't find the declaration of the symbol under the cursor",
	})
}

func (e *engine) symbolRequest(ctx context.Context, opts entity.CallOptions) error {
	path, lines, pos, err := e.bufferLocation(ctx)
	if err != nil {
		return err
	}
	e.SendRequest(ctx, model.SymbolAtPointReq{
		Typehint: "SymbolAtPointReq",
		File:     path,
		Point:    mapper.PositionToOffset(lines, pos),
	}, opts)
	return nil
}

func (e *engine) Usages(ctx context.Context) error {
	path, lines, pos, err := e.bufferLocation(ctx)
	if err != nil {
		return err
	}
	word, err := e.editor.CurrentWord(ctx)
	if err != nil {
		return err
	}
	e.SendRequest(ctx, model.AtPointReq{
		Typehint: "UsesOfSymbolAtPointReq",
		File:     path,
		Point:    intPtr(mapper.PositionToOffset(lines, pos)),
	}, entity.CallOptions{
		_optWord:         word,
		_optFalseMessage: fmt.Sprintf("No usages of %q found", word),
	})
	return nil
}

func (e *engine) DocBrowse(ctx context.Context) error {
	path, lines, pos, err := e.bufferLocation(ctx)
	if err != nil {
		return err
	}
	e.SendRequest(ctx, model.AtPointReq{
		Typehint: "DocUriAtPointReq",
		File:     path,
		Point:    intPtr(mapper.PositionToOffset(lines, pos)),
	}, entity.CallOptions{
		_optBrowse:       true,
		_optFalseMessage: "No documentation found for the symbol under the cursor",
	})
	return nil
}

func (e *engine) InspectType(ctx context.Context) error {
	path, lines, pos, err := e.bufferLocation(ctx)
	if err != nil {
		return err
	}
	offset := mapper.PositionToOffset(lines, pos)
	e.SendRequest(ctx, model.AtPointReq{
		Typehint: "InspectTypeAtPointReq",
		File:     path,
		Range:    &model.OffsetRange{From: offset, To: offset},
	}, nil)
	return nil
}

func (e *engine) InspectPackage(ctx context.Context, path string) error {
	if path == "" {
		lines, err := e.editor.Lines(ctx)
		if err != nil {
			return err
		}
		path = packageFromLines(lines)
		if path == "" {
			return e.editor.ShowMessage(ctx, "No package declaration found in the current buffer")
		}
	}
	e.SendRequest(ctx, model.InspectPackageByPathReq{
		Typehint: "InspectPackageByPathReq",
		Path:     path,
	}, nil)
	return nil
}

func (e *engine) SymbolByName(ctx context.Context, typeName string, memberName string, split string) error {
	if typeName == "" {
		return e.editor.ShowMessage(ctx, "Symbol name required")
	}
	e.SendRequest(ctx, model.SymbolByNameReq{
		Typehint:     "SymbolByNameReq",
		TypeFullName: typeName,
		MemberName:   memberName,
	}, entity.CallOptions{
		_optOpenDefinition: true,
		_optSplit:          split,
		_optFalseMessage:   fmt.Sprintf("Symbol %q not found", typeName),
	})
	return nil
}

func (e *engine) SymbolSearch(ctx context.Context, terms []string) error {
	if len(terms) == 0 {
		return e.editor.ShowMessage(ctx, "Search term required")
	}
	if err := e.editor.ShowMessage(ctx, "Searching for "+strings.Join(terms, " ")); err != nil {
		return err
	}
	e.SendRequest(ctx, model.PublicSymbolSearchReq{
		Typehint:   "PublicSymbolSearchReq",
		Keywords:   terms,
		MaxResults: _symbolSearchMaxResults,
	}, nil)
	return nil
}

func (e *engine) SuggestImport(ctx context.Context) error {
	path, lines, pos, err := e.bufferLocation(ctx)
	if err != nil {
		return err
	}
	word, err := e.editor.CurrentWord(ctx)
	if err != nil {
		return err
	}
	e.SendRequest(ctx, model.ImportSuggestionsReq{
		Typehint:   "ImportSuggestionsReq",
		Point:      mapper.PositionToOffset(lines, pos),
		MaxResults: _importMaxResults,
		Names:      []string{word},
		File:       path,
	}, entity.CallOptions{
		_optWord:         word,
		_optFalseMessage: fmt.Sprintf("No import candidates for %q", word),
	})
	return nil
}

func (e *engine) handleSymbolInfo(ctx context.Context, ev model.SymbolInfo, opts entity.CallOptions) {
	if opts.Bool(_optOpenDefinition) {
		if ev.DeclPos == nil || ev.DeclPos.File == "" {
			e.showMessage(ctx, fmt.Sprintf("No declaration position for %s", ev.Name))
			return
		}
		pos, err := e.declPosition(*ev.DeclPos)
		if err != nil {
			e.logger.Warnw("resolving declaration position", "file", ev.DeclPos.File, "error", err)
			e.showMessage(ctx, fmt.Sprintf("No declaration position for %s", ev.Name))
			return
		}
		if err := e.editor.GotoPosition(ctx, ev.DeclPos.File, pos, opts.String(_optSplit)); err != nil {
			e.logger.Warnw("opening declaration failed", "file", ev.DeclPos.File, "error", err)
		}
		return
	}
	e.showMessage(ctx, fmt.Sprintf("%s: %s", ev.Name, ev.Type.Name))
}

// declPosition resolves a declaration position to a buffer position. Servers
// report either a line or an absolute character offset; offsets are converted
// against the file's on-disk contents.
func (e *engine) declPosition(d model.DeclPos) (entity.Position, error) {
	if d.Typehint == model.TypehintOffsetSourcePosition {
		data, err := e.fs.ReadFile(d.File)
		if err != nil {
			return entity.Position{}, err
		}
		return mapper.OffsetToPosition(strings.Split(string(data), "\n"), d.Offset), nil
	}
	row := d.Line
	if row < 1 {
		row = 1
	}
	return entity.Position{Row: row}, nil
}

func (e *engine) handleTypeInfo(ctx context.Context, ev model.BasicTypeInfo) {
	name := ev.Name
	if e.display.showFullTypes() && ev.FullName != "" {
		name = ev.FullName
	}
	e.showMessage(ctx, name)
}

func (e *engine) handleStringResponse(ctx context.Context, ev model.StringResponse, opts entity.CallOptions) {
	if opts.Bool(_optBrowse) {
		e.showMessage(ctx, "Documentation: "+ev.Text)
		return
	}
	e.showMessage(ctx, ev.Text)
}

func (e *engine) handleFalseResponse(ctx context.Context, opts entity.CallOptions) {
	msg := opts.String(_optFalseMessage)
	if msg == "" {
		msg = "Request failed"
	}
	e.showMessage(ctx, msg)
}

func (e *engine) handleImportSuggestions(ctx context.Context, ev model.ImportSuggestions, opts entity.CallOptions) {
	var names []string
	for _, list := range ev.SymLists {
		for _, sym := range list {
			names = append(names, sym.Name)
		}
	}
	if len(names) == 0 {
		e.handleFalseResponse(ctx, opts)
		return
	}
	header := "Import candidates"
	if word := opts.String(_optWord); word != "" {
		header = fmt.Sprintf("Import candidates for %s", word)
	}
	content := header + "\n" + strings.Join(names, "\n")
	if err := e.editor.ShowPreview(ctx, content); err != nil {
		e.logger.Warnw("showing import suggestions failed", "error", err)
	}
}

func (e *engine) handleSymbolSearch(ctx context.Context, ev model.SymbolSearchResults) {
	if len(ev.Syms) == 0 {
		e.showMessage(ctx, "No symbols found")
		return
	}
	var lines []string
	for _, sym := range ev.Syms {
		if sym.DeclPos != nil {
			lines = append(lines, fmt.Sprintf("%s\t%s:%d", sym.Name, sym.DeclPos.File, sym.DeclPos.Line))
		} else {
			lines = append(lines, sym.Name)
		}
	}
	if err := e.editor.ShowPreview(ctx, strings.Join(lines, "\n")); err != nil {
		e.logger.Warnw("showing symbol search results failed", "error", err)
	}
}

func (e *engine) handleSourcePositions(ctx context.Context, ev model.SourcePositions, opts entity.CallOptions) {
	if len(ev.Positions) == 0 {
		e.handleFalseResponse(ctx, opts)
		return
	}
	var lines []string
	for _, p := range ev.Positions {
		lines = append(lines, fmt.Sprintf("%s:%d", p.File, p.Line))
	}
	if err := e.editor.ShowPreview(ctx, strings.Join(lines, "\n")); err != nil {
		e.logger.Warnw("showing usages failed", "error", err)
	}
	first := ev.Positions[0]
	row := first.Line
	if row < 1 {
		row = 1
	}
	if err := e.editor.GotoPosition(ctx, first.File, entity.Position{Row: row}, ""); err != nil {
		e.logger.Warnw("jumping to first usage failed", "error", err)
	}
}

// packageFromLines extracts the dotted package path from a buffer's package
// declarations, joining nested package clauses in order.
func packageFromLines(lines []string) string {
	var parts []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "package "); ok {
			parts = append(parts, strings.TrimSpace(rest))
		}
	}
	return strings.Join(parts, ".")
}

func intPtr(v int) *int { return &v }
