package model

import "encoding/json"

// ConnectionInfo is the handshake response payload.
type ConnectionInfo struct {
	Typehint       string `json:"typehint"`
	Implementation struct {
		Name string `json:"name"`
	} `json:"implementation"`
	Version string `json:"version"`
}

// CompletionInfo is a single completion candidate.
type CompletionInfo struct {
	Name     string `json:"name"`
	TypeInfo *struct {
		Name string `json:"name"`
	} `json:"typeInfo,omitempty"`
	RelevanceScore int  `json:"relevanceScore"`
	IsCallable     bool `json:"isCallable"`
}

// CompletionInfoList is the response payload for CompletionsReq.
type CompletionInfoList struct {
	Typehint    string           `json:"typehint"`
	Prefix      string           `json:"prefix"`
	Completions []CompletionInfo `json:"completions"`
}

// NoteList carries a batch of typecheck notes.
type NoteList struct {
	Notes []json.RawMessage `json:"notes"`
}

// NewScalaNotesEvent carries incremental typecheck diagnostics.
type NewScalaNotesEvent struct {
	Typehint string `json:"typehint"`
	IsFull   bool   `json:"isFull"`
	Notes    []Note `json:"notes"`
}

// Note mirrors entity.Note on the wire.
type Note struct {
	File    string `json:"file"`
	Message string `json:"msg"`
	Severity struct {
		Typehint string `json:"typehint"`
	} `json:"severity"`
	Line int `json:"line"`
	Col  int `json:"col"`
	Beg  int `json:"beg"`
	End  int `json:"end"`
}

// SendBackgroundMessageEvent is a free-form status message from the server.
type SendBackgroundMessageEvent struct {
	Typehint string `json:"typehint"`
	Code     int    `json:"code"`
	Detail   string `json:"detail"`
}

// RefactorDiffEffect is the response to a RefactorReq. Diff is the path of a
// unified diff file the server wrote to disk, not the diff contents.
type RefactorDiffEffect struct {
	Typehint    string `json:"typehint"`
	ProcedureID int    `json:"procedureId"`
	RefactorType struct {
		Typehint string `json:"typehint"`
	} `json:"refactorType"`
	Diff string `json:"diff"`
}

// DeclPos is a declaration position, either line- or offset-based.
type DeclPos struct {
	Typehint string `json:"typehint"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Offset   int    `json:"offset"`
}

// SymbolInfo is the response payload for SymbolAtPointReq and SymbolByNameReq.
type SymbolInfo struct {
	Typehint string `json:"typehint"`
	Name     string `json:"name"`
	Type     struct {
		Name     string `json:"name"`
		FullName string `json:"fullName"`
	} `json:"type"`
	DeclPos *DeclPos `json:"declPos,omitempty"`
}

// BasicTypeInfo is the response payload for type inspections.
type BasicTypeInfo struct {
	Typehint string `json:"typehint"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
}

// StringResponse carries a single string result, e.g. a doc URI.
type StringResponse struct {
	Typehint string `json:"typehint"`
	Text     string `json:"text"`
}

// ImportSuggestions is the response payload for ImportSuggestionsReq.
type ImportSuggestions struct {
	Typehint string `json:"typehint"`
	SymLists [][]struct {
		Name string `json:"name"`
	} `json:"symLists"`
}

// SymbolSearchResults is the response payload for PublicSymbolSearchReq.
type SymbolSearchResults struct {
	Typehint string `json:"typehint"`
	Syms     []struct {
		Name    string   `json:"name"`
		DeclPos *DeclPos `json:"pos,omitempty"`
	} `json:"syms"`
}

// SourcePositions lists usage sites of a symbol.
type SourcePositions struct {
	Typehint string `json:"typehint"`
	Positions []struct {
		File   string `json:"file"`
		Offset int    `json:"offset"`
		Line   int    `json:"line"`
	} `json:"positions"`
}

// DebugOutputEvent carries debuggee output.
type DebugOutputEvent struct {
	Typehint string `json:"typehint"`
	Body     string `json:"body"`
}

// DebugBreakEvent reports a suspended thread at a breakpoint.
type DebugBreakEvent struct {
	Typehint string `json:"typehint"`
	ThreadID int64  `json:"threadId"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// DebugBacktrace is the response payload for DebugBacktraceReq.
type DebugBacktrace struct {
	Typehint string            `json:"typehint"`
	Frames   []json.RawMessage `json:"frames"`
	ThreadID int64             `json:"threadId"`
}
