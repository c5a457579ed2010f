// Package model contains the wire-level representation of ENSIME messages.
package model

import "encoding/json"

// Typehint values for inbound payloads handled by the engine.
const (
	TypehintConnectionInfo          = "ConnectionInfo"
	TypehintCompletionInfoList      = "CompletionInfoList"
	TypehintNewScalaNotesEvent      = "NewScalaNotesEvent"
	TypehintClearAllScalaNotesEvent = "ClearAllScalaNotesEvent"
	TypehintFullTypeCheckComplete   = "FullTypeCheckCompleteEvent"
	TypehintIndexerReadyEvent       = "IndexerReadyEvent"
	TypehintAnalyzerReadyEvent      = "AnalyzerReadyEvent"
	TypehintSendBackgroundMessage   = "SendBackgroundMessageEvent"
	TypehintRefactorDiffEffect      = "RefactorDiffEffect"
	TypehintDebugOutputEvent        = "DebugOutputEvent"
	TypehintDebugBreakEvent         = "DebugBreakEvent"
	TypehintDebugBacktrace          = "DebugBacktrace"
	TypehintDebugVMStartEvent       = "DebugVMStartEvent"
	TypehintDebugVMDisconnectEvent  = "DebugVMDisconnectEvent"
	TypehintDebugVMError            = "DebugVMError"
	TypehintSymbolInfo              = "SymbolInfo"
	TypehintBasicTypeInfo           = "BasicTypeInfo"
	TypehintArrowTypeInfo           = "ArrowTypeInfo"
	TypehintStringResponse          = "StringResponse"
	TypehintFalseResponse           = "FalseResponse"
	TypehintTrueResponse            = "TrueResponse"
	TypehintVoidResponse            = "VoidResponse"
	TypehintImportSuggestions       = "ImportSuggestions"
	TypehintSymbolSearchResults     = "SymbolSearchResults"
	TypehintSourcePositions         = "SourcePositions"
)

// Typehint values discriminating declaration positions inside payloads.
const (
	TypehintLineSourcePosition   = "LineSourcePosition"
	TypehintOffsetSourcePosition = "OffsetSourcePosition"
)

// Envelope is the outer structure of every outbound request.
type Envelope struct {
	CallID int             `json:"callId"`
	Req    json.RawMessage `json:"req"`
}

// Inbound is the outer structure of every inbound message. Both fields are
// optional on the wire: server-pushed events omit callId, and keepalive frames
// may omit the payload entirely.
type Inbound struct {
	CallID  *int            `json:"callId"`
	Payload json.RawMessage `json:"payload"`
}

// PayloadProbe extracts only the typehint discriminator from a payload.
type PayloadProbe struct {
	Typehint string `json:"typehint"`
}

// FileInfo is the fileInfo fragment carrying a path plus full buffer contents.
type FileInfo struct {
	File     string `json:"file"`
	Contents string `json:"contents"`
}

// OffsetRange is a from/to pair of absolute character offsets.
type OffsetRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ConnectionInfoReq is the handshake request sent immediately after connect.
type ConnectionInfoReq struct {
	Typehint string `json:"typehint"`
}

// NewConnectionInfoReq builds the handshake request.
func NewConnectionInfoReq() ConnectionInfoReq {
	return ConnectionInfoReq{Typehint: "ConnectionInfoReq"}
}

// CompletionsReq asks for completions at an absolute offset.
type CompletionsReq struct {
	Typehint   string   `json:"typehint"`
	Point      int      `json:"point"`
	MaxResults int      `json:"maxResults"`
	CaseSens   bool     `json:"caseSens"`
	FileInfo   FileInfo `json:"fileInfo"`
	Reload     bool     `json:"reload"`
}

// TypecheckFilesReq asks the server to typecheck a set of files.
type TypecheckFilesReq struct {
	Typehint string   `json:"typehint"`
	Files    []string `json:"files"`
}

// AtPointReq is the generic shape of <What>AtPointReq requests that operate on
// a file location. Where is either "point" or "range" depending on the request.
type AtPointReq struct {
	Typehint string       `json:"typehint"`
	File     string       `json:"file,omitempty"`
	FileInfo *FileInfo    `json:"fileInfo,omitempty"`
	Point    *int         `json:"point,omitempty"`
	Range    *OffsetRange `json:"range,omitempty"`
}

// SymbolAtPointReq locates the symbol at an offset.
type SymbolAtPointReq struct {
	Typehint string `json:"typehint"`
	File     string `json:"file"`
	Point    int    `json:"point"`
}

// SymbolByNameReq looks up a symbol by fully-qualified name.
type SymbolByNameReq struct {
	Typehint     string `json:"typehint"`
	TypeFullName string `json:"typeFullName"`
	MemberName   string `json:"memberName,omitempty"`
}

// ImportSuggestionsReq asks for import candidates for names at an offset.
type ImportSuggestionsReq struct {
	Typehint   string   `json:"typehint"`
	Point      int      `json:"point"`
	MaxResults int      `json:"maxResults"`
	Names      []string `json:"names"`
	File       string   `json:"file"`
}

// PublicSymbolSearchReq searches symbols matching a set of keywords.
type PublicSymbolSearchReq struct {
	Typehint   string   `json:"typehint"`
	Keywords   []string `json:"keywords"`
	MaxResults int      `json:"maxResults"`
}

// InspectPackageByPathReq inspects a package by its dotted path.
type InspectPackageByPathReq struct {
	Typehint string `json:"typehint"`
	Path     string `json:"path"`
}

// RefactorReq wraps a refactor description with its monotonic procId.
type RefactorReq struct {
	Typehint    string                 `json:"typehint"`
	ProcID      int                    `json:"procId"`
	Params      map[string]interface{} `json:"params"`
	Interactive bool                   `json:"interactive"`
}

// DebugSetBreakReq sets a breakpoint on a line.
type DebugSetBreakReq struct {
	Typehint   string `json:"typehint"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	MaxResults int    `json:"maxResults"`
}

// DebugClearAllBreaksReq removes all breakpoints.
type DebugClearAllBreaksReq struct {
	Typehint string `json:"typehint"`
}

// DebugAttachReq attaches the debugger to a remote VM.
type DebugAttachReq struct {
	Typehint string `json:"typehint"`
	Hostname string `json:"hostname"`
	Port     string `json:"port"`
}

// DebugContinueReq resumes a suspended thread.
type DebugContinueReq struct {
	Typehint string `json:"typehint"`
	ThreadID int64  `json:"threadId"`
}

// DebugBacktraceReq requests a backtrace for a thread.
type DebugBacktraceReq struct {
	Typehint string `json:"typehint"`
	ThreadID int64  `json:"threadId"`
	Index    int    `json:"index"`
	Count    int    `json:"count"`
}
