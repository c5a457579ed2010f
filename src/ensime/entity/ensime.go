// Package entity contains the domain types shared across the ensime-client engine.
package entity

import (
	"github.com/gofrs/uuid"
)

type keyType string

// SessionContextKey indicates the key used to identify the session UUID in a context.
const SessionContextKey keyType = "SessionUUID"

// Server describes a running ENSIME analysis server that the engine can connect to.
// Implementations typically derive the address from the server's cache-dir port file.
type Server interface {
	// Address returns the websocket address of the server.
	Address() string
	// IsRunning reports whether the server is currently accepting connections.
	IsRunning() bool
}

// Session identifies a single client session against one server.
type Session struct {
	UUID       uuid.UUID `json:"uuid" zap:"uuid"`
	ProjectDir string    `json:"projectDir" zap:"projectDir"`
	CacheDir   string    `json:"cacheDir" zap:"cacheDir"`
}

// CallOptions carries caller-scoped metadata recorded against a call id when a
// request is issued, and read back by the handler of the matching response.
type CallOptions map[string]interface{}

// Bool returns the boolean stored under key, or false when absent or non-boolean.
func (o CallOptions) Bool(key string) bool {
	if o == nil {
		return false
	}
	v, ok := o[key].(bool)
	return ok && v
}

// String returns the string stored under key, or "" when absent or non-string.
func (o CallOptions) String(key string) string {
	if o == nil {
		return ""
	}
	s, _ := o[key].(string)
	return s
}

// RefactorRecord tracks one in-flight refactor request until its diff
// response is handled.
type RefactorRecord struct {
	ID   int
	File string
}

// Position is a 1-based row and 0-based column within an editor buffer.
type Position struct {
	Row int
	Col int
}

// Note is a single typecheck diagnostic reported by the server.
type Note struct {
	File     string `json:"file"`
	Message  string `json:"msg"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Beg      int    `json:"beg"`
	End      int    `json:"end"`
}
