// Package engine is the connection and dispatch core of the client. It owns
// the websocket session, the call id sequence, the inbound message queue and
// the typehint dispatch table. Feature coordinators register themselves after
// construction and receive the payloads they handle.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally/v4"
	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/gateway/editor"
	"github.com/uber/ensime-client/src/ensime/internal/clock"
	"github.com/uber/ensime-client/src/ensime/internal/fs"
	"github.com/uber/ensime-client/src/ensime/internal/queue"
	"github.com/uber/ensime-client/src/ensime/internal/socket"
	"github.com/uber/ensime-client/src/ensime/internal/wire"
	"github.com/uber/ensime-client/src/ensime/model"
	"github.com/uber/ensime-client/src/ensime/repository/calls"
	uberconfig "go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKey = "ensime"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Config holds the engine knobs loaded from the "ensime" config section.
// Intervals are plain millisecond integers, which YAML can express directly.
type Config struct {
	// Protocol selects the wire variant, "v1" or "v2".
	Protocol string `yaml:"protocol"`
	// SendRetries is the connection retry budget for the session.
	SendRetries int `yaml:"sendRetries"`
	// ConnectPollMs is how long the receive loop sleeps while disconnected.
	ConnectPollMs int `yaml:"connectPollMs"`
	// CompletionTimeoutMs bounds the wait for completion results.
	CompletionTimeoutMs int `yaml:"completionTimeoutMs"`
	// DrainTimeoutMs bounds inter-message silence during a drain.
	DrainTimeoutMs int `yaml:"drainTimeoutMs"`
	// DrainPollMs is the sleep between polls of an empty queue.
	DrainPollMs int `yaml:"drainPollMs"`
	// ScratchPrefix names the per-session scratch directory.
	ScratchPrefix string `yaml:"scratchPrefix"`
	// CacheDir is the server cache directory holding the port file. Empty
	// means the session starts disconnected and connects on demand.
	CacheDir string `yaml:"cacheDir"`
}

func (c Config) connectPoll() time.Duration {
	return time.Duration(c.ConnectPollMs) * time.Millisecond
}

func (c Config) completionTimeout() time.Duration {
	return time.Duration(c.CompletionTimeoutMs) * time.Millisecond
}

func (c Config) drainTimeout() time.Duration {
	return time.Duration(c.DrainTimeoutMs) * time.Millisecond
}

func (c Config) drainPoll() time.Duration {
	return time.Duration(c.DrainPollMs) * time.Millisecond
}

// TypecheckHandler receives typecheck-related payloads.
type TypecheckHandler interface {
	HandleNotes(ctx context.Context, ev model.NewScalaNotesEvent)
	HandleClearNotes(ctx context.Context)
	HandleTypecheckComplete(ctx context.Context)
}

// DebugHandler receives debugger-related payloads.
type DebugHandler interface {
	HandleOutput(ctx context.Context, ev model.DebugOutputEvent)
	HandleBreak(ctx context.Context, ev model.DebugBreakEvent)
	HandleBacktrace(ctx context.Context, ev model.DebugBacktrace)
	HandleVMDisconnect(ctx context.Context)
}

// RefactorHandler receives refactoring payloads.
type RefactorHandler interface {
	HandleDiff(ctx context.Context, ev model.RefactorDiffEffect)
}

// Sender is the request-issuing surface the feature coordinators depend on.
type Sender interface {
	// SendRequest assigns a call id, records opts against it when non-nil,
	// and sends the enveloped request. The call id is returned either way.
	SendRequest(ctx context.Context, req interface{}, opts entity.CallOptions) int
	// ScratchDir is the per-session directory for transient artifacts such as
	// refactoring diffs. Removed on Teardown.
	ScratchDir() string
}

// Engine drives one client session against an analysis server.
type Engine interface {
	Sender

	// Connect establishes the websocket session. Already-connected sessions
	// are left alone unless force is set. Failures surface as editor warnings,
	// not errors; IsConnected reports the outcome.
	Connect(ctx context.Context, server entity.Server, force bool)
	// Disconnect closes the connection. Safe to call repeatedly.
	Disconnect()
	// Teardown stops the session and removes its scratch directory.
	Teardown(ctx context.Context)
	// IsConnected reports whether a connection is currently established.
	IsConnected() bool

	// Drain dispatches queued inbound messages. See drain.go for semantics.
	Drain(ctx context.Context, timeout time.Duration, waitForFirst bool)

	// RegisterHandlers attaches the feature coordinators. Called once during
	// app startup, after all controllers are constructed.
	RegisterHandlers(t TypecheckHandler, d DebugHandler, r RefactorHandler)

	// CompletionBegin requests completions at the cursor.
	CompletionBegin(ctx context.Context) error
	// CompletionResults waits for and returns buffered completion candidates.
	CompletionResults(ctx context.Context) []model.CompletionInfo

	// TypeAtPoint shows the type of the symbol or selection at the cursor.
	TypeAtPoint(ctx context.Context) error
	// ToggleFullTypes switches type display between short and fully-qualified.
	ToggleFullTypes(ctx context.Context) error
	// SymbolAtPoint shows information about the symbol at the cursor.
	SymbolAtPoint(ctx context.Context) error
	// OpenDeclaration jumps to the declaration of the symbol at the cursor.
	// split may be "", "split" or "vsplit".
	OpenDeclaration(ctx context.Context, split string) error
	// Usages lists the usage sites of the symbol at the cursor.
	Usages(ctx context.Context) error
	// DocBrowse requests the documentation URI for the symbol at the cursor.
	DocBrowse(ctx context.Context) error
	// InspectType inspects the type at the cursor.
	InspectType(ctx context.Context) error
	// InspectPackage inspects the given package, or the current buffer's
	// package when path is empty.
	InspectPackage(ctx context.Context, path string) error
	// SymbolByName looks up a symbol by fully-qualified name.
	SymbolByName(ctx context.Context, typeName string, memberName string, split string) error
	// SymbolSearch searches public symbols matching the given terms.
	SymbolSearch(ctx context.Context, terms []string) error
	// SuggestImport asks for import candidates for the word at the cursor.
	SuggestImport(ctx context.Context) error
}

// Params define values to be used by Engine.
type Params struct {
	fx.In

	Config uberconfig.Provider
	Logger *zap.SugaredLogger
	Stats  tally.Scope
	Clock  clock.Clock
	Dialer socket.Dialer
	Editor editor.Editor
	FS     fs.ClientFS
	Calls  calls.Repository
}

type engine struct {
	session entity.Session
	cfg     Config
	codec   wire.Codec

	logger *zap.SugaredLogger
	clock  clock.Clock
	dialer socket.Dialer
	editor editor.Editor
	fs     fs.ClientFS
	calls  calls.Repository

	queue      *queue.Queue
	state      *sessionState
	completion completionState
	display    displayState

	typecheck TypecheckHandler
	debug     DebugHandler
	refactor  RefactorHandler

	scratchDir string
	metrics    metrics
}

type metrics struct {
	enqueued       tally.Counter
	dispatched     tally.Counter
	drainTimeouts  tally.Counter
	reconnects     tally.Counter
	unknownPayload tally.Counter
}

// New creates a new Engine.
func New(p Params) (Engine, error) {
	cfg := Config{
		Protocol:            "v2",
		SendRetries:         6,
		ConnectPollMs:       500,
		CompletionTimeoutMs: 10000,
		DrainTimeoutMs:      30000,
		DrainPollMs:         250,
		ScratchPrefix:       "ensime-client",
	}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}

	var codec wire.Codec
	switch cfg.Protocol {
	case "v1":
		codec = wire.NewV1()
	case "v2":
		codec = wire.NewV2()
	default:
		return nil, fmt.Errorf("unknown protocol variant %q", cfg.Protocol)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generating session uuid: %w", err)
	}

	scratch, err := p.FS.ScratchDir(cfg.ScratchPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}

	scope := p.Stats.SubScope("engine")
	e := &engine{
		session:    entity.Session{UUID: id, CacheDir: cfg.CacheDir},
		cfg:        cfg,
		codec:      codec,
		logger:     p.Logger.With("session", id.String()),
		clock:      p.Clock,
		dialer:     p.Dialer,
		editor:     p.Editor,
		fs:         p.FS,
		calls:      p.Calls,
		queue:      queue.New(),
		state:      newSessionState(cfg.SendRetries),
		scratchDir: scratch,
		metrics: metrics{
			enqueued:       scope.Counter("messages_enqueued"),
			dispatched:     scope.Counter("messages_dispatched"),
			drainTimeouts:  scope.Counter("drain_timeouts"),
			reconnects:     scope.Counter("reconnects"),
			unknownPayload: scope.Counter("unknown_payloads"),
		},
	}
	return e, nil
}

func (e *engine) ScratchDir() string { return e.scratchDir }

func (e *engine) RegisterHandlers(t TypecheckHandler, d DebugHandler, r RefactorHandler) {
	e.typecheck = t
	e.debug = d
	e.refactor = r
}
