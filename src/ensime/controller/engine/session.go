package engine

import (
	"context"
	"sync"

	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/internal/socket"
	"github.com/uber/ensime-client/src/ensime/model"
	"go.uber.org/multierr"
)

// sessionState is the mutable transport state shared between the caller and
// the receive goroutine. All access goes through its methods.
type sessionState struct {
	mu        sync.Mutex
	running   bool
	connected bool
	conn      socket.Conn
	server    entity.Server
	retries   int
}

func newSessionState(retries int) *sessionState {
	return &sessionState{retries: retries}
}

func (s *sessionState) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *sessionState) setRunning(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = v
}

func (s *sessionState) currentConn() (socket.Conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn, s.connected
}

func (s *sessionState) lastServer() entity.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server
}

// takeRetry consumes one unit of the retry budget. It reports false, without
// consuming, when the budget is already exhausted.
func (s *sessionState) takeRetry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retries < 1 {
		return false
	}
	s.retries--
	return true
}

// withSession tags the context with the session UUID so downstream gateways
// can attribute their work to this session.
func (e *engine) withSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, entity.SessionContextKey, e.session.UUID)
}

// Connect establishes the websocket session per the retry budget.
func (e *engine) Connect(ctx context.Context, server entity.Server, force bool) {
	ctx = e.withSession(ctx)
	if e.IsConnected() && !force {
		return
	}

	e.state.mu.Lock()
	retriesLeft := e.state.retries
	e.state.mu.Unlock()
	if retriesLeft < 1 {
		e.warn(ctx, "Could not connect to the ENSIME server; giving up after repeated attempts")
		return
	}

	if server == nil || !server.IsRunning() {
		e.warn(ctx, "ENSIME server is not running")
		return
	}

	// The budget pays for attempts, not successes.
	if !e.state.takeRetry() {
		e.warn(ctx, "Could not connect to the ENSIME server; giving up after repeated attempts")
		return
	}

	address := server.Address()
	conn, err := e.dialer.Dial(ctx, address, e.codec.Subprotocols())
	if err != nil {
		e.logger.Warnw("connection attempt failed", "address", address, "error", err)
		e.warn(ctx, "Failed to connect to the ENSIME server")
		return
	}

	e.state.mu.Lock()
	if e.state.conn != nil {
		e.state.conn.Close()
	}
	e.state.conn = conn
	e.state.connected = true
	e.state.server = server
	// A receive loop runs for as long as the session does. Connecting a
	// stopped session, whether the first time or after a receive fault,
	// brings up a fresh one.
	startReceive := !e.state.running
	e.state.running = true
	e.state.mu.Unlock()

	e.logger.Infow("connected", "address", address)
	if startReceive {
		go e.receiveLoop()
	}

	e.SendRequest(ctx, model.NewConnectionInfoReq(), nil)
}

// Disconnect closes the connection without a websocket close handshake. The
// abrupt close is what unblocks the receive goroutine's pending read.
func (e *engine) Disconnect() {
	e.state.mu.Lock()
	conn := e.state.conn
	e.state.conn = nil
	e.state.connected = false
	e.state.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// Teardown ends the session. Cleanup failures are logged, never surfaced; the
// scratch directory removal in particular must not block editor shutdown.
func (e *engine) Teardown(ctx context.Context) {
	e.state.setRunning(false)
	e.Disconnect()

	var errs error
	if e.scratchDir != "" {
		errs = multierr.Append(errs, e.fs.RemoveAll(e.scratchDir))
	}
	if errs != nil {
		e.logger.Warnw("session cleanup incomplete", "error", errs)
	}
	e.logger.Infow("session torn down")
}

func (e *engine) IsConnected() bool {
	_, connected := e.state.currentConn()
	return connected
}

// SendRequest assigns the next call id and sends the enveloped request.
func (e *engine) SendRequest(ctx context.Context, req interface{}, opts entity.CallOptions) int {
	callID := e.calls.NextCallID()
	if opts != nil {
		e.calls.RecordOptions(callID, opts)
	}

	frame, err := e.codec.EncodeEnvelope(callID, req)
	if err != nil {
		e.logger.Errorw("encoding request", "callId", callID, "error", err)
		return callID
	}

	e.send(ctx, frame)
	return callID
}

// send writes one frame. A write fault triggers exactly one inline reconnect
// against the last known server and one retry; a second fault is logged and
// swallowed.
func (e *engine) send(ctx context.Context, frame []byte) {
	if !e.state.isRunning() {
		return
	}
	conn, connected := e.state.currentConn()
	if !connected {
		return
	}

	err := conn.WriteMessage(frame)
	if err == nil {
		return
	}

	e.logger.Warnw("send failed, reconnecting once", "error", err)
	e.metrics.reconnects.Inc(1)
	e.Connect(ctx, e.state.lastServer(), true)

	conn, connected = e.state.currentConn()
	if !connected {
		return
	}
	if err := conn.WriteMessage(frame); err != nil {
		e.logger.Errorw("send failed after reconnect, dropping message", "error", err)
	}
}

// warn surfaces a problem to the user without failing the operation.
func (e *engine) warn(ctx context.Context, msg string) {
	e.logger.Warn(msg)
	if err := e.editor.ShowMessage(ctx, msg); err != nil {
		e.logger.Debugw("editor message failed", "error", err)
	}
}
