package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"
	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/gateway/editor/editormock"
	"github.com/uber/ensime-client/src/ensime/internal/fs"
	"github.com/uber/ensime-client/src/ensime/internal/socket/socketmock"
	"github.com/uber/ensime-client/src/ensime/model"
	"github.com/uber/ensime-client/src/ensime/repository/calls"
	uberconfig "go.uber.org/config"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// fakeClock advances virtual time on every Sleep so drain loops run without
// real delays.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps++
}

func (c *fakeClock) sleepCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}

type fakeServer struct {
	addr    string
	running bool
}

func (s *fakeServer) Address() string { return s.addr }
func (s *fakeServer) IsRunning() bool { return s.running }

type testDeps struct {
	engine *engine
	dialer *socketmock.MockDialer
	editor *editormock.MockEditor
	clock  *fakeClock
	stats  tally.TestScope
}

func newTestEngine(t *testing.T, sendRetries int) *testDeps {
	ctrl := gomock.NewController(t)
	provider, err := uberconfig.NewStaticProvider(map[string]interface{}{
		"ensime": map[string]interface{}{
			"protocol":    "v2",
			"sendRetries": sendRetries,
		},
	})
	require.NoError(t, err)

	d := &testDeps{
		dialer: socketmock.NewMockDialer(ctrl),
		editor: editormock.NewMockEditor(ctrl),
		clock:  &fakeClock{now: time.Unix(1700000000, 0)},
		stats:  tally.NewTestScope("", nil),
	}
	eng, err := New(Params{
		Config: provider,
		Logger: zap.NewNop().Sugar(),
		Stats:  d.stats,
		Clock:  d.clock,
		Dialer: d.dialer,
		Editor: d.editor,
		FS:     fs.New(),
		Calls:  calls.New(calls.Params{Stats: tally.NoopScope}),
	})
	require.NoError(t, err)
	d.engine = eng.(*engine)
	t.Cleanup(func() { os.RemoveAll(d.engine.scratchDir) })
	return d
}

// blockingRead parks the receive goroutine until the test releases it.
func blockingRead(release <-chan struct{}) func() ([]byte, error) {
	return func() ([]byte, error) {
		<-release
		return nil, errors.New("connection closed")
	}
}

func decodeFrame(t *testing.T, frame []byte) (int, map[string]interface{}) {
	var envelope struct {
		CallID int                    `json:"callId"`
		Req    map[string]interface{} `json:"req"`
	}
	require.NoError(t, json.Unmarshal(frame, &envelope))
	return envelope.CallID, envelope.Req
}

func TestConnectServerNotRunningKeepsBudget(t *testing.T) {
	d := newTestEngine(t, 1)
	ctx := context.Background()
	release := make(chan struct{})
	server := &fakeServer{addr: "ws://127.0.0.1:9000/jerky", running: false}

	d.editor.EXPECT().ShowMessage(gomock.Any(), "ENSIME server is not running").Return(nil)
	d.engine.Connect(ctx, server, false)
	assert.False(t, d.engine.IsConnected())

	// The failed attempt above must not have consumed the single retry.
	server.running = true
	conn := socketmock.NewMockConn(gomock.NewController(t))
	conn.EXPECT().WriteMessage(gomock.Any()).Return(nil)
	conn.EXPECT().ReadMessage().DoAndReturn(blockingRead(release)).AnyTimes()
	conn.EXPECT().Close().Return(nil).AnyTimes()
	d.dialer.EXPECT().Dial(gomock.Any(), server.addr, []string{"jerky"}).Return(conn, nil)

	d.engine.Connect(ctx, server, false)
	assert.True(t, d.engine.IsConnected())

	d.engine.Teardown(ctx)
	close(release)
}

func TestConnectNilServer(t *testing.T) {
	d := newTestEngine(t, 1)
	ctx := context.Background()

	d.editor.EXPECT().ShowMessage(gomock.Any(), "ENSIME server is not running").Return(nil)
	d.engine.Connect(ctx, nil, false)
	assert.False(t, d.engine.IsConnected())
}

func TestConnectBudgetExhaustion(t *testing.T) {
	d := newTestEngine(t, 2)
	ctx := context.Background()
	server := &fakeServer{addr: "ws://127.0.0.1:9000/jerky", running: true}

	d.dialer.EXPECT().Dial(gomock.Any(), server.addr, []string{"jerky"}).
		Return(nil, errors.New("refused")).Times(2)
	d.editor.EXPECT().ShowMessage(gomock.Any(), "Failed to connect to the ENSIME server").
		Return(nil).Times(2)

	d.engine.Connect(ctx, server, false)
	d.engine.Connect(ctx, server, false)

	// Third attempt is rejected before any transport contact.
	d.editor.EXPECT().ShowMessage(gomock.Any(),
		"Could not connect to the ENSIME server; giving up after repeated attempts").Return(nil)
	d.engine.Connect(ctx, server, false)
	assert.False(t, d.engine.IsConnected())
}

func TestConnectSendsHandshakeFirstWithCallIDZero(t *testing.T) {
	d := newTestEngine(t, 6)
	ctx := context.Background()
	release := make(chan struct{})
	server := &fakeServer{addr: "ws://127.0.0.1:9000/jerky", running: true}

	var frames [][]byte
	conn := socketmock.NewMockConn(gomock.NewController(t))
	conn.EXPECT().WriteMessage(gomock.Any()).DoAndReturn(func(data []byte) error {
		frames = append(frames, data)
		return nil
	}).AnyTimes()
	conn.EXPECT().ReadMessage().DoAndReturn(blockingRead(release)).AnyTimes()
	conn.EXPECT().Close().Return(nil).AnyTimes()
	d.dialer.EXPECT().Dial(gomock.Any(), server.addr, []string{"jerky"}).Return(conn, nil)

	d.engine.Connect(ctx, server, false)
	require.True(t, d.engine.IsConnected())

	require.Len(t, frames, 1)
	callID, req := decodeFrame(t, frames[0])
	assert.Equal(t, 0, callID)
	assert.Equal(t, "ConnectionInfoReq", req["typehint"])

	// Already connected without force: no second dial, no second handshake.
	d.engine.Connect(ctx, server, false)
	assert.Len(t, frames, 1)

	d.engine.Teardown(ctx)
	close(release)
}

func TestReceiveFaultStopsSessionWithoutReconnect(t *testing.T) {
	d := newTestEngine(t, 6)
	ctx := context.Background()
	server := &fakeServer{addr: "ws://127.0.0.1:9000/jerky", running: true}

	conn := socketmock.NewMockConn(gomock.NewController(t))
	conn.EXPECT().WriteMessage(gomock.Any()).Return(nil).AnyTimes()
	conn.EXPECT().ReadMessage().Return(nil, errors.New("reset by peer"))
	conn.EXPECT().Close().Return(nil).AnyTimes()
	d.dialer.EXPECT().Dial(gomock.Any(), server.addr, []string{"jerky"}).Return(conn, nil).Times(1)
	d.editor.EXPECT().ShowMessage(gomock.Any(),
		"Connection to the ENSIME server was lost").Return(nil)

	d.engine.Connect(ctx, server, false)

	assert.Eventually(t, func() bool {
		return !d.engine.state.isRunning() && !d.engine.IsConnected()
	}, time.Second, 5*time.Millisecond)
}

func TestConnectAfterReceiveFaultRestartsReader(t *testing.T) {
	d := newTestEngine(t, 6)
	ctx := context.Background()
	release := make(chan struct{})
	server := &fakeServer{addr: "ws://127.0.0.1:9000/jerky", running: true}

	conn1 := socketmock.NewMockConn(gomock.NewController(t))
	conn1.EXPECT().WriteMessage(gomock.Any()).Return(nil).AnyTimes()
	conn1.EXPECT().ReadMessage().Return(nil, errors.New("reset by peer"))
	conn1.EXPECT().Close().Return(nil).AnyTimes()

	// The reconnected socket must get a reader again: the test fails unless a
	// receive goroutine issues a read against conn2.
	reading := make(chan struct{})
	var once sync.Once
	conn2 := socketmock.NewMockConn(gomock.NewController(t))
	conn2.EXPECT().WriteMessage(gomock.Any()).Return(nil).AnyTimes()
	conn2.EXPECT().ReadMessage().DoAndReturn(func() ([]byte, error) {
		once.Do(func() { close(reading) })
		<-release
		return nil, errors.New("connection closed")
	}).AnyTimes()
	conn2.EXPECT().Close().Return(nil).AnyTimes()

	gomock.InOrder(
		d.dialer.EXPECT().Dial(gomock.Any(), server.addr, []string{"jerky"}).Return(conn1, nil),
		d.dialer.EXPECT().Dial(gomock.Any(), server.addr, []string{"jerky"}).Return(conn2, nil),
	)
	d.editor.EXPECT().ShowMessage(gomock.Any(),
		"Connection to the ENSIME server was lost").Return(nil)

	d.engine.Connect(ctx, server, false)
	assert.Eventually(t, func() bool {
		return !d.engine.state.isRunning() && !d.engine.IsConnected()
	}, time.Second, 5*time.Millisecond)

	d.engine.Connect(ctx, server, true)
	require.True(t, d.engine.IsConnected())

	select {
	case <-reading:
	case <-time.After(time.Second):
		t.Fatal("no receive goroutine is reading from the reconnected socket")
	}

	d.engine.Teardown(ctx)
	close(release)
}

func TestSendFaultReconnectsExactlyOnce(t *testing.T) {
	d := newTestEngine(t, 6)
	ctx := context.Background()
	release := make(chan struct{})
	server := &fakeServer{addr: "ws://127.0.0.1:9000/jerky", running: true}

	conn1 := socketmock.NewMockConn(gomock.NewController(t))
	conn1.EXPECT().WriteMessage(gomock.Any()).Return(nil)
	conn1.EXPECT().WriteMessage(gomock.Any()).Return(errors.New("broken pipe"))
	conn1.EXPECT().ReadMessage().DoAndReturn(blockingRead(release)).AnyTimes()
	conn1.EXPECT().Close().Return(nil).AnyTimes()

	var conn2Frames [][]byte
	conn2 := socketmock.NewMockConn(gomock.NewController(t))
	conn2.EXPECT().WriteMessage(gomock.Any()).DoAndReturn(func(data []byte) error {
		conn2Frames = append(conn2Frames, data)
		return nil
	}).Times(2)
	conn2.EXPECT().ReadMessage().DoAndReturn(blockingRead(release)).AnyTimes()
	conn2.EXPECT().Close().Return(nil).AnyTimes()

	gomock.InOrder(
		d.dialer.EXPECT().Dial(gomock.Any(), server.addr, []string{"jerky"}).Return(conn1, nil),
		d.dialer.EXPECT().Dial(gomock.Any(), server.addr, []string{"jerky"}).Return(conn2, nil),
	)

	d.engine.Connect(ctx, server, false)
	require.True(t, d.engine.IsConnected())

	callID := d.engine.SendRequest(ctx, map[string]string{"typehint": "ShutdownServerReq"}, nil)
	assert.Equal(t, 1, callID)

	// conn2 carries the reconnect handshake followed by the retried frame.
	require.Len(t, conn2Frames, 2)
	handshakeID, handshake := decodeFrame(t, conn2Frames[0])
	assert.Equal(t, 2, handshakeID)
	assert.Equal(t, "ConnectionInfoReq", handshake["typehint"])
	retriedID, retried := decodeFrame(t, conn2Frames[1])
	assert.Equal(t, 1, retriedID)
	assert.Equal(t, "ShutdownServerReq", retried["typehint"])

	d.engine.Teardown(ctx)
	close(release)
}

func TestDrainEmptyNoWaitReturnsImmediately(t *testing.T) {
	d := newTestEngine(t, 6)

	d.engine.Drain(context.Background(), time.Second, false)

	assert.Zero(t, d.clock.sleepCount())
	counters := d.stats.Snapshot().Counters()
	require.NotNil(t, counters["engine.messages_dispatched+"])
	assert.Zero(t, counters["engine.messages_dispatched+"].Value())
}

func TestDrainSkipsKeepalivesWithoutTimerReset(t *testing.T) {
	d := newTestEngine(t, 6)
	ctx := context.Background()

	d.engine.queue.Put([]byte("nil"))
	d.engine.queue.Put([]byte("  "))

	// Keepalives neither dispatch nor satisfy waitForFirst, so the drain polls
	// until the silence window closes: four 250ms sleeps against a 1s timeout.
	d.engine.Drain(ctx, time.Second, true)

	assert.Equal(t, 4, d.clock.sleepCount())
	counters := d.stats.Snapshot().Counters()
	require.NotNil(t, counters["engine.messages_dispatched+"])
	assert.Zero(t, counters["engine.messages_dispatched+"].Value())
	require.NotNil(t, counters["engine.drain_timeouts+"])
	assert.Equal(t, int64(1), counters["engine.drain_timeouts+"].Value())
}

func TestDrainDispatchesMatchingResponseOnce(t *testing.T) {
	d := newTestEngine(t, 6)
	ctx := context.Background()

	handler := &countingTypecheckHandler{}
	d.engine.RegisterHandlers(handler, nil, nil)

	d.engine.queue.Put([]byte(`{"callId":3,"payload":{"typehint":"ClearAllScalaNotesEvent"}}`))
	d.engine.Drain(ctx, time.Second, false)
	assert.Equal(t, 1, handler.clears)

	d.engine.Drain(ctx, time.Second, false)
	assert.Equal(t, 1, handler.clears)

	counters := d.stats.Snapshot().Counters()
	require.NotNil(t, counters["engine.messages_dispatched+"])
	assert.Equal(t, int64(1), counters["engine.messages_dispatched+"].Value())
}

func TestDrainDropsUnknownTypehint(t *testing.T) {
	d := newTestEngine(t, 6)

	d.engine.queue.Put([]byte(`{"payload":{"typehint":"GreetingInfo"}}`))
	d.engine.Drain(context.Background(), time.Second, false)

	counters := d.stats.Snapshot().Counters()
	require.NotNil(t, counters["engine.unknown_payloads+"])
	assert.Equal(t, int64(1), counters["engine.unknown_payloads+"].Value())
}

func TestCallOptionsSurviveRepeatedResponses(t *testing.T) {
	d := newTestEngine(t, 6)
	ctx := context.Background()

	id := d.engine.calls.NextCallID()
	d.engine.calls.RecordOptions(id, entity.CallOptions{"falseMessage": "Nothing found"})
	frame := []byte(fmt.Sprintf(`{"callId":%d,"payload":{"typehint":"FalseResponse"}}`, id))

	// Both responses to the same call id see the recorded options.
	d.editor.EXPECT().ShowMessage(ctx, "Nothing found").Return(nil).Times(2)

	d.engine.queue.Put(frame)
	d.engine.Drain(ctx, time.Second, false)
	d.engine.queue.Put(frame)
	d.engine.Drain(ctx, time.Second, false)
}

func TestOpenDeclarationOffsetPosition(t *testing.T) {
	d := newTestEngine(t, 6)
	ctx := context.Background()

	target := filepath.Join(t.TempDir(), "Foo.scala")
	require.NoError(t, os.WriteFile(target, []byte("object Foo {\n  val x = 1\n}\n"), 0644))

	id := d.engine.calls.NextCallID()
	d.engine.calls.RecordOptions(id, entity.CallOptions{"openDefinition": true, "split": "vsplit"})

	// Offset 19 lands on row 2 col 6 of the file written above.
	d.editor.EXPECT().GotoPosition(ctx, target, entity.Position{Row: 2, Col: 6}, "vsplit").Return(nil)

	frame := fmt.Sprintf(
		`{"callId":%d,"payload":{"typehint":"SymbolInfo","name":"x","declPos":{"typehint":"OffsetSourcePosition","file":%q,"offset":19}}}`,
		id, target)
	d.engine.queue.Put([]byte(frame))
	d.engine.Drain(ctx, time.Second, false)
}

func TestCompletionRequestIsCaseSensitive(t *testing.T) {
	d := newTestEngine(t, 6)
	ctx := context.Background()
	release := make(chan struct{})
	server := &fakeServer{addr: "ws://127.0.0.1:9000/jerky", running: true}

	var frames [][]byte
	conn := socketmock.NewMockConn(gomock.NewController(t))
	conn.EXPECT().WriteMessage(gomock.Any()).DoAndReturn(func(data []byte) error {
		frames = append(frames, data)
		return nil
	}).AnyTimes()
	conn.EXPECT().ReadMessage().DoAndReturn(blockingRead(release)).AnyTimes()
	conn.EXPECT().Close().Return(nil).AnyTimes()
	d.dialer.EXPECT().Dial(gomock.Any(), server.addr, []string{"jerky"}).Return(conn, nil)

	d.engine.Connect(ctx, server, false)
	require.True(t, d.engine.IsConnected())

	d.editor.EXPECT().Path(gomock.Any()).Return("/proj/src/Foo.scala", nil)
	d.editor.EXPECT().Cursor(gomock.Any()).Return(entity.Position{Row: 1, Col: 7}, nil)
	d.editor.EXPECT().Lines(gomock.Any()).Return([]string{"println"}, nil)
	require.NoError(t, d.engine.CompletionBegin(ctx))

	require.Len(t, frames, 2)
	_, req := decodeFrame(t, frames[1])
	assert.Equal(t, "CompletionsReq", req["typehint"])
	assert.Equal(t, true, req["caseSens"])

	d.engine.Teardown(ctx)
	close(release)
}

func TestTeardownRemovesScratchDir(t *testing.T) {
	d := newTestEngine(t, 6)

	scratch := d.engine.ScratchDir()
	_, err := os.Stat(scratch)
	require.NoError(t, err)

	d.engine.Teardown(context.Background())
	_, err = os.Stat(scratch)
	assert.True(t, os.IsNotExist(err))
}

func TestCompletionRoundTrip(t *testing.T) {
	d := newTestEngine(t, 6)
	ctx := context.Background()

	d.editor.EXPECT().Path(ctx).Return("/proj/src/Foo.scala", nil)
	d.editor.EXPECT().Cursor(ctx).Return(entity.Position{Row: 2, Col: 10}, nil)
	d.editor.EXPECT().Lines(ctx).Return([]string{"object Foo {", "  printLn"}, nil)

	require.NoError(t, d.engine.CompletionBegin(ctx))

	d.engine.queue.Put([]byte(`{"callId":0,"payload":{
		"typehint":"CompletionInfoList",
		"prefix":"printLn",
		"completions":[{"name":"println","relevanceScore":90}]}}`))

	results := d.engine.CompletionResults(ctx)
	require.Len(t, results, 1)
	assert.Equal(t, "println", results[0].Name)

	// State resets after the results are taken.
	assert.Empty(t, d.engine.CompletionResults(ctx))
}

type countingTypecheckHandler struct {
	clears int
}

func (h *countingTypecheckHandler) HandleNotes(context.Context, model.NewScalaNotesEvent) {}
func (h *countingTypecheckHandler) HandleClearNotes(context.Context)                      { h.clears++ }
func (h *countingTypecheckHandler) HandleTypecheckComplete(context.Context)               {}
