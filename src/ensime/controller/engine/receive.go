package engine

import "context"

// receiveLoop is the single background reader for the session. One loop runs
// per running session: it exits when the session stops, and Connect starts a
// fresh loop when it brings a stopped session back up. There is no join on
// teardown: closing the connection faults the pending read, and the loop
// observes the cleared running flag.
func (e *engine) receiveLoop() {
	e.logger.Debug("receive loop started")
	for e.state.isRunning() {
		conn, connected := e.state.currentConn()
		if !connected {
			e.clock.Sleep(e.cfg.connectPoll())
			continue
		}

		data, err := conn.ReadMessage()
		if err != nil {
			if !e.state.isRunning() {
				break
			}
			// An inline reconnect swaps the connection out from under a
			// pending read; keep reading the current one.
			if cur, _ := e.state.currentConn(); cur != conn {
				continue
			}
			e.logger.Warnw("receive fault, stopping session", "error", err)
			e.state.setRunning(false)
			e.Disconnect()
			e.warn(e.withSession(context.Background()), "Connection to the ENSIME server was lost")
			break
		}

		e.queue.Put(data)
		e.metrics.enqueued.Inc(1)
	}
	e.logger.Debug("receive loop stopped")
}
