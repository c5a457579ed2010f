package engine

import (
	"context"
	"strings"
	"time"
)

// Drain dispatches queued inbound messages until the queue is empty, or until
// timeout elapses with no message dispatched. The timeout bounds inter-message
// silence, not total drain time: every dispatched message resets the window.
//
// With waitForFirst set the drain keeps polling an empty queue until the first
// real message arrives; otherwise an empty queue ends the drain immediately.
// Keepalive frames, empty or the literal "nil", are skipped without resetting
// the window and without satisfying waitForFirst.
func (e *engine) Drain(ctx context.Context, timeout time.Duration, waitForFirst bool) {
	waiting := waitForFirst
	windowStart := e.clock.Now()

	for waiting || !e.queue.Empty() {
		if e.clock.Now().Sub(windowStart) >= timeout {
			e.logger.Warnw("drain timed out", "timeout", timeout, "queued", e.queue.Len())
			e.metrics.drainTimeouts.Inc(1)
			return
		}

		data, ok := e.queue.TryGet()
		if !ok {
			e.clock.Sleep(e.cfg.drainPoll())
			continue
		}

		text := strings.TrimSpace(string(data))
		if text == "" || text == "nil" {
			continue
		}

		waiting = false
		windowStart = e.clock.Now()
		e.dispatchFrame(ctx, data)
	}
}
