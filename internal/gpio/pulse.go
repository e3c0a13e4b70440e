package gpio

import (
	"context"
	"time"
)

// edge is one level change on an input line, timestamped by the kernel.
type edge struct {
	rising bool
	at     time.Duration
}

// pulseTimer measures pulse widths from a stream of edges.
// Edges arrive from the GPIO event handler goroutine.
type pulseTimer struct {
	edges chan edge
}

func newPulseTimer() *pulseTimer {
	return &pulseTimer{edges: make(chan edge, 64)}
}

// push enqueues an edge, dropping it when the queue is full.
func (p *pulseTimer) push(e edge) {
	select {
	case p.edges <- e:
	default:
	}
}

// flush discards edges left over from earlier measurements.
func (p *pulseTimer) flush() {
	for {
		select {
		case <-p.edges:
		default:
			return
		}
	}
}

// measure waits for a pulse at the given level and returns its width.
// Edges timestamped before since are discarded, so a pulse already in
// progress at since is never timed. It returns zero if no complete pulse is
// seen within timeout.
func (p *pulseTimer) measure(ctx context.Context, high bool, since, timeout time.Duration) (time.Duration, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var start time.Duration
	started := false
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
			return 0, nil
		case e := <-p.edges:
			if e.at < since {
				continue
			}
			if !started {
				// Leading edge enters the measured level.
				if e.rising == high {
					start = e.at
					started = true
				}
				continue
			}
			if e.rising != high {
				return e.at - start, nil
			}
		}
	}
}
