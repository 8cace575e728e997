package recorder

import (
	"context"
	"time"
)

// Run drives a started session until it stops or ctx is done. Ticks advance
// the timer; recognition results and recognizer ends are applied as they
// arrive. A recognizer that ends again right after a restart is retried on the
// next tick. On cancellation the take is stopped, results the recognizer
// still buffers are applied, and ctx.Err is returned. The caller still owns
// Close.
func Run(ctx context.Context, s *Session, ticks <-chan time.Time) error {
	var ended, closed bool
	for s.Recording() {
		var results <-chan Result
		var done <-chan struct{}
		if rec := s.Recognizer(); rec != nil && s.STTEnabled() {
			if !closed {
				results = rec.Results()
			}
			if !ended {
				done = rec.Done()
			}
		}
		select {
		case <-ctx.Done():
			_ = s.Stop()
			Drain(s)
			return ctx.Err()
		case <-ticks:
			if ended {
				ended = false
				s.RecognitionEnded()
			}
			s.Tick()
		case r, ok := <-results:
			if !ok {
				closed = true
				continue
			}
			s.Deliver(r)
		case <-done:
			s.RecognitionEnded()
			if rec := s.Recognizer(); rec != nil && isClosed(rec.Done()) {
				ended = true
			}
		}
	}
	return nil
}

// Drain applies results still buffered by the recognizer after a stop.
func Drain(s *Session) {
	rec := s.Recognizer()
	if rec == nil {
		return
	}
	for {
		select {
		case r, ok := <-rec.Results():
			if !ok {
				return
			}
			s.Deliver(r)
		default:
			return
		}
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
