package rx

import "context"

// Pump forwards values from ch into s until ch is closed, then finishes s.
// If ctx is done first Pump returns ctx.Err() and leaves s open.
func Pump[T any](ctx context.Context, s *Subject[T], ch <-chan T) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-ch:
			if !ok {
				s.Finish()
				return nil
			}
			s.Send(v)
		}
	}
}
