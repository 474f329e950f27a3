package order

import "context"

// Tracking is a live handle over a user's order view. Updates is closed
// once Stop has been called and the feed drained; Stop must be called when
// the owning view goes away so updates stop flowing to a disposed consumer.
type Tracking struct {
	updates <-chan View
	stop    func()
}

func (t *Tracking) Updates() <-chan View { return t.updates }
func (t *Tracking) Stop()                { t.stop() }

// Track subscribes to the user's orders and re-partitions on every change.
// An empty user id yields a single empty view and then silence; callers
// render the empty state rather than an error.
func (s *Service) Track(ctx context.Context, userID string) (*Tracking, error) {
	out := make(chan View, 1)

	if userID == "" {
		out <- Partition(nil)
		close(out)
		return &Tracking{updates: out, stop: func() {}}, nil
	}

	raw, stop, err := s.watcher.Watch(ctx, userID)
	if err != nil {
		return nil, err
	}

	go func() {
		defer close(out)
		for orders := range raw {
			select {
			case out <- Partition(orders):
			case <-ctx.Done():
				return
			}
		}
	}()

	return &Tracking{updates: out, stop: stop}, nil
}
