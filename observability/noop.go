package observability

import "context"

// NoOpObserver discards all events with zero overhead. Useful as the
// observer override in tests that do not assert on turn telemetry.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
