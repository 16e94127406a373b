// pattern: Imperative Shell

// Package bus carries layout "reason" tokens from whoever changes geometry
// to whoever has to react to it.
package bus

import (
	"fmt"

	"devframe/internal/logging"
)

// Handler receives the reason passed to Notify. Reasons are diagnostic only.
type Handler func(reason string)

// Bus is a synchronous publish/subscribe channel. It is not safe for
// concurrent use; every call happens on the preview's update goroutine.
type Bus struct {
	subs     []Handler
	observer Handler
	logger   *logging.ScopedLogger
}

// New creates an empty bus.
func New(logger *logging.ScopedLogger) *Bus {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Bus{logger: logger}
}

// Subscribe appends h to the subscriber list. A nil handler is ignored.
// Subscribing the same handler twice delivers every reason to it twice.
func (b *Bus) Subscribe(h Handler) {
	if h == nil {
		return
	}
	b.subs = append(b.subs, h)
	b.logger.Debug("subscribed", "count", len(b.subs))
}

// SetObserver installs a single catch-all handler that runs after all
// subscribers on every Notify. Passing nil removes it.
func (b *Bus) SetObserver(h Handler) {
	b.observer = h
}

// Notify calls every subscriber in registration order, then the observer.
// The subscriber list is snapshotted on entry, so handlers may subscribe or
// notify re-entrantly. A panicking handler is logged and skipped.
func (b *Bus) Notify(reason string) {
	subs := b.subs[:len(b.subs):len(b.subs)]
	b.logger.Debug("notify", "reason", reason, "subs", len(subs))

	for i, h := range subs {
		b.call(h, reason, i)
	}
	if b.observer != nil {
		b.call(b.observer, reason, -1)
	}
}

func (b *Bus) call(h Handler, reason string, index int) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("subscriber panic",
				"reason", reason,
				"index", index,
				"error", fmt.Sprint(r),
			)
		}
	}()
	h(reason)
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	return len(b.subs)
}

// Reset drops every subscriber and the observer.
func (b *Bus) Reset() {
	b.subs = nil
	b.observer = nil
}
