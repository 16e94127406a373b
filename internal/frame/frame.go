// pattern: Imperative Shell

// Package frame provides the "next rendered frame" scheduling primitive and
// the short timers used while a transition is animating.
package frame

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Handle identifies a pending frame callback or timer. The zero Handle is
// never issued.
type Handle uint64

// Clock schedules callbacks on the frame boundary or after a delay.
type Clock interface {
	RequestFrame(fn func()) Handle
	CancelFrame(h Handle)
	AfterFunc(d time.Duration, fn func()) Handle
	CancelTimer(h Handle)
}

type timer struct {
	handle   Handle
	deadline time.Duration
	fn       func()
}

// Loop is a Clock on virtual time. Nothing runs until Tick is called, so a
// Loop driven by a ticker behaves like a display refresh and a Loop driven
// by a test is fully deterministic. Loop is not safe for concurrent use.
type Loop struct {
	now    time.Duration
	next   Handle
	frames map[Handle]func()
	order  []Handle
	timers []timer
	frame  uint64
}

// NewLoop returns an idle loop at time zero.
func NewLoop() *Loop {
	return &Loop{frames: make(map[Handle]func())}
}

func (l *Loop) issue() Handle {
	l.next++
	return l.next
}

// RequestFrame queues fn for the next Tick.
func (l *Loop) RequestFrame(fn func()) Handle {
	h := l.issue()
	l.frames[h] = fn
	l.order = append(l.order, h)
	return h
}

// CancelFrame drops a queued frame callback. Unknown handles are ignored.
func (l *Loop) CancelFrame(h Handle) {
	delete(l.frames, h)
}

// AfterFunc queues fn to run on the first Tick at or past now+d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	h := l.issue()
	l.timers = append(l.timers, timer{handle: h, deadline: l.now + d, fn: fn})
	return h
}

// CancelTimer drops a pending timer. Unknown handles are ignored.
func (l *Loop) CancelTimer(h Handle) {
	for i, t := range l.timers {
		if t.handle == h {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			return
		}
	}
}

// Tick advances virtual time by dt, fires due timers in deadline order and
// then runs every frame callback queued so far, including ones the timers
// just queued. Callbacks requested by a frame callback wait for the next Tick.
func (l *Loop) Tick(dt time.Duration) {
	if dt > 0 {
		l.now += dt
	}
	l.frame++
	l.fireTimers()

	order := l.order
	l.order = nil
	for _, h := range order {
		fn, ok := l.frames[h]
		if !ok {
			continue
		}
		delete(l.frames, h)
		fn()
	}
}

func (l *Loop) fireTimers() {
	for {
		sort.SliceStable(l.timers, func(i, j int) bool {
			return l.timers[i].deadline < l.timers[j].deadline
		})
		if len(l.timers) == 0 || l.timers[0].deadline > l.now {
			return
		}
		t := l.timers[0]
		l.timers = l.timers[1:]
		t.fn()
	}
}

// Now returns the virtual time elapsed since the loop was created.
func (l *Loop) Now() time.Duration {
	return l.now
}

// Frames returns how many ticks have run.
func (l *Loop) Frames() uint64 {
	return l.frame
}

// PendingFrames reports how many frame callbacks are queued.
func (l *Loop) PendingFrames() int {
	return len(l.frames)
}

// PendingTimers reports how many timers are queued.
func (l *Loop) PendingTimers() int {
	return len(l.timers)
}

// TickMsg is delivered to the bubbletea program once per frame interval.
type TickMsg struct {
	Time time.Time
}

// Ticker returns a command that produces one TickMsg after interval. The
// receiver calls Ticker again from Update to keep frames flowing.
func Ticker(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
