package otp

import (
	"sync"
	"time"
)

// ResendSeconds is how long the user waits before requesting another code.
const ResendSeconds = 60

// ResendTimer is a single countdown gating resend eligibility. Start resets
// the countdown and ticks once per second; Invalidate cancels an in-flight
// countdown. Callbacks run on the timer goroutine. One timer instance exists
// per OTP screen session, restarted after each successful resend.
type ResendTimer struct {
	interval time.Duration
	seconds  int

	onTick     func(remaining int)
	onFinished func()

	mu   sync.Mutex
	stop chan struct{}
}

// NewResendTimer constructs a stopped timer. Either callback may be nil.
func NewResendTimer(onTick func(remaining int), onFinished func()) *ResendTimer {
	return &ResendTimer{
		interval:   time.Second,
		seconds:    ResendSeconds,
		onTick:     onTick,
		onFinished: onFinished,
	}
}

// Start resets the countdown, cancelling any previous run.
func (t *ResendTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	stop := make(chan struct{})
	t.stop = stop

	go t.run(stop)
}

// Invalidate cancels an in-flight countdown. Safe to call on a stopped
// timer.
func (t *ResendTimer) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *ResendTimer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *ResendTimer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	remaining := t.seconds
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			remaining--
			if t.onTick != nil {
				t.onTick(remaining)
			}
			if remaining <= 0 {
				if t.onFinished != nil {
					t.onFinished()
				}
				return
			}
		}
	}
}
