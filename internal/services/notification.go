package services

import (
	"sync"
	"time"
)

type NotificationState string

const (
	NotificationIdle    NotificationState = "idle"
	NotificationSuccess NotificationState = "success"
	NotificationError   NotificationState = "error"
)

type Notification struct {
	State   NotificationState `json:"state"`
	Message string            `json:"message,omitempty"`
}

func (n Notification) ShowSuccess() bool { return n.State == NotificationSuccess }
func (n Notification) ShowError() bool   { return n.State == NotificationError }

// Notifier holds the transient success/error feedback. Every notification
// clears itself after ttl unless a newer one replaces it first.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	state   NotificationState
	message string
	timer   *time.Timer
	// gen identifies the notification a timer belongs to.
	gen    uint64
	closed bool
}

func NewNotifier(ttl time.Duration) *Notifier {
	return &Notifier{ttl: ttl, state: NotificationIdle}
}

func (n *Notifier) Success() {
	n.show(NotificationSuccess, "")
}

func (n *Notifier) Error(message string) {
	n.show(NotificationError, message)
}

// DismissSuccess closes a visible success dialog. The error banner cannot be
// dismissed this way.
func (n *Notifier) DismissSuccess() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != NotificationSuccess {
		return false
	}
	n.stopTimerLocked()
	n.gen++
	n.state = NotificationIdle
	return true
}

func (n *Notifier) Current() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	cur := Notification{State: n.state}
	if n.state == NotificationError {
		cur.Message = n.message
	}
	return cur
}

// Close stops the pending timer. Later transitions are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.stopTimerLocked()
}

// show replaces whatever is visible and reschedules the auto-clear.
func (n *Notifier) show(state NotificationState, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.stopTimerLocked()
	n.gen++
	n.state = state
	n.message = message
	gen := n.gen
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(gen) })
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	// A timer that lost the race with Stop must not clear a newer notification.
	if gen != n.gen {
		return
	}
	n.state = NotificationIdle
	n.timer = nil
}

func (n *Notifier) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
