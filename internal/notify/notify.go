// Package notify carries user-facing notifications: short, transient
// messages with a severity, raised by export, paste and upload flows instead
// of errors reaching the user interface.
package notify

import (
	"sync"

	"github.com/alnah/go-md2wechat/internal/logging"
)

// Severity classifies a notification.
type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Notification is one user-visible message.
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Notifier receives notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// Recorder collects notifications in arrival order.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify appends n.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// LogNotifier writes notifications to a logger, mapping severity to level.
type LogNotifier struct {
	Logger logging.Logger
}

// Notify logs n.
func (l LogNotifier) Notify(n Notification) {
	log := logging.OrNoOp(l.Logger)
	switch n.Severity {
	case Error:
		log.Error(n.Message)
	case Warning:
		log.Warn(n.Message)
	default:
		log.Info(n.Message, "severity", string(n.Severity))
	}
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

// Notify forwards n to every non-nil notifier.
func (m Multi) Notify(n Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notification) {}

// Send is a nil-safe shorthand for notifier.Notify.
func Send(notifier Notifier, severity Severity, message string) {
	if notifier == nil {
		return
	}
	notifier.Notify(Notification{Severity: severity, Message: message})
}

// Compile-time interface checks.
var (
	_ Notifier = (*Recorder)(nil)
	_ Notifier = LogNotifier{}
	_ Notifier = Multi(nil)
)
