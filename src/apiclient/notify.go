package apiclient

import "time"

// NotifyKind tells a front end how to style a notification.
type NotifyKind int

const (
	KindSuccess NotifyKind = iota
	KindError
)

func (k NotifyKind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// How long a transient notification stays visible unless dismissed.
const (
	SuccessTTL = 5 * time.Second
	ErrorTTL   = 8 * time.Second
)

// Notification is a transient user-visible message.
type Notification struct {
	Kind NotifyKind
	Text string
	TTL  time.Duration
}

// Success builds a success notification with the default lifetime.
func Success(text string) Notification {
	return Notification{Kind: KindSuccess, Text: text, TTL: SuccessTTL}
}

// Failure builds an error notification with the default lifetime.
func Failure(text string) Notification {
	return Notification{Kind: KindError, Text: text, TTL: ErrorTTL}
}

// Notifier shows transient notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to the package logger. It is the default
// when a front end does not supply its own.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	if n.Kind == KindError {
		Errorf("%s", n.Text)
		return
	}
	Infof("%s", n.Text)
}
