// Package notify raises best-effort desktop notifications.
package notify

import "sync"

type Notifier interface {
	Notify(title, message string) error
}

var (
	notifyOnce sync.Once
	notifyInst Notifier
)

// Default returns the platform notifier, constructed once per process.
func Default() Notifier {
	notifyOnce.Do(func() {
		notifyInst = newNotifier()
	})

	return notifyInst
}
