// Package notify holds the presentational collaborators the dispatcher
// fires at: toasts and navigation. Both are fire-and-forget; nothing
// in the core waits on them or cares whether they succeed.
package notify

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/tend/internal/logging"
)

// Toast is one transient notification.
type Toast struct {
	Title       string
	Description string
	Duration    time.Duration
}

// Notifier shows toasts to the user.
type Notifier interface {
	Notify(t Toast)
}

// Navigator jumps the UI to a symbolic destination ("meetings",
// "contacts"). The core never resolves destinations itself.
type Navigator interface {
	Navigate(destination string)
}

// LogNotifier writes toasts to the log, rate-limited so a burst of
// dispatches can't flood the file. It stands in for a real toast
// surface and is what tests inspect.
type LogNotifier struct {
	limiter *rate.Limiter
}

// NewLogNotifier allows up to 2 toasts/second with a small burst.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{limiter: rate.NewLimiter(rate.Limit(2), 5)}
}

func (n *LogNotifier) Notify(t Toast) {
	if !n.limiter.Allow() {
		return
	}
	logging.Info("toast", "title", t.Title, "description", t.Description, "duration", t.Duration)
}

// LogNavigator records navigation requests in the log.
type LogNavigator struct{}

func (LogNavigator) Navigate(destination string) {
	logging.Info("navigate", "destination", destination)
}
