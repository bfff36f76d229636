package services

import (
	"context"
	"sync"
	"time"

	applog "flazz/internal/log"
)

// Notification is a user facing message, shown by the presentation layer.
type Notification struct {
	Title   string
	Message string
	At      time.Time
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	Logger *applog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, msg Notification) {
	n.Logger.InfoContext(ctx, "Notification", "title", msg.Title, "message", msg.Message)
}

// Inbox keeps the most recent notifications until the page drains them.
type Inbox struct {
	mu    sync.Mutex
	limit int
	items []Notification
	next  Notifier
}

// NewInbox keeps at most limit notifications and forwards each to next when set.
func NewInbox(limit int, next Notifier) *Inbox {
	if limit < 1 {
		limit = 10
	}
	return &Inbox{limit: limit, next: next}
}

func (i *Inbox) Notify(ctx context.Context, n Notification) {
	i.mu.Lock()
	i.items = append(i.items, n)
	if len(i.items) > i.limit {
		i.items = i.items[len(i.items)-i.limit:]
	}
	i.mu.Unlock()

	if i.next != nil {
		i.next.Notify(ctx, n)
	}
}

// Drain returns and clears the pending notifications, oldest first.
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.items
	i.items = nil
	return out
}
