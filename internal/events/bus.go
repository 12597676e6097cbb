package events

import (
	"sync"

	"go.uber.org/zap"
)

// EventType names a cross-component notification. Events carry no payload
// beyond their name; interested components re-read state from the store.
type EventType string

const (
	PricesTicked    EventType = "PRICES_TICKED"
	TradeExecuted   EventType = "TRADE_EXECUTED"
	BalanceChanged  EventType = "BALANCE_CHANGED"
	CourseCompleted EventType = "COURSE_COMPLETED"
	StreakUpdated   EventType = "STREAK_UPDATED"
	BadgeEarned     EventType = "BADGE_EARNED"
)

// Bus is a fire-and-forget publish/subscribe hub. Handlers run synchronously
// in publish order; a handler is invoked at least once per publish.
type Bus struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[EventType][]func()
}

// NewBus creates a new event bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		logger:   logger.Named("events"),
		handlers: make(map[EventType][]func()),
	}
}

// Subscribe registers fn to run whenever event is published.
func (b *Bus) Subscribe(event EventType, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], fn)
}

// Publish notifies all subscribers of event.
func (b *Bus) Publish(event EventType) {
	b.mu.RLock()
	subs := b.handlers[event]
	b.mu.RUnlock()

	b.logger.Debug("Event published",
		zap.String("event", string(event)),
		zap.Int("subscribers", len(subs)))

	for _, fn := range subs {
		fn()
	}
}
