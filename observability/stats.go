// Package observability aggregates runtime counters for operators. It is a
// passive permanent sink: losing it never affects collaboration semantics.
package observability

import (
	"collab-lab/domain/event"
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// RecentActivity is one recently observed event, kept for quick inspection.
type RecentActivity struct {
	Kind      string `json:"kind"`
	SessionID string `json:"sessionId"`
	AuthorID  string `json:"authorId"`
	Timestamp string `json:"timestamp"`
}

// Stats is the aggregated snapshot handed to operators.
type Stats struct {
	Joins           uint64 `json:"joins"`
	Leaves          uint64 `json:"leaves"`
	EditsApplied    uint64 `json:"editsApplied"`
	MessagesPosted  uint64 `json:"messagesPosted"`
	PresenceUpdates uint64 `json:"presenceUpdates"`
	EventsPerSecond float64 `json:"eventsPerSecond"`

	AllocMemMb uint64 `json:"allocMemMb"`
	NumGC      uint32 `json:"numGc"`

	RecentActivity []RecentActivity `json:"recentActivity"`
}

const recentActivityCap = 20

// Collector counts session events with atomic counters and periodically
// derives rates and Go memory figures.
type Collector struct {
	log *slog.Logger

	joins           atomic.Uint64
	leaves          atomic.Uint64
	edits           atomic.Uint64
	messages        atomic.Uint64
	presenceUpdates atomic.Uint64
	windowEvents    atomic.Uint64

	mu        sync.RWMutex
	latest    Stats
	lastCheck time.Time
}

func NewCollector(log *slog.Logger) *Collector {
	return &Collector{
		log:       log,
		lastCheck: time.Now(),
		latest:    Stats{RecentActivity: make([]RecentActivity, 0)},
	}
}

// Consume implements contract.EventSink; the fanout feeds it every event.
func (c *Collector) Consume(_ context.Context, e event.SessionEvent) error {
	c.windowEvents.Add(1)

	var kind string
	switch e.(type) {
	case event.UserJoined:
		c.joins.Add(1)
		kind = "join"
	case event.UserLeft:
		c.leaves.Add(1)
		kind = "leave"
	case event.EditApplied:
		c.edits.Add(1)
		kind = "edit"
	case event.ChatMessagePosted:
		c.messages.Add(1)
		kind = "chat"
	case event.CursorMoved, event.SelectionChanged:
		c.presenceUpdates.Add(1)
		// Presence churn is too chatty for the recent feed.
		return nil
	default:
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest.RecentActivity = append([]RecentActivity{{
		Kind:      kind,
		SessionID: e.SessionID(),
		AuthorID:  e.AuthorID(),
		Timestamp: e.OccurredAt().Format("15:04:05"),
	}}, c.latest.RecentActivity...)
	if len(c.latest.RecentActivity) > recentActivityCap {
		c.latest.RecentActivity = c.latest.RecentActivity[:recentActivityCap]
	}
	return nil
}

// Run refreshes derived figures every second until the context is canceled,
// making the Collector schedulable under the supervisor.
func (c *Collector) Run(ctx context.Context) error {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Debug("Stopping stats collector")
			return nil
		case <-ticker.C:
			c.refresh()
		}
	}
}

func (c *Collector) refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	duration := now.Sub(c.lastCheck).Seconds()
	if duration > 0 {
		events := c.windowEvents.Swap(0)
		c.latest.EventsPerSecond = float64(events) / duration
	}
	c.lastCheck = now

	c.latest.Joins = c.joins.Load()
	c.latest.Leaves = c.leaves.Load()
	c.latest.EditsApplied = c.edits.Load()
	c.latest.MessagesPosted = c.messages.Load()
	c.latest.PresenceUpdates = c.presenceUpdates.Load()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	c.latest.AllocMemMb = m.Alloc / 1024 / 1024
	c.latest.NumGC = m.NumGC

	c.log.Debug("Stats refreshed",
		"events_per_second", c.latest.EventsPerSecond,
		"edits", c.latest.EditsApplied,
		"messages", c.latest.MessagesPosted,
		"mem_mb", c.latest.AllocMemMb,
	)
}

// GetLatest returns the last refreshed snapshot. Counters are read live so a
// caller between ticks still sees current totals.
func (c *Collector) GetLatest() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.latest
	stats.Joins = c.joins.Load()
	stats.Leaves = c.leaves.Load()
	stats.EditsApplied = c.edits.Load()
	stats.MessagesPosted = c.messages.Load()
	stats.PresenceUpdates = c.presenceUpdates.Load()
	stats.RecentActivity = append([]RecentActivity(nil), c.latest.RecentActivity...)
	return stats
}
