package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/relief-chat-api/api"
	"github.com/linesmerrill/relief-chat-api/api/broadcast"
)

// Scheduler handles periodic background jobs of the relay
type Scheduler struct {
	cron    *cron.Cron
	Engine  *broadcast.Engine
	Metrics *api.MetricsCollector

	TypingTTL           time.Duration
	TypingSweepInterval time.Duration
	StatsInterval       time.Duration

	now func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(engine *broadcast.Engine, metrics *api.MetricsCollector, typingTTL, typingSweep, stats time.Duration) *Scheduler {
	return &Scheduler{
		cron:                cron.New(cron.WithLocation(time.UTC)),
		Engine:              engine,
		Metrics:             metrics,
		TypingTTL:           typingTTL,
		TypingSweepInterval: typingSweep,
		StatsInterval:       stats,
		now:                 time.Now,
	}
}

// Start registers the jobs and begins the scheduler. Jobs with a non positive
// interval are skipped.
func (s *Scheduler) Start() error {
	if s.TypingTTL > 0 && s.TypingSweepInterval > 0 {
		if _, err := s.cron.AddFunc(every(s.TypingSweepInterval), s.sweepTyping); err != nil {
			return fmt.Errorf("failed to register typing sweep job: %w", err)
		}
	}
	if s.StatsInterval > 0 {
		if _, err := s.cron.AddFunc(every(s.StatsInterval), s.logStats); err != nil {
			return fmt.Errorf("failed to register stats job: %w", err)
		}
	}

	s.cron.Start()
	zap.S().Infow("relay scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("relay scheduler stopped")
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

// sweepTyping clears typing states nobody refreshed within the TTL, so a
// client that vanished mid sentence does not leave "typing" up forever.
func (s *Scheduler) sweepTyping() {
	if n := s.Engine.ExpireTyping(s.now().Add(-s.TypingTTL)); n > 0 {
		zap.S().Debugw("expired typing states", "count", n)
	}
}

func (s *Scheduler) logStats() {
	rooms, messages := s.Engine.Rooms.Stats()
	fields := []interface{}{
		"sessions", s.Engine.Sessions.Count(),
		"rooms", rooms,
		"messages", messages,
		"pendingDeliveries", s.Engine.PendingDeliveries(),
	}
	if s.Metrics != nil {
		summary := s.Metrics.GetSummary()
		fields = append(fields,
			"eventsReceived", summary["eventsReceived"],
			"eventsRejected", summary["eventsRejected"],
			"eventsDropped", summary["eventsDropped"],
		)
	}
	zap.S().Infow("relay stats", fields...)
}
