package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"MorningRadar/internal/board"
	"MorningRadar/internal/notifier"
)

// Refresher runs one refresh cycle and keeps the latest report.
type Refresher interface {
	Refresh(ctx context.Context) *board.Report
	Latest() *board.Report
}

// Pusher delivers a formatted message to the configured chat.
type Pusher interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and answers chat commands.
type Scheduler struct {
	Cron   *cron.Cron
	Board  Refresher
	Pusher Pusher // nil when Telegram is not configured
	Ctx    context.Context
	Log    *logrus.Entry
}

// NewScheduler creates a new Scheduler. p may be nil.
func NewScheduler(ctx context.Context, b Refresher, p Pusher, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Board:  b,
		Pusher: p,
		Ctx:    ctx,
		Log:    log.WithField("component", "scheduler"),
	}
}

// RegisterAll registers the dashboard refresh and the morning push.
func (s *Scheduler) RegisterAll(refreshCron, morningCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if s.Pusher == nil {
		s.Log.Info("telegram not configured, morning push disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(morningCron, s.morningTask); err != nil {
		return fmt.Errorf("register morning task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.WithField("entries", len(s.Cron.Entries())).Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow refreshes immediately, for startup and manual triggers.
func (s *Scheduler) RunNow() *board.Report {
	return s.Board.Refresh(s.Ctx)
}

func (s *Scheduler) refreshTask() {
	s.Log.Debug("running refresh task")
	s.Board.Refresh(s.Ctx)
}

func (s *Scheduler) morningTask() {
	s.Log.Info("running morning push")
	r := s.Board.Refresh(s.Ctx)
	s.trySend(notifier.FormatReport(r))
}

// HandleCommand processes a chat command and returns the reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/score", "/start":
		r := s.Board.Latest()
		if r == nil {
			r = s.Board.Refresh(ctx)
		}
		return notifier.FormatReport(r)
	case "/refresh":
		return notifier.FormatReport(s.Board.Refresh(ctx))
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Pusher == nil {
		return
	}
	if err := s.Pusher.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.WithError(err).Error("send notification failed")
	}
}
