package reminder

import (
	"context"
	log "log/slog"
	"time"
)

const (
	// PollInterval bounds detection latency; a minute that is never observed
	// is never fired.
	PollInterval = 30 * time.Second

	// FiredLimit is the dedup set size past which it is cleared wholesale.
	FiredLimit = 50
)

// Notifier is the side effect run when a reminder comes due.
type Notifier interface {
	Notify(r Reminder)
}

type NotifierFunc func(Reminder)

func (f NotifierFunc) Notify(r Reminder) { f(r) }

type Scheduler struct {
	store    *Store
	notifier Notifier
	now      func() time.Time
	interval time.Duration

	// only touched from the goroutine running Tick
	fired map[Reminder]struct{}
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

func NewScheduler(store *Store, n Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    store,
		notifier: n,
		now:      time.Now,
		interval: PollInterval,
		fired:    make(map[Reminder]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run polls until ctx is done. The assistant starts it once and never joins it.
func (s *Scheduler) Run(ctx context.Context) {
	log.Debug("Reminder scheduler started", "interval", s.interval)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		s.Tick(s.now())

		select {
		case <-ctx.Done():
			log.Debug("Reminder scheduler stopped")
			return
		case <-t.C:
		}
	}
}

// Tick fires every reminder whose time equals now's minute and has not fired
// in the current dedup epoch. It returns how many fired.
func (s *Scheduler) Tick(now time.Time) int {
	minute := now.Format(TimeLayout)

	n := 0
	for _, r := range s.store.List() {
		if r.At != minute {
			continue
		}
		if _, done := s.fired[r]; done {
			continue
		}

		log.Info("Reminder due", "at", r.At, "task", r.Task)
		s.notifier.Notify(r)
		s.fired[r] = struct{}{}
		n++
	}

	if len(s.fired) > FiredLimit {
		log.Debug("Clearing fired reminders", "size", len(s.fired))
		clear(s.fired)
	}

	return n
}
