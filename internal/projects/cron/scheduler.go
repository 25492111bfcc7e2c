package cronjob

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/windscape-energy/windscape-backend/internal/projects/cache"
)

// Scheduler runs periodic cache maintenance. Expired entries are kept
// for fallback reads, so the sweep only drops entries older than the
// retention window.
type Scheduler struct {
	cache     *cache.RecordCache
	spec      string
	retention time.Duration
	c         *cron.Cron
}

// NewScheduler creates a sweep scheduler. spec is a cron expression
// (with seconds field); retention is how long expired entries are kept.
func NewScheduler(recordCache *cache.RecordCache, spec string, retention time.Duration) *Scheduler {
	return &Scheduler{
		cache:     recordCache,
		spec:      spec,
		retention: retention,
	}
}

// Start registers the sweep job and starts the cron loop.
func (s *Scheduler) Start() error {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.spec, func() {
		if pruned := s.cache.PruneExpired(s.retention); pruned > 0 {
			log.Printf("cache sweep: pruned %d expired entries", pruned)
		}
	})
	if err != nil {
		return err
	}

	log.Printf("Cache sweep scheduler started (spec %q, retention %v)", s.spec, s.retention)
	c.Start()
	s.c = c
	return nil
}

// Stop halts the cron loop.
func (s *Scheduler) Stop() {
	if s.c != nil {
		s.c.Stop()
	}
}
