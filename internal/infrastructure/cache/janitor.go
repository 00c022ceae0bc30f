package cache

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultCleanupSchedule purges expired entries every ten minutes
const DefaultCleanupSchedule = "@every 10m"

// Purger is a cache that can drop its expired entries
type Purger interface {
	PurgeExpired() int
}

// Janitor periodically purges expired cache entries on a cron schedule
type Janitor struct {
	cron    *cron.Cron
	entryID cron.EntryID
}

// NewJanitor schedules target.PurgeExpired. An empty schedule uses DefaultCleanupSchedule.
func NewJanitor(target Purger, schedule string) (*Janitor, error) {
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}

	c := cron.New()
	id, err := c.AddFunc(schedule, func() {
		if removed := target.PurgeExpired(); removed > 0 {
			log.Debug().Str("component", "cache").Int("removed", removed).Msg("purged expired entries")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cache cleanup schedule %q: %w", schedule, err)
	}

	return &Janitor{cron: c, entryID: id}, nil
}

// Start runs the schedule in the background
func (j *Janitor) Start() {
	j.cron.Start()
	log.Info().Str("component", "cache").Time("next_run", j.cron.Entry(j.entryID).Next).Msg("cache janitor started")
}

// Stop halts the schedule and waits for a running purge to finish
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
