package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"brokerage-portal/internal/cache"
	"brokerage-portal/internal/cleanup"
	"brokerage-portal/internal/config"
	"brokerage-portal/internal/content"
	"brokerage-portal/internal/history"
	"brokerage-portal/internal/mirror"
	"brokerage-portal/internal/models"
	"brokerage-portal/internal/search"
)

// Scheduler runs the daily CMS sync: fetch the listing collections, upsert
// them into the mirror, record history snapshots, mark listings that vanished
// upstream, refresh the search index and drop the collection cache.
type Scheduler struct {
	cron      *cron.Cron
	cms       *content.Client
	store     mirror.Store
	history   *history.Service
	cleanup   *cleanup.Service
	search    *search.SearchClient
	cache     *cache.CollectionCache
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler. History, cleanup, search and cache are
// optional; a nil service skips that sync stage.
func NewScheduler(cms *content.Client, store mirror.Store, hist *history.Service,
	clean *cleanup.Service, sc *search.SearchClient, cc *cache.CollectionCache,
	cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(locationFor(cfg.Timezone))),
		cms:     cms,
		store:   store,
		history: hist,
		cleanup: clean,
		search:  sc,
		cache:   cc,
		config:  cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Sync.Enabled {
		log.Println("[Scheduler] daily sync is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.Sync.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("[Scheduler] starting daily sync job...")
		if err := s.runSync(context.Background()); err != nil {
			log.Printf("[Scheduler] daily sync failed: %v", err)
		} else {
			log.Println("[Scheduler] daily sync completed successfully")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("[Scheduler] started with daily run at %s (cron: %s)", s.config.Sync.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("[Scheduler] stopped")
	}
}

// RunNow immediately executes the sync job (for manual trigger)
func (s *Scheduler) RunNow(ctx context.Context) error {
	log.Println("[Scheduler] manual trigger - starting sync job...")
	return s.runSync(ctx)
}

// runSync executes one full sync pass.
func (s *Scheduler) runSync(ctx context.Context) error {
	syncKinds := []models.Kind{models.KindProperty, models.KindProject}

	seenSlugs := make(map[string]bool)
	savedCount := 0
	errorCount := 0

	for _, kind := range syncKinds {
		listings, err := s.cms.FetchCollection(ctx, kind, content.ServerFilters{})
		if err != nil {
			return fmt.Errorf("sync fetch %s: %w", kind, err)
		}
		log.Printf("[Scheduler] fetched %d %s records", len(listings), kind)

		for i := range listings {
			l := &listings[i]
			seenSlugs[l.Slug] = true

			if err := s.store.SaveListing(l); err != nil {
				log.Printf("[Scheduler] failed to save listing %s: %v", l.Slug, err)
				errorCount++
				continue
			}
			savedCount++

			if s.history != nil {
				if err := s.history.RecordSnapshot(l); err != nil {
					log.Printf("[Scheduler] failed to snapshot listing %s: %v", l.Slug, err)
				}
			}
		}
	}

	// Listings in the mirror but absent upstream are logically removed, not
	// deleted; cleanup purges them after the retention period.
	removedCount, err := s.markRemoved(seenSlugs)
	if err != nil {
		log.Printf("[Scheduler] failed to mark removed listings: %v", err)
	}

	if s.cleanup != nil {
		result, err := s.cleanup.Purge(cleanup.Config{
			RetentionDays:    s.config.Sync.RetentionDays,
			MaxDeletionCount: s.config.Sync.MaxDeletionCount,
		})
		if err != nil {
			log.Printf("[Scheduler] purge failed: %v", err)
		} else if result.DeletedCount > 0 {
			log.Printf("[Scheduler] purged %d expired listings", result.DeletedCount)
		}
	}

	if s.search != nil {
		if err := s.reindexSearch(); err != nil {
			log.Printf("[Scheduler] search reindex failed: %v", err)
		}
	}

	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
		log.Println("[Scheduler] collection cache invalidated")
	}

	log.Printf("[Scheduler] sync completed. Saved: %d, Removed: %d, Errors: %d",
		savedCount, removedCount, errorCount)

	return nil
}

// markRemoved flags active mirrored listings whose slug no longer appears
// upstream.
func (s *Scheduler) markRemoved(seenSlugs map[string]bool) (int, error) {
	if len(seenSlugs) == 0 {
		// An empty upstream is far more likely an outage than a mass delisting
		log.Println("[Scheduler] upstream returned no listings, skipping removal detection")
		return 0, nil
	}

	mirrored, err := s.store.GetActiveListings("")
	if err != nil {
		return 0, err
	}

	var removedIDs []string
	for _, l := range mirrored {
		if !seenSlugs[l.Slug] {
			removedIDs = append(removedIDs, l.ID)
		}
	}

	if len(removedIDs) == 0 {
		return 0, nil
	}
	if err := s.store.MarkListingsAsRemoved(removedIDs); err != nil {
		return 0, err
	}
	return len(removedIDs), nil
}

// reindexSearch rebuilds the search index from active mirrored listings.
func (s *Scheduler) reindexSearch() error {
	listings, err := s.store.GetActiveListings("")
	if err != nil {
		return err
	}
	if err := s.search.IndexListings(listings); err != nil {
		return err
	}
	log.Printf("[Scheduler] reindexed %d listings", len(listings))
	return nil
}

// locationFor resolves the configured timezone so the daily run fires at
// local business hours, not the host zone. Unknown or empty names fall back
// to the host local zone.
func locationFor(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[Scheduler] unknown timezone %q, using local time", name)
		return time.Local
	}
	return loc
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "02:00" -> "0 2 * * *" (run at 2:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 && hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	log.Printf("[Scheduler] failed to parse time '%s', using default 02:00", timeStr)
	return "0 2 * * *"
}

// NextRun reports when the next scheduled sync fires, for the admin dashboard.
func (s *Scheduler) NextRun() *time.Time {
	if !s.isRunning {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
