package pricestore

import (
	"github.com/rs/zerolog"
)

// CleanupJob removes expired entries from the price series store.
// Scheduled hourly.
type CleanupJob struct {
	store *Store
	log   zerolog.Logger
}

// NewCleanupJob creates a new price store cleanup job.
func NewCleanupJob(store *Store, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		store: store,
		log:   log.With().Str("job", "pricestore_cleanup").Logger(),
	}
}

// Run removes all expired series entries.
func (j *CleanupJob) Run() error {
	deleted, err := j.store.DeleteExpired()
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to delete expired price series")
		return err
	}

	if deleted > 0 {
		j.log.Info().
			Int64("deleted", deleted).
			Msg("Cleaned up expired price series")
	}

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "pricestore_cleanup"
}
