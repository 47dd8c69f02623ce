package worker

import (
	"context"

	"github.com/gilby125/hotel-availability/pkg/logger"
)

// PurgeJobName is the name the session purge job is scheduled under.
const PurgeJobName = "purge_sessions"

// Purger drops expired entries. *cache.MemoryCache implements it.
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// PurgeJob returns a job that purges p and logs how many entries went.
func PurgeJob(p Purger, log *logger.Logger) JobFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(ctx context.Context) error {
		n, err := p.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("Purged expired sessions", "count", n)
		}
		return nil
	}
}
