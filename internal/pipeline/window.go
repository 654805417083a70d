package pipeline

import (
	"context"
	"time"

	"github.com/taiwanway/sales-tracker/internal/logger"
)

// Mode selects how the backfill window begins. Selection happens once per
// run, never adaptively.
type Mode int

const (
	// FromScratch starts at the fixed epoch (the store's first day of
	// operation) and re-fetches everything.
	FromScratch Mode = iota
	// Incremental starts one second after the newest stored transaction, so
	// the boundary record is not re-fetched under the API's closed-interval
	// semantics. Falls back to FromScratch when the store is empty or
	// unreadable.
	Incremental
)

// epoch is the beginning of recorded history, in the store's local zone.
func epoch(tz *time.Location) time.Time {
	return time.Date(2024, time.April, 1, 0, 0, 0, 0, tz)
}

// BusinessZone returns the store's local timezone. Asia/Taipei normally; a
// fixed +08:00 zone when the tzdata lookup fails.
func BusinessZone() *time.Location {
	tz, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		return time.FixedZone("UTC+8", 8*60*60)
	}
	return tz
}

// ResolveWindow computes the [begin, end] fetch window for the given mode.
// end is always now.
func ResolveWindow(ctx context.Context, store Store, mode Mode, now time.Time, tz *time.Location) (begin, end time.Time) {
	log := logger.FromContext(ctx)
	end = now.In(tz)

	if mode != Incremental {
		return epoch(tz), end
	}

	latest, ok, err := store.LatestCreatedAt(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Reading latest stored transaction failed, downloading from scratch")
		return epoch(tz), end
	}
	if !ok {
		log.Info().Msg("No stored transactions, downloading from scratch")
		return epoch(tz), end
	}

	return latest.In(tz).Add(time.Second), end
}
