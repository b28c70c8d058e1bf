package cache

import "time"

// Freshness policy per operation kind. These are added to the store time
// to compute expiry; an operation's empty default is cached for the same
// window as a real result.
const (
	TTLQuote         = 5 * time.Minute
	TTLSearch        = time.Hour
	TTLProfile       = 24 * time.Hour
	TTLFinancials    = 6 * time.Hour
	TTLHistoryDaily  = time.Hour
	TTLHistoryWeekly = 24 * time.Hour
	TTLHistoryMonth  = 72 * time.Hour
	TTLNews          = 15 * time.Minute
	TTLFilings       = 6 * time.Hour
	TTLRatings       = 6 * time.Hour
	TTLEsg           = 24 * time.Hour
	TTLInsider       = 6 * time.Hour
	TTLInstitutional = 7 * 24 * time.Hour
	TTLExecutives    = 24 * time.Hour

	// Symbol-to-CIK mapping file used by the filings provider. Refreshed
	// weekly; the stale copy is served if a refresh fails.
	TTLTickerMap = 7 * 24 * time.Hour
)
