package constants

import "time"

const (
	HeatCachePrefix        = "session_heat" // Heat snapshot per session (CacheBuilder adds colon)
	GuestVerifyCachePrefix = "guest_verify" // Verified stay tokens by session ID
	HeatCacheExpiry        = 10 * time.Minute
	GuestVerifyExpiry      = 24 * time.Hour
)
