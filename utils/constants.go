// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis role cache keys.
const AuthCachePrefix = "auth:role:"

// AuthCacheTTL is the time-to-live for role cache entries.
const AuthCacheTTL = 10 * time.Minute
