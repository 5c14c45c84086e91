package config

import "time"

type ctxKey string

const (
	UidKey  ctxKey = "uid"
	RoleKey ctxKey = "role"
)

const (
	DefaultPage = 1
	DefaultSize = 40
	MaxMemory   = 10 << 20 // 10 MB

	DefaultCacheTime = time.Hour
)

const (
	AccessTokenDuration       = time.Minute * 15
	RefreshTokenDuration      = time.Hour * 24 * 7
	RememberMeRefreshDuration = time.Hour * 24 * 30
)

// DefaultBroadcastAddr is the limited broadcast address used when a device
// has no broadcast address of its own.
const DefaultBroadcastAddr = "255.255.255.255"
