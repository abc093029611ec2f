package config

import "time"

// Mirror backends selectable through MIRROR_BACKEND.
const (
	MirrorFile   = "file"
	MirrorRedis  = "redis"
	MirrorMemory = "memory"
)

// SyncConfig controls the sync engine, the local mirror and the reactive
// snapshot.
type SyncConfig struct {
	ReadTimeout   time.Duration // cap on a remote read before the mirror is served
	PollInterval  time.Duration // snapshot refresh period
	MirrorBackend string        // file, redis or memory
	MirrorDir     string        // directory of the file backend
	MirrorPrefix  string        // key prefix of the redis backend
}

// LoadSyncConfig reads SYNC_* and MIRROR_* variables.  Unknown backends fall
// back to the file backend.
func LoadSyncConfig() SyncConfig {
	c := SyncConfig{
		ReadTimeout:   envDur("SYNC_READ_TIMEOUT", 3*time.Second),
		PollInterval:  envDur("SYNC_POLL_INTERVAL", 30*time.Second),
		MirrorBackend: envStr("MIRROR_BACKEND", MirrorFile),
		MirrorDir:     envStr("MIRROR_DIR", "data/mirror"),
		MirrorPrefix:  envStr("MIRROR_PREFIX", "moca:mirror:"),
	}
	switch c.MirrorBackend {
	case MirrorFile, MirrorRedis, MirrorMemory:
	default:
		c.MirrorBackend = MirrorFile
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 30 * time.Second
	}
	return c
}
