package scheduler

import "time"

// Config controls how often the scheduler wakes up and how far back it
// is willing to close months on a cold start.
type Config struct {
	RunInterval    time.Duration
	CatchUpMonths  int
}

func DefaultConfig() Config {
	return Config{
		RunInterval:   time.Hour,
		CatchUpMonths: 3,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.CatchUpMonths <= 0 {
		c.CatchUpMonths = defaults.CatchUpMonths
	}
	return c
}

func ProvideConfig() Config {
	return DefaultConfig()
}
