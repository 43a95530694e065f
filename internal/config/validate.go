package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if _, _, err := ParseClockTime(c.Sweeper.RunAt); err != nil {
		return fmt.Errorf("sweeper.run_at: %w", err)
	}
	if c.Sweeper.LoanPeriod <= 0 {
		return fmt.Errorf("sweeper.loan_period must be > 0 (got %v)", c.Sweeper.LoanPeriod)
	}
	if c.Sweeper.LedgerRetention <= 0 {
		return fmt.Errorf("sweeper.ledger_retention must be > 0 (got %v)", c.Sweeper.LedgerRetention)
	}
	if c.Sweeper.CacheSize <= 0 {
		return fmt.Errorf("sweeper.cache_size must be > 0 (got %d)", c.Sweeper.CacheSize)
	}

	return nil
}

// ParseClockTime parses a wall-clock "HH:MM" string into hour and minute.
func ParseClockTime(raw string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock time %q, want HH:MM", raw)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", raw)
	}

	return hour, minute, nil
}
