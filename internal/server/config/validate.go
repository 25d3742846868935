package config

import (
	"fmt"
	"slices"

	"github.com/AdguardTeam/golibs/errors"
)

const errNegative errors.Error = "must not be negative"

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.ListenAddr == "":
		return fmt.Errorf("listen_addr: %w", errors.ErrEmptyValue)
	case c.PortFallbackAttempts < 0:
		return fmt.Errorf("port_fallback_attempts: %w", errNegative)
	case !slices.Contains([]string{BackendMongo, BackendPostgres, BackendBolt}, c.StoreBackend):
		return fmt.Errorf("store_backend %q: %w", c.StoreBackend, errors.ErrBadEnumValue)
	case !slices.Contains([]string{SessionStoreMemory, SessionStoreBolt}, c.SessionStore):
		return fmt.Errorf("session_store %q: %w", c.SessionStore, errors.ErrBadEnumValue)
	case c.SessionSecret == "":
		return fmt.Errorf("session_secret: %w", errors.ErrEmptyValue)
	case c.StoreTimeout <= 0:
		return fmt.Errorf("store_timeout: %w", errors.ErrNotPositive)
	case c.SessionTTL <= 0:
		return fmt.Errorf("session_ttl: %w", errors.ErrNotPositive)
	case c.SessionCapacity <= 0:
		return fmt.Errorf("session_capacity: %w", errors.ErrNotPositive)
	}

	return nil
}
