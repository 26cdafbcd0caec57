package crossrate

import "fmt"

// ConfigError reports missing or malformed check configuration.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RateLookupError reports a rate table that cannot produce the cross rate.
type RateLookupError struct {
	Currency string
	Reason   string
}

func (e *RateLookupError) Error() string {
	return fmt.Sprintf("rate lookup %s: %s", e.Currency, e.Reason)
}
