// Package config provides validation functions for configuration.
package config

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/isuhosts/isuhosts/internal/hosts"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig validates the entire configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return &ValidationError{Field: "config", Message: "config is nil"}
	}

	if err := validatePeers(cfg.Peers); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.BasePath) == "" {
		return &ValidationError{Field: "basePath", Message: "base path is required"}
	}

	if !ValidatePrefix(cfg.HostnamePrefix) {
		return &ValidationError{
			Field:   "hostnamePrefix",
			Message: fmt.Sprintf("invalid hostname prefix: %s", cfg.HostnamePrefix),
		}
	}

	if cfg.IndexOffset != 0 && cfg.IndexOffset != 1 {
		return &ValidationError{
			Field:   "indexOffset",
			Message: fmt.Sprintf("must be 0 or 1, got %d", cfg.IndexOffset),
		}
	}

	if cfg.Backup.Max < 0 {
		return &ValidationError{
			Field:   "backup.max",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Backup.Max),
		}
	}

	return nil
}

func validatePeers(peers []string) error {
	if len(peers) == 0 {
		return &ValidationError{Field: "peers", Message: "at least one peer is required"}
	}

	// Repeated addresses are allowed; each position gets its own alias.
	for i, p := range peers {
		if !ValidateIP(p) {
			return &ValidationError{
				Field:   fmt.Sprintf("peers[%d]", i),
				Message: fmt.Sprintf("invalid IP address: %s", p),
			}
		}
	}

	return nil
}

// ValidateIP checks if an address is a zone-free IPv4 or IPv6 literal.
func ValidateIP(ip string) bool {
	if ip == "" {
		return false
	}
	_, err := hosts.ParseAddr(ip)
	return err == nil
}

// ValidatePrefix checks that a hostname prefix can name a server directory:
// non-empty, with no whitespace and no path separator. Hostname syntax is not
// enforced.
func ValidatePrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	return !strings.ContainsFunc(prefix, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '\\' || r == 0
	})
}
