package config

import (
	"fmt"
	"strings"
)

// AuthConfig holds the shared secret that guards the admin endpoints.
type AuthConfig struct {
	AdminToken string `koanf:"adminToken"`
}

// String returns a string representation of the auth configuration with the secret masked.
func (c *AuthConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Auth ---\n")
	b.WriteString(fmt.Sprintf("  adminToken: %s\n", maskString(c.AdminToken)))
	return b.String()
}

func (c *AuthConfig) Validate() error {
	if c.AdminToken == "" {
		return fmt.Errorf("admin token is not configured")
	}
	return nil
}

// maskString masks all but the last four characters of a secret.
func maskString(s string) string {
	if s == "" {
		return "<not configured>"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
