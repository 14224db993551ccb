package models

import "time"

// Credential is a bearer token issued by the upstream auth endpoint
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the credential can still be used at now
func (c *Credential) Valid(now time.Time) bool {
	return c != nil && c.Token != "" && now.Before(c.ExpiresAt)
}
