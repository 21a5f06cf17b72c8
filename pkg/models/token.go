package models

import "time"

// Token is an OAuth access token received through the implicit grant.
type Token struct {
	AccessToken string        `json:"-"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   time.Duration `json:"expires_in"`
	State       string        `json:"state,omitempty"`
}

// ExpiresAt returns the expiry for a token issued at issued, or the zero time
// when the token did not say.
func (t Token) ExpiresAt(issued time.Time) time.Time {
	if t.ExpiresIn <= 0 {
		return time.Time{}
	}
	return issued.Add(t.ExpiresIn)
}
