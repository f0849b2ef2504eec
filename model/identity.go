// model/identity.go
package model

import "time"

// Identity is the verified caller of a request. It is produced only by the
// token verifier and is never mutated afterwards.
type Identity struct {
	Subject   string     `json:"sub"`
	Email     string     `json:"email,omitempty"`
	Audience  []string   `json:"aud"`
	ExpiresAt *time.Time `json:"exp,omitempty"`
}
