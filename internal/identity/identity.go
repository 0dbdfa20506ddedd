// Package identity implements the two-step login used before matchmaking:
// obtain an identity id, then exchange it for temporary credentials.
package identity

import (
	"context"
	"time"
)

// Credentials are the temporary keys granted to an identity.
type Credentials struct {
	AccessKeyID  string    `json:"access_key_id"`
	SecretKey    string    `json:"secret_key"`
	SessionToken string    `json:"session_token"`
	Expiration   time.Time `json:"expiration"`
}

// Triple formats the credentials the way the lobby displays and copies them.
func (c Credentials) Triple() string {
	return c.AccessKeyID + "\n" + c.SecretKey + "\n" + c.SessionToken
}

// Provider is the remote identity service.
type Provider interface {
	GetID(ctx context.Context) (string, error)
	GetCredentialsForIdentity(ctx context.Context, id string) (Credentials, error)
}
