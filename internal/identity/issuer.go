package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Issuer is an in-process Provider. Identity ids are random UUIDs and session
// tokens are HS256 JWTs whose subject is the identity.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clockwork.Clock

	mu    sync.Mutex
	known map[string]time.Time
}

// NewIssuer creates an Issuer signing with secret. A nil clock uses real time.
func NewIssuer(secret, issuer string, ttl time.Duration, clock clockwork.Clock) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		clock:  clock,
		known:  make(map[string]time.Time),
	}, nil
}

// GetID allocates a fresh identity.
func (i *Issuer) GetID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.New().String()
	i.mu.Lock()
	i.known[id] = i.clock.Now()
	i.mu.Unlock()
	log.Debug().Str("identity", id).Msg("identity issued")
	return id, nil
}

// GetCredentialsForIdentity grants credentials for an id previously returned
// by GetID.
func (i *Issuer) GetCredentialsForIdentity(ctx context.Context, id string) (Credentials, error) {
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}
	i.mu.Lock()
	_, ok := i.known[id]
	i.mu.Unlock()
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %s", ErrUnknownIdentity, id)
	}

	now := i.clock.Now()
	exp := now.Add(i.ttl)
	claims := jwt.MapClaims{
		"iss": i.issuer,
		"sub": id,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Credentials{}, fmt.Errorf("sign session token: %w", err)
	}

	secretKey, err := randomHex(20)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		AccessKeyID:  "AK" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:18]),
		SecretKey:    secretKey,
		SessionToken: token,
		Expiration:   exp,
	}, nil
}

// Verify checks a session token and returns the identity it was issued to.
// Expiry is judged against the issuer's clock.
func (i *Issuer) Verify(tokenString string) (string, error) {
	parser := &jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(i.clock.Now().Unix(), true) {
		return "", fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return sub, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
