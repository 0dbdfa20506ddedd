package scene

import "github.com/Garsondee/Memory-Duel/internal/identity"

// Effect is a side effect requested by a step. Effects are plain data; the
// Executor performs them after the step returns.
type Effect interface {
	effectName() string
}

type Connect struct{ Endpoint string }
type Send struct{ Payload []byte }
type Disconnect struct{}
type PlayBGM struct{}
type StopBGM struct{}
type PlayFlip struct{}

// Burst triggers a particle burst centred on (X, Y).
type Burst struct{ X, Y float64 }

type RequestIdentity struct{}
type RequestCredentials struct{ ID string }

// CopyCredentials puts Text on the system clipboard.
type CopyCredentials struct{ Text string }

func (Connect) effectName() string            { return "connect" }
func (Send) effectName() string               { return "send" }
func (Disconnect) effectName() string         { return "disconnect" }
func (PlayBGM) effectName() string            { return "play_bgm" }
func (StopBGM) effectName() string            { return "stop_bgm" }
func (PlayFlip) effectName() string           { return "play_flip" }
func (Burst) effectName() string              { return "burst" }
func (RequestIdentity) effectName() string    { return "request_identity" }
func (RequestCredentials) effectName() string { return "request_credentials" }
func (CopyCredentials) effectName() string    { return "copy_credentials" }

// EffectName returns a short name for logging.
func EffectName(e Effect) string { return e.effectName() }

// Executor performs effects.
type Executor interface {
	Execute(e Effect)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(e Effect)

func (f ExecutorFunc) Execute(e Effect) { f(e) }

// Event is something that happened outside the frame loop and is handed to
// the coordinator between frames.
type Event interface {
	eventName() string
}

// Inbound carries one raw message from the match channel.
type Inbound struct{ Raw []byte }

type IdentityReady struct{ ID string }
type IdentityFailed struct{ Err error }
type CredentialsReady struct{ Credentials identity.Credentials }
type CredentialsFailed struct{ Err error }

// TransportDown reports that the match channel failed.
type TransportDown struct{ Err error }

// AssetFailed reports an image or audio file that could not be loaded.
type AssetFailed struct {
	Ref string
	Err error
}

func (Inbound) eventName() string           { return "inbound" }
func (IdentityReady) eventName() string     { return "identity_ready" }
func (IdentityFailed) eventName() string    { return "identity_failed" }
func (CredentialsReady) eventName() string  { return "credentials_ready" }
func (CredentialsFailed) eventName() string { return "credentials_failed" }
func (TransportDown) eventName() string     { return "transport_down" }
func (AssetFailed) eventName() string       { return "asset_failed" }

// EventName returns a short name for logging.
func EventName(e Event) string { return e.eventName() }
