package loop

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Garsondee/Memory-Duel/internal/effects"
	"github.com/Garsondee/Memory-Duel/internal/identity"
	"github.com/Garsondee/Memory-Duel/internal/scene"
	"github.com/Garsondee/Memory-Duel/internal/sound"
)

// Transport is the match channel as the executor uses it.
type Transport interface {
	Open(endpoint string)
	Send(payload []byte) error
	Close() error
}

// Services performs scene effects against the real collaborators. Nil
// collaborators turn their effects into no-ops.
type Services struct {
	Transport       Transport
	BGM             sound.Sound
	Flip            sound.Sound
	Identity        identity.Provider
	IdentityTimeout time.Duration
	Clipboard       func(text string) error
	Pool            *effects.Pool
	Inbox           *Inbox
}

// Execute implements scene.Executor.
func (sv *Services) Execute(e scene.Effect) {
	switch fx := e.(type) {
	case scene.Connect:
		if sv.Transport != nil {
			sv.Transport.Open(fx.Endpoint)
		}
	case scene.Send:
		if sv.Transport == nil {
			return
		}
		if err := sv.Transport.Send(fx.Payload); err != nil {
			log.Warn().Err(err).Msg("selection not sent")
		}
	case scene.Disconnect:
		if sv.Transport != nil {
			if err := sv.Transport.Close(); err != nil {
				log.Warn().Err(err).Msg("close match channel")
			}
		}
	case scene.PlayBGM:
		if sv.BGM != nil {
			sv.BGM.PlayLoop()
		}
	case scene.StopBGM:
		if sv.BGM != nil {
			sv.BGM.Stop()
		}
	case scene.PlayFlip:
		if sv.Flip != nil {
			sv.Flip.Play()
		}
	case scene.Burst:
		if sv.Pool != nil && !sv.Pool.Trigger(fx.X, fx.Y) {
			log.Debug().Float64("x", fx.X).Float64("y", fx.Y).Msg("burst pool exhausted")
		}
	case scene.RequestIdentity:
		sv.async(func(ctx context.Context) scene.Event {
			id, err := sv.Identity.GetID(ctx)
			if err != nil {
				return scene.IdentityFailed{Err: err}
			}
			return scene.IdentityReady{ID: id}
		})
	case scene.RequestCredentials:
		sv.async(func(ctx context.Context) scene.Event {
			creds, err := sv.Identity.GetCredentialsForIdentity(ctx, fx.ID)
			if err != nil {
				return scene.CredentialsFailed{Err: err}
			}
			return scene.CredentialsReady{Credentials: creds}
		})
	case scene.CopyCredentials:
		if sv.Clipboard == nil {
			return
		}
		if err := sv.Clipboard(fx.Text); err != nil {
			log.Warn().Err(err).Msg("copy credentials")
			return
		}
		log.Info().Msg("credentials copied to clipboard")
	default:
		log.Warn().Str("effect", scene.EffectName(e)).Msg("unhandled effect")
	}
}

// async runs an identity call off the frame goroutine and posts its result.
func (sv *Services) async(call func(ctx context.Context) scene.Event) {
	if sv.Identity == nil || sv.Inbox == nil {
		log.Warn().Msg("no identity provider configured")
		return
	}
	timeout := sv.IdentityTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		sv.Inbox.Push(call(ctx))
	}()
}
