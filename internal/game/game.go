// Package game is the window shell: it adapts ebiten's Update/Draw/Layout
// callbacks to the frame driver and owns the real audio, image and clipboard
// collaborators.
package game

import (
	"math/rand"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Garsondee/Memory-Duel/internal/config"
	"github.com/Garsondee/Memory-Duel/internal/effects"
	"github.com/Garsondee/Memory-Duel/internal/identity"
	"github.com/Garsondee/Memory-Duel/internal/input"
	"github.com/Garsondee/Memory-Duel/internal/loop"
	"github.com/Garsondee/Memory-Duel/internal/protocol"
	"github.com/Garsondee/Memory-Duel/internal/render"
	"github.com/Garsondee/Memory-Duel/internal/render/ebitensurface"
	"github.com/Garsondee/Memory-Duel/internal/scene"
	"github.com/Garsondee/Memory-Duel/internal/sound"
)

// inboxSize bounds events queued between frames.
const inboxSize = 256

// Game implements ebiten.Game. All scene state lives in the session and is
// only touched from Update.
type Game struct {
	width  int
	height int

	inbox     *loop.Inbox
	transport *protocol.Client
	session   *scene.Session
	coord     *scene.Coordinator
	journal   *scene.Journal
	driver    *loop.Driver

	// Update records the frame; Draw replays it onto the screen.
	frame   *render.Recorder
	surface *ebitensurface.Surface

	panel     *JournalPanel
	showPanel bool
	tick      int
}

// New builds the client from cfg. provider answers the login scene.
func New(cfg *config.Config, provider identity.Provider) (*Game, error) {
	fonts, err := ebitensurface.LoadFonts()
	if err != nil {
		return nil, err
	}

	g := &Game{
		width:     cfg.Window.Width,
		height:    cfg.Window.Height,
		inbox:     loop.NewInbox(inboxSize),
		journal:   scene.NewJournal(journalCapacity),
		frame:     render.NewRecorder(),
		showPanel: cfg.Debug,
	}
	g.panel = NewJournalPanel(g.journal)

	images := ebitensurface.NewImages(cfg.Assets.ImageTimeout, g.assetFailed)
	g.surface = ebitensurface.New(fonts, images)
	clock := clockwork.NewRealClock()
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- cosmetic choices only
	avatar := cfg.Assets.PickAvatar(rng)
	images.Preload(avatar)

	pool := effects.NewPool(cfg.Effects, clock, rng)
	stars := effects.NewStarfield(float64(g.width), float64(g.height), rng)

	bgm, flip := g.loadSounds(cfg.Audio)
	g.transport = protocol.NewClient(cfg.Transport, g.inbox)

	services := &loop.Services{
		Transport:       g.transport,
		BGM:             bgm,
		Flip:            flip,
		Identity:        provider,
		IdentityTimeout: cfg.Identity.Timeout,
		Clipboard:       clipboard.WriteAll,
		Pool:            pool,
		Inbox:           g.inbox,
	}

	settings := cfg.Settings()
	settings.Avatar = avatar
	g.session = scene.NewSession(settings)
	g.coord = scene.New(g.session, clock, services, g.journal)
	g.driver = loop.NewDriver(g.coord, g.inbox, input.NewLatch(ebitenKeys{}), pool, stars,
		float64(g.width), float64(g.height))

	log.Info().
		Int("width", g.width).
		Int("height", g.height).
		Str("endpoint", cfg.Endpoint()).
		Bool("audio", cfg.Audio.Enabled).
		Msg("game initialised")
	return g, nil
}

func (g *Game) loadSounds(cfg config.AudioConfig) (bgm, flip sound.Sound) {
	if !cfg.Enabled {
		return &sound.Silent{}, &sound.Silent{}
	}
	ctx := audio.NewContext(sound.SampleRate)
	load := func(path string) sound.Sound {
		c := sound.NewClip(ctx)
		c.Load(path, func(err error) {
			if err != nil {
				g.assetFailed(path, err)
			}
		})
		return c
	}
	return load(cfg.BGM), load(cfg.Flip)
}

// assetFailed runs on loader goroutines.
func (g *Game) assetFailed(ref string, err error) {
	g.inbox.Push(scene.AssetFailed{Ref: ref, Err: err})
}

// Update runs one frame of the game: it latches input, drains the inbox and
// records the draw calls that Draw replays.
func (g *Game) Update() error {
	g.tick++
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.showPanel = !g.showPanel
	}

	g.frame.Reset()
	// A panicking frame is logged by the driver; the window stays up.
	_ = g.driver.Frame(g.frame)
	return nil
}

// Draw replays the frame recorded by the last Update onto screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.Bind(screen)
	g.frame.Replay(g.surface)
	if g.showPanel {
		g.panel.Draw(screen, g.width-panelWidth, g.height)
	}
}

// Layout keeps the logical canvas at the configured window size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Close drops the match channel and stops accepting events.
func (g *Game) Close() {
	if err := g.transport.Close(); err != nil {
		log.Warn().Err(err).Msg("close match channel")
	}
	g.inbox.Close()
	log.Info().Int("ticks", g.tick).Int("panics", g.driver.Panics()).Msg("game closed")
}
