// Package config loads settings for the game client and the referee from an
// optional YAML file, a .env file and MEMDUEL_* environment variables.
package config

import (
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Memory-Duel/internal/board"
	"github.com/Garsondee/Memory-Duel/internal/effects"
	"github.com/Garsondee/Memory-Duel/internal/protocol"
	"github.com/Garsondee/Memory-Duel/internal/scene"
)

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type MatchConfig struct {
	// Endpoint is the referee WebSocket URL without the session query.
	Endpoint      string        `yaml:"endpoint"`
	SessionID     string        `yaml:"session_id"`
	MatchingDelay time.Duration `yaml:"matching_delay"`
	ResultDelay   time.Duration `yaml:"result_delay"`
}

type AudioConfig struct {
	Enabled bool   `yaml:"enabled"`
	BGM     string `yaml:"bgm"`
	Flip    string `yaml:"flip"`
}

type AssetsConfig struct {
	// Avatar pins the user page picture. When empty one of Avatars is drawn
	// at startup.
	Avatar       string        `yaml:"avatar"`
	Avatars      []string      `yaml:"avatars"`
	ImageTimeout time.Duration `yaml:"image_timeout"`
}

// PickAvatar returns the pinned avatar, or a random entry of Avatars. A nil
// rng picks the first entry.
func (a AssetsConfig) PickAvatar(rng *rand.Rand) string {
	if a.Avatar != "" || len(a.Avatars) == 0 {
		return a.Avatar
	}
	if rng == nil {
		return a.Avatars[0]
	}
	return a.Avatars[rng.Intn(len(a.Avatars))]
}

type IdentityConfig struct {
	// Mode is "local" for an in-process issuer or "http" for a referee.
	Mode    string        `yaml:"mode"`
	BaseURL string        `yaml:"base_url"`
	Secret  string        `yaml:"secret"`
	Issuer  string        `yaml:"issuer"`
	TTL     time.Duration `yaml:"ttl"`
	Timeout time.Duration `yaml:"timeout"`
}

type RefereeConfig struct {
	Addr           string   `yaml:"addr"`
	PublicURL      string   `yaml:"public_url"`
	ImageDir       string   `yaml:"image_dir"`
	Back           string   `yaml:"back"`
	Faces          []string `yaml:"faces"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Config is the full configuration shared by all commands.
type Config struct {
	Window    WindowConfig          `yaml:"window"`
	Match     MatchConfig           `yaml:"match"`
	Board     board.Layout          `yaml:"board"`
	Effects   effects.BurstConfig   `yaml:"effects"`
	Audio     AudioConfig           `yaml:"audio"`
	Assets    AssetsConfig          `yaml:"assets"`
	Identity  IdentityConfig        `yaml:"identity"`
	Transport protocol.ClientConfig `yaml:"transport"`
	Referee   RefereeConfig         `yaml:"referee"`
	Log       LogConfig             `yaml:"log"`
	Debug     bool                  `yaml:"debug"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Width: 1000, Height: 800, Title: "Memory Duel"},
		Match: MatchConfig{
			Endpoint:      "ws://localhost:9002/ws",
			MatchingDelay: 7 * time.Second,
			ResultDelay:   1400 * time.Millisecond,
		},
		Board:   board.DefaultLayout(),
		Effects: effects.DefaultBurstConfig(),
		Audio: AudioConfig{
			Enabled: true,
			BGM:     "./sound/clearsky.mp3",
			Flip:    "./sound/open.mp3",
		},
		Assets: AssetsConfig{
			Avatars:      []string{"./image/d.jpg", "./image/e.jpg", "./image/f.jpg"},
			ImageTimeout: 10 * time.Second,
		},
		Identity: IdentityConfig{
			Mode:    "http",
			BaseURL: "http://localhost:9002",
			Secret:  "memory-duel-dev-secret",
			Issuer:  "memory-duel",
			TTL:     time.Hour,
			Timeout: 10 * time.Second,
		},
		Transport: protocol.DefaultClientConfig(),
		Referee: RefereeConfig{
			Addr:      ":9002",
			PublicURL: "http://localhost:9002",
			ImageDir:  "./image",
			Back:      "card_rear.jpeg",
			Faces: []string{
				"image_1.jpeg", "image_3.jpeg", "image_18.jpeg", "image_22.jpeg",
				"image_25.jpeg", "image_33.jpeg", "image_35.jpeg", "image_39.jpeg",
			},
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{Level: "info", Console: true},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path is
// not empty) and then with environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if cfg.Match.SessionID == "" {
		cfg.Match.SessionID = uuid.New().String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Match.Endpoint = getEnv("MEMDUEL_ENDPOINT", c.Match.Endpoint)
	c.Match.SessionID = getEnv("MEMDUEL_SESSION_ID", c.Match.SessionID)
	c.Match.MatchingDelay = getEnvAsDuration("MEMDUEL_MATCHING_DELAY", c.Match.MatchingDelay)
	c.Match.ResultDelay = getEnvAsDuration("MEMDUEL_RESULT_DELAY", c.Match.ResultDelay)
	c.Identity.Mode = getEnv("MEMDUEL_IDENTITY_MODE", c.Identity.Mode)
	c.Identity.BaseURL = getEnv("MEMDUEL_IDENTITY_URL", c.Identity.BaseURL)
	c.Identity.Secret = getEnv("MEMDUEL_IDENTITY_SECRET", c.Identity.Secret)
	c.Assets.Avatar = getEnv("MEMDUEL_AVATAR", c.Assets.Avatar)
	c.Audio.Enabled = getEnvAsBool("MEMDUEL_AUDIO", c.Audio.Enabled)
	c.Referee.Addr = getEnv("MEMDUEL_REFEREE_ADDR", c.Referee.Addr)
	c.Referee.PublicURL = getEnv("MEMDUEL_PUBLIC_URL", c.Referee.PublicURL)
	c.Referee.ImageDir = getEnv("MEMDUEL_IMAGE_DIR", c.Referee.ImageDir)
	c.Window.Width = getEnvAsInt("MEMDUEL_WINDOW_WIDTH", c.Window.Width)
	c.Window.Height = getEnvAsInt("MEMDUEL_WINDOW_HEIGHT", c.Window.Height)
	c.Log.Level = getEnv("MEMDUEL_LOG_LEVEL", c.Log.Level)
	c.Debug = getEnvAsBool("MEMDUEL_DEBUG", c.Debug)
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Board.Rows <= 0 || c.Board.Cols <= 0:
		return fmt.Errorf("%w: board %dx%d", ErrInvalid, c.Board.Rows, c.Board.Cols)
	case c.Board.Count()%2 != 0:
		return fmt.Errorf("%w: board needs an even number of cards, has %d", ErrInvalid, c.Board.Count())
	case c.Match.MatchingDelay < 0 || c.Match.ResultDelay < 0:
		return fmt.Errorf("%w: negative delay", ErrInvalid)
	case c.Effects.Slots <= 0 || c.Effects.Sparks <= 0 || c.Effects.Lifetime <= 0:
		return fmt.Errorf("%w: effects need slots, sparks and a lifetime", ErrInvalid)
	case c.Transport.SendBuffer <= 0:
		return fmt.Errorf("%w: transport send_buffer must be positive", ErrInvalid)
	case c.Assets.Avatar == "" && len(c.Assets.Avatars) == 0:
		return fmt.Errorf("%w: no avatar configured", ErrInvalid)
	case len(c.Referee.Faces)*2 < c.Board.Count():
		return fmt.Errorf("%w: %d faces cannot fill %d cards", ErrInvalid, len(c.Referee.Faces), c.Board.Count())
	}

	u, err := url.Parse(c.Match.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: endpoint: %v", ErrInvalid, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%w: endpoint scheme %q", ErrInvalid, u.Scheme)
	}

	switch c.Identity.Mode {
	case "local":
		if c.Identity.Secret == "" {
			return fmt.Errorf("%w: local identity needs a secret", ErrInvalid)
		}
	case "http":
		if c.Identity.BaseURL == "" {
			return fmt.Errorf("%w: http identity needs base_url", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: identity mode %q", ErrInvalid, c.Identity.Mode)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalid, err)
	}
	return nil
}

// Endpoint returns the match URL with the player session id attached.
func (c *Config) Endpoint() string {
	u, err := url.Parse(c.Match.Endpoint)
	if err != nil {
		return c.Match.Endpoint
	}
	q := u.Query()
	q.Set("playerSessionId", c.Match.SessionID)
	u.RawQuery = q.Encode()
	return u.String()
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Settings converts the configuration into scene settings. The avatar is the
// deterministic pick; callers wanting a random one overwrite it.
func (c *Config) Settings() scene.Settings {
	return scene.Settings{
		Endpoint:      c.Endpoint(),
		MatchingDelay: c.Match.MatchingDelay,
		ResultDelay:   c.Match.ResultDelay,
		Layout:        c.Board,
		CanvasWidth:   float64(c.Window.Width),
		CanvasHeight:  float64(c.Window.Height),
		Avatar:        c.Assets.PickAvatar(nil),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
