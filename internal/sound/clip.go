package sound

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/rs/zerolog/log"
)

// SampleRate is the rate every clip is resampled to.
const SampleRate = 44100

// Clip is a Sound backed by an ebiten audio context. The whole file is
// decoded into memory on load.
type Clip struct {
	ctx *audio.Context

	mu   sync.Mutex
	path string
	pcm  []byte
	once *audio.Player
	loop *audio.Player
}

// NewClip creates an empty clip bound to ctx.
func NewClip(ctx *audio.Context) *Clip {
	return &Clip{ctx: ctx}
}

// Load decodes path in the background and calls onReady with the result.
func (c *Clip) Load(path string, onReady func(error)) {
	go func() {
		pcm, err := decodeFile(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("audio load failed")
		} else {
			c.mu.Lock()
			c.path = path
			c.pcm = pcm
			c.once = nil
			c.loop = nil
			c.mu.Unlock()
			log.Debug().Str("path", path).Int("bytes", len(pcm)).Msg("audio loaded")
		}
		if onReady != nil {
			onReady(err)
		}
	}()
}

func (c *Clip) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pcm == nil {
		return
	}
	if c.once == nil {
		c.once = c.ctx.NewPlayerFromBytes(c.pcm)
	}
	if err := c.once.Rewind(); err != nil {
		log.Warn().Err(err).Str("path", c.path).Msg("rewind failed")
	}
	c.once.Play()
}

func (c *Clip) PlayLoop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pcm == nil {
		return
	}
	if c.loop == nil {
		stream := audio.NewInfiniteLoop(bytes.NewReader(c.pcm), int64(len(c.pcm)))
		p, err := c.ctx.NewPlayer(stream)
		if err != nil {
			log.Error().Err(err).Str("path", c.path).Msg("loop player")
			return
		}
		c.loop = p
	}
	if c.loop.IsPlaying() {
		return
	}
	if err := c.loop.Rewind(); err != nil {
		log.Warn().Err(err).Str("path", c.path).Msg("rewind failed")
	}
	c.loop.Play()
}

func (c *Clip) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loop != nil {
		c.loop.Pause()
	}
	if c.once != nil {
		c.once.Pause()
	}
}

func decodeFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var stream io.Reader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(SampleRate, f)
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(SampleRate, f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return pcm, nil
}
