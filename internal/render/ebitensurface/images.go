package ebitensurface

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
)

type imageState int

const (
	imageLoading imageState = iota
	imageDecoded
	imageReady
	imageFailed
)

type imageEntry struct {
	state   imageState
	decoded image.Image
	img     *ebiten.Image
}

// Images loads card pictures by reference. References starting with http://
// or https:// are fetched; anything else is read from disk. Loading happens
// off the frame goroutine; the GPU image is created on first use in Draw.
type Images struct {
	client  *http.Client
	onError func(ref string, err error)

	mu      sync.Mutex
	entries map[string]*imageEntry
}

// NewImages creates an empty cache. onError is called once per failed
// reference, from the loader goroutine.
func NewImages(timeout time.Duration, onError func(ref string, err error)) *Images {
	return &Images{
		client:  &http.Client{Timeout: timeout},
		onError: onError,
		entries: make(map[string]*imageEntry),
	}
}

// Preload starts loading ref if it is not already known.
func (c *Images) Preload(ref string) {
	if ref == "" {
		return
	}
	c.mu.Lock()
	if _, ok := c.entries[ref]; ok {
		c.mu.Unlock()
		return
	}
	c.entries[ref] = &imageEntry{state: imageLoading}
	c.mu.Unlock()

	go c.load(ref)
}

// Get returns the image for ref, or nil while it is still loading or if it
// failed.
func (c *Images) Get(ref string) *ebiten.Image {
	c.Preload(ref)

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[ref]
	if e == nil {
		return nil
	}
	switch e.state {
	case imageReady:
		return e.img
	case imageDecoded:
		e.img = ebiten.NewImageFromImage(e.decoded)
		e.decoded = nil
		e.state = imageReady
		return e.img
	default:
		return nil
	}
}

func (c *Images) load(ref string) {
	img, err := c.fetch(ref)

	c.mu.Lock()
	e := c.entries[ref]
	if err != nil {
		e.state = imageFailed
	} else {
		e.state = imageDecoded
		e.decoded = img
	}
	c.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Str("ref", ref).Msg("image load failed")
		if c.onError != nil {
			c.onError(ref, err)
		}
		return
	}
	log.Debug().Str("ref", ref).Msg("image loaded")
}

func (c *Images) fetch(ref string) (image.Image, error) {
	var r io.ReadCloser
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		resp, err := c.client.Get(ref)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", ref, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: status %d", ref, resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", ref, err)
		}
		r = f
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}
