package ebitensurface

import (
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestImages_FetchFileAndHTTP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "back.png")
	writePNG(t, path)

	c := NewImages(time.Second, nil)
	img, err := c.fetch(path)
	if err != nil {
		t.Fatalf("fetch file: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer srv.Close()
	if _, err := c.fetch(srv.URL + "/back.png"); err != nil {
		t.Fatalf("fetch http: %v", err)
	}
	if _, err := c.fetch(srv.URL + "/missing.png"); err == nil {
		t.Fatalf("missing http image should fail")
	}
}

func TestImages_FailureReportedOnce(t *testing.T) {
	failed := make(chan string, 4)
	c := NewImages(time.Second, func(ref string, err error) { failed <- ref })

	c.Preload("does/not/exist.png")
	c.Preload("does/not/exist.png")

	select {
	case ref := <-failed:
		if ref != "does/not/exist.png" {
			t.Fatalf("failed ref = %s", ref)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("failure was not reported")
	}
	select {
	case <-failed:
		t.Fatalf("failure reported twice")
	case <-time.After(50 * time.Millisecond):
	}
	if img := c.Get("does/not/exist.png"); img != nil {
		t.Fatalf("failed image should be nil")
	}
}
