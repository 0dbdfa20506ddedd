package sound

import (
	"errors"
	"os"
	"testing"
)

func TestSilent_Counts(t *testing.T) {
	s := &Silent{}
	ready := false
	s.Load("bgm.mp3", func(err error) {
		if err != nil {
			t.Fatalf("silent load failed: %v", err)
		}
		ready = true
	})
	if !ready {
		t.Fatalf("silent load should report ready synchronously")
	}
	s.PlayLoop()
	if !s.Looping() {
		t.Fatalf("loop should be running")
	}
	s.Play()
	s.Stop()
	plays, loops, stops := s.Counts()
	if plays != 1 || loops != 1 || stops != 1 || s.Looping() {
		t.Fatalf("counts = %d %d %d looping=%v", plays, loops, stops, s.Looping())
	}
}

func TestDecodeFile_Errors(t *testing.T) {
	if _, err := decodeFile("clip.ogg"); err == nil {
		t.Fatalf("missing file should fail")
	}
	path := t.TempDir() + "/clip.ogg"
	if err := writeEmpty(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := decodeFile(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func writeEmpty(path string) error {
	return os.WriteFile(path, nil, 0o600)
}
