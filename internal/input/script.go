package input

// Script is a Source driven by code: tests and headless bots hold and
// release keys explicitly.
type Script struct {
	held [keyCount]bool
}

// NewScript creates a Script with nothing held.
func NewScript() *Script {
	return &Script{}
}

// Hold presses k until Release.
func (s *Script) Hold(k Key) {
	if k >= 0 && k < keyCount {
		s.held[k] = true
	}
}

// Release lifts k.
func (s *Script) Release(k Key) {
	if k >= 0 && k < keyCount {
		s.held[k] = false
	}
}

// ReleaseAll lifts every key.
func (s *Script) ReleaseAll() {
	s.held = [keyCount]bool{}
}

// IsKeyPressed implements Source.
func (s *Script) IsKeyPressed(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	return s.held[k]
}
