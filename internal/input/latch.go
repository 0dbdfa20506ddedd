// Package input turns raw key state into press-once events.
package input

// Key is a physical key the game reacts to.
type Key int

const (
	KeyEnter Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyM
	KeyQ
	KeyC
	keyCount
)

var keyNames = [keyCount]string{
	KeyEnter: "Enter",
	KeyLeft:  "ArrowLeft",
	KeyRight: "ArrowRight",
	KeyUp:    "ArrowUp",
	KeyDown:  "ArrowDown",
	KeyM:     "m",
	KeyQ:     "q",
	KeyC:     "c",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// Keys lists every key the latch tracks.
func Keys() []Key {
	out := make([]Key, keyCount)
	for i := range out {
		out[i] = Key(i)
	}
	return out
}

// Source reports the raw pressed state of a key.
type Source interface {
	IsKeyPressed(k Key) bool
}

// Latch samples a Source once per frame. A key fires at most once until any
// tracked key is released, so holding Enter across a scene change does not
// also trigger the next scene.
type Latch struct {
	src   Source
	down  [keyCount]bool
	armed bool
}

// NewLatch creates an armed latch.
func NewLatch(src Source) *Latch {
	return &Latch{src: src, armed: true}
}

// Poll samples the source. Call once at the start of every frame.
func (l *Latch) Poll() {
	for k := Key(0); k < keyCount; k++ {
		now := l.src.IsKeyPressed(k)
		if l.down[k] && !now {
			l.armed = true
		}
		l.down[k] = now
	}
}

// IsDown reports whether k was held at the last Poll.
func (l *Latch) IsDown(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	return l.down[k]
}

// Armed reports whether the next held key may fire.
func (l *Latch) Armed() bool { return l.armed }

// Fire reports whether k is held and the latch is armed, and disarms it.
func (l *Latch) Fire(k Key) bool {
	if !l.armed || !l.IsDown(k) {
		return false
	}
	l.armed = false
	return true
}
