package loop

import "errors"

// ErrFramePanic is returned by Driver.Frame when a frame panicked.
var ErrFramePanic = errors.New("frame panicked")
