// Package process terminates browser process trees left behind by the
// snapshot renderer.
package process

import "errors"

// ErrInvalidPID is returned for PIDs that would address the caller's own
// process group or no process at all.
var ErrInvalidPID = errors.New("invalid pid")
