package loader

import (
	"fmt"
	"time"
)

// RegionNotFoundError reports that the target region never appeared within
// the initial wait. The session cannot proceed; retrying without a fresh
// navigation is pointless.
type RegionNotFoundError struct {
	Selector string
	Wait     time.Duration
	Err      error
}

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("loader: target region %q not found within %s: %v", e.Selector, e.Wait, e.Err)
}

func (e *RegionNotFoundError) Unwrap() error { return e.Err }

// SurfaceLostError reports that the surface became unusable mid-session.
// The loader does not retry; the caller may re-navigate a fresh surface
// and call Acquire again.
type SurfaceLostError struct {
	Op       string // reveal | count | markup
	Attempts int    // reveal actions issued before the failure
	Err      error
}

func (e *SurfaceLostError) Error() string {
	return fmt.Sprintf("loader: surface lost during %s after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *SurfaceLostError) Unwrap() error { return e.Err }
