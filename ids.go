package callibella

import (
	"fmt"

	"github.com/google/uuid"
)

// IDSource generates identifiers for stories, jobs and backend requests.
// It is injectable so tests can supply deterministic ids.
type IDSource interface {
	NewID(prefix string) string
}

// UUIDSource generates ids as "<prefix>-<uuid>".
type UUIDSource struct{}

// NewID implements IDSource.
func (UUIDSource) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// ClockSource generates ids as "<prefix>-<epoch millis>", the scheme legacy
// persisted data was written with. Collisions are possible within the same
// millisecond; prefer UUIDSource for new data.
type ClockSource struct{}

// NewID implements IDSource.
func (ClockSource) NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, NowMillis())
}

// Verify implementations satisfy IDSource
var (
	_ IDSource = UUIDSource{}
	_ IDSource = ClockSource{}
)
