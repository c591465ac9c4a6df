// Package cache provides the storage used to memoize computed layouts and
// rendered artifacts.
//
// The layout engine is pure, so any result can be cached under a key
// derived from its inputs. A [Keyer] turns those inputs into keys; a
// [Cache] stores opaque bytes under them. Backends:
//
//   - [NullCache]: caching disabled
//   - [MemoryCache]: in-process, for tests and the HTTP server
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared between server instances
//   - [MongoCache]: durable, for long-lived artifacts
//   - [TieredCache]: a fast cache in front of a durable one
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Entry lifetimes. Layouts are cheap to recompute; rendered artifacts are
// kept longer because PNG/PDF conversion shells out.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer derives cache keys. Keys only depend on their arguments.
type Keyer interface {
	// LayoutKey keys a computed layout by the hash of its chart inputs.
	LayoutKey(specHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout inputs that are not part of the chart
// spec itself.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Target     string  `json:"target"`
	ConfigHash string  `json:"config_hash,omitempty"`
}

// ArtifactKeyOpts are the render options of an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Effect   string  `json:"effect,omitempty"`
	Instance int     `json:"instance,omitempty"`
	Debug    bool    `json:"debug,omitempty"`
}

// DefaultKeyer builds keys of the form "kind:sha256(args)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(specHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", specHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
