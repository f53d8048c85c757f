package tags

import (
	"os"
	"strconv"
)

// Default decoding limits.
const (
	DefaultMaxValueSize uint64 = 64 << 20
	DefaultMaxDepth            = 64
)

// Config controls how registries and factories decode.
type Config struct {
	// Strict: when true, identifiers without a registered creator fail with
	// ErrUnknownTag. When false (default), they decode as UnknownTag, or as
	// RawTag for implicit identifiers.
	Strict bool

	// MaxValueSize caps the value size read from a length field. Larger
	// declarations fail with wire.ErrValueOverflow before anything is
	// allocated. Zero disables the check.
	MaxValueSize uint64

	// MaxDepth caps how deeply tags may nest. Deeper data fails with
	// wire.ErrCorruptedData. Zero disables the check.
	MaxDepth int

	// AllowOverwrite: when true, Register replaces existing creators instead
	// of failing with ErrAlreadyRegistered.
	AllowOverwrite bool
}

var config = Config{
	MaxValueSize: DefaultMaxValueSize,
	MaxDepth:     DefaultMaxDepth,
}

// DefaultConfig returns the configuration new registries start from.
func DefaultConfig() Config {
	return config
}

// SetDefaultConfig replaces the configuration new registries start from.
// It is not synchronized; call it during initialization.
func SetDefaultConfig(c Config) { config = c }

func init() {
	// Optional env toggles for tools and test harnesses.
	if v := os.Getenv("ILTAGS_STRICT"); v == "1" || v == "true" {
		config.Strict = true
	}
	if v, err := strconv.ParseUint(os.Getenv("ILTAGS_MAX_VALUE_SIZE"), 10, 64); err == nil {
		config.MaxValueSize = v
	}
	if v, err := strconv.Atoi(os.Getenv("ILTAGS_MAX_DEPTH")); err == nil && v >= 0 {
		config.MaxDepth = v
	}
}
