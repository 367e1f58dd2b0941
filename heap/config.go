package heap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/joshuapare/heapkit/internal/tag"
)

// Config defines the allocator growth and indexing strategy. Different
// configurations trade extension frequency against slack at the tail of the
// region.
type Config struct {
	// Name for this configuration (for benchmarking and trace reports).
	Name string `yaml:"name,omitempty"`

	// ChunkSize is the minimum region extension, in bytes. Requests larger
	// than ChunkSize extend by the request size instead. Must be a multiple
	// of the 8-byte alignment unit.
	ChunkSize int32 `yaml:"chunk_size"`

	// NumBuckets is the number of power-of-two size-class buckets.
	NumBuckets int `yaml:"num_buckets"`

	// InitialRegion is the size of the first free block laid down by Init.
	InitialRegion int32 `yaml:"initial_region"`
}

// Predefined configurations.
var (
	// DefaultConfig mirrors the classic sbrk allocator: 4KB extension
	// chunks and 20 buckets.
	DefaultConfig = Config{
		Name:          "Default",
		ChunkSize:     4096,
		NumBuckets:    20,
		InitialRegion: tag.MinBlockSize,
	}

	// ConfigCompact grows in small steps. Lower slack for short traces at
	// the cost of more extension calls.
	ConfigCompact = Config{
		Name:          "Compact",
		ChunkSize:     1024,
		NumBuckets:    20,
		InitialRegion: tag.MinBlockSize,
	}

	// ConfigThroughput grows in large steps to keep extension off the hot
	// path for allocation-heavy workloads.
	ConfigThroughput = Config{
		Name:          "Throughput",
		ChunkSize:     1 << 16,
		NumBuckets:    24,
		InitialRegion: 4096,
	}
)

const (
	minBuckets = 8
	maxBuckets = 32
)

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultConfig.ChunkSize
	}
	if c.NumBuckets == 0 {
		c.NumBuckets = DefaultConfig.NumBuckets
	}
	if c.InitialRegion == 0 {
		c.InitialRegion = DefaultConfig.InitialRegion
	}
	return c
}

// validate reports the first problem with the configuration.
func (c Config) validate() error {
	if c.ChunkSize < tag.MinBlockSize || c.ChunkSize%tag.Alignment != 0 {
		return fmt.Errorf("%w: chunk size %d must be a multiple of %d and at least %d",
			ErrConfig, c.ChunkSize, tag.Alignment, tag.MinBlockSize)
	}
	if c.NumBuckets < minBuckets || c.NumBuckets > maxBuckets {
		return fmt.Errorf("%w: bucket count %d outside [%d, %d]",
			ErrConfig, c.NumBuckets, minBuckets, maxBuckets)
	}
	if c.InitialRegion < tag.MinBlockSize || c.InitialRegion%tag.Alignment != 0 {
		return fmt.Errorf("%w: initial region %d must be a multiple of %d and at least %d",
			ErrConfig, c.InitialRegion, tag.Alignment, tag.MinBlockSize)
	}
	return nil
}

// LoadConfig reads a Config from a YAML file. Missing fields fall back to
// DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("heap: read config: %w", err)
	}
	var c Config
	if err := yaml.UnmarshalStrict(raw, &c); err != nil {
		return nil, fmt.Errorf("heap: parse config: %w", err)
	}
	c = c.withDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
