// Package cache wires the configuration engine's Customizable surface
// to mantisDB's in-process block cache, adapting cache.CacheManager's
// CacheConfig (capacity, eviction policy, default TTL) into a single
// registry-constructible option object.
package cache

import (
	"time"

	"github.com/mantisdb/optionengine/pkg/options"
)

// Options is the Customizable wrapping a CacheConfig-shaped set of
// descriptors: capacity in bytes, an eviction policy enum, and a
// default entry TTL expressed in whole seconds. The TTL is TagSize, so
// it accepts the K/M/G/T suffixes, but they are base-1024 multipliers,
// not time units: "5m" parses as 5242880 seconds, not five minutes.
type Options struct {
	options.CustomizableBase

	Capacity       int64 `json:"capacity"`
	DefaultTTLSecs int64 `json:"default_ttl_secs"`
	Policy         int   `json:"eviction_policy"`
}

const (
	PolicyLRU int = iota
	PolicyLFU
	PolicyFIFO
)

var policyEnum = options.NewEnumMap(map[string]int64{
	"lru":  int64(PolicyLRU),
	"lfu":  int64(PolicyLFU),
	"fifo": int64(PolicyFIFO),
})

func newTable(o *Options) *options.Table {
	return options.NewTable(
		&options.Descriptor{
			Name:     "capacity",
			Tag:      options.TagSize,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *Options) *int64 { return &o.Capacity }),
		},
		&options.Descriptor{
			Name:     "default_ttl_secs",
			Tag:      options.TagSize,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *Options) *int64 { return &o.DefaultTTLSecs }),
		},
		&options.Descriptor{
			Name:     "eviction_policy",
			Tag:      options.TagEnum,
			Enum:     policyEnum,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *Options) *int { return &o.Policy }),
		},
	)
}

func newOptions(id string) *Options {
	o := &Options{Capacity: 64 << 20, DefaultTTLSecs: 300}
	o.ID = id
	o.Init(options.OptionGroup{Table: newTable(o), Record: o})
	return o
}

func (o *Options) ConfigureFromMap(ctx options.Context, kvs []options.KV) error {
	return o.Base.ConfigureFromMap(ctx, o, kvs)
}
func (o *Options) ConfigureFromString(ctx options.Context, s string) error {
	return o.Base.ConfigureFromString(ctx, o, s)
}
func (o *Options) ConfigureOption(ctx options.Context, name, value string) error {
	return o.Base.ConfigureOption(ctx, o, name, value)
}
func (o *Options) GetOptionString(ctx options.Context) (string, error) {
	return o.Base.GetOptionString(ctx, o)
}
func (o *Options) GetOption(ctx options.Context, name string) (string, error) {
	return o.Base.GetOption(ctx, o, name)
}
func (o *Options) OptionNames() []string { return o.Base.OptionNames(o) }
func (o *Options) Matches(ctx options.Context, other options.Configurable) (bool, string) {
	return o.Base.Matches(ctx, o, other)
}
func (o *Options) PrepareOptions(ctx options.Context) error {
	if o.Capacity <= 0 {
		return options.InvalidArgument("cache: capacity must be positive, got %d", o.Capacity)
	}
	return o.Base.PrepareOptions(ctx, o)
}
func (o *Options) ValidateOptions(ctx options.Context) error {
	return o.Base.ValidateOptions(ctx, o)
}

// DefaultTTL returns the configured default TTL as a time.Duration.
func (o *Options) DefaultTTL() time.Duration {
	return time.Duration(o.DefaultTTLSecs) * time.Second
}

// Register adds the single "default" cache identifier to r.
func Register(r *options.Registry) error {
	r.Register("default", func(ctx options.Context, id string) (options.Customizable, error) {
		return newOptions(id), nil
	})
	return nil
}
