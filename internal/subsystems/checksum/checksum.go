// Package checksum wires the configuration engine's Customizable
// surface to mantisDB's data-integrity checksum algorithms, adapting
// integrity.ChecksumEngine's algorithm set into a single registry-
// constructible option object keyed by identifier.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/crc32"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/mantisdb/optionengine/pkg/options"
)

// Hasher computes a fixed-form digest over data. sha256 returns its
// digest hex-encoded; crc32c/xxhash return a decimal-encoded integer.
type Hasher interface {
	Sum(data []byte) string
}

// Options is the Customizable for a single checksum algorithm
// selection plus the read-time verification toggle. Its identifier
// (GetID) doubles as the algorithm name, rather than carrying the
// algorithm as a plain enum field, so it can be swapped via the same
// "child={id=X;...}" binding every other registry-backed subsystem
// uses.
type Options struct {
	options.CustomizableBase

	VerifyOnRead bool `json:"verify_on_read"`

	hasher Hasher
}

func newTable(o *Options) *options.Table {
	return options.NewTable(
		&options.Descriptor{
			Name:     "verify_on_read",
			Tag:      options.TagBoolean,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *Options) *bool { return &o.VerifyOnRead }),
		},
	)
}

func newOptions(id string) *Options {
	o := &Options{VerifyOnRead: true}
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
	if err := o.Base.PrepareOptions(ctx, o); err != nil {
		return err
	}
	h, err := buildHasher(o.ID)
	if err != nil {
		return err
	}
	o.hasher = h
	return nil
}
func (o *Options) ValidateOptions(ctx options.Context) error {
	return o.Base.ValidateOptions(ctx, o)
}

// Hasher returns the prepared digest function. Nil until
// PrepareOptions has run.
func (o *Options) Hasher() Hasher { return o.hasher }

func buildHasher(id string) (Hasher, error) {
	switch id {
	case "none":
		return noneHasher{}, nil
	case "crc32c":
		return crc32cHasher{}, nil
	case "xxhash":
		return xxhashHasher{}, nil
	case "sha256":
		return sha256Hasher{}, nil
	default:
		return nil, options.NotSupported("checksum: unrecognized identifier %q", id)
	}
}

// Register adds the "none", "crc32c", "xxhash", and "sha256"
// factories to r.
func Register(r *options.Registry) error {
	for _, id := range []string{"none", "crc32c", "xxhash", "sha256"} {
		r.Register(id, func(ctx options.Context, gotID string) (options.Customizable, error) {
			return newOptions(gotID), nil
		})
	}
	return nil
}

type noneHasher struct{}

func (noneHasher) Sum([]byte) string { return "" }

type crc32cHasher struct{}

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

func (crc32cHasher) Sum(data []byte) string {
	return strconv.FormatUint(uint64(crc32.Checksum(data, castagnoliTable)), 10)
}

type xxhashHasher struct{}

func (xxhashHasher) Sum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 10)
}

type sha256Hasher struct{}

func (sha256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
