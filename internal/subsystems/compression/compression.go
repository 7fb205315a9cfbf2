// Package compression wires the configuration engine's
// Customizable surface to mantisDB's pluggable block-compression
// algorithms, adapting the algorithm set from advanced/compression's
// CompressionEngine into one option type registered under four
// identifiers (none, lz4, snappy, zstd).
package compression

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/mantisdb/optionengine/pkg/options"
)

// Codec is the runtime object a compression Customizable prepares:
// the same Compress/Decompress shape as the teacher's
// CompressionAlgorithm interface.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Options is the Customizable descriptor table shared by all three
// compression identifiers: a level (meaningful to zstd, ignored by the
// others), a minimum size below which the caller should skip
// compressing entirely, and the prepared Codec.
type Options struct {
	options.CustomizableBase

	Level   int   `json:"level"`
	MinSize int64 `json:"min_size"`

	codec Codec
}

func newTable(o *Options) *options.Table {
	return options.NewTable(
		&options.Descriptor{
			Name:     "level",
			Tag:      options.TagInt32,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *Options) *int { return &o.Level }),
		},
		&options.Descriptor{
			Name:     "min_size",
			Tag:      options.TagSize,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *Options) *int64 { return &o.MinSize }),
		},
	)
}

func newOptions(id string) *Options {
	o := &Options{MinSize: 1024}
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
	codec, err := buildCodec(o.ID, o.Level)
	if err != nil {
		return err
	}
	o.codec = codec
	return nil
}
func (o *Options) ValidateOptions(ctx options.Context) error {
	return o.Base.ValidateOptions(ctx, o)
}

// Codec returns the prepared compressor/decompressor. It is nil until
// PrepareOptions has run.
func (o *Options) Codec() Codec { return o.codec }

func buildCodec(id string, level int) (Codec, error) {
	switch id {
	case "none":
		return noneCodec{}, nil
	case "lz4":
		return lz4Codec{}, nil
	case "snappy":
		return snappyCodec{}, nil
	case "zstd":
		return newZstdCodec(level)
	default:
		return nil, options.NotSupported("compression: unrecognized identifier %q", id)
	}
}

// Register adds the "none", "lz4", "snappy", and "zstd" factories to
// r, each producing a fresh *Options bound to its identifier.
func Register(r *options.Registry) error {
	for _, id := range []string{"none", "lz4", "snappy", "zstd"} {
		r.Register(id, func(ctx options.Context, gotID string) (options.Customizable, error) {
			return newOptions(gotID), nil
		})
	}
	return nil
}

type noneCodec struct{}

func (noneCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noneCodec) Decompress(data []byte) ([]byte, error) { return data, nil }

type lz4Codec struct{}

func (lz4Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lz4Codec) Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}

type snappyCodec struct{}

func (snappyCodec) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCodec) Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

// zstdCodec holds a live encoder/decoder pair, the "prepare performs
// real resource acquisition" case the engine's lifecycle driver
// exists for: constructing these is more than a field assignment and
// the encoder in particular must eventually be Closed.
type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCodec(level int) (*zstdCodec, error) {
	zlevel := zstd.SpeedDefault
	switch {
	case level <= 1:
		zlevel = zstd.SpeedFastest
	case level >= 9:
		zlevel = zstd.SpeedBestCompression
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zlevel))
	if err != nil {
		return nil, options.Wrap(options.KindIOError, err, "constructing zstd encoder")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, options.Wrap(options.KindIOError, err, "constructing zstd decoder")
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}

func (z *zstdCodec) Compress(data []byte) ([]byte, error) {
	return z.enc.EncodeAll(data, nil), nil
}

func (z *zstdCodec) Decompress(data []byte) ([]byte, error) {
	return z.dec.DecodeAll(data, nil)
}

// Close releases the zstd encoder/decoder's background resources.
// Codecs that don't hold any (none, lz4, snappy) have no Close method.
func (z *zstdCodec) Close() {
	z.enc.Close()
	z.dec.Close()
}
