// Package storageprovider wires the configuration engine's
// Customizable surface to a pluggable storage backend selection,
// adapting internal/providers.StorageProvider's factory shape (and
// internal/container's registered-factory pattern) into two
// registry-constructible option identifiers.
package storageprovider

import (
	"github.com/mantisdb/optionengine/pkg/options"
)

// Options is the Customizable describing how a storage backend should
// be opened: its data directory, whether writes are synced before
// acknowledgement, and whether to prefer a cgo-backed engine where
// available (PrepareOptions rejects use_cgo=true under the "pure-go"
// identifier).
type Options struct {
	options.CustomizableBase

	DataDir    string `json:"data_dir"`
	SyncWrites bool   `json:"sync_writes"`
	UseCGO     bool   `json:"use_cgo"`
}

func newTable(o *Options) *options.Table {
	return options.NewTable(
		&options.Descriptor{
			Name:     "data_dir",
			Tag:      options.TagString,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *Options) *string { return &o.DataDir }),
		},
		&options.Descriptor{
			Name:     "sync_writes",
			Tag:      options.TagBoolean,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *Options) *bool { return &o.SyncWrites }),
		},
		&options.Descriptor{
			Name:     "use_cgo",
			Tag:      options.TagBoolean,
			Accessor: options.Field(func(o *Options) *bool { return &o.UseCGO }),
		},
	)
}

func newOptions(id string) *Options {
	o := &Options{DataDir: "./data"}
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
	if o.ID == "pure-go" && o.UseCGO {
		return options.InvalidArgument("storageprovider: use_cgo is not valid with the pure-go identifier")
	}
	return o.Base.PrepareOptions(ctx, o)
}
func (o *Options) ValidateOptions(ctx options.Context) error {
	return o.Base.ValidateOptions(ctx, o)
}

// Register adds the "memory" and "pure-go" factories to r.
func Register(r *options.Registry) error {
	for _, id := range []string{"memory", "pure-go"} {
		r.Register(id, func(ctx options.Context, gotID string) (options.Customizable, error) {
			return newOptions(gotID), nil
		})
	}
	return nil
}
