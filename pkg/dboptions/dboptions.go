// Package dboptions assembles the engine's primitive, composite, and
// polymorphic descriptors into the two option groups a mantisDB
// instance is actually configured through: database-wide options and
// per-column-family options. It demonstrates primitive, struct,
// vector, domain-enum, and customizable descriptors wired to real
// fields; not every TagXxx is used here (no double, string, unsigned,
// prefix-transform, or plain TagConfigurable field).
package dboptions

import (
	"github.com/mantisdb/optionengine/internal/bootstrap"
	"github.com/mantisdb/optionengine/pkg/options"
)

// WriteBufferManager is a plain nested struct (TagStruct), the
// "struct-valued option" composite case: it has no identity of its
// own and is always serialized as a single "{...}" blob or addressed
// by dotted path ("write_buffer_manager.size").
type WriteBufferManager struct {
	Size           int64 `json:"size"`
	ShareAcrossCFs bool  `json:"share_across_cfs"`
}

func writeBufferManagerTable() *options.Table {
	return options.NewTable(
		&options.Descriptor{
			Name:     "size",
			Tag:      options.TagSize,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(w *WriteBufferManager) *int64 { return &w.Size }),
		},
		&options.Descriptor{
			Name:     "share_across_cfs",
			Tag:      options.TagBoolean,
			Accessor: options.Field(func(w *WriteBufferManager) *bool { return &w.ShareAcrossCFs }),
		},
	)
}

// DBOptions holds the database-wide settings: file-system knobs, the
// write buffer manager, and the Customizable storage-provider and
// cache subsystems.
type DBOptions struct {
	options.Base

	CreateIfMissing bool  `json:"create_if_missing"`
	MaxOpenFiles    int32 `json:"max_open_files"`

	WriteBufferManager WriteBufferManager `json:"write_buffer_manager"`

	StorageProvider options.Customizable `json:"storage_provider"`
	Cache           options.Customizable `json:"cache"`
}

func NewDBOptions() *DBOptions {
	o := &DBOptions{MaxOpenFiles: -1}
	o.Init(options.OptionGroup{Table: dbOptionsTable(o), Record: o})
	return o
}

func dbOptionsTable(o *DBOptions) *options.Table {
	return options.NewTable(
		&options.Descriptor{
			Name:     "create_if_missing",
			Tag:      options.TagBoolean,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *DBOptions) *bool { return &o.CreateIfMissing }),
		},
		&options.Descriptor{
			Name:     "max_open_files",
			Tag:      options.TagInt32,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *DBOptions) *int32 { return &o.MaxOpenFiles }),
		},
		&options.Descriptor{
			Name:     "write_buffer_manager",
			Tag:      options.TagStruct,
			Flags:    options.FlagMutable,
			Struct:   writeBufferManagerTable(),
			Accessor: options.StructField(func(o *DBOptions) *WriteBufferManager { return &o.WriteBufferManager }),
		},
		&options.Descriptor{
			Name: "storage_provider",
			Tag:  options.TagCustomizable,
			Accessor: options.FieldFunc{
				Get: func(r any) any { return r.(*DBOptions).StorageProvider },
				Set: func(r any, v any) error {
					c, ok := v.(options.Customizable)
					if !ok {
						return options.InvalidArgument("storage_provider: expected a Customizable value")
					}
					r.(*DBOptions).StorageProvider = c
					return nil
				},
			},
		},
		&options.Descriptor{
			Name: "cache",
			Tag:  options.TagCustomizable,
			Accessor: options.FieldFunc{
				Get: func(r any) any { return r.(*DBOptions).Cache },
				Set: func(r any, v any) error {
					c, ok := v.(options.Customizable)
					if !ok {
						return options.InvalidArgument("cache: expected a Customizable value")
					}
					r.(*DBOptions).Cache = c
					return nil
				},
			},
		},
	)
}

func (o *DBOptions) ConfigureFromMap(ctx options.Context, kvs []options.KV) error {
	return o.Base.ConfigureFromMap(ctx, o, kvs)
}
func (o *DBOptions) ConfigureFromString(ctx options.Context, s string) error {
	return o.Base.ConfigureFromString(ctx, o, s)
}
func (o *DBOptions) ConfigureOption(ctx options.Context, name, value string) error {
	return o.Base.ConfigureOption(ctx, o, name, value)
}
func (o *DBOptions) GetOptionString(ctx options.Context) (string, error) {
	return o.Base.GetOptionString(ctx, o)
}
func (o *DBOptions) GetOption(ctx options.Context, name string) (string, error) {
	return o.Base.GetOption(ctx, o, name)
}
func (o *DBOptions) OptionNames() []string { return o.Base.OptionNames(o) }
func (o *DBOptions) Matches(ctx options.Context, other options.Configurable) (bool, string) {
	return o.Base.Matches(ctx, o, other)
}
func (o *DBOptions) PrepareOptions(ctx options.Context) error {
	return o.Base.PrepareOptions(ctx, o)
}
func (o *DBOptions) ValidateOptions(ctx options.Context) error {
	if o.MaxOpenFiles == 0 {
		return options.InvalidArgument("max_open_files must not be 0")
	}
	return o.Base.ValidateOptions(ctx, o)
}

// CFOptions holds per-column-family settings: the compression and
// checksum Customizable subsystems, and a vector-valued field (the
// per-level target file sizes).
type CFOptions struct {
	options.Base

	Compression options.Customizable `json:"compression"`
	Checksum    options.Customizable `json:"checksum"`

	// CompactionStyle and CompactionPri are the plain domain-enum
	// fields RocksDB's ColumnFamilyOptions carries alongside its
	// pluggable compaction picker; unlike Compression/Checksum above
	// they select a fixed, closed-set behavior rather than a
	// Customizable subsystem, so they stay TagEnumCompactionStyle/
	// TagEnumCompactionPri scalars rather than registry entries.
	CompactionStyle     int `json:"compaction_style"`
	CompactionPri       int `json:"compaction_pri"`
	CompactionStopStyle int `json:"compaction_stop_style"`
	EncodingType        int `json:"encoding_type"`

	TargetFileSizeMultipliers []int64 `json:"target_file_size_multipliers"`
}

func NewCFOptions() *CFOptions {
	o := &CFOptions{TargetFileSizeMultipliers: []int64{1, 2, 4, 8}}
	o.Init(options.OptionGroup{Table: cfOptionsTable(o), Record: o})
	return o
}

func cfOptionsTable(o *CFOptions) *options.Table {
	return options.NewTable(
		&options.Descriptor{
			Name: "compression",
			Tag:  options.TagCustomizable,
			Accessor: options.FieldFunc{
				Get: func(r any) any { return r.(*CFOptions).Compression },
				Set: func(r any, v any) error {
					c, ok := v.(options.Customizable)
					if !ok {
						return options.InvalidArgument("compression: expected a Customizable value")
					}
					r.(*CFOptions).Compression = c
					return nil
				},
			},
		},
		&options.Descriptor{
			Name: "checksum",
			Tag:  options.TagCustomizable,
			Accessor: options.FieldFunc{
				Get: func(r any) any { return r.(*CFOptions).Checksum },
				Set: func(r any, v any) error {
					c, ok := v.(options.Customizable)
					if !ok {
						return options.InvalidArgument("checksum: expected a Customizable value")
					}
					r.(*CFOptions).Checksum = c
					return nil
				},
			},
		},
		&options.Descriptor{
			Name:     "compaction_style",
			Tag:      options.TagEnumCompactionStyle,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *CFOptions) *int { return &o.CompactionStyle }),
		},
		&options.Descriptor{
			Name:     "compaction_pri",
			Tag:      options.TagEnumCompactionPri,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *CFOptions) *int { return &o.CompactionPri }),
		},
		&options.Descriptor{
			Name:     "compaction_stop_style",
			Tag:      options.TagEnumCompactionStopStyle,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *CFOptions) *int { return &o.CompactionStopStyle }),
		},
		&options.Descriptor{
			Name:     "encoding_type",
			Tag:      options.TagEnumEncodingType,
			Flags:    options.FlagMutable,
			Accessor: options.Field(func(o *CFOptions) *int { return &o.EncodingType }),
		},
		&options.Descriptor{
			Name:  "target_file_size_multipliers",
			Tag:   options.TagVector,
			Flags: options.FlagMutable,
			Elem:  &options.Descriptor{Tag: options.TagSize},
			Accessor: options.Field(func(o *CFOptions) *[]int64 { return &o.TargetFileSizeMultipliers }),
		},
	)
}

func (o *CFOptions) ConfigureFromMap(ctx options.Context, kvs []options.KV) error {
	return o.Base.ConfigureFromMap(ctx, o, kvs)
}
func (o *CFOptions) ConfigureFromString(ctx options.Context, s string) error {
	return o.Base.ConfigureFromString(ctx, o, s)
}
func (o *CFOptions) ConfigureOption(ctx options.Context, name, value string) error {
	return o.Base.ConfigureOption(ctx, o, name, value)
}
func (o *CFOptions) GetOptionString(ctx options.Context) (string, error) {
	return o.Base.GetOptionString(ctx, o)
}
func (o *CFOptions) GetOption(ctx options.Context, name string) (string, error) {
	return o.Base.GetOption(ctx, o, name)
}
func (o *CFOptions) OptionNames() []string { return o.Base.OptionNames(o) }
func (o *CFOptions) Matches(ctx options.Context, other options.Configurable) (bool, string) {
	return o.Base.Matches(ctx, o, other)
}
func (o *CFOptions) PrepareOptions(ctx options.Context) error {
	return o.Base.PrepareOptions(ctx, o)
}
func (o *CFOptions) ValidateOptions(ctx options.Context) error {
	return o.Base.ValidateOptions(ctx, o)
}

// NewContext returns a Context whose Registry has every built-in
// subsystem (compression, checksum, storage provider, cache)
// registered, ready to resolve any identifier a DBOptions/CFOptions
// string can name.
func NewContext() (options.Context, error) {
	ctx := options.Default()
	reg := options.NewRegistry()
	if err := bootstrap.RegisterBuiltins(reg); err != nil {
		return options.Context{}, err
	}
	ctx.Registry = reg
	return ctx, nil
}
