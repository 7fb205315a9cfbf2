package options

import "strings"

// Customizable is a Configurable identified by a registry name, the
// polymorphic building block spec.md §4.6 describes: a field typed as
// a Customizable can be rebound to any identifier the active Registry
// knows about, without the owning struct's type changing.
type Customizable interface {
	Configurable
	GetID() string
}

// CustomizableBase adds the registry identity to Base. Concrete
// pluggable subsystems (compression, checksum, cache, storage
// provider) embed this instead of Base directly.
type CustomizableBase struct {
	Base
	ID string
}

func (c *CustomizableBase) GetID() string { return c.ID }

// prepareChild runs PrepareOptions on a single descriptor's child
// Configurable/Customizable value, if it has one and the field isn't
// flagged FlagDontPrepare. Non-composite descriptors are a no-op.
func prepareChild(d *Descriptor, ctx Context, record any) error {
	if d.Tag != TagConfigurable && d.Tag != TagCustomizable {
		return nil
	}
	child, ok := d.Accessor.Get(record).(Configurable)
	if !ok || child == nil {
		return nil
	}
	return child.PrepareOptions(ctx.Embedded())
}

func validateChild(d *Descriptor, ctx Context, record any) error {
	if d.Tag != TagConfigurable && d.Tag != TagCustomizable {
		return nil
	}
	child, ok := d.Accessor.Get(record).(Configurable)
	if !ok || child == nil {
		return nil
	}
	return child.ValidateOptions(ctx.Embedded())
}

// parseConfigurableField applies value to a plain (non-identified)
// TagConfigurable descriptor: a dotted-path suffix is forwarded as a
// single ConfigureOption on the existing or freshly-built child,
// otherwise the whole value is treated as that child's own option
// string.
func parseConfigurableField(d *Descriptor, ctx Context, record any, fieldPath, value string) error {
	child, _ := d.Accessor.Get(record).(Configurable)
	if child == nil {
		if d.NewConfigurable == nil {
			return NotSupported("%s: no constructor registered for nil configurable field", d.Name)
		}
		child = d.NewConfigurable()
	}

	embedded := ctx.Embedded()
	// fieldPath == d.Name is Table.Find's exact-match sentinel (see
	// structcodec.go's parseStructValue); it means "the whole value is
	// this child's own option string", same as fieldPath == "".
	if fieldPath != "" && fieldPath != d.Name {
		if err := child.ConfigureOption(embedded, fieldPath, value); err != nil {
			return err
		}
	} else if err := child.ConfigureFromString(embedded, value); err != nil {
		return err
	}
	return d.Accessor.Set(record, child)
}

func serializeConfigurableField(d *Descriptor, ctx Context, record any) (string, error) {
	child, _ := d.Accessor.Get(record).(Configurable)
	if child == nil {
		return "", nil
	}
	s, err := child.GetOptionString(ctx.Embedded())
	if err != nil {
		return "", err
	}
	return wrapIfDelimited(s), nil
}

// wrapIfDelimited wraps s in "{...}" whenever it contains '=' or ';',
// the same ambiguity vectors resolve by wrapping: a nested
// Configurable/Customizable's own "k=v;k=v" serialization must not be
// mistaken by the parent's tokenizer for multiple top-level pairs.
func wrapIfDelimited(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsAny(s, "=;") {
		return "{" + s + "}"
	}
	return s
}

// parseCustomizableField applies value to a TagCustomizable
// descriptor. With no fieldPath, value is either a bare registry
// identifier or a "id=X;k=v;..." map: GetOptionsMap below extracts the
// identifier, a fresh instance is constructed from the registry (or
// d.NewCustomizable when the descriptor supplies its own factory), and
// the remaining pairs are applied over it. With a fieldPath, the
// existing child must already be set and the call is forwarded as a
// single ConfigureOption, matching the Customizable three-step dance
// in customizable.cc.
func parseCustomizableField(d *Descriptor, ctx Context, record any, fieldPath, value string) error {
	embedded := ctx.Embedded()

	// fieldPath == d.Name is Table.Find's exact-match sentinel (see
	// structcodec.go's parseStructValue); it means "the whole value is
	// this field's id=X;... map", same as fieldPath == "".
	if fieldPath != "" && fieldPath != d.Name {
		child, _ := d.Accessor.Get(record).(Customizable)
		if child == nil {
			return NotFound("%s: no instance configured to receive %q", d.Name, fieldPath)
		}
		if err := child.ConfigureOption(embedded, fieldPath, value); err != nil {
			return err
		}
		return d.Accessor.Set(record, child)
	}

	id, rest, err := GetOptionsMap(value)
	if err != nil {
		return err
	}
	if id == "" {
		if ctx.IgnoreUnknownObjects {
			return nil
		}
		return InvalidArgument("%s: missing customizable identifier", d.Name)
	}

	var child Customizable
	if d.NewCustomizable != nil {
		child, err = d.NewCustomizable(embedded, id)
	} else {
		child, err = embedded.registry().NewObject(embedded, id)
	}
	if err != nil {
		if ctx.IgnoreUnknownObjects {
			return nil
		}
		return err
	}

	if len(rest) > 0 {
		if err := child.ConfigureFromMap(embedded, rest); err != nil {
			return err
		}
	}
	return d.Accessor.Set(record, child)
}

func serializeCustomizableField(d *Descriptor, ctx Context, record any) (string, error) {
	child, _ := d.Accessor.Get(record).(Customizable)
	if child == nil {
		return "", nil
	}
	if d.Flags.has(FlagStringShallow) {
		return wrapIfDelimited("id=" + child.GetID()), nil
	}
	inner, err := child.GetOptionString(ctx.Embedded())
	if err != nil {
		return "", err
	}
	if inner == "" {
		return wrapIfDelimited("id=" + child.GetID()), nil
	}
	return wrapIfDelimited("id=" + child.GetID() + ";" + inner), nil
}

// equalsConfigurableField compares two TagConfigurable/TagCustomizable
// fields. For a Customizable pair, GetID() is compared first; at
// SanityLooselyCompatible or below a matching id is sufficient,
// mirroring Customizable::DoMatchesOptions's short-circuit in
// customizable.cc, and only an exact-match sanity check recurses into
// the full option comparison.
func equalsConfigurableField(d *Descriptor, ctx Context, a, b any) (bool, string) {
	ca, _ := d.Accessor.Get(a).(Configurable)
	cb, _ := d.Accessor.Get(b).(Configurable)
	if ca == nil && cb == nil {
		return true, ""
	}
	if ca == nil || cb == nil {
		return false, d.Name
	}

	if xa, ok := ca.(Customizable); ok {
		xb, ok2 := cb.(Customizable)
		if !ok2 || xa.GetID() != xb.GetID() {
			return false, d.Name + ".id"
		}
		if ctx.SanityLevel <= SanityLooselyCompatible {
			return true, ""
		}
	}

	ok, mismatch := ca.Matches(ctx.Embedded(), cb)
	if !ok {
		return false, d.Name + "." + mismatch
	}
	return true, ""
}

// GetOptionsMap splits a Customizable field's raw value into its
// registry identifier and the remaining option pairs, handling both
// forms customizable.cc's GetOptionsMap accepts: a bare identifier
// with no '=' at all, and an "id=X;k=v;..." map with the id pseudo-key
// pulled out.
func GetOptionsMap(value string) (id string, rest []KV, err error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", nil, nil
	}
	if !strings.ContainsRune(v, '=') {
		return v, nil, nil
	}
	kvs, err := StringToMap(v, ';')
	if err != nil {
		return "", nil, err
	}
	for _, kv := range kvs {
		if kv.Key == "id" {
			id = kv.Value
			continue
		}
		rest = append(rest, kv)
	}
	return id, rest, nil
}

// ConfigureNewObject builds a Customizable from the registry and
// configures it in two passes: baseOpts first (without invoking
// PrepareOptions), then opts layered on top -- the construction
// sequence ConfigureNewObject performs in customizable.cc, letting a
// caller supply class defaults separately from a user overlay.
func ConfigureNewObject(ctx Context, id string, baseOpts, opts []KV) (Customizable, error) {
	child, err := ctx.registry().NewObject(ctx, id)
	if err != nil {
		return nil, err
	}
	noPrepare := ctx
	noPrepare.InvokePrepareOptions = false
	if len(baseOpts) > 0 {
		if err := child.ConfigureFromMap(noPrepare, baseOpts); err != nil {
			return nil, err
		}
	}
	if len(opts) > 0 {
		if err := child.ConfigureFromMap(noPrepare, opts); err != nil {
			return nil, err
		}
	}
	if ctx.InvokePrepareOptions {
		if err := child.PrepareOptions(ctx); err != nil {
			return nil, err
		}
	}
	return child, nil
}

// FindInstance walks root's TagConfigurable/TagCustomizable fields
// looking for a Customizable whose GetID() equals name, descending
// depth-first -- the Go shape of Customizable::FindInstance's
// Inner()-chain walk in customizable.cc, generalized from a single
// linear chain to a field tree since this engine has no single
// "wrapped" inner object.
func FindInstance(root Configurable, name string) Customizable {
	if c, ok := root.(Customizable); ok && c.GetID() == name {
		return c
	}
	for _, g := range root.OptionGroups() {
		for _, d := range g.Table.Entries() {
			if d.Tag != TagConfigurable && d.Tag != TagCustomizable {
				continue
			}
			child, ok := d.Accessor.Get(g.Record).(Configurable)
			if !ok || child == nil {
				continue
			}
			if found := FindInstance(child, name); found != nil {
				return found
			}
		}
	}
	return nil
}
