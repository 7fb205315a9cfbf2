// Package bootstrap wires mantisDB's built-in pluggable subsystems
// into an options.Registry. It exists so pkg/options itself never
// imports a concrete subsystem (which would invert the dependency
// direction: subsystems depend on the engine, not the reverse).
package bootstrap

import (
	"github.com/mantisdb/optionengine/internal/subsystems/cache"
	"github.com/mantisdb/optionengine/internal/subsystems/checksum"
	"github.com/mantisdb/optionengine/internal/subsystems/compression"
	"github.com/mantisdb/optionengine/internal/subsystems/storageprovider"
	"github.com/mantisdb/optionengine/pkg/options"
)

// RegisterBuiltins adds every built-in subsystem's factories to r.
func RegisterBuiltins(r *options.Registry) error {
	if err := r.AddLocalLibrary(compression.Register); err != nil {
		return err
	}
	if err := r.AddLocalLibrary(checksum.Register); err != nil {
		return err
	}
	if err := r.AddLocalLibrary(storageprovider.Register); err != nil {
		return err
	}
	if err := r.AddLocalLibrary(cache.Register); err != nil {
		return err
	}
	return nil
}

// DefaultRegistry returns the process-wide default Registry with
// every built-in subsystem already registered.
func DefaultRegistry() (*options.Registry, error) {
	r := options.DefaultRegistry()
	if err := RegisterBuiltins(r); err != nil {
		return nil, err
	}
	return r, nil
}
