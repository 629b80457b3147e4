// Package wallpaper detects the desktop environment, maps images onto its
// monitors and virtual desktops, and applies them.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

var (
	// ErrNoSupportedEnvironment is returned when no registered environment
	// recognizes the running desktop.
	ErrNoSupportedEnvironment = errors.New("no supported desktop environment found")
	// ErrLockScreenUnsupported is returned by environments without a lock screen setter.
	ErrLockScreenUnsupported = errors.New("lock screen wallpaper is not supported by this environment")
)

// Capabilities describes what an environment can set independently.
type Capabilities struct {
	MultiMonitor bool
	MultiDesktop bool
	LockScreen   bool
}

// Supports reports whether mode can be honored as requested.
func (c Capabilities) Supports(mode models.Mode) bool {
	switch mode {
	case models.PerVirtualDesktop:
		return c.MultiDesktop
	case models.Both:
		return c.MultiDesktop && c.MultiMonitor
	}
	return true
}

// Environment is one way of setting the wallpaper on a Linux desktop.
type Environment interface {
	Name() string
	Capabilities() Capabilities
	// Detect reports whether this environment is usable on the host.
	Detect(ctx context.Context) bool
	Topology(ctx context.Context) (models.Topology, error)
	Apply(ctx context.Context, assignment models.Assignment) error
	ApplyLockScreen(ctx context.Context, imagePath string) error
}

// Deps are the host interfaces environments probe and drive.
type Deps struct {
	Prober Prober
	Runner Runner
	Bridge ScriptBridge
}

// SystemDeps returns Deps backed by PATH lookups, pgrep, os/exec and the
// D-Bus session bus.
func SystemDeps() Deps {
	return Deps{
		Prober: systemProber{},
		Runner: execRunner{},
		Bridge: &dbusBridge{},
	}
}

// Registry holds environments in detection priority order.
type Registry struct {
	envs []Environment
}

// Register appends env at the lowest priority so far.
func (r *Registry) Register(env Environment) {
	for _, e := range r.envs {
		if e.Name() == env.Name() {
			// Panic is appropriate here as it's a developer error during setup.
			panic(fmt.Sprintf("environment '%s' is already registered", env.Name()))
		}
	}
	r.envs = append(r.envs, env)
}

// Environments returns the registered environments in priority order.
func (r *Registry) Environments() []Environment {
	return r.envs
}

// Detect returns the first registered environment whose probe holds.
func (r *Registry) Detect(ctx context.Context) (Environment, error) {
	for _, env := range r.envs {
		if env.Detect(ctx) {
			log.Printf("Detected desktop environment: %s", env.Name())
			return env, nil
		}
	}
	return nil, ErrNoSupportedEnvironment
}

// NewRegistry registers the supported environments in priority order:
// Plasma 6 with its wallpaper tool, Plasma 6 over the scripting bridge,
// Plasma 5, GNOME-like desktops and finally feh.
func NewRegistry(deps Deps) *Registry {
	shell := &plasmaShell{deps: deps}
	r := &Registry{}
	r.Register(&plasmaEnv{shell: shell, major: 6, native: true})
	r.Register(&plasmaEnv{shell: shell, major: 6})
	r.Register(&plasmaEnv{shell: shell, major: 5})
	r.Register(&gnomeEnv{deps: deps})
	r.Register(&fehEnv{deps: deps})
	return r
}
