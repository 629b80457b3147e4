package wallpaper

import (
	"context"
	"log"

	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

// gnomeEnv covers GNOME and the desktops that share its settings schema.
// It sets one image for both the light and dark variants.
type gnomeEnv struct {
	deps Deps
}

func (e *gnomeEnv) Name() string               { return "GNOME (gsettings)" }
func (e *gnomeEnv) Capabilities() Capabilities { return Capabilities{} }

func (e *gnomeEnv) Detect(ctx context.Context) bool {
	return e.deps.Prober.LookPath("gsettings")
}

func (e *gnomeEnv) Topology(ctx context.Context) (models.Topology, error) {
	return models.Topology{Monitors: 1, Desktops: 1}, nil
}

func (e *gnomeEnv) Apply(ctx context.Context, assignment models.Assignment) error {
	if len(assignment) == 0 {
		return ErrNoCandidates
	}
	uri := "file://" + assignment[0].ImagePath
	for _, key := range []string{"picture-uri", "picture-uri-dark"} {
		if _, err := e.deps.Runner.Run(ctx, "gsettings", "set", "org.gnome.desktop.background", key, uri); err != nil {
			return err
		}
	}
	log.Printf("Set wallpaper to: %s", assignment[0].ImagePath)
	return nil
}

func (e *gnomeEnv) ApplyLockScreen(ctx context.Context, imagePath string) error {
	return ErrLockScreenUnsupported
}

// fehEnv is the bare X11 fallback.
type fehEnv struct {
	deps Deps
}

func (e *fehEnv) Name() string               { return "feh (X11)" }
func (e *fehEnv) Capabilities() Capabilities { return Capabilities{} }

func (e *fehEnv) Detect(ctx context.Context) bool {
	return e.deps.Prober.LookPath("feh")
}

func (e *fehEnv) Topology(ctx context.Context) (models.Topology, error) {
	return models.Topology{Monitors: 1, Desktops: 1}, nil
}

func (e *fehEnv) Apply(ctx context.Context, assignment models.Assignment) error {
	if len(assignment) == 0 {
		return ErrNoCandidates
	}
	if _, err := e.deps.Runner.Run(ctx, "feh", "--bg-scale", assignment[0].ImagePath); err != nil {
		return err
	}
	log.Printf("Set wallpaper to: %s", assignment[0].ImagePath)
	return nil
}

func (e *fehEnv) ApplyLockScreen(ctx context.Context, imagePath string) error {
	return ErrLockScreenUnsupported
}
