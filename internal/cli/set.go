package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
	"github.com/vrsandeep/natgeo-wallpapers/internal/wallpaper"
)

// setFlags are shared by set and install.
type setFlags struct {
	path       string
	random     bool
	mode       string
	lockScreen bool
}

func (f *setFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "path", "", "photo file or directory (default <photo_root>)")
	cmd.Flags().BoolVar(&f.random, "random", false, "pick photos at random instead of newest first")
	cmd.Flags().StringVar(&f.mode, "mode", models.PerMonitor.String(), "one wallpaper per: monitors, virtual-desktops or both")
	cmd.Flags().BoolVar(&f.lockScreen, "lock-screen", false, "also set the lock screen wallpaper where supported")
}

func (f *setFlags) options(a *app) (wallpaper.Options, error) {
	mode, err := models.ParseMode(f.mode)
	if err != nil {
		return wallpaper.Options{}, &invalidInputError{err: err}
	}
	path := f.path
	if path == "" {
		path = a.cfg.PhotoRoot
	}
	return wallpaper.Options{
		Path:       path,
		Random:     f.random,
		Mode:       mode,
		LockScreen: f.lockScreen,
	}, nil
}

func newSetCmd(a *app) *cobra.Command {
	var (
		flags setFlags
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set downloaded photos as wallpaper",
		Long: `Set downloaded photos as wallpaper on every monitor, every virtual desktop,
or both. Photos are taken newest first unless --random is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(a)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			return a.set(cmd.Context(), cmd.OutOrStdout(), opts, seed)
		},
	}

	flags.register(cmd)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for --random, for reproducible picks")
	return cmd
}

func (a *app) set(ctx context.Context, w io.Writer, opts wallpaper.Options, seed uint64) error {
	svc := wallpaper.NewService(
		wallpaper.NewRegistry(wallpaper.SystemDeps()),
		wallpaper.NewAssigner(seed),
	)

	res, err := svc.Set(ctx, opts)
	if res != nil && res.Environment != "" {
		fmt.Fprintf(w, "Desktop: %s\n", highlightStyle.Render(res.Environment))
	}
	if err != nil {
		return err
	}

	if res.Downgraded() {
		warn(w, "%s does not support mode %q, used %q", res.Environment, res.RequestedMode, res.Mode)
	}
	for _, p := range res.Assignment {
		fmt.Fprintf(w, "  %-20s %s\n", p.Target, shortPhotoPath(p.ImagePath))
	}
	success(w, "Wallpaper set from %d candidate(s)", res.Candidates)

	switch res.LockScreen {
	case wallpaper.LockScreenApplied:
		success(w, "Lock screen wallpaper set")
	case wallpaper.LockScreenSkipped:
		warn(w, "Lock screen wallpaper is not supported by %s, skipped", res.Environment)
	}
	return nil
}

// shortPhotoPath shows a photo as "<parent dir>/<file>", which for the
// daily tree is its date.
func shortPhotoPath(path string) string {
	return filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path))
}
