package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
	"github.com/vrsandeep/natgeo-wallpapers/internal/schedule"
)

func newInstallCmd(a *app) *cobra.Command {
	var (
		flags     setFlags
		at        string
		uninstall bool
		noRun     bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install a systemd user timer that refreshes the wallpaper",
		Long: `Install a systemd user service and timer that download the Photo of the
Day and set it as wallpaper, either daily at a fixed time or at an interval.
Any previously installed timer is replaced. Without --time an interactive
menu is shown.`,
		Example: `  natgeo-wallpapers install --time 07:30
  natgeo-wallpapers install --time 2h --random --mode both
  natgeo-wallpapers install --uninstall`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			ctx := cmd.Context()

			binary, err := executablePath()
			if err != nil {
				return err
			}
			synth := schedule.NewSynthesizer(a.cfg, binary, schedule.NewSystemctl())

			if uninstall {
				removed, err := synth.Uninstall(ctx)
				if err != nil {
					return err
				}
				if removed {
					success(w, "Schedule removed")
				} else {
					fmt.Fprintln(w, "No schedule was installed")
				}
				return nil
			}

			opts, err := flags.options(a)
			if err != nil {
				return err
			}

			var cadence models.Cadence
			switch {
			case at != "":
				cadence, err = schedule.ParseCadence(at)
			case isatty.IsTerminal(os.Stdin.Fd()):
				cadence, err = promptCadence()
			default:
				err = fmt.Errorf("%w: --time is required when not running on a terminal", schedule.ErrInvalidScheduleInput)
			}
			if err != nil {
				return err
			}

			// The service runs from another working directory.
			source := config.ExpandTilde(flags.path)
			if source != "" {
				if source, err = filepath.Abs(source); err != nil {
					return &invalidInputError{err: err}
				}
			}

			installed, err := synth.Install(ctx, models.ScheduleSpec{
				Cadence:    cadence,
				Random:     opts.Random,
				SourcePath: source,
				Mode:       opts.Mode,
				LockScreen: opts.LockScreen,
			})
			if err != nil {
				return err
			}

			title(w, "Schedule installed")
			success(w, "Wallpaper changes %s", highlightStyle.Render(installed.Cadence.String()))
			fmt.Fprintf(w, "  %s\n  %s\n", dimStyle.Render(installed.ServicePath), dimStyle.Render(installed.TimerPath))
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Useful commands:")
			unit := a.cfg.Schedule.UnitName
			fmt.Fprintf(w, "  systemctl --user list-timers %s.timer\n", unit)
			fmt.Fprintf(w, "  journalctl --user -u %s.service\n", unit)
			fmt.Fprintf(w, "  %s install --uninstall\n", filepath.Base(binary))

			if noRun {
				return nil
			}
			fmt.Fprintln(w)
			log.Printf("Running the first download and set after install")
			if err := a.download(ctx, w); err != nil {
				return err
			}
			return a.set(ctx, w, opts, uint64(time.Now().UnixNano()))
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&at, "time", "", "daily time HH:MM, or an interval like 1h, 30m, 2h30m")
	cmd.Flags().BoolVar(&uninstall, "uninstall", false, "remove the installed timer and service")
	cmd.Flags().BoolVar(&noRun, "no-run", false, "do not download and set a wallpaper right after installing")
	return cmd
}

// executablePath is the absolute path the timer should run.
func executablePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}
