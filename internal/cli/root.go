// Package cli wires the commands of the natgeo-wallpapers binary.
package cli

import (
	"io"
	"log"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
	"github.com/vrsandeep/natgeo-wallpapers/internal/logging"
)

// ShutdownSignals cancel the context of a running command. systemd stops
// units with SIGTERM.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// app is the state shared by every command of one invocation.
type app struct {
	configFile string
	verbose    bool

	cfg       *config.Config
	logCloser io.Closer
}

// NewRootCmd builds the command tree. Running it without a subcommand
// downloads today's photo.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "National Geographic Photo of the Day as your desktop wallpaper",
		Long: `natgeo-wallpapers downloads the National Geographic Photo of the Day and
"best of" collections into ~/Pictures/NationalGeographic, sets them as
wallpaper on KDE Plasma, GNOME or feh, and can install a systemd user
timer that keeps the wallpaper fresh.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.download(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/natgeo-wallpapers/config.yml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "mirror the application log to stderr")

	cmd.AddCommand(
		newDownloadCmd(a),
		newCollectionCmd(a),
		newSetCmd(a),
		newInstallCmd(a),
	)
	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return &invalidInputError{err: err}
	}
	a.cfg = cfg

	closer, err := logging.Setup(cfg.LogDir, a.verbose)
	if err != nil {
		return err
	}
	a.logCloser = closer
	log.Printf("Starting %s", config.AppName)
	return nil
}

func (a *app) close() {
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}
