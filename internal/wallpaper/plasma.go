package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

const (
	plasmaShellProcess = "plasmashell"
	plasmaApplyTool    = "plasma-apply-wallpaperimage"
	monitorCountScript = "var allDesktops = desktops(); print(allDesktops.length);"
)

// plasmaShell caches the version of the running plasmashell. It is shared
// by the Plasma environments so detection probes the shell only once.
type plasmaShell struct {
	deps    Deps
	probed  bool
	version *semver.Version
}

// Version returns the running shell's version, or nil when plasmashell is
// not running or its version cannot be read.
func (s *plasmaShell) Version(ctx context.Context) *semver.Version {
	if s.probed {
		return s.version
	}
	s.probed = true

	if !s.deps.Prober.ProcessRunning(ctx, plasmaShellProcess) {
		return nil
	}
	out, err := s.deps.Runner.Run(ctx, plasmaShellProcess, "--version")
	if err != nil {
		log.Printf("Could not read plasmashell version: %v", err)
		return nil
	}
	v, err := parseShellVersion(out)
	if err != nil {
		log.Printf("Could not parse plasmashell version %q: %v", strings.TrimSpace(out), err)
		return nil
	}
	s.version = v
	return v
}

// parseShellVersion reads output like "plasmashell 6.1.5".
func parseShellVersion(out string) (*semver.Version, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return nil, errors.New("empty version output")
	}
	return semver.NewVersion(fields[len(fields)-1])
}

// plasmaEnv sets wallpapers on KDE Plasma. With native set it requires
// plasma-apply-wallpaperimage and uses it for uniform assignments.
type plasmaEnv struct {
	shell  *plasmaShell
	major  uint64
	native bool
}

func (e *plasmaEnv) Name() string {
	if e.native {
		return fmt.Sprintf("KDE Plasma %d (%s)", e.major, plasmaApplyTool)
	}
	return fmt.Sprintf("KDE Plasma %d", e.major)
}

func (e *plasmaEnv) Capabilities() Capabilities {
	if e.major >= 6 {
		return Capabilities{MultiMonitor: true, MultiDesktop: true, LockScreen: true}
	}
	return Capabilities{MultiMonitor: true}
}

func (e *plasmaEnv) Detect(ctx context.Context) bool {
	v := e.shell.Version(ctx)
	if v == nil || v.Major() != e.major {
		return false
	}
	if e.native {
		return e.shell.deps.Prober.LookPath(plasmaApplyTool)
	}
	return e.shell.deps.Bridge.Reachable(ctx)
}

// Topology asks the shell for its containments and KWin for its desktops.
// Unanswered questions count as one.
func (e *plasmaEnv) Topology(ctx context.Context) (models.Topology, error) {
	topo := models.Topology{Monitors: 1, Desktops: 1}
	bridge := e.shell.deps.Bridge

	out, err := bridge.Evaluate(ctx, monitorCountScript)
	if err == nil {
		n, convErr := strconv.Atoi(strings.TrimSpace(out))
		if convErr == nil && n > 0 {
			topo.Monitors = n
		} else {
			log.Printf("Unexpected monitor count %q, assuming 1", strings.TrimSpace(out))
		}
	} else {
		log.Printf("Could not count monitors, assuming 1: %v", err)
	}

	if e.Capabilities().MultiDesktop {
		if n, err := bridge.DesktopCount(ctx); err == nil && n > 0 {
			topo.Desktops = n
		} else if err != nil {
			log.Printf("Could not count virtual desktops, assuming 1: %v", err)
		}
	}
	return topo, nil
}

func (e *plasmaEnv) Apply(ctx context.Context, assignment models.Assignment) error {
	if len(assignment) == 0 {
		return ErrNoCandidates
	}
	if e.native {
		if image, ok := assignment.Uniform(); ok {
			if _, err := e.shell.deps.Runner.Run(ctx, plasmaApplyTool, image); err != nil {
				return err
			}
			log.Printf("Set all monitors to: %s", image)
			return nil
		}
	}

	var errs []error
	for _, p := range assignment {
		out, err := e.shell.deps.Bridge.Evaluate(ctx, containmentScript(p.Target, p.ImagePath))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Target, err))
			continue
		}
		if n, convErr := strconv.Atoi(strings.TrimSpace(out)); convErr == nil && n == 0 {
			errs = append(errs, fmt.Errorf("%s: %w", p.Target, &ExternalToolError{
				Tool:  evaluateScript,
				Cause: errors.New("no desktop containment matches"),
			}))
			continue
		}
		log.Printf("Set %s to: %s", p.Target, p.ImagePath)
	}
	return errors.Join(errs...)
}

// ApplyLockScreen writes the greeter wallpaper with kwriteconfig.
func (e *plasmaEnv) ApplyLockScreen(ctx context.Context, imagePath string) error {
	if !e.Capabilities().LockScreen {
		return ErrLockScreenUnsupported
	}
	tool := ""
	for _, candidate := range []string{"kwriteconfig6", "kwriteconfig5"} {
		if e.shell.deps.Prober.LookPath(candidate) {
			tool = candidate
			break
		}
	}
	if tool == "" {
		return &ExternalToolError{Tool: "kwriteconfig6", Cause: exec.ErrNotFound}
	}

	_, err := e.shell.deps.Runner.Run(ctx, tool,
		"--file", "kscreenlockerrc",
		"--group", "Greeter",
		"--group", "Wallpaper",
		"--group", "org.kde.image",
		"--group", "General",
		"--key", "Image",
		"file://"+imagePath,
	)
	if err != nil {
		return err
	}
	log.Printf("Set lock screen to: %s", imagePath)
	return nil
}

// containmentScript points the desktop containments of target at imagePath
// and prints how many it wrote. A containment matches on its screen and on
// the virtual desktop it is bound to; AllMonitors and NoDesktop match any.
func containmentScript(target models.Target, imagePath string) string {
	return fmt.Sprintf(`var allDesktops = desktops();
var written = 0;
for (var i = 0; i < allDesktops.length; i++) {
    var d = allDesktops[i];
    if (%[1]d >= 0 && d.screen != %[1]d) continue;
    if (%[2]d >= 0 && d.desktop != %[2]d) continue;
    d.wallpaperPlugin = 'org.kde.image';
    d.currentConfigGroup = Array('Wallpaper', 'org.kde.image', 'General');
    d.writeConfig('Image', %[3]s);
    written++;
}
print(written);`, target.Monitor, target.Desktop, jsQuote("file://"+imagePath))
}

var jsEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

func jsQuote(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}
