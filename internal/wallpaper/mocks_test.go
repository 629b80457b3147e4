package wallpaper

import (
	"context"
	"errors"
	"strings"
)

type fakeProber struct {
	paths     map[string]bool
	processes map[string]bool
}

func (p *fakeProber) LookPath(name string) bool { return p.paths[name] }

func (p *fakeProber) ProcessRunning(ctx context.Context, name string) bool {
	return p.processes[name]
}

// fakeRunner records every command line and answers from outputs, keyed by
// the command name.
type fakeRunner struct {
	calls   [][]string
	outputs map[string]string
	fail    map[string]bool
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.fail[name] {
		return "", &ExternalToolError{Tool: name, Stderr: "boom", Cause: errors.New("exit status 1")}
	}
	return r.outputs[name], nil
}

func (r *fakeRunner) commandLines() []string {
	lines := make([]string, len(r.calls))
	for i, c := range r.calls {
		lines[i] = strings.Join(c, " ")
	}
	return lines
}

type fakeBridge struct {
	reachable bool
	monitors  string
	desktops  int
	written   string // output of wallpaper scripts
	scripts   []string
	failAfter int // fail every script after this many; 0 never fails
}

func (b *fakeBridge) Reachable(ctx context.Context) bool { return b.reachable }

func (b *fakeBridge) Evaluate(ctx context.Context, script string) (string, error) {
	if script == monitorCountScript {
		return b.monitors, nil
	}
	b.scripts = append(b.scripts, script)
	if b.failAfter > 0 && len(b.scripts) > b.failAfter {
		return "", &ExternalToolError{Tool: evaluateScript, Cause: errors.New("no reply")}
	}
	return b.written, nil
}

func (b *fakeBridge) DesktopCount(ctx context.Context) (int, error) {
	if b.desktops == 0 {
		return 0, errors.New("kwin not running")
	}
	return b.desktops, nil
}

// plasma6Host is a Plasma 6 session with two monitors and three desktops.
func plasma6Host(withTool bool) (*fakeProber, *fakeRunner, *fakeBridge) {
	prober := &fakeProber{
		paths:     map[string]bool{"gsettings": true, "feh": true, "kwriteconfig6": true},
		processes: map[string]bool{"plasmashell": true},
	}
	if withTool {
		prober.paths[plasmaApplyTool] = true
	}
	runner := &fakeRunner{outputs: map[string]string{"plasmashell": "plasmashell 6.1.5\n"}}
	bridge := &fakeBridge{reachable: true, monitors: "2\n", desktops: 3, written: "1\n"}
	return prober, runner, bridge
}
