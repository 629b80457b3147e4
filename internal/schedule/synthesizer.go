package schedule

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

// ErrSchedulerUnavailable is returned when systemctl is not installed.
var ErrSchedulerUnavailable = errors.New("systemctl not found; scheduling requires systemd")

// WriteError is a failed step while installing or removing the schedule.
type WriteError struct {
	Step string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("schedule %s: %v", e.Step, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Systemctl drives the user service manager.
type Systemctl interface {
	Available() bool
	// Run executes systemctl --user with args.
	Run(ctx context.Context, args ...string) error
}

type execSystemctl struct{}

// NewSystemctl returns a Systemctl that runs the real systemctl binary.
func NewSystemctl() Systemctl {
	return execSystemctl{}
}

func (execSystemctl) Available() bool {
	_, err := exec.LookPath("systemctl")
	return err == nil
}

func (execSystemctl) Run(ctx context.Context, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "systemctl", append([]string{"--user"}, args...)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Installed describes the active schedule after Install.
type Installed struct {
	ServicePath string
	TimerPath   string
	Cadence     models.Cadence
}

// Synthesizer keeps at most one timer and service pair installed.
type Synthesizer struct {
	unitDir  string
	unitName string
	binary   string
	ctl      Systemctl
}

// NewSynthesizer creates a Synthesizer whose units run binary.
func NewSynthesizer(cfg *config.Config, binary string, ctl Systemctl) *Synthesizer {
	return &Synthesizer{
		unitDir:  cfg.Schedule.UnitDir,
		unitName: cfg.Schedule.UnitName,
		binary:   binary,
		ctl:      ctl,
	}
}

func (s *Synthesizer) ServicePath() string {
	return filepath.Join(s.unitDir, s.unitName+".service")
}

func (s *Synthesizer) TimerPath() string {
	return filepath.Join(s.unitDir, s.unitName+".timer")
}

func (s *Synthesizer) timerUnit() string {
	return s.unitName + ".timer"
}

// Install replaces any existing schedule with spec and starts its timer. On
// failure after the files are written they are removed again, so no
// half-installed timer stays behind.
func (s *Synthesizer) Install(ctx context.Context, spec models.ScheduleSpec) (*Installed, error) {
	if err := Validate(spec.Cadence); err != nil {
		return nil, err
	}
	if !s.ctl.Available() {
		return nil, ErrSchedulerUnavailable
	}

	units, err := Render(spec, s.binary, s.unitName)
	if err != nil {
		return nil, err
	}

	if _, err := s.Uninstall(ctx); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.unitDir, 0755); err != nil {
		return nil, &WriteError{Step: "create " + s.unitDir, Err: err}
	}
	if err := writeAtomic(s.ServicePath(), units.Service); err != nil {
		return nil, &WriteError{Step: "write " + s.ServicePath(), Err: err}
	}
	if err := writeAtomic(s.TimerPath(), units.Timer); err != nil {
		s.rollback(ctx)
		return nil, &WriteError{Step: "write " + s.TimerPath(), Err: err}
	}
	log.Printf("Wrote %s and %s", s.ServicePath(), s.TimerPath())

	if err := s.ctl.Run(ctx, "daemon-reload"); err != nil {
		s.rollback(ctx)
		return nil, &WriteError{Step: "daemon-reload", Err: err}
	}
	if err := s.ctl.Run(ctx, "enable", "--now", s.timerUnit()); err != nil {
		s.rollback(ctx)
		return nil, &WriteError{Step: "enable " + s.timerUnit(), Err: err}
	}
	log.Printf("Enabled %s (%s)", s.timerUnit(), spec.Cadence)

	return &Installed{
		ServicePath: s.ServicePath(),
		TimerPath:   s.TimerPath(),
		Cadence:     spec.Cadence,
	}, nil
}

// rollback removes freshly written units after a failed install.
func (s *Synthesizer) rollback(ctx context.Context) {
	for _, p := range []string{s.ServicePath(), s.TimerPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Rollback: could not remove %s: %v", p, err)
		}
	}
	if err := s.ctl.Run(ctx, "daemon-reload"); err != nil {
		log.Printf("Rollback: daemon-reload failed: %v", err)
	}
}

// Uninstall stops and removes the schedule. It reports whether any unit
// file existed; removing an absent schedule is not an error.
func (s *Synthesizer) Uninstall(ctx context.Context) (bool, error) {
	existed := false
	for _, p := range []string{s.ServicePath(), s.TimerPath()} {
		if _, err := os.Stat(p); err == nil {
			existed = true
		}
	}
	if !existed {
		return false, nil
	}
	if !s.ctl.Available() {
		return true, ErrSchedulerUnavailable
	}

	// The timer may already be stopped or disabled; only file removal counts.
	if err := s.ctl.Run(ctx, "stop", s.timerUnit()); err != nil {
		log.Printf("Stopping %s: %v", s.timerUnit(), err)
	}
	if err := s.ctl.Run(ctx, "disable", s.timerUnit()); err != nil {
		log.Printf("Disabling %s: %v", s.timerUnit(), err)
	}

	for _, p := range []string{s.ServicePath(), s.TimerPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return true, &WriteError{Step: "remove " + p, Err: err}
		}
	}
	if err := s.ctl.Run(ctx, "daemon-reload"); err != nil {
		return true, &WriteError{Step: "daemon-reload", Err: err}
	}
	log.Printf("Removed %s and %s", s.ServicePath(), s.TimerPath())
	return true, nil
}

func writeAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	_, err = tmp.WriteString(content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0644)
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		os.Remove(tmpName)
	}
	return err
}
