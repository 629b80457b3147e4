package schedule

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

// fakeSystemctl records commands and tracks which timers are enabled.
type fakeSystemctl struct {
	available bool
	calls     []string
	enabled   map[string]bool
	failOn    string
}

func newFakeSystemctl() *fakeSystemctl {
	return &fakeSystemctl{available: true, enabled: make(map[string]bool)}
}

func (f *fakeSystemctl) Available() bool { return f.available }

func (f *fakeSystemctl) Run(ctx context.Context, args ...string) error {
	line := strings.Join(args, " ")
	f.calls = append(f.calls, line)
	if f.failOn != "" && strings.HasPrefix(line, f.failOn) {
		return errors.New("exit status 1")
	}
	switch args[0] {
	case "enable":
		f.enabled[args[len(args)-1]] = true
	case "disable":
		delete(f.enabled, args[len(args)-1])
	}
	return nil
}

func newTestSynthesizer(t *testing.T, ctl Systemctl) *Synthesizer {
	t.Helper()
	cfg := config.Default()
	cfg.Schedule.UnitDir = filepath.Join(t.TempDir(), "systemd", "user")
	return NewSynthesizer(cfg, "/usr/bin/natgeo-wallpapers", ctl)
}

func mustCadence(t *testing.T, s string) models.Cadence {
	t.Helper()
	c, err := ParseCadence(s)
	require.NoError(t, err)
	return c
}

func TestInstall(t *testing.T) {
	ctl := newFakeSystemctl()
	s := newTestSynthesizer(t, ctl)

	installed, err := s.Install(context.Background(), models.ScheduleSpec{Cadence: mustCadence(t, "02:00")})
	require.NoError(t, err)

	assert.Equal(t, s.ServicePath(), installed.ServicePath)
	assert.FileExists(t, installed.ServicePath)
	timer, err := os.ReadFile(installed.TimerPath)
	require.NoError(t, err)
	assert.Contains(t, string(timer), "OnCalendar=*-*-* 02:00:00")
	assert.Equal(t, []string{"daemon-reload", "enable --now natgeo-wallpaper.timer"}, ctl.calls)
	assert.True(t, ctl.enabled["natgeo-wallpaper.timer"])
}

func TestInstall_TwiceLeavesOnlyTheSecondSchedule(t *testing.T) {
	ctl := newFakeSystemctl()
	s := newTestSynthesizer(t, ctl)
	ctx := context.Background()

	_, err := s.Install(ctx, models.ScheduleSpec{Cadence: mustCadence(t, "02:00")})
	require.NoError(t, err)
	_, err = s.Install(ctx, models.ScheduleSpec{Cadence: mustCadence(t, "30m"), Random: true})
	require.NoError(t, err)

	timer, err := os.ReadFile(s.TimerPath())
	require.NoError(t, err)
	assert.NotContains(t, string(timer), "OnCalendar")
	assert.Contains(t, string(timer), "OnUnitActiveSec=30min")

	service, err := os.ReadFile(s.ServicePath())
	require.NoError(t, err)
	assert.Contains(t, string(service), "--random")

	entries, err := os.ReadDir(filepath.Dir(s.TimerPath()))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "only one service and one timer")
	assert.Len(t, ctl.enabled, 1)

	assert.Equal(t, []string{
		"daemon-reload",
		"enable --now natgeo-wallpaper.timer",
		"stop natgeo-wallpaper.timer",
		"disable natgeo-wallpaper.timer",
		"daemon-reload",
		"daemon-reload",
		"enable --now natgeo-wallpaper.timer",
	}, ctl.calls)
}

func TestInstall_RollsBackWhenEnableFails(t *testing.T) {
	ctl := newFakeSystemctl()
	ctl.failOn = "enable"
	s := newTestSynthesizer(t, ctl)

	_, err := s.Install(context.Background(), models.ScheduleSpec{Cadence: mustCadence(t, "1h")})
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Contains(t, writeErr.Step, "enable")

	assert.NoFileExists(t, s.ServicePath())
	assert.NoFileExists(t, s.TimerPath())
	assert.Empty(t, ctl.enabled)
	assert.Equal(t, "daemon-reload", ctl.calls[len(ctl.calls)-1])
}

func TestInstall_WithoutSystemd(t *testing.T) {
	ctl := newFakeSystemctl()
	ctl.available = false
	s := newTestSynthesizer(t, ctl)

	_, err := s.Install(context.Background(), models.ScheduleSpec{Cadence: mustCadence(t, "1h")})
	assert.ErrorIs(t, err, ErrSchedulerUnavailable)
	assert.NoFileExists(t, s.TimerPath())
	assert.Empty(t, ctl.calls)
}

func TestInstall_InvalidCadence(t *testing.T) {
	ctl := newFakeSystemctl()
	s := newTestSynthesizer(t, ctl)

	_, err := s.Install(context.Background(), models.ScheduleSpec{Cadence: models.Cadence{Kind: models.Interval}})
	assert.ErrorIs(t, err, ErrInvalidScheduleInput)
	assert.Empty(t, ctl.calls)
}

func TestUninstall(t *testing.T) {
	ctl := newFakeSystemctl()
	s := newTestSynthesizer(t, ctl)
	ctx := context.Background()

	removed, err := s.Uninstall(ctx)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, ctl.calls)

	_, err = s.Install(ctx, models.ScheduleSpec{Cadence: mustCadence(t, "02:00")})
	require.NoError(t, err)

	removed, err = s.Uninstall(ctx)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoFileExists(t, s.ServicePath())
	assert.NoFileExists(t, s.TimerPath())
	assert.Empty(t, ctl.enabled)

	removed, err = s.Uninstall(ctx)
	require.NoError(t, err)
	assert.False(t, removed)
}
