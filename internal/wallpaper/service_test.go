package wallpaper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

func photoTree(t *testing.T) (string, []string) {
	t.Helper()
	root := t.TempDir()
	rel := []string{"02-01-2024/Newest.jpg", "01-01-2024/Older.png"}
	var paths []string
	for _, r := range rel {
		p := filepath.Join(root, r)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("img"), 0644))
		paths = append(paths, p)
	}
	return root, paths
}

func TestService_SetBothOnPlasma6(t *testing.T) {
	root, paths := photoTree(t)
	prober, runner, bridge := plasma6Host(false)
	svc := NewService(NewRegistry(Deps{Prober: prober, Runner: runner, Bridge: bridge}), NewAssigner(7))

	res, err := svc.Set(context.Background(), Options{Path: root, Mode: models.Both, LockScreen: true})
	require.NoError(t, err)

	assert.Equal(t, "KDE Plasma 6", res.Environment)
	assert.Equal(t, models.Both, res.Mode)
	assert.False(t, res.Downgraded())
	assert.Equal(t, 2, res.Candidates)
	assert.Equal(t, models.Topology{Monitors: 2, Desktops: 3}, res.Topology)
	require.Len(t, res.Assignment, 6)
	// Deterministic order: newest first, wrapping.
	assert.Equal(t, paths[0], res.Assignment[0].ImagePath)
	assert.Equal(t, paths[1], res.Assignment[1].ImagePath)
	assert.Equal(t, paths[0], res.Assignment[2].ImagePath)
	assert.Len(t, bridge.scripts, 6)
	assert.Equal(t, LockScreenApplied, res.LockScreen)
}

func TestService_DowngradesModeOnGnome(t *testing.T) {
	root, paths := photoTree(t)
	runner := &fakeRunner{}
	prober := &fakeProber{paths: map[string]bool{"gsettings": true}}
	svc := NewService(NewRegistry(Deps{Prober: prober, Runner: runner, Bridge: &fakeBridge{}}), NewAssigner(7))

	res, err := svc.Set(context.Background(), Options{Path: root, Mode: models.PerVirtualDesktop, LockScreen: true})
	require.NoError(t, err)

	assert.Equal(t, models.PerMonitor, res.Mode)
	assert.True(t, res.Downgraded())
	assert.Equal(t, LockScreenSkipped, res.LockScreen)
	require.Len(t, res.Assignment, 1)
	assert.Equal(t, paths[0], res.Assignment[0].ImagePath)
	assert.Len(t, runner.calls, 2)
}

func TestService_NoEnvironmentKeepsPhotos(t *testing.T) {
	root, paths := photoTree(t)
	svc := NewService(NewRegistry(Deps{Prober: &fakeProber{}, Runner: &fakeRunner{}, Bridge: &fakeBridge{}}), NewAssigner(7))

	_, err := svc.Set(context.Background(), Options{Path: root})
	assert.ErrorIs(t, err, ErrNoSupportedEnvironment)
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}

func TestService_NoCandidates(t *testing.T) {
	prober, runner, bridge := plasma6Host(false)
	svc := NewService(NewRegistry(Deps{Prober: prober, Runner: runner, Bridge: bridge}), NewAssigner(7))

	_, err := svc.Set(context.Background(), Options{Path: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestService_ApplyFailureIsReported(t *testing.T) {
	root, _ := photoTree(t)
	runner := &fakeRunner{fail: map[string]bool{"feh": true}}
	prober := &fakeProber{paths: map[string]bool{"feh": true}}
	svc := NewService(NewRegistry(Deps{Prober: prober, Runner: runner, Bridge: &fakeBridge{}}), NewAssigner(7))

	res, err := svc.Set(context.Background(), Options{Path: root})
	var toolErr *ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "feh (X11)", res.Environment)
	assert.Len(t, res.Assignment, 1)
}
