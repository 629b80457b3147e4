package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/vrsandeep/natgeo-wallpapers/internal/library"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

// Options are the user's choices for one set run.
type Options struct {
	Path       string // file or directory of candidates
	Random     bool
	Mode       models.Mode
	LockScreen bool
}

// LockScreenOutcome is what happened to a lock screen request.
type LockScreenOutcome int

const (
	LockScreenNotRequested LockScreenOutcome = iota
	LockScreenApplied
	LockScreenSkipped // the environment has no lock screen setter
)

// Result summarizes a set run for display.
type Result struct {
	Environment   string
	RequestedMode models.Mode
	Mode          models.Mode // the mode actually applied
	Topology      models.Topology
	Candidates    int
	Assignment    models.Assignment
	LockScreen    LockScreenOutcome
}

// Downgraded reports whether the environment could not honor the requested mode.
func (r *Result) Downgraded() bool {
	return r.Mode != r.RequestedMode
}

// Service applies stored photos as wallpaper.
type Service struct {
	registry *Registry
	assigner *Assigner
}

// NewService creates a Service.
func NewService(registry *Registry, assigner *Assigner) *Service {
	return &Service{registry: registry, assigner: assigner}
}

// Set finds candidates under opts.Path, detects the desktop, and applies an
// assignment for the best mode the desktop supports. The returned Result is
// filled as far as the run got, also on error.
func (s *Service) Set(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{RequestedMode: opts.Mode, Mode: opts.Mode}
	log.Printf("Starting wallpaper set with mode: %s", opts.Mode)

	candidates, err := library.FindPhotos(opts.Path)
	if err != nil {
		if errors.Is(err, library.ErrNoPhotos) {
			return res, fmt.Errorf("%w: %v", ErrNoCandidates, err)
		}
		return res, err
	}
	res.Candidates = len(candidates)

	env, err := s.registry.Detect(ctx)
	if err != nil {
		return res, err
	}
	res.Environment = env.Name()
	caps := env.Capabilities()

	topo, err := env.Topology(ctx)
	if err != nil {
		return res, fmt.Errorf("reading desktop layout: %w", err)
	}
	if !caps.MultiMonitor {
		topo.Monitors = 1
	}
	if !caps.MultiDesktop {
		topo.Desktops = 1
	}
	res.Topology = topo

	if !caps.Supports(opts.Mode) {
		log.Printf("%s cannot apply mode %s, falling back to %s", env.Name(), opts.Mode, models.PerMonitor)
		res.Mode = models.PerMonitor
	}

	targets := Targets(res.Mode, topo)
	assignment, err := s.assigner.Assign(candidates, targets, opts.Random)
	if err != nil {
		return res, err
	}
	res.Assignment = assignment

	if err := env.Apply(ctx, assignment); err != nil {
		return res, fmt.Errorf("applying wallpaper with %s: %w", env.Name(), err)
	}

	if opts.LockScreen {
		if !caps.LockScreen {
			log.Printf("Lock screen wallpaper is not supported by %s, skipping", env.Name())
			res.LockScreen = LockScreenSkipped
		} else {
			if err := env.ApplyLockScreen(ctx, assignment[0].ImagePath); err != nil {
				return res, fmt.Errorf("setting lock screen: %w", err)
			}
			res.LockScreen = LockScreenApplied
		}
	}

	log.Printf("Wallpaper setting completed")
	return res, nil
}
