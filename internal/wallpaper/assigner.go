package wallpaper

import (
	"errors"
	"math/rand/v2"

	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

// ErrNoCandidates is returned when there is no image to assign.
var ErrNoCandidates = errors.New("no candidate images to assign")

// Targets enumerates the live targets of topo under mode. Counts below one
// are treated as one.
func Targets(mode models.Mode, topo models.Topology) []models.Target {
	monitors := max(1, topo.Monitors)
	desktops := max(1, topo.Desktops)

	var targets []models.Target
	switch mode {
	case models.PerVirtualDesktop:
		for d := 0; d < desktops; d++ {
			targets = append(targets, models.Target{Monitor: models.AllMonitors, Desktop: d})
		}
	case models.Both:
		for d := 0; d < desktops; d++ {
			for m := 0; m < monitors; m++ {
				targets = append(targets, models.Target{Monitor: m, Desktop: d})
			}
		}
	default:
		for m := 0; m < monitors; m++ {
			targets = append(targets, models.Target{Monitor: m, Desktop: models.NoDesktop})
		}
	}
	return targets
}

// Assigner maps candidate images onto targets.
type Assigner struct {
	rng *rand.Rand
}

// NewAssigner returns an Assigner whose random choices are fully determined
// by seed.
func NewAssigner(seed uint64) *Assigner {
	return &Assigner{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Assign gives every target exactly one image. Without random the
// candidates are used in the order given; with random they are shuffled
// first. A pool smaller than the target list wraps around.
func (a *Assigner) Assign(candidates []string, targets []models.Target, random bool) (models.Assignment, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	pool := candidates
	if random {
		pool = make([]string, len(candidates))
		copy(pool, candidates)
		a.rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
	}

	assignment := make(models.Assignment, len(targets))
	for i, t := range targets {
		assignment[i] = models.Placement{Target: t, ImagePath: pool[i%len(pool)]}
	}
	return assignment, nil
}
