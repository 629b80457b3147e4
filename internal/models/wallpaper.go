package models

import (
	"fmt"
	"strings"
)

// Mode selects which part of the desktop topology gets independent wallpapers.
type Mode int

const (
	PerMonitor Mode = iota
	PerVirtualDesktop
	Both
)

func (m Mode) String() string {
	switch m {
	case PerMonitor:
		return "monitors"
	case PerVirtualDesktop:
		return "virtual-desktops"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the CLI spelling of a mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monitors", "monitor":
		return PerMonitor, nil
	case "virtual-desktops", "virtual-desktop", "desktops":
		return PerVirtualDesktop, nil
	case "both":
		return Both, nil
	}
	return PerMonitor, fmt.Errorf("unknown mode %q (want monitors, virtual-desktops or both)", s)
}

const (
	// AllMonitors is the monitor handle of a target that spans every monitor.
	AllMonitors = -1
	// NoDesktop is the desktop handle of a target that ignores virtual desktops.
	NoDesktop = -1
)

// Target is one monitor, one virtual desktop, or one monitor on one virtual desktop.
type Target struct {
	Monitor int `json:"monitor"`
	Desktop int `json:"desktop"`
}

func (t Target) String() string {
	switch {
	case t.Desktop == NoDesktop && t.Monitor == AllMonitors:
		return "All monitors"
	case t.Desktop == NoDesktop:
		return fmt.Sprintf("Monitor %d", t.Monitor+1)
	case t.Monitor == AllMonitors:
		return fmt.Sprintf("Virtual Desktop %d", t.Desktop+1)
	default:
		return fmt.Sprintf("Monitor %d, VD %d", t.Monitor+1, t.Desktop+1)
	}
}

// Topology is the live monitor and virtual desktop layout.
type Topology struct {
	Monitors int `json:"monitors"`
	Desktops int `json:"desktops"`
}

// Placement pairs a target with the image it shows.
type Placement struct {
	Target    Target `json:"target"`
	ImagePath string `json:"image_path"`
}

// Assignment maps every live target to exactly one image, in target order.
type Assignment []Placement

// For returns the image assigned to t.
func (a Assignment) For(t Target) (string, bool) {
	for _, p := range a {
		if p.Target == t {
			return p.ImagePath, true
		}
	}
	return "", false
}

// Uniform reports whether every target shows the same image, and which.
func (a Assignment) Uniform() (string, bool) {
	if len(a) == 0 {
		return "", false
	}
	first := a[0].ImagePath
	for _, p := range a[1:] {
		if p.ImagePath != first {
			return "", false
		}
	}
	return first, true
}
