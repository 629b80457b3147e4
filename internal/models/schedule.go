package models

import (
	"fmt"
	"time"
)

// CadenceKind distinguishes a fixed clock time from a periodic interval.
type CadenceKind int

const (
	DailyAt CadenceKind = iota
	Interval
)

// Cadence is the recurrence rule of the scheduled job.
type Cadence struct {
	Kind     CadenceKind   `json:"kind"`
	Hour     int           `json:"hour"`
	Minute   int           `json:"minute"`
	Every    time.Duration `json:"every"`
	Original string        `json:"original"` // what the user typed, for display
}

// Clock renders a DailyAt cadence as HH:MM.
func (c Cadence) Clock() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Cadence) String() string {
	if c.Kind == DailyAt {
		return c.Clock() + " daily"
	}
	if c.Original != "" {
		return "every " + c.Original
	}
	return "every " + c.Every.String()
}

// ScheduleSpec is everything needed to synthesize the recurring job.
type ScheduleSpec struct {
	Cadence    Cadence `json:"cadence"`
	Random     bool    `json:"random"`
	SourcePath string  `json:"source_path"`
	Mode       Mode    `json:"mode"`
	LockScreen bool    `json:"lock_screen"`
}
