package cli

import (
	"errors"

	"github.com/vrsandeep/natgeo-wallpapers/internal/downloader"
	"github.com/vrsandeep/natgeo-wallpapers/internal/fetch"
	"github.com/vrsandeep/natgeo-wallpapers/internal/library"
	"github.com/vrsandeep/natgeo-wallpapers/internal/schedule"
	"github.com/vrsandeep/natgeo-wallpapers/internal/scrape"
	"github.com/vrsandeep/natgeo-wallpapers/internal/wallpaper"
)

// Process exit codes. These values are stable; scripts and the systemd
// service may depend on them.
const (
	ExitOK            = 0
	ExitUnexpected    = 1
	ExitInvalidInput  = 2 // bad flag value, URL, schedule or photo path
	ExitNetwork       = 3 // transport failure or non-2xx response
	ExitParse         = 4 // page markup or content type not understood
	ExitFilesystem    = 5 // photo tree could not be written
	ExitNoEnvironment = 6 // no supported desktop environment
	ExitExternalTool  = 7 // a desktop tool failed
	ExitScheduleWrite = 8 // timer could not be installed or removed
)

// errCancelled is returned when the user leaves the schedule prompt.
var errCancelled = errors.New("cancelled by user")

// invalidInputError marks a usage mistake.
type invalidInputError struct {
	err error
}

func (e *invalidInputError) Error() string { return e.err.Error() }
func (e *invalidInputError) Unwrap() error { return e.err }

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		netErr     *fetch.NetworkError
		statusErr  *fetch.HTTPStatusError
		fsErr      *downloader.FilesystemError
		toolErr    *wallpaper.ExternalToolError
		writeErr   *schedule.WriteError
		invalidErr *invalidInputError
	)
	switch {
	case errors.As(err, &invalidErr),
		errors.Is(err, errCancelled),
		errors.Is(err, schedule.ErrInvalidScheduleInput),
		errors.Is(err, downloader.ErrInvalidCollectionURL),
		errors.Is(err, library.ErrUnsupportedImage),
		errors.Is(err, wallpaper.ErrNoCandidates):
		return ExitInvalidInput
	case errors.Is(err, schedule.ErrSchedulerUnavailable), errors.As(err, &writeErr):
		return ExitScheduleWrite
	case errors.Is(err, wallpaper.ErrNoSupportedEnvironment):
		return ExitNoEnvironment
	case errors.As(err, &toolErr):
		return ExitExternalTool
	case errors.As(err, &netErr), errors.As(err, &statusErr):
		return ExitNetwork
	case errors.Is(err, scrape.ErrMissingImageTag),
		errors.Is(err, scrape.ErrMissingTitleTag),
		errors.Is(err, scrape.ErrNoImagesFound),
		errors.Is(err, downloader.ErrUnsupportedContentType):
		return ExitParse
	case errors.As(err, &fsErr):
		return ExitFilesystem
	case errors.Is(err, downloader.ErrNothingDownloaded):
		return ExitNetwork
	}
	return ExitUnexpected
}
