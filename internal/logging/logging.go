// Package logging routes the standard logger to a rotating file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the application log inside the log directory.
const FileName = config.AppName + ".log"

// Setup points the standard logger at <logDir>/natgeo-wallpapers.log,
// rotated at 10 MB. With verbose the log is mirrored to stderr. The
// returned closer flushes the log file.
func Setup(logDir string, verbose bool) (io.Closer, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    10, // MB
		MaxBackups: 2,
		MaxAge:     28, // days
		Compress:   true,
	}

	var out io.Writer = rotating
	if verbose {
		out = io.MultiWriter(rotating, os.Stderr)
	}
	log.SetOutput(out)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	return rotating, nil
}
