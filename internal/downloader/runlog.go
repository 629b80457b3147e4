package downloader

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const logTimeLayout = "2006-01-02 15:04:05"

// runLog collects the lines of one audit entry and appends them to a log
// file next to the photos in a single write.
type runLog struct {
	path  string
	now   func() time.Time
	lines []string
}

func newRunLog(path string, now func() time.Time) *runLog {
	return &runLog{path: path, now: now}
}

func (r *runLog) add(key, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.lines = append(r.lines, fmt.Sprintf("[%s] %s: %s", r.now().Format(logTimeLayout), key, msg))
}

// flush appends the collected lines. Audit logging never fails a download;
// write errors go to the application log.
func (r *runLog) flush() {
	if len(r.lines) == 0 {
		return
	}
	if err := appendLines(r.path, r.lines); err != nil {
		log.Printf("Warning: could not write %s: %v", r.path, err)
	}
	r.lines = r.lines[:0]
}

// writeLog appends one timestamped message to path.
func writeLog(path string, now time.Time, format string, args ...any) {
	line := fmt.Sprintf("[%s] %s", now.Format(logTimeLayout), fmt.Sprintf(format, args...))
	if err := appendLines(path, []string{line}); err != nil {
		log.Printf("Warning: could not write %s: %v", path, err)
	}
}

func appendLines(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
