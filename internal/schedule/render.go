package schedule

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

// Units is the rendered text of the service and timer pair.
type Units struct {
	Service string
	Timer   string
}

var serviceTemplate = template.Must(template.New("service").Parse(`[Unit]
Description=Download and set National Geographic Photo of the Day as wallpaper
After=network-online.target network.target
Wants=network-online.target

[Service]
Type=oneshot
ExecStart={{.ExecStart}}
`))

var timerTemplate = template.Must(template.New("timer").Parse(`[Unit]
Description=National Geographic Photo of the Day wallpaper update ({{.Schedule}})

[Timer]
{{- if .Daily}}
OnCalendar=*-*-* {{.Clock}}:00
OnBootSec=2min
{{- else}}
OnBootSec=1min
OnUnitActiveSec={{.Every}}
{{- end}}
Persistent=true
Unit={{.Service}}

[Install]
WantedBy=timers.target
`))

// Render produces the unit files that run binary on spec's cadence. The
// service retries the whole cycle up to three times, a minute apart.
func Render(spec models.ScheduleSpec, binary, unitName string) (Units, error) {
	if err := Validate(spec.Cadence); err != nil {
		return Units{}, err
	}

	var service, timer bytes.Buffer
	err := serviceTemplate.Execute(&service, struct{ ExecStart string }{
		ExecStart: execStart(binary, setArgs(spec)),
	})
	if err != nil {
		return Units{}, err
	}

	err = timerTemplate.Execute(&timer, struct {
		Schedule string
		Daily    bool
		Clock    string
		Every    string
		Service  string
	}{
		Schedule: spec.Cadence.String(),
		Daily:    spec.Cadence.Kind == models.DailyAt,
		Clock:    spec.Cadence.Clock(),
		Every:    timespan(spec.Cadence.Every),
		Service:  unitName + ".service",
	})
	if err != nil {
		return Units{}, err
	}
	return Units{Service: service.String(), Timer: timer.String()}, nil
}

// setArgs is the argument list of the scheduled set command.
func setArgs(spec models.ScheduleSpec) []string {
	args := []string{"set", "--mode", spec.Mode.String()}
	if spec.Random {
		args = append(args, "--random")
	}
	if spec.SourcePath != "" {
		args = append(args, "--path", spec.SourcePath)
	}
	if spec.LockScreen {
		args = append(args, "--lock-screen")
	}
	return args
}

func execStart(binary string, set []string) string {
	bin := shellQuote(binary)
	quoted := make([]string, len(set))
	for i, a := range set {
		quoted[i] = shellQuote(a)
	}
	script := "for i in 1 2 3; do " + bin + " download && " + bin + " " + strings.Join(quoted, " ") +
		" && exit 0 || sleep 60; done; exit 1"
	return `/bin/sh -c "` + systemdEscaper.Replace(script) + `"`
}

func needsQuoting(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
		strings.ContainsRune("-_./=:+,@", r))
}

// shellQuote quotes s for /bin/sh when it contains anything but plain
// path characters.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// systemdEscaper protects a string placed inside a double-quoted ExecStart
// argument from systemd's own unquoting and specifier expansion.
var systemdEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `%`, `%%`, `$`, `$$`)
