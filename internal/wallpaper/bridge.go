package wallpaper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	plasmaService   = "org.kde.plasmashell"
	plasmaPath      = dbus.ObjectPath("/PlasmaShell")
	evaluateScript  = "org.kde.PlasmaShell.evaluateScript"
	kwinService     = "org.kde.KWin"
	desktopsPath    = dbus.ObjectPath("/VirtualDesktopManager")
	desktopCountKey = "org.kde.KWin.VirtualDesktopManager.count"
)

// ScriptBridge is the Plasma desktop scripting interface.
type ScriptBridge interface {
	// Reachable reports whether the shell answers on the session bus.
	Reachable(ctx context.Context) bool
	// Evaluate runs a desktop script and returns what it printed.
	Evaluate(ctx context.Context, script string) (string, error)
	// DesktopCount returns the number of KWin virtual desktops.
	DesktopCount(ctx context.Context) (int, error)
}

// dbusBridge talks to plasmashell and KWin over the session bus. The
// connection is opened on first use.
type dbusBridge struct {
	conn *dbus.Conn
}

func (b *dbusBridge) connect() (*dbus.Conn, error) {
	if b.conn != nil {
		return b.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, &ExternalToolError{Tool: "session bus", Cause: err}
	}
	b.conn = conn
	return conn, nil
}

func (b *dbusBridge) Reachable(ctx context.Context) bool {
	conn, err := b.connect()
	if err != nil {
		return false
	}
	var hasOwner bool
	err = conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, plasmaService).Store(&hasOwner)
	return err == nil && hasOwner
}

func (b *dbusBridge) Evaluate(ctx context.Context, script string) (string, error) {
	conn, err := b.connect()
	if err != nil {
		return "", err
	}
	var out string
	call := conn.Object(plasmaService, plasmaPath).CallWithContext(ctx, evaluateScript, 0, script)
	if err := call.Store(&out); err != nil {
		return "", &ExternalToolError{Tool: evaluateScript, Cause: err}
	}
	return out, nil
}

func (b *dbusBridge) DesktopCount(ctx context.Context) (int, error) {
	conn, err := b.connect()
	if err != nil {
		return 0, err
	}
	v, err := conn.Object(kwinService, desktopsPath).GetProperty(desktopCountKey)
	if err != nil {
		return 0, &ExternalToolError{Tool: desktopCountKey, Cause: err}
	}
	switch n := v.Value().(type) {
	case uint32:
		return int(n), nil
	case int32:
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	}
	return 0, fmt.Errorf("unexpected %s value %v", desktopCountKey, v)
}
