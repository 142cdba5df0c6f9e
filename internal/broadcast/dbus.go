//go:build linux

package broadcast

import (
	"github.com/godbus/dbus/v5"
)

const (
	dbusPath      = "/com/llehouerou/tempest"
	dbusInterface = "com.llehouerou.tempest"
)

// dbusEmitter publishes signals on the session bus.
type dbusEmitter struct {
	conn *dbus.Conn
}

// New creates an Emitter backed by the session D-Bus. Returns a no-op
// emitter when D-Bus is unavailable.
func New() (Emitter, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return Nop{}, nil //nolint:nilerr // graceful fallback when D-Bus unavailable
	}
	return &dbusEmitter{conn: conn}, nil
}

func (e *dbusEmitter) Emit(signal string) {
	_ = e.conn.Emit(dbusPath, dbusInterface+"."+signal)
}

func (e *dbusEmitter) Close() error {
	return e.conn.Close()
}
