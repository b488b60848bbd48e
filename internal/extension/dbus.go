package extension

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// D-Bus names the extension object is exported under
const (
	ObjectPath    = dbus.ObjectPath("/com/ytget/BrowserShell/WebExtension")
	InterfaceName = "com.ytget.BrowserShell.WebExtension"
)

// DBusConnector connects to the peer-to-peer D-Bus server of the UI process
type DBusConnector struct{}

// Connect dials address (any D-Bus address form, e.g. unix:path=...),
// authenticates and exports ext.
func (DBusConnector) Connect(ctx context.Context, address string, ext *Extension) (Connection, error) {
	conn, err := dbus.Dial(address, dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", address, err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	exported := &dbusObject{ext: ext}
	if err := conn.Export(exported, ObjectPath, InterfaceName); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to export extension object: %w", err)
	}
	if err := conn.Export(introspect.NewIntrospectable(introspectNode(exported)), ObjectPath, introspect.IntrospectData.Name); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to export introspection data: %w", err)
	}

	return conn, nil
}

// dbusObject is the method table exported to the UI process
type dbusObject struct {
	ext *Extension
}

// GetProfileMode returns the private-profile and browser-mode flags
func (o *dbusObject) GetProfileMode() (bool, bool, *dbus.Error) {
	return o.ext.PrivateProfile(), o.ext.BrowserMode(), nil
}

// GetAdblockDataDir returns the ad-block data directory, empty when ad
// blocking is off.
func (o *dbusObject) GetAdblockDataDir() (string, *dbus.Error) {
	if !o.ext.AdblockEnabled() {
		return "", nil
	}
	return o.ext.AdblockDataDir(), nil
}

func introspectNode(obj *dbusObject) *introspect.Node {
	return &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    InterfaceName,
				Methods: introspect.Methods(obj),
			},
		},
	}
}
