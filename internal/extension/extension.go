package extension

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/config"
	"github.com/ytget/browser-shell/internal/model"
)

// KeyEnableAdblock is the web section key that turns ad blocking on
const KeyEnableAdblock = "enable_adblock"

// Host is the rendering process the extension is loaded into
type Host interface {
	ProcessID() int
}

// ProcessHost is the Host for the current process
type ProcessHost struct{}

// ProcessID returns the current process ID
func (ProcessHost) ProcessID() int { return os.Getpid() }

// SettingsStore provides settings sections and is shut down with the runtime
type SettingsStore interface {
	Section(name string) *viper.Viper
	Shutdown()
}

var _ SettingsStore = (*config.Store)(nil)

// Connection is an open IPC channel to the UI process
type Connection interface {
	Close() error
}

// Connector opens the IPC channel to the UI process at address and makes ext
// reachable over it.
type Connector interface {
	Connect(ctx context.Context, address string, ext *Extension) (Connection, error)
}

// Extension is the per-process context object of the web extension
type Extension struct {
	host     Host
	params   model.StartupParameters
	settings SettingsStore
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	ready  chan struct{}

	mu      sync.Mutex
	conn    Connection
	connErr error
	closed  bool
}

func newExtension(host Host, params model.StartupParameters, settings SettingsStore, logger *zap.Logger) *Extension {
	ctx, cancel := context.WithCancel(context.Background())
	return &Extension{
		host:     host,
		params:   params,
		settings: settings,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		ready:    make(chan struct{}),
	}
}

// connect dials the UI process in the background. Ready is closed when the
// attempt ends either way.
func (e *Extension) connect(connector Connector) {
	go func() {
		defer close(e.ready)

		conn, err := connector.Connect(e.ctx, e.params.EndpointAddress, e)

		e.mu.Lock()
		defer e.mu.Unlock()
		if err != nil {
			e.connErr = err
			if !errors.Is(err, context.Canceled) {
				e.logger.Warn("failed to connect to UI process",
					zap.String("address", e.params.EndpointAddress), zap.Error(err))
			}
			return
		}
		if e.closed {
			_ = conn.Close()
			return
		}
		e.conn = conn
		e.logger.Info("connected to UI process", zap.String("address", e.params.EndpointAddress))
	}()
}

// Host returns the rendering process the extension is bound to
func (e *Extension) Host() Host { return e.host }

// Params returns the startup parameters
func (e *Extension) Params() model.StartupParameters { return e.params }

// PrivateProfile reports whether the profile is private
func (e *Extension) PrivateProfile() bool { return e.params.PrivateProfile }

// BrowserMode reports whether the shell runs as a full browser
func (e *Extension) BrowserMode() bool { return e.params.BrowserMode }

// AdblockDataDir returns the ad-block filter directory
func (e *Extension) AdblockDataDir() string { return e.params.AdblockDataDir }

// AdblockEnabled reports whether ad blocking is on. It needs both the web
// setting and an ad-block data directory.
func (e *Extension) AdblockEnabled() bool {
	if e.params.AdblockDataDir == "" {
		return false
	}
	if e.settings == nil {
		return true
	}
	return e.settings.Section(config.SectionWeb).GetBool(KeyEnableAdblock)
}

// Ready is closed once the connection attempt has ended
func (e *Extension) Ready() <-chan struct{} { return e.ready }

// Connected reports whether the IPC channel is open
func (e *Extension) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn != nil
}

// Err returns the connection error, if the attempt failed
func (e *Extension) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connErr
}

// Close aborts a pending connection attempt and drops the IPC channel
func (e *Extension) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	conn := e.conn
	e.conn = nil
	e.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	e.cancel()
	return err
}
