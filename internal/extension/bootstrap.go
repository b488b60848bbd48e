package extension

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/config"
	"github.com/ytget/browser-shell/internal/logging"
	"github.com/ytget/browser-shell/internal/model"
	"github.com/ytget/browser-shell/internal/platform"
)

// ErrNoEndpoint is returned when the UI process supplied no IPC endpoint
var ErrNoEndpoint = errors.New("UI process did not start D-Bus server")

// FileHelpers is the file helper subsystem shut down last
type FileHelpers interface {
	Shutdown() error
}

// FileHelpersInit prepares file helpers rooted at dataDir
type FileHelpersInit func(dataDir string) (FileHelpers, error)

type options struct {
	logger    *zap.Logger
	connector Connector
	initFiles FileHelpersInit
	settings  SettingsStore
}

// Option configures Initialize
type Option func(*options)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = logging.OrNop(l) }
}

// WithConnector replaces the D-Bus connector
func WithConnector(c Connector) Option {
	return func(o *options) { o.connector = c }
}

// WithFileHelpersInit replaces platform.InitFileHelpers
func WithFileHelpersInit(fn FileHelpersInit) Option {
	return func(o *options) { o.initFiles = fn }
}

// WithSettings sets the settings store. By default a config.Store rooted at
// the data directory is used.
func WithSettings(s SettingsStore) Option {
	return func(o *options) { o.settings = s }
}

func defaultFileHelpersInit(dataDir string) (FileHelpers, error) {
	helpers, err := platform.InitFileHelpers(dataDir)
	if err != nil {
		return nil, err
	}
	return helpers, nil
}

// Runtime holds what Initialize set up until Shutdown
type Runtime struct {
	extension *Extension
	settings  SettingsStore
	files     FileHelpers
	logger    *zap.Logger

	once sync.Once
}

// Initialize sets up the web extension for host from the startup parameters.
// Without an endpoint address nothing is set up and ErrNoEndpoint is
// returned. A file helper failure is logged and initialization continues.
func Initialize(host Host, params model.StartupParameters, opts ...Option) (*Runtime, error) {
	o := options{
		logger:    zap.NewNop(),
		connector: DBusConnector{},
		initFiles: defaultFileHelpersInit,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !params.HasEndpoint() {
		o.logger.Warn("UI process did not start D-Bus server, giving up.")
		return nil, ErrNoEndpoint
	}

	files, err := o.initFiles(params.DataDir)
	if err != nil {
		o.logger.Warn("Failed to initialize file helpers", zap.Error(err))
		files = nil
	}

	if o.settings == nil {
		o.settings = config.NewStore(params.DataDir)
	}

	ext := newExtension(host, params, o.settings, o.logger)
	ext.connect(o.connector)

	o.logger.Debug("web extension initialized",
		zap.Int("pid", host.ProcessID()),
		zap.Bool("private_profile", params.PrivateProfile),
		zap.Bool("browser_mode", params.BrowserMode),
		zap.Bool("adblock", ext.AdblockEnabled()))

	return &Runtime{
		extension: ext,
		settings:  o.settings,
		files:     files,
		logger:    o.logger,
	}, nil
}

// Extension returns the extension context object
func (r *Runtime) Extension() *Extension {
	return r.extension
}

// Shutdown releases the extension, then settings, then file helpers. Later
// calls do nothing.
func (r *Runtime) Shutdown() {
	r.once.Do(func() {
		if err := r.extension.Close(); err != nil {
			r.logger.Warn("failed to close extension connection", zap.Error(err))
		}
		r.settings.Shutdown()
		if r.files != nil {
			if err := r.files.Shutdown(); err != nil {
				r.logger.Warn("failed to shut down file helpers", zap.Error(err))
			}
		}
	})
}
