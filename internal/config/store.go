package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/logging"
)

// EnvPrefix is prepended to environment overrides, e.g. BROWSERSHELL_WEB_ENABLE_ADBLOCK
const EnvPrefix = "BROWSERSHELL"

// Section names
const (
	SectionWeb     = "web"
	SectionLogging = "logging"
)

// Store hands out one viper instance per settings section. Each section is
// read lazily from <dir>/<section>.yaml; a missing file yields the defaults.
type Store struct {
	dir    string
	logger *zap.Logger

	mu         sync.Mutex
	sections   map[string]*viper.Viper
	loadErrors map[string]error
	closed     bool
}

// NewStore creates a settings store rooted at dir
func NewStore(dir string) *Store {
	return &Store{
		dir:        dir,
		logger:     zap.NewNop(),
		sections:   make(map[string]*viper.Viper),
		loadErrors: make(map[string]error),
	}
}

// SetLogger sets the logger used to report unreadable section files
func (s *Store) SetLogger(l *zap.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logging.OrNop(l)
}

// Section returns the settings for name, loading them on first use
func (s *Store) Section(name string) *viper.Viper {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.sections[name]; ok {
		return v
	}

	v := newSection(name)
	if s.dir != "" && !s.closed {
		path := filepath.Join(s.dir, name+".yaml")
		v.SetConfigFile(path)
		// A missing file leaves the defaults in place.
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			err = fmt.Errorf("failed to read %s settings from %s: %w", name, path, err)
			s.loadErrors[name] = err
			s.logger.Warn("invalid settings file, using defaults", zap.String("section", name), zap.Error(err))
		}
	}
	if !s.closed {
		s.sections[name] = v
	}
	return v
}

// LoadError returns why the file of a loaded section could not be read
func (s *Store) LoadError(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErrors[name]
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

// Sections returns the number of loaded sections
func (s *Store) Sections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sections)
}

// Shutdown drops every loaded section. Later Section calls return defaults only.
func (s *Store) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = make(map[string]*viper.Viper)
	s.loadErrors = make(map[string]error)
	s.closed = true
}

// LoggingConfig reads the logging section
func (s *Store) LoggingConfig() (logging.Config, error) {
	cfg := logging.DefaultConfig()
	section := s.Section(SectionLogging)
	if err := s.LoadError(SectionLogging); err != nil {
		return logging.DefaultConfig(), err
	}
	if err := section.Unmarshal(&cfg); err != nil {
		return logging.DefaultConfig(), fmt.Errorf("failed to unmarshal logging config: %w", err)
	}
	return cfg, nil
}

func newSection(name string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix + "_" + strings.ToUpper(name))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	switch name {
	case SectionWeb:
		v.SetDefault("enable_adblock", true)
	case SectionLogging:
		def := logging.DefaultConfig()
		v.SetDefault("level", def.Level)
		v.SetDefault("format", def.Format)
		v.SetDefault("output_path", def.OutputPath)
	}
	return v
}
