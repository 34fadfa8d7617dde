// Package config resolves the configuration of a hashbang invocation.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Env abstracts the process environment the loader reads from.
type Env struct {
	Getenv        func(key string) string
	UserHomeDir   func() (string, error)
	UserConfigDir func() (string, error)
}

// OSEnv returns an Env backed by the running process.
func OSEnv() Env {
	return Env{
		Getenv:        os.Getenv,
		UserHomeDir:   os.UserHomeDir,
		UserConfigDir: os.UserConfigDir,
	}
}

// Loader implements ports.ConfigLoader.
//
// Precedence for every setting is flag, then environment, then config file, then default.
type Loader struct {
	logger ports.Logger
	env    Env
}

// NewLoader creates a Loader reading the process environment.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithEnv(logger, OSEnv())
}

// NewLoaderWithEnv creates a Loader reading env.
func NewLoaderWithEnv(logger ports.Logger, env Env) *Loader {
	return &Loader{logger: logger, env: env}
}

// Load merges opts, the environment and the config file into a domain.Config.
func (l *Loader) Load(opts domain.ConfigOptions) (domain.Config, error) {
	file, err := l.readFile(opts.ConfigFile)
	if err != nil {
		return domain.Config{}, err
	}

	cacheDir, err := l.resolveCacheDir(opts.CacheDir, file.CacheDir)
	if err != nil {
		return domain.Config{}, err
	}
	tempDir, err := l.expandHome(file.TempDir)
	if err != nil {
		return domain.Config{}, err
	}
	logJSON, err := resolveLogJSON(opts.LogJSON, file.LogFormat)
	if err != nil {
		return domain.Config{}, err
	}

	cfg := domain.Config{
		CacheDir:  cacheDir,
		TempDir:   tempDir,
		Compiler:  file.Compiler,
		Verbosity: opts.Verbosity,
		LogJSON:   logJSON,
	}
	l.logger.Debug("resolved configuration", "cache_dir", cfg.CacheDir, "compiler", strings.Join(cfg.CompilerArgs(), " "))
	return cfg, nil
}

// readFile loads the config file. An explicitly named file must exist; the default
// location is optional.
func (l *Loader) readFile(explicit string) (File, error) {
	path := explicit
	if path == "" {
		path = l.env.Getenv(domain.ConfigFileEnv)
	}
	required := path != ""

	if !required {
		dir, err := l.env.UserConfigDir()
		if err != nil {
			return File{}, nil
		}
		path = filepath.Join(dir, domain.ConfigDirName, domain.ConfigFileName)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return File{}, nil
		}
		return File{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	file, err := parse(data)
	if err != nil {
		return File{}, zerr.With(err, "path", path)
	}
	l.logger.Debug("loaded config file", "path", path)
	return file, nil
}

func parse(data []byte) (File, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return file, nil
}

// resolveLogJSON lets the flag force JSON output over the config file's log_format.
func resolveLogJSON(flag bool, format string) (bool, error) {
	switch format {
	case "", domain.LogFormatPretty:
		return flag, nil
	case domain.LogFormatJSON:
		return true, nil
	default:
		return false, zerr.With(domain.ErrConfigParseFailed, "log_format", format)
	}
}

func (l *Loader) resolveCacheDir(flag, fromFile string) (string, error) {
	for _, candidate := range []string{flag, l.env.Getenv(domain.CacheDirEnv), fromFile} {
		if candidate != "" {
			return l.expandHome(candidate)
		}
	}

	home, err := l.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, domain.DefaultCacheDirName), nil
}

// expandHome replaces a leading "~" with the user's home directory.
func (l *Loader) expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := l.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func (l *Loader) homeDir() (string, error) {
	home, err := l.env.UserHomeDir()
	if err == nil && home == "" {
		err = errors.New("home directory is empty")
	}
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrNoHomeDir.Error())
	}
	return home, nil
}
