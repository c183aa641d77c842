package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// defaultAppName roots every path when no app name is given.
const defaultAppName = "todos"

// Paths holds the per-user locations the CLI resolves before loading config.
type Paths struct {
	ConfigPath string
	DataDir    string
	LogDir     string
}

// Options selects the app directory name.
type Options struct {
	AppName string
	DevMode bool
}

// DirName returns the per-app directory name. Dev mode appends "-dev" so a
// development build never reads the installed config.
func (o Options) DirName() string {
	name := strings.TrimSpace(o.AppName)
	if name == "" {
		name = defaultAppName
	}
	if o.DevMode {
		name += "-dev"
	}
	return name
}

// Env is the part of the process environment that path resolution reads.
type Env struct {
	GOOS          string
	Getenv        func(string) string
	UserConfigDir func() (string, error)
	UserHomeDir   func() (string, error)
}

// SystemEnv returns the environment of the running process.
func SystemEnv() Env {
	return Env{
		GOOS:          runtime.GOOS,
		Getenv:        os.Getenv,
		UserConfigDir: os.UserConfigDir,
		UserHomeDir:   os.UserHomeDir,
	}
}

// DefaultPaths resolves paths for the default app name.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions resolves paths against the running process.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	return Resolve(SystemEnv(), opts)
}

// Resolve picks the config and data roots for env and places the app directory under each.
// The log dir lives inside the data dir.
func Resolve(env Env, opts Options) (Paths, error) {
	configBase, dataBase, err := baseDirs(env)
	if err != nil {
		return Paths{}, err
	}
	dir := opts.DirName()
	dataDir := filepath.Join(dataBase, dir)
	return Paths{
		ConfigPath: filepath.Join(configBase, dir, "config.toml"),
		DataDir:    dataDir,
		LogDir:     filepath.Join(dataDir, "log"),
	}, nil
}

// baseDirs returns the config and data roots.
// Linux honors XDG and defaults data to ~/.local/share; Windows splits roaming config from local data.
// Everything else keeps both under the OS config dir.
func baseDirs(env Env) (string, string, error) {
	lookup := func(name string) string {
		if env.Getenv == nil {
			return ""
		}
		return strings.TrimSpace(env.Getenv(name))
	}

	var configBase, dataBase string
	switch env.GOOS {
	case "linux":
		configBase = lookup("XDG_CONFIG_HOME")
		dataBase = lookup("XDG_DATA_HOME")
		if dataBase == "" {
			home, err := call(env.UserHomeDir, "user home dir")
			if err != nil {
				return "", "", err
			}
			dataBase = filepath.Join(home, ".local", "share")
		}
	case "windows":
		configBase = lookup("APPDATA")
		dataBase = lookup("LOCALAPPDATA")
	}

	if configBase == "" {
		dir, err := call(env.UserConfigDir, "user config dir")
		if err != nil {
			return "", "", err
		}
		configBase = dir
	}
	if dataBase == "" {
		dataBase = configBase
	}
	return configBase, dataBase, nil
}

// call runs one directory lookup and rejects empty results.
func call(fn func() (string, error), what string) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("%s: %w", what, errors.ErrUnsupported)
	}
	dir, err := fn()
	if err != nil {
		return "", fmt.Errorf("%s: %w", what, err)
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", fmt.Errorf("%s: empty path", what)
	}
	return dir, nil
}
