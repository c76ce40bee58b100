package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/plaimi/q/internal/domain/irc"
)

const (
	EnvNetwork    = "IRC_NETWORK"
	EnvPort       = "IRC_PORT"
	EnvChannel    = "IRC_CHANNEL"
	EnvNickname   = "IRC_NICKNAME"
	EnvUsername   = "IRC_USERNAME"
	EnvPassword   = "IRC_PASSWORD"
	EnvMasters    = "BOT_MASTERS"
	EnvHiscoresDB = "HISCORES_DB"
	EnvVerbose    = "VERBOSE"
	EnvLogLevel   = "LOG_LEVEL"
	EnvHealthPort = "HEALTH_PORT"

	EnvConfigPath = "Q_CONFIG"
	EnvEnvPath    = "ENV_PATH"
)

var (
	errNotInteger   = errors.New("expected an integer")
	errNotBoolean   = errors.New("expected true or false")
	errBarePassword = errors.New("password must be a secret or false")
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv overlays environment variables on opts. Unset and empty variables
// leave the corresponding option untouched.
func FromEnv(opts Options, lookup LookupFunc) (Options, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}

	var errs []error

	if v, ok := get(EnvNetwork); ok {
		opts.Network = v
	}
	if v, ok := get(EnvPort); ok {
		n, err := parseInt(EnvPort, v)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts.Port = n
		}
	}
	if v, ok := get(EnvChannel); ok {
		opts.Channel = v
	}
	if v, ok := get(EnvNickname); ok {
		opts.Nickname = v
	}
	if v, ok := get(EnvUsername); ok {
		opts.Username = v
	}
	if v, ok := get(EnvPassword); ok {
		secret, err := parsePassword(EnvPassword, v)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts.Password = secret
		}
	}
	if v, ok := get(EnvMasters); ok {
		opts.Masters = irc.ParseMasters(v)
	}
	if v, ok := get(EnvHiscoresDB); ok {
		opts.HiscoresDB = v
	}
	if v, ok := get(EnvVerbose); ok {
		b, err := parseBool(EnvVerbose, v)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts.Verbose = b
		}
	}
	if v, ok := get(EnvLogLevel); ok {
		opts.LogLevel = v
	}
	if v, ok := get(EnvHealthPort); ok {
		n, err := parseInt(EnvHealthPort, v)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts.HealthPort = n
		}
	}

	return opts, errors.Join(errs...)
}

func parseInt(field, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if errors.Is(err, strconv.ErrRange) {
		return 0, newError(OutOfRange, field, v, err)
	}
	if err != nil {
		return 0, newError(TypeMismatch, field, v, errNotInteger)
	}
	return n, nil
}

func parseBool(field, v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, newError(TypeMismatch, field, v, errNotBoolean)
}

// parsePassword accepts a secret or a false-like word that disables services
// identification. A true-like word carries no secret and is rejected.
func parsePassword(field, v string) (string, error) {
	b, err := parseBool(field, v)
	if err != nil {
		return v, nil
	}
	if b {
		return "", newError(TypeMismatch, field, "", errBarePassword)
	}
	return "", nil
}

// ResolveEnvPath finds the .env file: ENV_PATH first, then next to the
// executable, then the working directory.
func ResolveEnvPath() string {
	if p := os.Getenv(EnvEnvPath); p != "" {
		return p
	}
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), ".env")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ".env"
	}
	return filepath.Join(cwd, ".env")
}

// ResolveConfigPath returns Q_CONFIG when set, otherwise q.toml next to the
// .env file.
func ResolveConfigPath(envPath string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(filepath.Dir(envPath), DefaultConfigFile)
}
