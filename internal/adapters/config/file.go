package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultConfigFile = "q.toml"

var errUnknownKey = errors.New("unknown key")

// fileOptions is the on-disk shape of q.toml, used when writing templates.
type fileOptions struct {
	Network    string   `toml:"network"`
	Port       int      `toml:"port"`
	Channel    string   `toml:"chan"`
	Nickname   string   `toml:"nickname"`
	Username   string   `toml:"username,omitempty"`
	Password   any      `toml:"password"`
	Masters    []string `toml:"masters"`
	HiscoresDB string   `toml:"hiscoresdb"`
	Verbose    bool     `toml:"verbose"`
	LogLevel   string   `toml:"log_level,omitempty"`
	HealthPort int      `toml:"health_port,omitempty"`
}

// FromFile overlays the TOML file at path on opts. Keys absent from the file
// keep their current value. A missing file is not an error.
func FromFile(opts Options, path string) (Options, error) {
	if path == "" {
		return opts, nil
	}

	// #nosec G304 -- path is intentionally user-configurable via Q_CONFIG
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return opts, nil
		}
		return opts, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw map[string]toml.Primitive
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return opts, parseError(path, err)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	decode := func(key string, v any) bool {
		if err := md.PrimitiveDecode(raw[key], v); err != nil {
			errs = append(errs, newError(TypeMismatch, key, "", err))
			return false
		}
		return true
	}

	for _, key := range keys {
		switch key {
		case "network":
			decode(key, &opts.Network)
		case "port":
			decode(key, &opts.Port)
		case "chan":
			decode(key, &opts.Channel)
		case "nickname":
			decode(key, &opts.Nickname)
		case "username":
			decode(key, &opts.Username)
		case "password":
			var v any
			if !decode(key, &v) {
				continue
			}
			secret, err := passwordFromTOML(v)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			opts.Password = secret
		case "masters":
			var masters []string
			if !decode(key, &masters) {
				continue
			}
			if masters == nil {
				masters = []string{}
			}
			opts.Masters = masters
		case "hiscoresdb":
			decode(key, &opts.HiscoresDB)
		case "verbose":
			decode(key, &opts.Verbose)
		case "log_level":
			decode(key, &opts.LogLevel)
		case "health_port":
			decode(key, &opts.HealthPort)
		default:
			errs = append(errs, newError(TypeMismatch, key, "", errUnknownKey))
		}
	}

	return opts, errors.Join(errs...)
}

// parseError names the key the parser stopped at. Integers beyond 64 bits
// fail while parsing, before any range check, and count as out of range.
func parseError(path string, err error) error {
	field := path
	var pe toml.ParseError
	if errors.As(err, &pe) && pe.LastKey != "" {
		field = pe.LastKey
	}
	kind := TypeMismatch
	if msg := err.Error(); strings.Contains(msg, "out of range") || strings.Contains(msg, "out of the range") {
		kind = OutOfRange
	}
	return newError(kind, field, "", err)
}

func passwordFromTOML(v any) (string, error) {
	switch p := v.(type) {
	case bool:
		if p {
			return "", newError(TypeMismatch, "password", "", errBarePassword)
		}
		return "", nil
	case string:
		return parsePassword("password", p)
	default:
		return "", newError(TypeMismatch, "password", fmt.Sprintf("%T", v), errBarePassword)
	}
}

func toFileOptions(opts Options) fileOptions {
	f := fileOptions{
		Network:    opts.Network,
		Port:       opts.Port,
		Channel:    opts.Channel,
		Nickname:   opts.Nickname,
		Username:   opts.Username,
		Password:   false,
		Masters:    opts.Masters,
		HiscoresDB: opts.HiscoresDB,
		Verbose:    opts.Verbose,
		LogLevel:   opts.LogLevel,
		HealthPort: opts.HealthPort,
	}
	if opts.Password != "" {
		f.Password = opts.Password
	}
	if f.Masters == nil {
		f.Masters = DefaultMasters(opts.Nickname)
	}
	return f
}
