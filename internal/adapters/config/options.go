package config

import (
	"errors"
	"strconv"
	"strings"

	"github.com/plaimi/q/internal/adapters/logging"
	"github.com/plaimi/q/internal/domain/access"
	"github.com/plaimi/q/internal/domain/irc"
	"github.com/plaimi/q/internal/ports"
)

const (
	DefaultNetwork    = "irc.freenode.net"
	DefaultChannel    = "bot_test"
	DefaultNickname   = "my_bot"
	DefaultHiscoresDB = "hiscores.sql"
	DefaultVerbose    = true

	// defaultCoMaster is listed next to the bot's own nickname when no
	// masters are configured.
	defaultCoMaster = "my_nickname"
)

var (
	errInvalidUsername = errors.New("username must not contain spaces or '@'")
	errNoMasters       = errors.New("at least one master nickname is required")
	errEmptyPath       = errors.New("path is empty")
	errUnknownLogLevel = errors.New("expected debug, info, warn or error")
)

// Options is the unvalidated option set gathered from defaults, the config
// file and the environment.
type Options struct {
	Network  string
	Port     int
	Channel  string
	Nickname string
	// Username falls back to Nickname when empty.
	Username string
	// Password is the services secret; empty disables identification.
	Password string
	// Masters is nil when unset, in which case it derives from Nickname.
	// A non-nil empty slice is an explicit empty list and fails validation.
	Masters    []string
	HiscoresDB string
	Verbose    bool

	LogLevel   string
	HealthPort int
}

func Defaults() Options {
	return Options{
		Network:    DefaultNetwork,
		Port:       irc.DefaultPort,
		Channel:    DefaultChannel,
		Nickname:   DefaultNickname,
		HiscoresDB: DefaultHiscoresDB,
		Verbose:    DefaultVerbose,
	}
}

// DefaultMasters is the master list used when none is configured.
func DefaultMasters(nickname string) []string {
	return []string{nickname, defaultCoMaster}
}

// Build applies the derivation rules to opts and validates the result. All
// problems are reported together, joined with errors.Join.
func Build(opts Options) (ports.BotConfig, error) {
	var errs []error

	network := strings.TrimSpace(opts.Network)
	if err := irc.ValidateHost(network); err != nil {
		kind := TypeMismatch
		if errors.Is(err, irc.ErrEmptyHost) {
			kind = MissingField
		}
		errs = append(errs, newError(kind, "network", network, err))
	}

	if err := irc.ValidatePort(opts.Port); err != nil {
		errs = append(errs, newError(OutOfRange, "port", strconv.Itoa(opts.Port), err))
	}

	nickname := strings.TrimSpace(opts.Nickname)
	if err := irc.ValidateNickname(nickname); err != nil {
		errs = append(errs, nicknameError("nickname", nickname, err))
	}

	username := strings.TrimSpace(opts.Username)
	if username == "" {
		username = nickname
	} else if strings.ContainsAny(username, " \t@") {
		errs = append(errs, newError(TypeMismatch, "username", username, errInvalidUsername))
	}

	channel, err := irc.NormalizeChannel(opts.Channel)
	if err != nil {
		errs = append(errs, channelError(opts.Channel, err))
	}

	rawMasters := opts.Masters
	if rawMasters == nil {
		rawMasters = DefaultMasters(nickname)
	}
	masters := access.NewMasterSet(trimAll(rawMasters))
	if masters.Len() == 0 {
		errs = append(errs, newError(MissingField, "masters", "", errNoMasters))
	}
	for _, m := range masters.Names() {
		if err := irc.ValidateNickname(m); err != nil {
			errs = append(errs, nicknameError("masters", m, err))
		}
	}

	hiscores := strings.TrimSpace(opts.HiscoresDB)
	if hiscores == "" {
		errs = append(errs, newError(MissingField, "hiscoresdb", "", errEmptyPath))
	}

	logLevel := strings.ToLower(strings.TrimSpace(opts.LogLevel))
	switch {
	case logLevel == "" && opts.Verbose:
		logLevel = "debug"
	case logLevel == "":
		logLevel = "info"
	case !logging.ValidLevel(logLevel):
		errs = append(errs, newError(TypeMismatch, "log_level", logLevel, errUnknownLogLevel))
	}

	if opts.HealthPort != 0 {
		if err := irc.ValidatePort(opts.HealthPort); err != nil {
			errs = append(errs, newError(OutOfRange, "health_port", strconv.Itoa(opts.HealthPort), err))
		}
	}

	if len(errs) > 0 {
		return ports.BotConfig{}, errors.Join(errs...)
	}

	return ports.BotConfig{
		Network:    network,
		Port:       opts.Port,
		Channel:    channel,
		Nickname:   nickname,
		Username:   username,
		Password:   opts.Password,
		Masters:    masters.Names(),
		HiscoresDB: hiscores,
		Verbose:    opts.Verbose,
		LogLevel:   logLevel,
		HealthPort: opts.HealthPort,
	}, nil
}

func nicknameError(field, value string, err error) *ConfigError {
	switch {
	case errors.Is(err, irc.ErrEmptyNickname):
		return newError(MissingField, field, "", err)
	case errors.Is(err, irc.ErrNicknameLength):
		return newError(OutOfRange, field, value, err)
	default:
		return newError(TypeMismatch, field, value, err)
	}
}

func channelError(value string, err error) *ConfigError {
	switch {
	case errors.Is(err, irc.ErrEmptyChannel):
		return newError(MissingField, "chan", "", err)
	case errors.Is(err, irc.ErrChannelLength):
		return newError(OutOfRange, "chan", value, err)
	default:
		return newError(TypeMismatch, "chan", value, err)
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
