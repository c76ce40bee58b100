package irc

import (
	"errors"
	"net/netip"
	"strings"
)

const (
	MinPort = 1
	MaxPort = 65535

	// DefaultPort is the conventional plaintext IRC port.
	DefaultPort = 6667

	MaxNicknameLength = 30
	MaxChannelLength  = 50
	maxHostLength     = 253
	maxLabelLength    = 63

	channelPrefixes = "#&+!"
	nickSpecials    = "[]\\`_^{|}"
)

var (
	ErrPortRange      = errors.New("port must be between 1 and 65535")
	ErrEmptyHost      = errors.New("host is empty")
	ErrInvalidHost    = errors.New("host is not a valid hostname or IP address")
	ErrEmptyNickname  = errors.New("nickname is empty")
	ErrNicknameLength = errors.New("nickname is too long")
	ErrNicknameChars  = errors.New("nickname contains invalid characters")
	ErrEmptyChannel   = errors.New("channel is empty")
	ErrChannelLength  = errors.New("channel name is too long")
	ErrChannelChars   = errors.New("channel name contains invalid characters")
)

func ValidatePort(port int) error {
	if port < MinPort || port > MaxPort {
		return ErrPortRange
	}
	return nil
}

// ValidateHost checks syntax only; it never resolves the name.
func ValidateHost(host string) error {
	if host == "" {
		return ErrEmptyHost
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return nil
	}

	name := strings.TrimSuffix(host, ".")
	if name == "" || len(name) > maxHostLength {
		return ErrInvalidHost
	}
	for _, label := range strings.Split(name, ".") {
		if !validLabel(label) {
			return ErrInvalidHost
		}
	}
	return nil
}

func validLabel(label string) bool {
	if label == "" || len(label) > maxLabelLength {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isLetter(c) && !isDigit(c) && c != '-' {
			return false
		}
	}
	return true
}

// ValidateNickname follows the RFC 2812 nickname grammar with a relaxed
// length limit, since most networks accept more than nine characters.
func ValidateNickname(nick string) error {
	if nick == "" {
		return ErrEmptyNickname
	}
	if len(nick) > MaxNicknameLength {
		return ErrNicknameLength
	}
	for i := 0; i < len(nick); i++ {
		c := nick[i]
		switch {
		case isLetter(c), strings.IndexByte(nickSpecials, c) >= 0:
		case i > 0 && (isDigit(c) || c == '-'):
		default:
			return ErrNicknameChars
		}
	}
	return nil
}

// NormalizeChannel returns name with a channel prefix, adding '#' when the
// name has none.
func NormalizeChannel(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyChannel
	}
	if strings.IndexByte(channelPrefixes, name[0]) < 0 {
		name = "#" + name
	}
	if len(name) == 1 {
		return "", ErrEmptyChannel
	}
	if len(name) > MaxChannelLength {
		return "", ErrChannelLength
	}
	if strings.ContainsAny(name, " ,\a") {
		return "", ErrChannelChars
	}
	return name, nil
}

// ParseMasters splits a comma separated list of nicknames.
func ParseMasters(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
