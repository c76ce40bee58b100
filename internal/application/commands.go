package application

import (
	"strings"
	"sync"
	"time"

	"github.com/plaimi/q/internal/domain/access"
	"github.com/plaimi/q/internal/ports"
)

const (
	CommandPrefix = "!"

	userCommandRateLimit = 2 * time.Second
	userCmdTimesMaxAge   = 5 * time.Minute
)

// privilegedCommands may only be issued by masters.
var privilegedCommands = map[string]bool{
	"start":  true,
	"stop":   true,
	"skip":   true,
	"reload": true,
	"quit":   true,
}

// CommandGate is the channel side of the bot: it knows which channel to
// join and which nicknames may control the quiz.
type CommandGate struct {
	channel string
	masters access.MasterSet

	onDecision func(cmd ports.Command, accepted bool)
	now        func() time.Time

	mu           sync.Mutex
	userCmdTimes map[string]time.Time
}

type GateOption func(*CommandGate)

// WithDecisionHook is called for every privileged command after the
// authorization decision.
func WithDecisionHook(fn func(cmd ports.Command, accepted bool)) GateOption {
	return func(g *CommandGate) {
		g.onDecision = fn
	}
}

func WithClock(now func() time.Time) GateOption {
	return func(g *CommandGate) {
		if now != nil {
			g.now = now
		}
	}
}

func NewCommandGate(cfg ports.BotConfig, opts ...GateOption) *CommandGate {
	g := &CommandGate{
		channel:      cfg.Channel,
		masters:      access.NewMasterSet(cfg.Masters),
		now:          time.Now,
		userCmdTimes: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *CommandGate) JoinChannel() string {
	return g.channel
}

func (g *CommandGate) IsMaster(nick string) bool {
	return g.masters.Contains(nick)
}

func IsPrivileged(cmd string) bool {
	return privilegedCommands[strings.ToLower(cmd)]
}

// Authorize parses message as a command from nick. Privileged commands are
// accepted only from masters; other commands are accepted from anyone who is
// not rate limited.
func (g *CommandGate) Authorize(nick, message string) (ports.Command, bool) {
	name, args, ok := splitCommand(message, CommandPrefix)
	if !ok {
		return ports.Command{}, false
	}
	cmd := ports.Command{Name: name, Args: args, Nick: nick}

	master := g.masters.Contains(nick)
	if !master && g.isUserRateLimited(nick) {
		return cmd, false
	}

	if !IsPrivileged(name) {
		return cmd, true
	}

	if g.onDecision != nil {
		g.onDecision(cmd, master)
	}
	return cmd, master
}

func (g *CommandGate) isUserRateLimited(nick string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	lowerName := strings.ToLower(nick)

	if lastTime, exists := g.userCmdTimes[lowerName]; exists {
		if now.Sub(lastTime) < userCommandRateLimit {
			return true
		}
	}

	g.userCmdTimes[lowerName] = now
	return false
}

func (g *CommandGate) cleanupUserCmdTimes() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for user, lastTime := range g.userCmdTimes {
		if now.Sub(lastTime) > userCmdTimesMaxAge {
			delete(g.userCmdTimes, user)
		}
	}
}

func splitCommand(fullMsg, prefix string) (string, []string, bool) {
	if !strings.HasPrefix(fullMsg, prefix) {
		return "", nil, false
	}
	text := strings.TrimSpace(strings.TrimPrefix(fullMsg, prefix))
	if text == "" {
		return "", nil, false
	}
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}
	cmd := strings.ToLower(parts[0])
	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	return cmd, args, true
}

var _ ports.CommandAuthorizer = (*CommandGate)(nil)
