package ports

import "context"

// Connector establishes the IRC session. Implementations skip NickServ
// identification when cfg.UsesServicesAuth is false.
type Connector interface {
	Connect(ctx context.Context, cfg BotConfig) error

	Disconnect() error
}

// CommandAuthorizer decides which channel to join and who may issue
// privileged commands.
type CommandAuthorizer interface {
	JoinChannel() string

	Authorize(nick, message string) (Command, bool)
}

type Command struct {
	Name string
	Args []string
	Nick string
}

// ScoreStore owns the hiscores file exclusively and creates it on first use.
type ScoreStore interface {
	Open(ctx context.Context, path string) error

	Close() error
}

type Tracer interface {
	Question(category, question, answer string)

	Enabled() bool
}
