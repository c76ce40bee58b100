package ports

type BotStats struct {
	Status           string   `json:"status"`
	Uptime           string   `json:"uptime"`
	UptimeSeconds    float64  `json:"uptime_seconds"`
	Network          string   `json:"network"`
	Port             int      `json:"port"`
	Channel          string   `json:"channel"`
	Nickname         string   `json:"nickname"`
	Username         string   `json:"username"`
	ServicesAuth     bool     `json:"services_auth"`
	Masters          []string `json:"masters"`
	HiscoresDB       string   `json:"hiscores_db"`
	Verbose          bool     `json:"verbose"`
	CommandsAccepted int      `json:"commands_accepted"`
	CommandsRejected int      `json:"commands_rejected"`
}

type StatsProvider interface {
	GetStats() BotStats
}
