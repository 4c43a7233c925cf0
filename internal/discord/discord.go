package discord

import "context"

// Service is the capability set a session holds against one Discord
// account connection. Implementations return facts from the connected
// guild and must not be shared between sessions.
type Service interface {
	// Initialize logs in with the bot token and blocks until the
	// connection is confirmed usable, bounded by ctx. It returns a
	// summary of the first guild the account belongs to.
	Initialize(ctx context.Context, token string) (*GuildInfo, error)

	Members(ctx context.Context) ([]Member, error)
	Channels(ctx context.Context) ([]Channel, error)
	Messages(ctx context.Context, channelID string, limit int) ([]Message, error)

	// Close tears down the underlying connection. Called exactly once,
	// by whoever removed the owning session.
	Close() error
}

// Factory produces a fresh, unconnected Service per login attempt.
type Factory interface {
	New() Service
}

type GuildInfo struct {
	ServerName  string `json:"serverName"`
	MemberCount int    `json:"memberCount"`
	IconURL     string `json:"iconURL"`
}

type Member struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Avatar   string   `json:"avatar"`
	Roles    []string `json:"roles"`
}

type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type Message struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Author    Author `json:"author"`
	Timestamp int64  `json:"timestamp"`
}
