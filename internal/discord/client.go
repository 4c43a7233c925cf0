package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Client binds the Service capability set to a live discordgo session.
// One Client per gateway session; never shared.
type Client struct {
	session *discordgo.Session
	guildID string
}

// ClientFactory produces unconnected Clients.
type ClientFactory struct{}

func (ClientFactory) New() Service {
	return &Client{}
}

func (c *Client) Initialize(ctx context.Context, token string) (*GuildInfo, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("Failed to initialize Discord bot: %s", err)
	}

	s.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentGuildMessageReactions
	s.StateEnabled = true

	ready := make(chan struct{})
	s.AddHandlerOnce(func(_ *discordgo.Session, _ *discordgo.Ready) {
		close(ready)
	})

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("Failed to initialize Discord bot: %s", err)
	}

	select {
	case <-ready:
	case <-ctx.Done():
		s.Close()
		return nil, fmt.Errorf("Failed to initialize Discord bot: %s", ctx.Err())
	}

	guilds := s.State.Guilds
	if len(guilds) == 0 {
		s.Close()
		return nil, fmt.Errorf("No guild found")
	}

	c.session = s
	c.guildID = guilds[0].ID

	info, err := c.guildInfo(ctx)
	if err != nil {
		s.Close()
		c.session = nil
		return nil, err
	}
	return info, nil
}

func (c *Client) guildInfo(ctx context.Context) (*GuildInfo, error) {
	g, err := c.session.GuildWithCounts(c.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("Failed to initialize Discord bot: %s", err)
	}

	count := g.ApproximateMemberCount
	if count == 0 {
		count = g.MemberCount
	}

	return &GuildInfo{
		ServerName:  g.Name,
		MemberCount: count,
		IconURL:     g.IconURL("1024"),
	}, nil
}

func (c *Client) Members(ctx context.Context) ([]Member, error) {
	roles, err := c.session.GuildRoles(c.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	roleNames := make(map[string]string, len(roles))
	for _, r := range roles {
		roleNames[r.ID] = r.Name
	}

	members := []Member{}
	after := ""
	for {
		page, err := c.session.GuildMembers(c.guildID, after, 1000, discordgo.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		for _, m := range page {
			names := []string{}
			for _, id := range m.Roles {
				if name, ok := roleNames[id]; ok {
					names = append(names, name)
				}
			}
			members = append(members, Member{
				ID:       m.User.ID,
				Username: m.User.Username,
				Avatar:   m.User.AvatarURL(""),
				Roles:    names,
			})
		}
		if len(page) < 1000 {
			return members, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (c *Client) Channels(ctx context.Context) ([]Channel, error) {
	all, err := c.session.GuildChannels(c.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	channels := []Channel{}
	for _, ch := range all {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		channels = append(channels, Channel{ID: ch.ID, Name: ch.Name})
	}
	return channels, nil
}

func (c *Client) Messages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	raw, err := c.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch messages: %s", err)
	}

	messages := make([]Message, 0, len(raw))
	for _, m := range raw {
		messages = append(messages, Message{
			ID:      m.ID,
			Content: m.Content,
			Author: Author{
				ID:       m.Author.ID,
				Username: m.Author.Username,
				Avatar:   m.Author.AvatarURL(""),
			},
			Timestamp: m.Timestamp.UnixMilli(),
		})
	}
	return messages, nil
}

func (c *Client) Close() error {
	if c.session == nil {
		return nil
	}
	return c.session.Close()
}
