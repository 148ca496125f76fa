package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordSink mirrors fired notifications into an ops channel so flagged
// content can be reviewed outside the extension. Optional; wired only when a
// bot token is configured.
type DiscordSink struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordSink(token, channelID string) (*DiscordSink, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &DiscordSink{session: session, channelID: channelID}, nil
}

func (s *DiscordSink) Notify(_ context.Context, n Notification) error {
	_, err := s.session.ChannelMessageSendEmbed(s.channelID, &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Message,
		URL:         n.DetailsURL,
		Footer:      &discordgo.MessageEmbedFooter{Text: "verifyd " + n.ID},
	})
	return err
}
