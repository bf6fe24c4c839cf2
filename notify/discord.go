package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// sender is the subset of the discordgo session used for delivery.
// Narrowed so tests can substitute a stub.
type sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord delivers notifications to a fixed Discord channel over an open
// discordgo session. The session lifecycle (gateway connection, close) is
// owned by the bot; Discord only borrows it for REST sends.
type Discord struct {
	session   *discordgo.Session
	api       sender
	channelID string
	logger    *slog.Logger

	mu     sync.Mutex
	closed bool
}

// DiscordOption configures a Discord notifier.
type DiscordOption func(*Discord)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) DiscordOption {
	return func(d *Discord) { d.logger = l }
}

// WithSender overrides the API client used for sends. Defaults to the
// session itself; tests substitute a stub.
func WithSender(s sender) DiscordOption {
	return func(d *Discord) { d.api = s }
}

// NewDiscord creates a notifier that sends into channelID.
func NewDiscord(session *discordgo.Session, channelID string, opts ...DiscordOption) *Discord {
	d := &Discord{
		session:   session,
		channelID: channelID,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(d)
	}
	if d.api == nil {
		d.api = session
	}
	return d
}

// Send delivers the notification embed. When a mention target is set it
// also sends a short follow-up message referencing the primary one; the
// follow-up is fire-and-forget, a failure is logged and never surfaces.
func (d *Discord) Send(ctx context.Context, n Notification) error {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return &ErrSendFailed{Channel: d.channelID, Cause: errors.New("notifier closed")}
	}

	msg, err := d.api.ChannelMessageSendComplex(d.channelID, buildMessage(n), discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownChannel(err) {
			return &ErrChannelNotFound{Channel: d.channelID}
		}
		return &ErrSendFailed{Channel: d.channelID, Cause: err}
	}

	if n.MentionUserID != "" {
		content := "<@" + n.MentionUserID + ">"
		if _, err := d.api.ChannelMessageSendReply(d.channelID, content, msg.Reference(), discordgo.WithContext(ctx)); err != nil {
			d.logger.Warn("mention follow-up failed", "channel", d.channelID,
				"user", n.MentionUserID, "error", err)
		}
	}
	return nil
}

// Status reports the gateway connection state.
func (d *Discord) Status() Status {
	st := Status{}
	if d.session == nil {
		return st
	}
	st.Latency = d.session.HeartbeatLatency()
	if u := d.session.State.User; u != nil && d.session.DataReady {
		st.Connected = true
		st.Tag = u.String()
	}
	return st
}

// Close stops the notifier. The underlying session is left open for its
// owner to close.
func (d *Discord) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// buildMessage converts a Notification into a discordgo message: one
// embed, optionally one file attachment referenced by the embed image.
func buildMessage(n Notification) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Description,
		Color:       n.Color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	for _, f := range n.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if n.Footer.Text != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: n.Footer.Text, IconURL: n.Footer.IconURL}
	}

	msg := &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}
	if n.Image != nil {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + n.Image.Filename}
		msg.Files = []*discordgo.File{{
			Name:        n.Image.Filename,
			ContentType: "image/png",
			Reader:      bytes.NewReader(n.Image.Data),
		}}
	}
	return msg
}

// isUnknownChannel reports whether the REST error means the target
// channel does not exist or the bot cannot access it.
func isUnknownChannel(err error) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Message == nil {
		return false
	}
	return rest.Message.Code == discordgo.ErrCodeUnknownChannel ||
		rest.Message.Code == discordgo.ErrCodeMissingAccess
}
