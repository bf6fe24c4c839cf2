// Package bot runs the Discord side of the relay: slash-command
// registration on ready, interaction dispatch, and reply rendering.
//
// Every command handler runs behind a single dispatch boundary that
// converts handler errors into a generic ephemeral reply, so one failing
// command never destabilizes the process. User-correctable failures
// (missing reset confirmation, mention without a target, missing
// permissions) are ephemeral replies, not errors.
package bot

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sleepsweetly/aurafx-relay/stats"
)

// handlerFunc builds the response data for one slash command.
// Returning an error triggers the generic ephemeral error reply.
type handlerFunc func(s *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error)

// Bot owns the discordgo session and the command dispatch table.
type Bot struct {
	session *discordgo.Session
	store   *stats.Store
	logger  *slog.Logger
	appID   string
	started time.Time
	routes  map[string]handlerFunc
}

// Option configures a Bot.
type Option func(*Bot)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bot) { b.logger = l }
}

// New creates a Bot over a fresh discordgo session. Call Open to connect.
func New(token, appID string, store *stats.Store, opts ...Option) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("bot: create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	b := &Bot{
		session: session,
		store:   store,
		appID:   appID,
		logger:  slog.Default(),
		started: time.Now(),
	}
	for _, o := range opts {
		o(b)
	}
	b.routes = b.buildRoutes()

	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	return b, nil
}

// Open connects to the gateway. Commands are registered once the ready
// event arrives.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("bot: open gateway: %w", err)
	}
	return nil
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	return b.session.Close()
}

// Session exposes the underlying session for collaborators that share it
// (the outbound notifier).
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

func (b *Bot) buildRoutes() map[string]handlerFunc {
	return map[string]handlerFunc{
		"stats":        b.handleStats,
		"reset":        b.handleReset,
		"help":         b.handleHelp,
		"ping":         b.handlePing,
		"mention":      b.handleMention,
		"setuser":      b.handleSetUser,
		"leaderboard":  b.handleLeaderboard,
		"activity":     b.handleActivity,
		"server":       b.handleServer,
		"random":       b.handleRandom,
		"uptime":       b.handleUptime,
		"profile":      b.handleProfile,
		"announcement": b.handleAnnouncement,
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("logged in", "tag", r.User.String())
	if _, err := s.ApplicationCommandBulkOverwrite(b.appID, "", commandDefinitions); err != nil {
		b.logger.Error("slash command registration failed", "error", err)
		return
	}
	b.logger.Info("slash commands registered", "count", len(commandDefinitions))
}

// onInteraction is the dispatch boundary for all slash commands.
func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name

	var data *discordgo.InteractionResponseData
	if h, ok := b.routes[name]; ok {
		data = b.dispatch(s, i, name, h)
	} else {
		data = ephemeral("❌ Unknown command!")
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.logger.Error("interaction respond failed", "command", name, "error", err)
	}
}

// dispatch runs one handler and contains its failures: an error or a
// panic (a malformed interaction payload can nil-deref an option lookup)
// becomes the generic ephemeral reply instead of taking down the gateway
// goroutine.
func (b *Bot) dispatch(s *discordgo.Session, i *discordgo.InteractionCreate, name string, h handlerFunc) (data *discordgo.InteractionResponseData) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("command panicked", "command", name, "panic", r)
			data = ephemeral("❌ An error occurred while processing the command!")
		}
	}()

	d, err := h(s, i)
	if err != nil {
		b.logger.Error("command failed", "command", name, "error", err)
		return ephemeral("❌ An error occurred while processing the command!")
	}
	return d
}

// ephemeral builds a reply visible only to the invoking user.
func ephemeral(content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
}

// embedReply wraps a single embed into response data.
func embedReply(embed *discordgo.MessageEmbed) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
}
