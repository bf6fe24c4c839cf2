package bot

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sleepsweetly/aurafx-relay/stats"
)

var motivationalMessages = []string{
	"✨ Keep creating amazing effects!",
	"🚀 Your creativity knows no bounds!",
	"💫 Every line of code is a step towards greatness!",
	"🎨 Art and technology unite in your hands!",
	"⚡ You're electrifying the digital world!",
	"🌟 Shine bright with your unique effects!",
	"🔥 Your passion for creation is inspiring!",
	"💎 You're crafting digital diamonds!",
	"🎯 Precision and creativity in perfect harmony!",
	"🌈 Adding color to the digital universe!",
}

// optionMap indexes the interaction's options by name.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// invoker returns the user who triggered the interaction, whether it
// came from a guild (Member set) or a DM (User set).
func invoker(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// lookupGuild resolves the interaction's guild, preferring the state
// cache over a REST round-trip.
func lookupGuild(s *discordgo.Session, guildID string) (*discordgo.Guild, error) {
	if g, err := s.State.Guild(guildID); err == nil {
		return g, nil
	}
	g, err := s.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("bot: lookup guild %s: %w", guildID, err)
	}
	return g, nil
}

// isAdmin reports whether the member holds the Administrator permission
// or owns the guild.
func isAdmin(member *discordgo.Member, ownerID string) bool {
	if member == nil || member.User == nil {
		return false
	}
	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return ownerID != "" && member.User.ID == ownerID
}

func (b *Bot) handleStats(_ *discordgo.Session, _ *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return embedReply(statsEmbed(b.store.Snapshot())), nil
}

func (b *Bot) handleReset(_ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	confirmation := optionMap(i)["confirmation"].StringValue()
	if err := b.store.Reset(confirmation); err != nil {
		var notConfirmed *stats.ErrNotConfirmed
		if errors.As(err, &notConfirmed) {
			return ephemeral(`❌ You must type "yes" to confirm the reset operation!`), nil
		}
		return nil, err
	}
	return embedReply(resetEmbed()), nil
}

func (b *Bot) handleHelp(_ *discordgo.Session, _ *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return embedReply(helpEmbed()), nil
}

func (b *Bot) handlePing(s *discordgo.Session, _ *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return embedReply(pingEmbed(s.HeartbeatLatency())), nil
}

func (b *Bot) handleMention(_ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	action := optionMap(i)["action"].StringValue()
	if action != "on" {
		if err := b.store.SetMentionEnabled(false); err != nil {
			return nil, err
		}
		return embedReply(mentionDisabledEmbed()), nil
	}

	if err := b.store.SetMentionEnabled(true); err != nil {
		var noTarget *stats.ErrNoMentionTarget
		if errors.As(err, &noTarget) {
			return ephemeral("❌ First, you need to set a user with `/setuser` command!"), nil
		}
		return nil, err
	}
	return embedReply(mentionEnabledEmbed(b.store.Snapshot().MentionUserID)), nil
}

func (b *Bot) handleSetUser(s *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	user := optionMap(i)["user"].UserValue(s)
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("bot: setuser: no user resolved")
	}
	b.store.SetMentionTarget(user.ID)
	return embedReply(userSetEmbed(user.ID)), nil
}

func (b *Bot) handleLeaderboard(_ *discordgo.Session, _ *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return embedReply(leaderboardEmbed(b.store.Leaderboard(stats.DefaultLeaderboardLimit))), nil
}

func (b *Bot) handleActivity(_ *discordgo.Session, _ *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	entries := b.store.Activity(stats.DefaultActivityLimit)
	if len(entries) == 0 {
		return ephemeral("❌ No recent activity found!"), nil
	}
	return embedReply(activityEmbed(entries)), nil
}

func (b *Bot) handleServer(s *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	if i.GuildID == "" {
		return ephemeral("❌ This command only works in a server!"), nil
	}
	guild, err := lookupGuild(s, i.GuildID)
	if err != nil {
		return nil, err
	}
	created, err := discordgo.SnowflakeTimestamp(guild.ID)
	if err != nil {
		return nil, fmt.Errorf("bot: guild snowflake: %w", err)
	}
	return embedReply(serverEmbed(guild, created)), nil
}

func (b *Bot) handleRandom(_ *discordgo.Session, _ *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	msg := motivationalMessages[rand.IntN(len(motivationalMessages))]
	return embedReply(randomEmbed(msg)), nil
}

func (b *Bot) handleUptime(s *discordgo.Session, _ *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	users := 0
	for _, g := range s.State.Guilds {
		users += g.MemberCount
	}
	info := uptimeInfo{
		Uptime:     time.Since(b.started),
		Latency:    s.HeartbeatLatency(),
		HeapMB:     mem.HeapAlloc / 1024 / 1024,
		GoVersion:  runtime.Version(),
		GuildCount: len(s.State.Guilds),
		UserCount:  users,
	}
	return embedReply(uptimeEmbed(info)), nil
}

func (b *Bot) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	user := invoker(i)
	if opt, ok := optionMap(i)["user"]; ok {
		user = opt.UserValue(s)
	}
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("bot: profile: no user resolved")
	}
	created, err := discordgo.SnowflakeTimestamp(user.ID)
	if err != nil {
		return nil, fmt.Errorf("bot: user snowflake: %w", err)
	}
	return embedReply(profileEmbed(user, b.store.Profile(user.ID), created)), nil
}

func (b *Bot) handleAnnouncement(s *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	ownerID := ""
	if i.GuildID != "" {
		if guild, err := lookupGuild(s, i.GuildID); err == nil {
			ownerID = guild.OwnerID
		}
	}
	if !isAdmin(i.Member, ownerID) {
		return ephemeral("❌ You don't have permission to use this command!"), nil
	}

	opts := optionMap(i)
	message := opts["message"].StringValue()
	kind := "info"
	if opt, ok := opts["type"]; ok {
		kind = opt.StringValue()
	}
	return embedReply(announcementEmbed(invoker(i), message, kind)), nil
}
