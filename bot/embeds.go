package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sleepsweetly/aurafx-relay/stats"
)

const (
	footerText = "Powered by AuraFX"
	footerIcon = "https://aurafx.vercel.app/favicon.ico"
)

const (
	colorBlue   = 0x3498DB
	colorGreen  = 0x2ECC71
	colorRed    = 0xE74C3C
	colorGold   = 0xF39C12
	colorPurple = 0x9B59B6
	colorViolet = 0x8E44AD
	colorPink   = 0xE91E63
	colorSlate  = 0x34495E
)

var leaderboardMedals = []string{"🥇", "🥈", "🥉", "🏅", "🏅"}

func newEmbed(title string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     title,
		Color:     color,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: footerText, IconURL: footerIcon},
	}
}

// relTime renders a Discord relative timestamp ("3 minutes ago").
func relTime(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

func statsEmbed(rec stats.Record) *discordgo.MessageEmbed {
	e := newEmbed("📊 AuraFX Statistics", colorBlue)
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "🔥 Today's Usage", Value: fmt.Sprintf("**%d** times", rec.TodayUses), Inline: true},
		{Name: "📈 Total Usage", Value: fmt.Sprintf("**%d** times", rec.TotalUses), Inline: true},
		{Name: "📅 This Week", Value: fmt.Sprintf("**%d** times", rec.WeeklyUses), Inline: true},
		{Name: "🔄 Last Reset", Value: relTime(rec.LastReset)},
	}
	return e
}

func resetEmbed() *discordgo.MessageEmbed {
	e := newEmbed("🔄 Statistics Reset", colorRed)
	e.Description = "All usage data has been successfully reset!"
	return e
}

func helpEmbed() *discordgo.MessageEmbed {
	e := newEmbed("❓ AuraFX Bot Commands", colorGreen)
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "📊 Basic Commands", Value: "`/stats` - Usage statistics\n`/ping` - Bot latency\n`/help` - This command list"},
		{Name: "🔧 Configuration", Value: "`/setuser` - Set mention target\n`/mention` - Toggle mentions\n`/reset` - Reset statistics"},
		{Name: "📈 Analytics", Value: "`/leaderboard` - Top skills\n`/activity` - Recent activity\n`/profile` - User profile"},
		{Name: "🎮 Fun & Info", Value: "`/random` - Random motivation\n`/server` - Server info\n`/uptime` - System status"},
		{Name: "👑 Admin Only", Value: "`/announcement` - Send announcements"},
	}
	return e
}

func pingEmbed(latency time.Duration) *discordgo.MessageEmbed {
	e := newEmbed("🏓 Pong!", colorGreen)
	e.Description = fmt.Sprintf("Bot latency: **%dms**", latency.Milliseconds())
	return e
}

func mentionEnabledEmbed(userID string) *discordgo.MessageEmbed {
	e := newEmbed("🔔 Mentions Enabled", colorGreen)
	e.Description = fmt.Sprintf("Mentions are now **enabled**! <@%s> will be mentioned after each notification.", userID)
	return e
}

func mentionDisabledEmbed() *discordgo.MessageEmbed {
	e := newEmbed("🔕 Mentions Disabled", colorRed)
	e.Description = "Mentions are now **disabled**. No one will be mentioned after notifications."
	return e
}

func userSetEmbed(userID string) *discordgo.MessageEmbed {
	e := newEmbed("👤 User Set", colorBlue)
	e.Description = fmt.Sprintf("<@%s> has been set as the mention target for notifications.", userID)
	return e
}

func leaderboardEmbed(rows []stats.SkillCount) *discordgo.MessageEmbed {
	e := newEmbed("🏆 Top Generated Skills", colorGold)
	if len(rows) == 0 {
		e.Description = "No data available yet!"
		return e
	}
	var sb strings.Builder
	for i, row := range rows {
		medal := leaderboardMedals[len(leaderboardMedals)-1]
		if i < len(leaderboardMedals) {
			medal = leaderboardMedals[i]
		}
		fmt.Fprintf(&sb, "%s **%s** - %d uses\n", medal, row.SkillName, row.Count)
	}
	e.Description = sb.String()
	return e
}

func activityEmbed(entries []stats.ActivityEntry) *discordgo.MessageEmbed {
	e := newEmbed("📈 Recent Activity", colorPurple)
	var sb strings.Builder
	for i, entry := range entries {
		skill := entry.SkillName
		if skill == "" {
			skill = "Unknown"
		}
		fmt.Fprintf(&sb, "**%d.** `%s` (%s) - %dm ago\n", i+1, skill, entry.Source, int(entry.Age.Minutes()))
	}
	e.Description = sb.String()
	return e
}

func serverEmbed(guild *discordgo.Guild, created time.Time) *discordgo.MessageEmbed {
	e := newEmbed("🏠 Server Information", colorGreen)
	if guild.Icon != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("")}
	}
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "Server Name", Value: guild.Name, Inline: true},
		{Name: "Members", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true},
		{Name: "Created", Value: relTime(created), Inline: true},
		{Name: "Owner", Value: fmt.Sprintf("<@%s>", guild.OwnerID), Inline: true},
		{Name: "Boost Level", Value: fmt.Sprintf("%d", guild.PremiumTier), Inline: true},
		{Name: "Channels", Value: fmt.Sprintf("%d", len(guild.Channels)), Inline: true},
	}
	return e
}

func randomEmbed(message string) *discordgo.MessageEmbed {
	e := newEmbed("🎲 Random Motivation", colorPink)
	e.Description = message
	return e
}

// uptimeInfo collects the runtime facts rendered by /uptime.
type uptimeInfo struct {
	Uptime     time.Duration
	Latency    time.Duration
	HeapMB     uint64
	GoVersion  string
	GuildCount int
	UserCount  int
}

// formatUptime renders a duration as "1d 2h 3m 4s".
func formatUptime(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%dd %dh %dm %ds",
		secs/86400, secs%86400/3600, secs%3600/60, secs%60)
}

func uptimeEmbed(info uptimeInfo) *discordgo.MessageEmbed {
	e := newEmbed("⏰ System Information", colorSlate)
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "Bot Uptime", Value: formatUptime(info.Uptime), Inline: true},
		{Name: "Ping", Value: fmt.Sprintf("%dms", info.Latency.Milliseconds()), Inline: true},
		{Name: "Memory Usage", Value: fmt.Sprintf("%dMB", info.HeapMB), Inline: true},
		{Name: "Go Version", Value: info.GoVersion, Inline: true},
		{Name: "Guilds", Value: fmt.Sprintf("%d", info.GuildCount), Inline: true},
		{Name: "Users", Value: fmt.Sprintf("%d", info.UserCount), Inline: true},
	}
	return e
}

func profileEmbed(user *discordgo.User, p stats.Profile, created time.Time) *discordgo.MessageEmbed {
	name := user.GlobalName
	if name == "" {
		name = user.Username
	}
	lastActivity := "Never"
	if p.LastActivity != nil {
		lastActivity = relTime(*p.LastActivity)
	}

	e := newEmbed(fmt.Sprintf("👤 %s's Profile", name), colorViolet)
	e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")}
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "Total Generations", Value: fmt.Sprintf("%d", p.TotalGenerations), Inline: true},
		{Name: "Favorite Source", Value: p.FavoriteSource, Inline: true},
		{Name: "Last Activity", Value: lastActivity, Inline: true},
		{Name: "Joined Discord", Value: relTime(created), Inline: true},
	}
	return e
}

var announcementStyles = map[string]struct {
	Emoji string
	Color int
}{
	"info":    {"ℹ️", colorBlue},
	"warning": {"⚠️", colorGold},
	"success": {"✅", colorGreen},
	"error":   {"❌", colorRed},
}

func announcementEmbed(author *discordgo.User, message, kind string) *discordgo.MessageEmbed {
	style, ok := announcementStyles[kind]
	if !ok {
		style = announcementStyles["info"]
	}
	name := author.GlobalName
	if name == "" {
		name = author.Username
	}

	e := newEmbed(fmt.Sprintf("%s Announcement", style.Emoji), style.Color)
	e.Description = message
	e.Footer = &discordgo.MessageEmbedFooter{
		Text:    "By " + name,
		IconURL: author.AvatarURL(""),
	}
	return e
}
