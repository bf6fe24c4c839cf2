package bot

import "github.com/bwmarrin/discordgo"

// commandDefinitions is the full slash-command set, bulk-overwritten on
// every ready so removed commands disappear from Discord.
var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        "stats",
		Description: "Shows AuraFX usage statistics",
	},
	{
		Name:        "reset",
		Description: "Resets all statistics",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "confirmation",
				Description: "Type 'yes' to confirm",
				Required:    true,
			},
		},
	},
	{
		Name:        "help",
		Description: "Shows all available commands",
	},
	{
		Name:        "ping",
		Description: "Check bot latency",
	},
	{
		Name:        "mention",
		Description: "Enable/disable mention notifications",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "action",
				Description: "Turn mentions on or off",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Enable", Value: "on"},
					{Name: "Disable", Value: "off"},
				},
			},
		},
	},
	{
		Name:        "setuser",
		Description: "Set the user to mention for notifications",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The user to mention",
				Required:    true,
			},
		},
	},
	{
		Name:        "leaderboard",
		Description: "Shows top skill generators",
	},
	{
		Name:        "activity",
		Description: "Shows recent activity",
	},
	{
		Name:        "server",
		Description: "Shows server information",
	},
	{
		Name:        "random",
		Description: "Generate a random motivational message",
	},
	{
		Name:        "uptime",
		Description: "Shows bot uptime and system info",
	},
	{
		Name:        "profile",
		Description: "Shows your AuraFX profile",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "User to check profile for",
			},
		},
	},
	{
		Name:        "announcement",
		Description: "Send an announcement (admin only)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message",
				Description: "Announcement message",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "type",
				Description: "Announcement type",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Info", Value: "info"},
					{Name: "Warning", Value: "warning"},
					{Name: "Success", Value: "success"},
					{Name: "Error", Value: "error"},
				},
			},
		},
	},
}
