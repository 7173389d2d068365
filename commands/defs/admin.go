package defs

import "github.com/bwmarrin/discordgo"

var Infractions = &discordgo.ApplicationCommand{
	Name:        "infractions",
	Description: "List the infractions of a user",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to look up",
			Required:    true,
		},
	},
}

var Infraction = &discordgo.ApplicationCommand{
	Name:        "infraction",
	Description: "Show a single infraction",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "Infraction ID",
			Required:    true,
		},
	},
}

var InfractionStats = &discordgo.ApplicationCommand{
	Name:        "infraction-stats",
	Description: "Show infraction totals per moderator",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "period",
			Description: "Period to cover (default 1w)",
			Required:    false,
		},
	},
}

var SystemInfo = &discordgo.ApplicationCommand{
	Name:        "system-info",
	Description: "Display bot and system status information",
}
