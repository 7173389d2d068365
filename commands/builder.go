package commands

import (
	"github.com/bwmarrin/discordgo"

	"modbot/commands/defs"
)

// GenerateCommands returns every slash command the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Silence,
		defs.Lock,
		defs.Unsilence,
		defs.Unlock,
		defs.Kick,
		defs.ShadowKick,
		defs.Ban,
		defs.ShadowBan,
		defs.TempBan,
		defs.Mute,
		defs.HackBan,
		defs.Infractions,
		defs.Infraction,
		defs.InfractionStats,
		defs.SystemInfo,
		defs.Tag,
		defs.Tags,
		defs.TagSet,
		defs.TagDelete,
		defs.Verify,
	}
}
