package bot

import (
	"github.com/bwmarrin/discordgo"

	"modbot/model"
)

// GatewayIntents requests only what the enabled features read. Members and
// message content are privileged intents and must also be switched on in the
// developer portal.
func GatewayIntents(cfg *model.Config) discordgo.Intent {
	intents := discordgo.IntentsGuilds
	if cfg.MemberLogChannelID != "" || cfg.Verification.Enabled {
		intents |= discordgo.IntentsGuildMembers
	}
	if cfg.MessageLogChannelID != "" || cfg.Filter.Enabled() {
		intents |= discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	}
	if cfg.Verification.Enabled {
		intents |= discordgo.IntentsDirectMessages
	}
	return intents
}
