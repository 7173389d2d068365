package moderation

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/model"
)

const (
	colorKick = 0xf1c40f
	colorBan  = 0xe74c3c
	colorMute = 0xe67e22
)

// InfractionNotice builds the direct message sent to the punished user.
func InfractionNotice(guildName string, infraction model.Infraction) *discordgo.MessageEmbed {
	color := colorKick
	switch infraction.ActionType {
	case model.ActionBan, model.ActionTempban:
		color = colorBan
	case model.ActionMute:
		color = colorMute
	}

	embed := &discordgo.MessageEmbed{
		Title: "Infraction applied",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Action", Value: infraction.ActionType.Title()},
			{Name: "Expiry", Value: infraction.ExpiryText()},
			{Name: "Reason", Value: infraction.Reason},
		},
		Timestamp: infraction.InsertedTime().UTC().Format(time.RFC3339),
	}
	if guildName != "" {
		embed.Description = "You received an infraction in **" + guildName + "**."
	}
	return embed
}
