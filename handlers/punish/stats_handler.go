package punish

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/tasks"
	"modbot/utils"
)

const defaultStatsPeriod = "1w"

// HandleInfractionStatsCommand shows per-moderator infraction counts for a
// period, one week unless given.
func HandleInfractionStatsCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !utils.IsStaff(i.Member, b.GetConfig().Roles.Staff) {
		utils.SendErrorResponse(s, i, "You don't have permission to view infraction statistics.")
		return
	}

	period := defaultStatsPeriod
	if opt, ok := optionMap(i.ApplicationCommandData().Options)["period"]; ok {
		period = opt.StringValue()
	}
	now := time.Now()
	until, err := utils.ParseUntil(period, now, nil)
	if err != nil {
		utils.SendErrorResponse(s, i, "Invalid period specified. Use a format like `1d` or `2w`.")
		return
	}

	ctx, cancel := b.CommandContext()
	defer cancel()

	embed, err := tasks.GenerateInfractionStatsEmbed(ctx, b.Store, i.GuildID, until.Sub(now), now)
	if err != nil {
		slog.Error("Failed to generate infraction stats", "guild_id", i.GuildID, "error", err)
		utils.SendErrorResponse(s, i, "Could not read the infraction database.")
		return
	}
	utils.SendEmbedResponse(s, i, embed)
}
