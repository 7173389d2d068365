package punish

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/model"
	"modbot/utils"
	"modbot/utils/database/infractions"
)

// maxListedInfractions caps the IDs shown by /infractions.
const maxListedInfractions = 50

// HandleInfractionsCommand lists the infractions recorded against a user.
func HandleInfractionsCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !utils.IsStaff(i.Member, b.GetConfig().Roles.Staff) {
		utils.SendErrorResponse(s, i, "You don't have permission to view infractions.")
		return
	}
	opts := parseOptions(i.ApplicationCommandData())
	if opts.TargetID == "" {
		utils.SendErrorResponse(s, i, "No user specified.")
		return
	}

	ctx, cancel := b.CommandContext()
	defer cancel()

	records, err := b.Store.ListByInfractor(ctx, i.GuildID, opts.TargetID)
	if err != nil {
		slog.Error("Failed to list infractions", "guild_id", i.GuildID, "user_id", opts.TargetID, "error", err)
		utils.SendErrorResponse(s, i, "Could not read the infraction database.")
		return
	}
	utils.SendEmbedResponse(s, i, infractionListEmbed(opts.TargetID, records))
}

// HandleInfractionCommand shows a single infraction by ID.
func HandleInfractionCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !utils.IsStaff(i.Member, b.GetConfig().Roles.Staff) {
		utils.SendErrorResponse(s, i, "You don't have permission to view infractions.")
		return
	}
	opts := optionMap(i.ApplicationCommandData().Options)
	opt, ok := opts["id"]
	if !ok {
		utils.SendErrorResponse(s, i, "No infraction ID specified.")
		return
	}
	id := opt.IntValue()

	ctx, cancel := b.CommandContext()
	defer cancel()

	record, err := b.Store.GetByID(ctx, id)
	switch {
	case errors.Is(err, infractions.ErrNotFound):
		utils.SendErrorResponse(s, i, fmt.Sprintf("Could not find infraction #%d.", id))
		return
	case err != nil:
		slog.Error("Failed to read infraction", "infraction_id", id, "error", err)
		utils.SendErrorResponse(s, i, "Could not read the infraction database.")
		return
	}
	if record.GuildID != i.GuildID {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Could not find infraction #%d.", id))
		return
	}
	embed := utils.InfractionReportEmbed(*record)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Active", Value: yesNo(record.Active)})
	utils.SendEmbedResponse(s, i, embed)
}

func infractionListEmbed(userID string, records []model.Infraction) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "Infractions",
		Color:     0x5865F2,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if len(records) == 0 {
		embed.Description = fmt.Sprintf("<@%s> has no recorded infractions.", userID)
		return embed
	}

	embed.Description = fmt.Sprintf("<@%s> has %d recorded infraction(s).", userID, len(records))
	var lines []string
	for idx, record := range records {
		if idx == maxListedInfractions {
			lines = append(lines, fmt.Sprintf("... and %d more", len(records)-maxListedInfractions))
			break
		}
		title := record.ActionType.Title()
		if record.Hidden {
			title = "Shadow " + strings.ToLower(title)
		}
		lines = append(lines, fmt.Sprintf("`#%d` %s, <t:%d:d>", record.InfractionID, title, record.InsertedAt))
	}
	embed.Fields = []*discordgo.MessageEmbedField{{Name: "IDs", Value: strings.Join(lines, "\n")}}
	return embed
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
