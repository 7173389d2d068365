package tags

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
	tagstore "modbot/utils/database/tags"
)

const (
	similarityThreshold = 0.6
	maxSuggestions      = 5
	// Discord rejects autocomplete responses with more choices.
	maxChoices = 25
	tagColor   = 0x5865F2
)

// HandleTagCommand serves /tag.
func HandleTagCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	name, _ := model.NormalizeTagName(stringOption(i, "name"))

	ctx, cancel := b.CommandContext()
	defer cancel()

	tag, err := b.Tags.Get(ctx, i.GuildID, name)
	if errors.Is(err, tagstore.ErrNotFound) {
		names, listErr := b.Tags.Names(ctx, i.GuildID)
		if listErr != nil {
			slog.Warn("Failed to list tags for suggestions", "guild_id", i.GuildID, "error", listErr)
		}
		utils.SendErrorResponse(s, i, notFoundReply(name, names))
		return
	}
	if err != nil {
		slog.Error("Failed to get tag", "guild_id", i.GuildID, "name", name, "error", err)
		utils.SendErrorResponse(s, i, "Could not load the tag, please try again later.")
		return
	}
	utils.SendPublicEmbedResponse(s, i, tagEmbed(*tag))
}

// HandleTagsCommand serves /tags.
func HandleTagsCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	ctx, cancel := b.CommandContext()
	defer cancel()

	names, err := b.Tags.Names(ctx, i.GuildID)
	if err != nil {
		slog.Error("Failed to list tags", "guild_id", i.GuildID, "error", err)
		utils.SendErrorResponse(s, i, "Could not load the tags, please try again later.")
		return
	}
	utils.SendPublicEmbedResponse(s, i, tagListEmbed(names))
}

// HandleTagSetCommand serves /tag-set.
func HandleTagSetCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !utils.CheckPermission(i.Member, discordgo.PermissionManageMessages, b.GetConfig().Roles.Staff) {
		utils.SendErrorResponse(s, i, "You don't have permission to edit tags.")
		return
	}
	name, ok := model.NormalizeTagName(stringOption(i, "name"))
	if !ok {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Tag names use up to %d lowercase letters, digits, `-` and `_`, starting with a letter or digit.", model.MaxTagNameLength))
		return
	}
	content := stringOption(i, "content")
	if !model.ValidTagContent(content) {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Tag content must not be empty or longer than %d characters.", model.MaxTagContentLength))
		return
	}

	ctx, cancel := b.CommandContext()
	defer cancel()

	now := time.Now().Unix()
	created, err := b.Tags.Upsert(ctx, model.Tag{
		GuildID:   i.GuildID,
		Name:      name,
		Content:   content,
		AuthorID:  i.Member.User.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("Failed to save tag", "guild_id", i.GuildID, "name", name, "error", err)
		utils.SendErrorResponse(s, i, "Could not save the tag, please try again later.")
		return
	}
	verb := "updated"
	if created {
		verb = "created"
	}
	utils.SendSuccessResponse(s, i, fmt.Sprintf("Tag `%s` %s.", name, verb))
	b.ModLog.LogInfo(ctx, "Tags", "Set", fmt.Sprintf("<@%s> %s tag `%s`", i.Member.User.ID, verb, name))
}

// HandleTagDeleteCommand serves /tag-delete.
func HandleTagDeleteCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !utils.CheckPermission(i.Member, discordgo.PermissionManageMessages, b.GetConfig().Roles.Staff) {
		utils.SendErrorResponse(s, i, "You don't have permission to delete tags.")
		return
	}
	name, _ := model.NormalizeTagName(stringOption(i, "name"))

	ctx, cancel := b.CommandContext()
	defer cancel()

	err := b.Tags.Delete(ctx, i.GuildID, name)
	if errors.Is(err, tagstore.ErrNotFound) {
		utils.SendErrorResponse(s, i, fmt.Sprintf("There is no tag named `%s`.", name))
		return
	}
	if err != nil {
		slog.Error("Failed to delete tag", "guild_id", i.GuildID, "name", name, "error", err)
		utils.SendErrorResponse(s, i, "Could not delete the tag, please try again later.")
		return
	}
	utils.SendSuccessResponse(s, i, fmt.Sprintf("Tag `%s` deleted.", name))
	b.ModLog.LogInfo(ctx, "Tags", "Delete", fmt.Sprintf("<@%s> deleted tag `%s`", i.Member.User.ID, name))
}

// HandleTagAutocomplete suggests tag names for the focused option.
func HandleTagAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Focused {
			query = opt.StringValue()
		}
	}

	ctx, cancel := b.CommandContext()
	defer cancel()

	names, err := b.Tags.Names(ctx, i.GuildID)
	if err != nil {
		slog.Warn("Autocomplete: failed to list tags", "guild_id", i.GuildID, "error", err)
		return
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: tagChoices(names, query)},
	})
	if err != nil {
		slog.Warn("Autocomplete: failed to respond", "error", err)
	}
}

func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func tagEmbed(tag model.Tag) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       tag.Name,
		Description: tag.Content,
		Color:       tagColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Last updated"},
		Timestamp:   tag.UpdatedTime().UTC().Format(time.RFC3339),
	}
}

func tagListEmbed(names []string) *discordgo.MessageEmbed {
	description := "There are no tags yet."
	if len(names) > 0 {
		description = "To show a tag, run `/tag <name>`.\n\n" + codeList(names)
	}
	return &discordgo.MessageEmbed{
		Title:       "Available tags",
		Description: utils.Shorten(description, 4096),
		Color:       tagColor,
	}
}

func notFoundReply(name string, names []string) string {
	reply := fmt.Sprintf("There is no tag named `%s`.", name)
	suggestions := utils.SimilarStrings(name, names, similarityThreshold)
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	if len(suggestions) > 0 {
		reply += " Did you mean " + codeList(suggestions) + "?"
	}
	return reply
}

// tagChoices keeps the names containing query, in order.
func tagChoices(names []string, query string) []*discordgo.ApplicationCommandOptionChoice {
	query = strings.ToLower(strings.TrimSpace(query))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(names), maxChoices))
	for _, name := range names {
		if len(choices) == maxChoices {
			break
		}
		if strings.Contains(name, query) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
		}
	}
	return choices
}

func codeList(names []string) string {
	return "`" + strings.Join(names, "` `") + "`"
}
