package punish

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"modbot/model"
	"modbot/moderation"
	"modbot/utils"
)

// actionCommand describes one enforcement slash command.
type actionCommand struct {
	Action     model.ActionKind
	Hidden     bool
	Permission int64
	// Verb is used in replies, e.g. "Kicked".
	Verb string
	// Name is used in error replies, e.g. "kick".
	Name string
}

var actionCommands = map[string]actionCommand{
	"kick": {
		Action: model.ActionKick, Permission: discordgo.PermissionKickMembers,
		Verb: "Kicked", Name: "kick",
	},
	"shadowkick": {
		Action: model.ActionKick, Hidden: true, Permission: discordgo.PermissionKickMembers,
		Verb: "Shadow-kicked", Name: "shadow-kick",
	},
	"ban": {
		Action: model.ActionBan, Permission: discordgo.PermissionBanMembers,
		Verb: "Permanently banned", Name: "ban",
	},
	"shadowban": {
		Action: model.ActionBan, Hidden: true, Permission: discordgo.PermissionBanMembers,
		Verb: "Permanently shadow-banned", Name: "shadow-ban",
	},
	"tempban": {
		Action: model.ActionTempban, Permission: discordgo.PermissionBanMembers,
		Verb: "Temporarily banned", Name: "tempban",
	},
	"mute": {
		Action: model.ActionMute, Permission: discordgo.PermissionManageRoles,
		Verb: "Muted", Name: "mute",
	},
}

var hackbanCommand = actionCommand{
	Action: model.ActionBan, Hidden: true, Permission: discordgo.PermissionBanMembers,
	Verb: "Permanently banned", Name: "hackban",
}

// CommandNames lists the enforcement commands served by HandleActionCommand.
func CommandNames() []string {
	names := make([]string, 0, len(actionCommands))
	for name := range actionCommands {
		names = append(names, name)
	}
	return names
}

// ParsedOptions holds the parsed options of an enforcement command.
type ParsedOptions struct {
	TargetMember *discordgo.Member
	TargetID     string
	Duration     string
	Reason       string
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// parseOptions extracts the command options. The target member comes from
// the interaction's resolved data when Discord provided it.
func parseOptions(data discordgo.ApplicationCommandInteractionData) ParsedOptions {
	opts := optionMap(data.Options)
	var parsed ParsedOptions

	if opt, ok := opts["user"]; ok {
		if id, ok := opt.Value.(string); ok {
			parsed.TargetID = id
		}
	}
	if opt, ok := opts["user_id"]; ok {
		parsed.TargetID = strings.TrimSpace(opt.StringValue())
	}
	if data.Resolved != nil && parsed.TargetID != "" {
		parsed.TargetMember = data.Resolved.Members[parsed.TargetID]
	}
	if opt, ok := opts["duration"]; ok {
		parsed.Duration = opt.StringValue()
	}
	if opt, ok := opts["reason"]; ok {
		parsed.Reason = strings.TrimSpace(opt.StringValue())
	}
	return parsed
}

// validSnowflake reports whether id looks like a Discord ID.
func validSnowflake(id string) bool {
	if len(id) < 15 || len(id) > 21 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// errorReply turns an enforcement error into the message shown to the
// moderator.
func errorReply(cmd actionCommand, err error) string {
	switch {
	case errors.Is(err, moderation.ErrHierarchyViolation):
		return capitalize(strings.TrimPrefix(err.Error(), moderation.ErrHierarchyViolation.Error()+": ")) + "."
	case errors.Is(err, moderation.ErrActionInProgress):
		return "Another moderator is already acting on this user. Try again in a few seconds."
	case errors.Is(err, utils.ErrInvalidDuration):
		return "Invalid duration specified. Use a format like `1d12h` or `2w`."
	case errors.Is(err, utils.ErrMemberNotFound):
		return "Invalid member specified. The user is not on the server."
	case errors.Is(err, moderation.ErrMissingExpiry):
		return "A duration is required."
	case errors.Is(err, moderation.ErrPersistence):
		return fmt.Sprintf("The %s was applied but could not be recorded. Please contact the moderation team as soon as possible.", cmd.Name)
	}
	return fmt.Sprintf("Failed to %s the user: %v", cmd.Name, err)
}

// successReply builds the confirmation shown after an enforcement.
func successReply(cmd actionCommand, result moderation.Result) string {
	msg := fmt.Sprintf("%s <@%s> for: %s", cmd.Verb, result.Infraction.InfractorID, result.Infraction.Reason)
	if expires, ok := result.Infraction.ExpiresTime(); ok {
		msg += fmt.Sprintf(" (until <t:%d:f>)", expires.Unix())
	}
	if result.Notification == moderation.Undeliverable {
		msg += "\n-# The user could not be notified by direct message."
	}
	return utils.SuccessMessage(msg)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
