package defs

import "github.com/bwmarrin/discordgo"

var (
	kickMembers = int64(discordgo.PermissionKickMembers)
	banMembers  = int64(discordgo.PermissionBanMembers)
	manageRoles = int64(discordgo.PermissionManageRoles)
)

var durationOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "duration",
	Description: "How long, e.g. 1y2mo3w4d5h6m7s",
	Required:    true,
}

var reasonOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "reason",
	Description: "Reason for the infraction",
	Required:    false,
	MaxLength:   1024,
}

var memberOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionUser,
	Name:        "user",
	Description: "Member to act on",
	Required:    true,
}

func silenceCommand(name string) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: "Stop members from posting in this channel for a while",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "duration",
				Description: "How long, e.g. 10m or 1h30m",
				Required:    false,
			},
		},
	}
}

func unsilenceCommand(name string) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: "Lift the silence on this channel",
	}
}

var (
	Silence   = silenceCommand("silence")
	Lock      = silenceCommand("lock")
	Unsilence = unsilenceCommand("unsilence")
	Unlock    = unsilenceCommand("unlock")
)

var Kick = &discordgo.ApplicationCommand{
	Name:                     "kick",
	Description:              "Kick a member and notify them",
	DefaultMemberPermissions: &kickMembers,
	Options:                  []*discordgo.ApplicationCommandOption{memberOption, reasonOption},
}

var ShadowKick = &discordgo.ApplicationCommand{
	Name:                     "shadowkick",
	Description:              "Kick a member without notifying them",
	DefaultMemberPermissions: &kickMembers,
	Options:                  []*discordgo.ApplicationCommandOption{memberOption, reasonOption},
}

var Ban = &discordgo.ApplicationCommand{
	Name:                     "ban",
	Description:              "Permanently ban a member and notify them",
	DefaultMemberPermissions: &banMembers,
	Options:                  []*discordgo.ApplicationCommandOption{memberOption, reasonOption},
}

var ShadowBan = &discordgo.ApplicationCommand{
	Name:                     "shadowban",
	Description:              "Permanently ban a member without notifying them",
	DefaultMemberPermissions: &banMembers,
	Options:                  []*discordgo.ApplicationCommandOption{memberOption, reasonOption},
}

var TempBan = &discordgo.ApplicationCommand{
	Name:                     "tempban",
	Description:              "Ban a member for a limited time",
	DefaultMemberPermissions: &banMembers,
	Options:                  []*discordgo.ApplicationCommandOption{memberOption, durationOption, reasonOption},
}

var Mute = &discordgo.ApplicationCommand{
	Name:                     "mute",
	Description:              "Give a member the muted role for a limited time",
	DefaultMemberPermissions: &manageRoles,
	Options:                  []*discordgo.ApplicationCommandOption{memberOption, durationOption, reasonOption},
}

var HackBan = &discordgo.ApplicationCommand{
	Name:                     "hackban",
	Description:              "Ban a user who is not on the server",
	DefaultMemberPermissions: &banMembers,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user_id",
			Description: "ID of the user to ban",
			Required:    true,
		},
		reasonOption,
	},
}
