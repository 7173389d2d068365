package defs

import (
	"github.com/bwmarrin/discordgo"

	"modbot/model"
)

var manageMessages = int64(discordgo.PermissionManageMessages)

func tagNameOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "name",
		Description:  description,
		Required:     true,
		Autocomplete: true,
		MaxLength:    model.MaxTagNameLength,
	}
}

var Tag = &discordgo.ApplicationCommand{
	Name:        "tag",
	Description: "Show a tag",
	Options:     []*discordgo.ApplicationCommandOption{tagNameOption("Tag to show")},
}

var Tags = &discordgo.ApplicationCommand{
	Name:        "tags",
	Description: "List every tag of this server",
}

var TagSet = &discordgo.ApplicationCommand{
	Name:                     "tag-set",
	Description:              "Create a tag or replace its content",
	DefaultMemberPermissions: &manageMessages,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "Lowercase letters, digits, - and _",
			Required:    true,
			MaxLength:   model.MaxTagNameLength,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "content",
			Description: "Text the tag shows",
			Required:    true,
			MaxLength:   model.MaxTagContentLength,
		},
	},
}

var TagDelete = &discordgo.ApplicationCommand{
	Name:                     "tag-delete",
	Description:              "Delete a tag",
	DefaultMemberPermissions: &manageMessages,
	Options:                  []*discordgo.ApplicationCommandOption{tagNameOption("Tag to delete")},
}

var Verify = &discordgo.ApplicationCommand{
	Name:        "verify",
	Description: "Get a new captcha to gain access to the server",
}
