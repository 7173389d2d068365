package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	silenceDeny  = discordgo.PermissionSendMessages
	silenceAllow = discordgo.PermissionViewChannel | discordgo.PermissionReadMessageHistory
)

// DiscordActions performs moderation side effects against the Discord API.
// Every call honours the passed context.
type DiscordActions struct {
	Session     *discordgo.Session
	HumanRoleID string
	MutedRoleID string
	// RankTable maps role IDs to moderation ranks. Roles missing from the
	// table rank by their guild position.
	RankTable map[string]int
}

func NewDiscordActions(s *discordgo.Session, humanRoleID, mutedRoleID string, rankTable map[string]int) *DiscordActions {
	return &DiscordActions{
		Session:     s,
		HumanRoleID: humanRoleID,
		MutedRoleID: mutedRoleID,
		RankTable:   rankTable,
	}
}

// Restrict denies the human role from posting in channelID while keeping the
// channel readable.
func (a *DiscordActions) Restrict(ctx context.Context, channelID string) error {
	if a.HumanRoleID == "" {
		return errors.New("human role is not configured")
	}
	return a.Session.ChannelPermissionSet(channelID, a.HumanRoleID, discordgo.PermissionOverwriteTypeRole,
		silenceAllow, silenceDeny, discordgo.WithContext(ctx))
}

// Unrestrict syncs channelID with its category, or drops the human role
// overwrite when the channel has no category.
func (a *DiscordActions) Unrestrict(ctx context.Context, channelID string) error {
	channel, err := a.channel(ctx, channelID)
	if err != nil {
		return err
	}
	if channel.ParentID != "" {
		// An empty overwrite list is dropped from the edit payload, so a bare
		// category falls through to deleting the overwrite.
		parent, err := a.channel(ctx, channel.ParentID)
		if err == nil && len(parent.PermissionOverwrites) > 0 {
			_, err = a.Session.ChannelEdit(channelID, &discordgo.ChannelEdit{
				PermissionOverwrites: parent.PermissionOverwrites,
			}, discordgo.WithContext(ctx))
			return err
		}
	}
	return a.Session.ChannelPermissionDelete(channelID, a.HumanRoleID, discordgo.WithContext(ctx))
}

func (a *DiscordActions) channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if a.Session.State != nil {
		if channel, err := a.Session.State.Channel(channelID); err == nil {
			return channel, nil
		}
	}
	return a.Session.Channel(channelID, discordgo.WithContext(ctx))
}

func (a *DiscordActions) Kick(ctx context.Context, guildID, userID, reason string) error {
	return a.Session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

// Ban bans userID without deleting any message history.
func (a *DiscordActions) Ban(ctx context.Context, guildID, userID, reason string) error {
	return a.Session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx))
}

func (a *DiscordActions) Unban(ctx context.Context, guildID, userID string) error {
	return a.Session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx))
}

func (a *DiscordActions) Mute(ctx context.Context, guildID, userID, _ string) error {
	if a.MutedRoleID == "" {
		return errors.New("muted role is not configured")
	}
	return a.Session.GuildMemberRoleAdd(guildID, userID, a.MutedRoleID, discordgo.WithContext(ctx))
}

// GrantHuman gives a verified member the human role.
func (a *DiscordActions) GrantHuman(ctx context.Context, guildID, userID string) error {
	if a.HumanRoleID == "" {
		return errors.New("human role is not configured")
	}
	return a.Session.GuildMemberRoleAdd(guildID, userID, a.HumanRoleID, discordgo.WithContext(ctx))
}

func (a *DiscordActions) Unmute(ctx context.Context, guildID, userID string) error {
	if a.MutedRoleID == "" {
		return errors.New("muted role is not configured")
	}
	return a.Session.GuildMemberRoleRemove(guildID, userID, a.MutedRoleID, discordgo.WithContext(ctx))
}

// SendDirectMessage opens a DM channel with userID and posts embed to it.
func (a *DiscordActions) SendDirectMessage(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error {
	return SendPrivateEmbedMessage(ctx, a.Session, userID, embed)
}

// Member looks a guild member up, preferring the state cache. It returns
// ErrMemberNotFound when the user is not in the guild.
func (a *DiscordActions) Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if a.Session.State != nil {
		if member, err := a.Session.State.Member(guildID, userID); err == nil {
			return member, nil
		}
	}
	member, err := a.Session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMember {
			return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, userID)
		}
		return nil, err
	}
	return member, nil
}

// MemberRank returns the highest rank held by member in guildID.
func (a *DiscordActions) MemberRank(ctx context.Context, guildID string, member *discordgo.Member) (int, error) {
	if member == nil {
		return 0, nil
	}
	roles, err := a.guildRoles(ctx, guildID)
	if err != nil {
		return 0, err
	}
	return HighestRank(member.Roles, roles, a.RankTable), nil
}

func (a *DiscordActions) guildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	if a.Session.State != nil {
		if guild, err := a.Session.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
			return guild.Roles, nil
		}
	}
	return a.Session.GuildRoles(guildID, discordgo.WithContext(ctx))
}

// HighestRank returns the best rank among roleIDs. A role listed in
// rankTable uses that rank; any other role ranks by its guild position.
func HighestRank(roleIDs []string, guildRoles []*discordgo.Role, rankTable map[string]int) int {
	positions := make(map[string]int, len(guildRoles))
	for _, role := range guildRoles {
		positions[role.ID] = role.Position
	}

	best := 0
	for _, id := range roleIDs {
		rank, ok := rankTable[id]
		if !ok {
			rank, ok = positions[id]
		}
		if ok && rank > best {
			best = rank
		}
	}
	return best
}
