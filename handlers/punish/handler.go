package punish

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/moderation"
	"modbot/utils"
)

// HandleActionCommand runs kick, shadowkick, ban, shadowban, tempban and mute.
func HandleActionCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	data := i.ApplicationCommandData()
	cmd, ok := actionCommands[data.Name]
	if !ok {
		slog.Warn("Unknown enforcement command", "command", data.Name)
		return
	}
	cfg := b.GetConfig()
	if !utils.CheckPermission(i.Member, cmd.Permission, cfg.Roles.Staff) {
		utils.SendErrorResponse(s, i, "You don't have permission to "+cmd.Name+" members.")
		return
	}

	opts := parseOptions(data)
	if opts.TargetID == "" {
		utils.SendErrorResponse(s, i, "No member specified.")
		return
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		slog.Error("Failed to defer interaction", "error", err)
		return
	}

	ctx, cancel := b.CommandContext()
	defer cancel()

	req, err := buildRequest(ctx, b, i, cmd, opts)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, errorReply(cmd, err))
		return
	}

	result, err := b.Moderation.Enforce(ctx, req)
	if err != nil {
		if !errors.Is(err, moderation.ErrHierarchyViolation) && !errors.Is(err, moderation.ErrActionInProgress) {
			slog.Error("Enforcement failed", "command", data.Name, "guild_id", i.GuildID, "target_id", opts.TargetID, "error", err)
		}
		utils.SendFollowUpError(s, i.Interaction, errorReply(cmd, err))
		return
	}
	utils.SendFollowUp(s, i.Interaction, successReply(cmd, result))
}

// HandleHackBanCommand bans a user who is not a member of the guild.
func HandleHackBanCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	cmd := hackbanCommand
	if !utils.CheckPermission(i.Member, cmd.Permission, b.GetConfig().Roles.Staff) {
		utils.SendErrorResponse(s, i, "You don't have \"ban members\" permission.")
		return
	}

	opts := parseOptions(i.ApplicationCommandData())
	if !validSnowflake(opts.TargetID) {
		utils.SendErrorResponse(s, i, "Invalid member specified. Hint: did you specify an ID?")
		return
	}
	if opts.TargetID == i.Member.User.ID {
		utils.SendErrorResponse(s, i, "You can't hackban yourself.")
		return
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		slog.Error("Failed to defer interaction", "error", err)
		return
	}

	ctx, cancel := b.CommandContext()
	defer cancel()

	_, err := b.Actions.Member(ctx, i.GuildID, opts.TargetID)
	switch {
	case err == nil:
		utils.SendFollowUpError(s, i.Interaction, "The member is on the server. Hint: use `ban` command.")
		return
	case !errors.Is(err, utils.ErrMemberNotFound):
		slog.Error("Failed to look up member", "guild_id", i.GuildID, "user_id", opts.TargetID, "error", err)
		utils.SendFollowUpError(s, i.Interaction, errorReply(cmd, err))
		return
	}

	result, err := b.Moderation.Enforce(ctx, moderation.Request{
		GuildID:      i.GuildID,
		Moderator:    moderation.Member{ID: i.Member.User.ID},
		Target:       moderation.Member{ID: opts.TargetID},
		TargetAbsent: true,
		Action:       cmd.Action,
		Reason:       opts.Reason,
		Hidden:       cmd.Hidden,
	})
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, errorReply(cmd, err))
		return
	}
	utils.SendFollowUp(s, i.Interaction, successReply(cmd, result))
}

// buildRequest resolves ranks for moderator, target and bot, and the expiry
// for temporary actions.
func buildRequest(ctx context.Context, b *bot.Bot, i *discordgo.InteractionCreate, cmd actionCommand, opts ParsedOptions) (moderation.Request, error) {
	req := moderation.Request{
		GuildID: i.GuildID,
		Action:  cmd.Action,
		Reason:  opts.Reason,
		Hidden:  cmd.Hidden,
	}
	if guild, err := b.Session.State.Guild(i.GuildID); err == nil {
		req.GuildName = guild.Name
	}

	if cmd.Action.Temporary() {
		until, err := utils.ParseUntil(opts.Duration, time.Now(), nil)
		if err != nil {
			return req, err
		}
		req.ExpiresAt = &until
	}

	target := opts.TargetMember
	if target == nil {
		member, err := b.Actions.Member(ctx, i.GuildID, opts.TargetID)
		if err != nil {
			return req, err
		}
		target = member
	}

	moderatorRank, err := b.Actions.MemberRank(ctx, i.GuildID, i.Member)
	if err != nil {
		return req, err
	}
	targetRank, err := b.Actions.MemberRank(ctx, i.GuildID, target)
	if err != nil {
		return req, err
	}
	self, err := b.Actions.Member(ctx, i.GuildID, b.SelfID())
	if err != nil {
		return req, err
	}
	agentRank, err := b.Actions.MemberRank(ctx, i.GuildID, self)
	if err != nil {
		return req, err
	}

	req.Moderator = moderation.Member{ID: i.Member.User.ID, Rank: moderatorRank}
	req.Target = moderation.Member{ID: opts.TargetID, Rank: targetRank}
	req.Agent = moderation.Member{ID: b.SelfID(), Rank: agentRank}
	return req, nil
}
