package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/model"
	"modbot/moderation"
	"modbot/utils"
)

func addEventHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		onMessageCreate(s, m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageUpdate) {
		onMessageUpdate(s, m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageDelete) {
		onMessageDelete(m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		onMemberAdd(m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		onMemberRemove(m, b)
	})
}

func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, b *bot.Bot) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	ctx, cancel := b.CommandContext()
	defer cancel()

	if m.GuildID == "" {
		b.AnswerVerification(ctx, m.Author.ID, m.Content)
		return
	}
	if b.Serves(m.GuildID) {
		filterMessage(ctx, s, m.Message, b)
	}
}

func onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate, b *bot.Bot) {
	if m.Message == nil || m.GuildID == "" || !b.Serves(m.GuildID) {
		return
	}
	ctx, cancel := b.CommandContext()
	defer cancel()

	if m.Content != "" && filterMessage(ctx, s, m.Message, b) {
		return
	}
	if shouldLogEdit(m.BeforeUpdate, m.Message) {
		b.ModLog.ReportMessageEdit(ctx, m.Message, m.BeforeUpdate)
	}
}

func onMessageDelete(m *discordgo.MessageDelete, b *bot.Bot) {
	if m.Message == nil || m.GuildID == "" || !b.Serves(m.GuildID) {
		return
	}
	if !shouldLogDelete(m.BeforeDelete) {
		return
	}
	ctx, cancel := b.CommandContext()
	defer cancel()
	b.ModLog.ReportMessageDelete(ctx, m.ChannelID, m.ID, m.BeforeDelete)
}

func onMemberAdd(m *discordgo.GuildMemberAdd, b *bot.Bot) {
	if m.Member == nil || m.User == nil || !b.Serves(m.GuildID) {
		return
	}
	ctx, cancel := b.CommandContext()
	defer cancel()

	previous, err := b.Members.CountJoins(ctx, m.GuildID, m.User.ID)
	if err != nil {
		slog.Warn("Failed to count previous joins", "user_id", m.User.ID, "error", err)
	}
	recordMemberEvent(ctx, b, m.GuildID, m.User.ID, model.MemberJoined)
	b.ModLog.ReportMemberJoin(ctx, m.User, previous)

	if !b.GetConfig().Verification.Enabled || m.User.Bot {
		return
	}
	if err := b.StartVerification(ctx, m.GuildID, m.User.ID); err != nil {
		slog.Warn("Failed to start verification", "user_id", m.User.ID, "error", err)
		if errors.Is(err, utils.ErrDirectMessagesClosed) {
			b.ModLog.LogWarn(ctx, "Verification", "Captcha",
				fmt.Sprintf("Could not send a captcha to <@%s>, their direct messages are closed.", m.User.ID))
		}
	}
}

func onMemberRemove(m *discordgo.GuildMemberRemove, b *bot.Bot) {
	if m.Member == nil || m.User == nil || !b.Serves(m.GuildID) {
		return
	}
	ctx, cancel := b.CommandContext()
	defer cancel()

	b.Verifier.Cancel(m.User.ID)
	recordMemberEvent(ctx, b, m.GuildID, m.User.ID, model.MemberLeft)
	b.ModLog.ReportMemberLeave(ctx, m.User)
}

func recordMemberEvent(ctx context.Context, b *bot.Bot, guildID, userID string, kind model.MemberEventKind) {
	err := b.Members.Insert(ctx, model.MemberEvent{
		GuildID:    guildID,
		UserID:     userID,
		Kind:       kind,
		OccurredAt: time.Now().Unix(),
	})
	if err != nil {
		slog.Error("Failed to record member event", "user_id", userID, "kind", kind, "error", err)
	}
}

// filterMessage deletes msg when the filter rejects it and reports whether it
// did. Staff are exempt.
func filterMessage(ctx context.Context, s *discordgo.Session, msg *discordgo.Message, b *bot.Bot) bool {
	if !b.Filter.Enabled() || msg.Author == nil || msg.Author.Bot {
		return false
	}
	if utils.IsStaff(msg.Member, b.GetConfig().Roles.Staff) {
		return false
	}
	verdict := b.Filter.Check(msg.Content, attachmentNames(msg))
	if verdict.Action == moderation.FilterAllow {
		return false
	}

	if err := s.ChannelMessageDelete(msg.ChannelID, msg.ID, discordgo.WithContext(ctx)); err != nil {
		slog.Warn("Failed to delete filtered message", "channel_id", msg.ChannelID, "message_id", msg.ID, "error", err)
		return false
	}
	slog.Info("Removed filtered message", "channel_id", msg.ChannelID, "user_id", msg.Author.ID, "verdict", verdict.Action)

	operation := "Offensive words"
	if verdict.Action == moderation.FilterAttachment {
		operation = "Attachment"
		notice := &discordgo.MessageEmbed{
			Title:       "File not allowed",
			Description: b.Filter.AttachmentNotice(msg.Author.ID, verdict.Extension),
			Color:       0xE74C3C,
		}
		if _, err := s.ChannelMessageSendEmbed(msg.ChannelID, notice, discordgo.WithContext(ctx)); err != nil {
			slog.Warn("Failed to post attachment notice", "channel_id", msg.ChannelID, "error", err)
		}
	}
	b.ModLog.LogInfo(ctx, "Filter", operation,
		fmt.Sprintf("Removed a message from <@%s> in <#%s>", msg.Author.ID, msg.ChannelID))
	return true
}

func attachmentNames(msg *discordgo.Message) []string {
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Filename)
	}
	return names
}

// shouldLogDelete skips messages carrying embeds, which are mostly the bot's
// own reports. Uncached messages are still logged.
func shouldLogDelete(before *discordgo.Message) bool {
	return before == nil || len(before.Embeds) == 0
}

// shouldLogEdit skips embed updates and edits that leave the text unchanged.
// Without a cached copy only updates carrying text are logged.
func shouldLogEdit(before, after *discordgo.Message) bool {
	if len(after.Embeds) > 0 {
		return false
	}
	if before == nil {
		return after.Content != ""
	}
	return len(before.Embeds) == 0 && before.Content != after.Content
}
