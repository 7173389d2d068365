package handlers

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"modbot/bot"
	"modbot/model"
	"modbot/utils"
)

func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	cfg := b.GetConfig()
	if !utils.IsStaff(i.Member, cfg.Roles.Staff) {
		utils.SendErrorResponse(s, i, "You don't have permission to view system information.")
		return
	}

	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	platform, kernel := "unknown", "unknown"
	if hostInfo, err := host.Info(); err == nil {
		platform = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		kernel = hostInfo.KernelVersion
	}

	memory := "unknown"
	if vm, err := mem.VirtualMemory(); err == nil {
		memory = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}

	var dbSize int64
	if info, err := os.Stat(cfg.DatabasePath); err == nil {
		dbSize = info.Size()
	}

	ctx, cancel := b.CommandContext()
	defer cancel()
	recent, err := b.Store.CountSince(ctx, i.GuildID, time.Now().Add(-24*time.Hour))
	recentText := fmt.Sprintf("%d", recent)
	if err != nil {
		recentText = "unavailable"
	}

	joins, err := b.Members.CountSince(ctx, i.GuildID, model.MemberJoined, time.Now().Add(-24*time.Hour))
	joinsText := fmt.Sprintf("%d", joins)
	if err != nil {
		joinsText = "unavailable"
	}

	silenced := b.Silences.Active()
	silencedText := fmt.Sprintf("%d", len(silenced))
	if len(silenced) > 0 {
		silencedText += fmt.Sprintf(", next <#%s> <t:%d:R>", silenced[0].ChannelID, silenced[0].ExpiresAt.Unix())
	}

	embed := &discordgo.MessageEmbed{
		Title: "System information",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: platform, Inline: true},
			{Name: "🔧 Kernel", Value: kernel, Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU usage", Value: fmt.Sprintf("%.1f%%", cpuUsage), Inline: true},
			{Name: "🧠 Memory", Value: memory, Inline: true},
			{Name: "🗃️ Database size", Value: fmt.Sprintf("%.2f MB", float64(dbSize)/1024/1024), Inline: true},
			{Name: "⏱️ WebSocket latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "🔇 Silenced channels", Value: silencedText, Inline: true},
			{Name: "🔒 Pending action locks", Value: fmt.Sprintf("%d", b.ActionLocks.Len()), Inline: true},
			{Name: "📋 Infractions (24h)", Value: recentText, Inline: true},
			{Name: "👋 Joins (24h)", Value: joinsText, Inline: true},
			{Name: "🧩 Pending captchas", Value: fmt.Sprintf("%d", b.Verifier.Len()), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Up " + time.Since(b.StartedAt).Round(time.Second).String(),
		},
	}
	utils.SendEmbedResponse(s, i, embed)
}
