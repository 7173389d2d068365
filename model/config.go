package model

import "time"

// RolesConfig holds the role IDs the bot acts on.
type RolesConfig struct {
	Staff []string `mapstructure:"staff"`
	Human string   `mapstructure:"human"`
	Muted string   `mapstructure:"muted"`
}

// Config stores the application configuration. It is loaded once at
// start-up and treated as read-only afterwards.
type Config struct {
	BotToken     string   `mapstructure:"bot_token"`
	GuildIDs     []string `mapstructure:"guild_ids"`
	DatabasePath string   `mapstructure:"database_path"`
	LogLevel     string   `mapstructure:"log_level"`

	ManagementChannelID string `mapstructure:"management_channel_id"`
	ModLogChannelID     string `mapstructure:"mod_log_channel_id"`
	MemberLogChannelID  string `mapstructure:"member_log_channel_id"`
	MessageLogChannelID string `mapstructure:"message_log_channel_id"`
	MessageCacheSize    int    `mapstructure:"message_cache_size"`

	Roles     RolesConfig    `mapstructure:"roles"`
	RankTable map[string]int `mapstructure:"rank_table"`

	MaxReasonLength        int           `mapstructure:"max_reason_length"`
	DefaultSilenceDuration time.Duration `mapstructure:"default_silence_duration"`
	ActionCooldown         time.Duration `mapstructure:"action_cooldown"`
	TempbanSweepInterval   time.Duration `mapstructure:"tempban_sweep_interval"`
	CommandTimeout         time.Duration `mapstructure:"command_timeout"`

	DMRatePerSecond float64 `mapstructure:"dm_rate_per_second"`
	DMBurst         int     `mapstructure:"dm_burst"`

	Filter       FilterConfig       `mapstructure:"filter"`
	Verification VerificationConfig `mapstructure:"verification"`
}

// FilterConfig drives the message filter. An empty pattern and an empty
// extension list disable the respective check.
type FilterConfig struct {
	OffensiveWordsRegex string   `mapstructure:"offensive_words_regex"`
	AllowedExtensions   []string `mapstructure:"allowed_extensions"`
}

func (f FilterConfig) Enabled() bool {
	return f.OffensiveWordsRegex != "" || len(f.AllowedExtensions) > 0
}

// VerificationConfig drives the captcha challenge sent to new members.
type VerificationConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CaptchaLength int           `mapstructure:"captcha_length"`
	CaptchaWidth  int           `mapstructure:"captcha_width"`
	CaptchaHeight int           `mapstructure:"captcha_height"`
}

// SilenceFallback returns the default silence duration, or nil when none is
// configured.
func (c *Config) SilenceFallback() *time.Duration {
	if c.DefaultSilenceDuration <= 0 {
		return nil
	}
	d := c.DefaultSilenceDuration
	return &d
}
