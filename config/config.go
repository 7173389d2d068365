package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"modbot/model"
	"modbot/utils"
)

// ConfigPaths are searched for config.yml when no explicit file is given.
var ConfigPaths = []string{
	".",
	"./config",
	"./data",
}

// Load reads .env, config.yml and the environment, in increasing priority.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env file not found, relying on environment variables")
	}
	return LoadFile("")
}

// LoadFile is Load without the .env step. An empty path searches
// ConfigPaths and tolerates a missing file; an explicit path must exist.
func LoadFile(path string) (*model.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range ConfigPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		slog.Info("No config.yml found, using defaults and environment variables")
	} else {
		slog.Info("Loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg model.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot_token", "")
	v.SetDefault("guild_ids", []string{})
	v.SetDefault("database_path", "data/modbot.db")
	v.SetDefault("log_level", "INFO")

	v.SetDefault("management_channel_id", "")
	v.SetDefault("mod_log_channel_id", "")
	v.SetDefault("member_log_channel_id", "")
	v.SetDefault("message_log_channel_id", "")
	v.SetDefault("message_cache_size", 500)

	v.SetDefault("roles.staff", []string{})
	v.SetDefault("roles.human", "")
	v.SetDefault("roles.muted", "")
	v.SetDefault("rank_table", map[string]int{})

	v.SetDefault("max_reason_length", 512)
	v.SetDefault("default_silence_duration", "0s")
	v.SetDefault("action_cooldown", 5*time.Second)
	v.SetDefault("tempban_sweep_interval", 5*time.Minute)
	v.SetDefault("command_timeout", 10*time.Second)

	v.SetDefault("dm_rate_per_second", 1.0)
	v.SetDefault("dm_burst", 5)

	v.SetDefault("filter.offensive_words_regex", "")
	v.SetDefault("filter.allowed_extensions", []string{})

	v.SetDefault("verification.enabled", false)
	v.SetDefault("verification.timeout", 20*time.Second)
	v.SetDefault("verification.captcha_length", 6)
	v.SetDefault("verification.captcha_width", 240)
	v.SetDefault("verification.captcha_height", 80)
}

// normalize drops blank entries left by splitting empty env values.
func normalize(cfg *model.Config) {
	cfg.GuildIDs = compact(cfg.GuildIDs)
	cfg.Roles.Staff = compact(cfg.Roles.Staff)
	cfg.Filter.AllowedExtensions = compact(cfg.Filter.AllowedExtensions)
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Validate reports every problem with cfg at once.
func Validate(cfg *model.Config) error {
	var errs []error
	if cfg.BotToken == "" {
		errs = append(errs, errors.New("bot_token is required (set BOT_TOKEN)"))
	}
	if _, err := utils.ParseLogLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if cfg.MaxReasonLength <= 3 {
		errs = append(errs, fmt.Errorf("max_reason_length must be greater than 3, got %d", cfg.MaxReasonLength))
	}
	if cfg.DefaultSilenceDuration < 0 {
		errs = append(errs, errors.New("default_silence_duration must not be negative"))
	}
	if cfg.TempbanSweepInterval <= 0 {
		errs = append(errs, errors.New("tempban_sweep_interval must be positive"))
	}
	if cfg.CommandTimeout <= 0 {
		errs = append(errs, errors.New("command_timeout must be positive"))
	}
	if cfg.DMRatePerSecond > 0 && cfg.DMBurst <= 0 {
		errs = append(errs, errors.New("dm_burst must be positive when dm_rate_per_second is set"))
	}
	if cfg.MessageCacheSize < 0 {
		errs = append(errs, errors.New("message_cache_size must not be negative"))
	}
	if cfg.Filter.OffensiveWordsRegex != "" {
		if _, err := regexp.Compile(cfg.Filter.OffensiveWordsRegex); err != nil {
			errs = append(errs, fmt.Errorf("filter.offensive_words_regex: %w", err))
		}
	}
	if v := cfg.Verification; v.Enabled {
		if cfg.Roles.Human == "" {
			errs = append(errs, errors.New("verification.enabled requires roles.human"))
		}
		if v.Timeout <= 0 {
			errs = append(errs, errors.New("verification.timeout must be positive"))
		}
		if v.CaptchaLength < 4 || v.CaptchaLength > 10 {
			errs = append(errs, fmt.Errorf("verification.captcha_length must be between 4 and 10, got %d", v.CaptchaLength))
		}
		if v.CaptchaWidth <= 0 || v.CaptchaHeight <= 0 {
			errs = append(errs, errors.New("verification.captcha_width and captcha_height must be positive"))
		}
	}
	return errors.Join(errs...)
}
