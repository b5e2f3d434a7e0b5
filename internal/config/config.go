// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Games     GamesConfig     `mapstructure:"games"`
}

// BotConfig holds Discord connection configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
	AppID string `mapstructure:"app_id"`
	// GuildID registers commands for one guild only, which applies instantly.
	// Empty registers them globally.
	GuildID     string        `mapstructure:"guild_id"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	// NoticeTTL is how long "already made" notices stay before deletion.
	NoticeTTL time.Duration `mapstructure:"notice_ttl"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// AdminConfig holds admin user configuration.
type AdminConfig struct {
	IDs []string `mapstructure:"ids"`
}

// WhitelistConfig limits where commands are accepted. Empty lists allow all.
type WhitelistConfig struct {
	Guilds   []string `mapstructure:"guilds"`
	Channels []string `mapstructure:"channels"`
}

// GamesConfig holds game-specific configuration.
type GamesConfig struct {
	Hangman     HangmanConfig     `mapstructure:"hangman"`
	Mastermind  MastermindConfig  `mapstructure:"mastermind"`
	Minesweeper MinesweeperConfig `mapstructure:"minesweeper"`
	Words       WordsConfig       `mapstructure:"words"`
}

// HangmanConfig holds hangman configuration.
type HangmanConfig struct {
	MaxMistakes int `mapstructure:"max_mistakes"`
}

// MastermindConfig holds mastermind configuration.
type MastermindConfig struct {
	Digits int `mapstructure:"digits"`
}

// MinesweeperConfig holds the defaults used when the command omits them.
type MinesweeperConfig struct {
	Size  int `mapstructure:"size"`
	Bombs int `mapstructure:"bombs"`
}

// WordsConfig points at the word list. Empty uses the embedded list.
type WordsConfig struct {
	File string `mapstructure:"file"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// e.g. BOT_TOKEN, DATABASE_ENABLED, GAMES_WORDS_FILE
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The file is optional, env vars can provide all config.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.app_id", "")
	v.SetDefault("bot.guild_id", "")
	v.SetDefault("bot.lock_timeout", "5s")
	v.SetDefault("bot.notice_ttl", "10s")

	v.SetDefault("log.level", "info")

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "gamebot")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "gamebot")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("admin.ids", []string{})
	v.SetDefault("whitelist.guilds", []string{})
	v.SetDefault("whitelist.channels", []string{})

	// Game defaults
	v.SetDefault("games.hangman.max_mistakes", 5)
	v.SetDefault("games.mastermind.digits", 4)
	v.SetDefault("games.minesweeper.size", 9)
	v.SetDefault("games.minesweeper.bombs", 5)
	v.SetDefault("games.words.file", "")
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID string) bool {
	return slices.Contains(c.Admin.IDs, userID)
}

// IsChatAllowed checks the guild and channel whitelists. A DM has an empty
// guild id and is only subject to the channel list.
func (c *Config) IsChatAllowed(guildID, channelID string) bool {
	if guildID != "" && len(c.Whitelist.Guilds) > 0 && !slices.Contains(c.Whitelist.Guilds, guildID) {
		return false
	}
	if len(c.Whitelist.Channels) > 0 && !slices.Contains(c.Whitelist.Channels, channelID) {
		return false
	}
	return true
}
