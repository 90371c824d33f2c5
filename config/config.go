package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Database    DatabaseConfigs    `toml:"database"`
	ApiServer   ServerConfigs      `toml:"api_server"`
	Auth        AuthConfigs        `toml:"auth"`
	Redis       RedisConfigs       `toml:"redis"`
	Kafka       KafkaConfigs       `toml:"kafka"`
	Cron        CronConfigs        `toml:"cron"`
	Marketplace MarketplaceConfigs `toml:"marketplace"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host      string   `toml:"host"`
	Port      string   `toml:"port"`
	AllowCORS []string `toml:"allow_cors"`
	Cert      string   `toml:"cert"`
	Key       string   `toml:"key"`
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret     string        `toml:"token_secret"`
	AccessTokenName string        `toml:"access_token_name"`
	Expiration      time.Duration `toml:"expiration"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr              string `toml:"addr"`
	NotificationTopic string `toml:"notification_topic"`
}

type CronConfigs struct {
	ComputedRewardHour     int           `toml:"computed_reward_hour"`
	OutboxInterval         time.Duration `toml:"outbox_interval"`
	OutboxBatchSize        int           `toml:"outbox_batch_size"`
	ExpireAwardsInterval   time.Duration `toml:"expire_awards_interval"`
	MysteryBoxPollInterval time.Duration `toml:"mystery_box_poll_interval"`
}

type MarketplaceConfigs struct {
	AwardExpiryDays  int           `toml:"award_expiry_days"`
	FeedbackCooldown time.Duration `toml:"feedback_cooldown"`
}

// Load reads configurations from a TOML file and fills in defaults for
// optional knobs.
func Load(path string) (Configs, error) {
	var cfg Configs
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Configs) applyDefaults() {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.Auth.AccessTokenName == "" {
		cfg.Auth.AccessTokenName = "access_token"
	}

	if cfg.Auth.Expiration == 0 {
		cfg.Auth.Expiration = 24 * time.Hour
	}

	if cfg.Cron.OutboxInterval == 0 {
		cfg.Cron.OutboxInterval = time.Minute
	}

	if cfg.Cron.OutboxBatchSize == 0 {
		cfg.Cron.OutboxBatchSize = 100
	}

	if cfg.Cron.ExpireAwardsInterval == 0 {
		cfg.Cron.ExpireAwardsInterval = time.Hour
	}

	if cfg.Cron.MysteryBoxPollInterval == 0 {
		cfg.Cron.MysteryBoxPollInterval = 5 * time.Minute
	}

	if cfg.Marketplace.AwardExpiryDays == 0 {
		cfg.Marketplace.AwardExpiryDays = 90
	}

	if cfg.Marketplace.FeedbackCooldown == 0 {
		cfg.Marketplace.FeedbackCooldown = time.Minute
	}
}
