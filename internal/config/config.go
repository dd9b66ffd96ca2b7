// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
	"github.com/google/uuid"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 服务器监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 服务器监听端口，如 8000
	Mode    string `toml:"mode"`    // 运行模式：dev 或 release
	TLS     bool   `toml:"tls"`     // 是否启用 HTTP -> HTTPS 重定向
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
}

// RedisConfig Redis 连接配置
// Host 为空时使用进程内缓存（单机开发环境）
type RedisConfig struct {
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 变更事件总线配置
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // 事件模式："channel" 或 "kafka"
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	EventTopic  string        `toml:"eventTopic"`  // 数据变更事件主题
	GroupID     string        `toml:"groupId"`     // 消费组，每个实例必须不同，留空时按主机名生成
	Timeout     time.Duration `toml:"timeout"`     // 超时时间（秒）
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`             // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 雪花算法节点 ID，范围 0-1023
}

// PresenceConfig 在线状态配置
type PresenceConfig struct {
	FreshnessWindow   Duration `toml:"freshnessWindow"`   // 心跳新鲜度窗口，如 "5m"
	HeartbeatInterval Duration `toml:"heartbeatInterval"` // 会话心跳间隔，如 "30s"
}

// RateLimitConfig 接口限流配置（按客户端 IP）
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`   // 每秒令牌数
	Burst   int     `toml:"burst"` // 桶容量
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // 指标暴露路径，默认 /metrics
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	PresenceConfig  `toml:"presenceConfig"`
	RateLimitConfig `toml:"rateLimitConfig"`
	MetricsConfig   `toml:"metricsConfig"`
}

// Duration 支持在 TOML 中以 "30s"、"5m" 形式书写时长
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",       // 本地开发配置（优先）
		"configs/config.toml",             // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if cfg, err := LoadConfigFrom(path); err == nil {
			config = cfg
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// LoadConfigFrom 加载指定路径的配置文件，并补齐默认值
func LoadConfigFrom(path string) (*Config, error) {
	cfg := new(Config)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults 未配置的字段使用默认值
func (c *Config) applyDefaults() {
	if c.MainConfig.Mode == "" {
		c.MainConfig.Mode = "dev"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.KafkaConfig.MessageMode == "" {
		c.KafkaConfig.MessageMode = "channel"
	}
	if c.KafkaConfig.GroupID == "" {
		c.KafkaConfig.GroupID = instanceGroupID()
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.JWTConfig.AccessTokenExpiry == 0 {
		c.JWTConfig.AccessTokenExpiry = 30
	}
	if c.JWTConfig.RefreshTokenExpiry == 0 {
		c.JWTConfig.RefreshTokenExpiry = 168
	}
	if c.PresenceConfig.FreshnessWindow.Duration == 0 {
		c.PresenceConfig.FreshnessWindow.Duration = 5 * time.Minute
	}
	if c.PresenceConfig.HeartbeatInterval.Duration == 0 {
		c.PresenceConfig.HeartbeatInterval.Duration = 30 * time.Second
	}
	if c.RateLimitConfig.RPS == 0 {
		c.RateLimitConfig.RPS = 5
	}
	if c.RateLimitConfig.Burst == 0 {
		c.RateLimitConfig.Burst = 30
	}
	if c.MetricsConfig.Path == "" {
		c.MetricsConfig.Path = "/metrics"
	}
}

// instanceGroupID 每个实例独立消费全量事件，共用消费组会分摊分区导致事件丢失
// 取不到主机名时用随机后缀
func instanceGroupID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = uuid.NewString()
	}
	return "playmate-" + host
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，找不到时使用默认值
func GetConfig() *Config {
	if config == nil {
		if err := LoadConfig(); err != nil {
			config = new(Config)
			config.applyDefaults()
		}
	}
	return config
}
