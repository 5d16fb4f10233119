package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Ranking   RankingConfig   `mapstructure:"ranking"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
	Caching   CachingConfig   `mapstructure:"caching"`
	Security  SecurityConfig  `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		Recommendations string `mapstructure:"recommendations"`
	} `mapstructure:"topics"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RankingConfig holds the recognized fusion and diversity options.
type RankingConfig struct {
	ViralityWeight      float64 `mapstructure:"virality_weight"`
	RelevanceWeight     float64 `mapstructure:"relevance_weight"`
	EngagementWeight    float64 `mapstructure:"engagement_weight"`
	MinScore            float64 `mapstructure:"min_score"`
	AuthorPenalty       float64 `mapstructure:"author_penalty"`
	TagSignaturePenalty float64 `mapstructure:"tag_signature_penalty"`
	DefaultCount        int     `mapstructure:"default_count"`
	ScoringWorkers      int     `mapstructure:"scoring_workers"`
}

// ProfilingConfig bounds the affinity aggregation inputs.
type ProfilingConfig struct {
	MinAffinity      float64 `mapstructure:"min_affinity"`
	MaxPostsAnalyzed int     `mapstructure:"max_posts_analyzed"`
	MaxLikedPosts    int     `mapstructure:"max_liked_posts"`
}

type CachingConfig struct {
	RecommendationsTTL time.Duration `mapstructure:"recommendations_ttl"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")

	// Database defaults
	viper.SetDefault("database.max_connections", 25)
	viper.SetDefault("database.max_idle_time", "15m")
	viper.SetDefault("database.max_lifetime", "1h")
	viper.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "5s")

	// Kafka defaults
	viper.SetDefault("kafka.topics.recommendations", "recommendations.ranked")

	// Auth defaults
	viper.SetDefault("auth.token_ttl", "24h")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Ranking defaults
	viper.SetDefault("ranking.virality_weight", 0.3)
	viper.SetDefault("ranking.relevance_weight", 0.4)
	viper.SetDefault("ranking.engagement_weight", 0.3)
	viper.SetDefault("ranking.min_score", 0.5)
	viper.SetDefault("ranking.author_penalty", 0.9)
	viper.SetDefault("ranking.tag_signature_penalty", 0.85)
	viper.SetDefault("ranking.default_count", 20)
	viper.SetDefault("ranking.scoring_workers", 8)

	// Profiling defaults
	viper.SetDefault("profiling.min_affinity", 0.3)
	viper.SetDefault("profiling.max_posts_analyzed", 50)
	viper.SetDefault("profiling.max_liked_posts", 30)

	// Caching defaults
	viper.SetDefault("caching.recommendations_ttl", "15m")

	// Security defaults
	viper.SetDefault("security.cors.allowed_origins", []string{"*"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"*"})
}
