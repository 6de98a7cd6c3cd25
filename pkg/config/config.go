package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cloud-wave-best-zizon/storefront-service/pkg/tls"
)

const devJWTSecret = "change-me"

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// AWS 없이 로컬 실행 모드 (in-memory store)
	LocalMode bool `envconfig:"LOCAL_MODE" default:"true"`

	AWSRegion        string `envconfig:"AWS_REGION" default:"ap-northeast-2"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT"`
	AWSAccessKeyID   string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey     string `envconfig:"AWS_SECRET_ACCESS_KEY"`

	UserTableName    string `envconfig:"USER_TABLE_NAME" default:"users-table"`
	ProductTableName string `envconfig:"PRODUCT_TABLE_NAME" default:"products-table"`
	StockTableName   string `envconfig:"STOCK_TABLE_NAME" default:"variant-stock-table"`
	ReviewTableName  string `envconfig:"REVIEW_TABLE_NAME" default:"reviews-table"`
	OrderTableName   string `envconfig:"ORDER_TABLE_NAME" default:"orders-table"`

	// 로컬 모드 전용 기본값, 운영에서는 반드시 설정
	JWTSecret string `envconfig:"JWT_SECRET" default:"change-me"`

	RateLimitRPS   int    `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int    `envconfig:"RATE_LIMIT_BURST" default:"40"`
	RedisAddr      string `envconfig:"REDIS_ADDR"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`

	KafkaBrokers     string `envconfig:"KAFKA_BROKERS"`
	KafkaGroupID     string `envconfig:"KAFKA_GROUP_ID" default:"storefront-service"`
	KafkaOrderTopic  string `envconfig:"KAFKA_ORDER_TOPIC" default:"order-events"`
	KafkaReviewTopic string `envconfig:"KAFKA_REVIEW_TOPIC" default:"review-events"`
	KafkaStockTopic  string `envconfig:"KAFKA_STOCK_TOPIC" default:"stock-events"`

	TLS tls.TLSConfig
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that are only safe for local runs.
func (c *Config) Validate() error {
	if !c.LocalMode && (c.JWTSecret == "" || c.JWTSecret == devJWTSecret) {
		return errors.New("JWT_SECRET must be set when LOCAL_MODE is off")
	}
	return nil
}
