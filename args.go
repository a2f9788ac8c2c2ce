package main

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gavel/engine"
	"gavel/storage"
)

func ParseArgs() Args {
	// server config
	pflag.String("tcp-addr", "0.0.0.0:5000", "")
	pflag.String("api-addr", "0.0.0.0:8080", "")
	pflag.Int("max-clients", 10, "")
	pflag.String("home-nationality", "India", "")

	// auction config
	pflag.Duration("bidding-timeout", 30*time.Second, "")
	pflag.Duration("finalization-timeout", 15*time.Second, "")
	pflag.Duration("start-delay", 2*time.Second, "")
	pflag.Duration("next-item-delay", 3*time.Second, "")
	pflag.Duration("teardown-delay", 30*time.Second, "")
	pflag.Duration("empty-teardown-delay", 5*time.Second, "")
	pflag.String("initial-purse", "12000", "")
	pflag.String("min-increment", "10", "")
	pflag.Int("max-roster", 25, "")
	pflag.Int("max-restricted", 8, "")
	pflag.Float64("quorum-fraction", 0.6, "")

	// db config
	pflag.String("db-user", "", "")
	pflag.String("db-password", "", "")
	pflag.String("db-host", "", "")
	pflag.Int("db-port", 5432, "")
	pflag.String("db-database", "", "")
	pflag.String("db-schema", "", "")

	// redis config
	pflag.String("redis-addr", "", "")
	pflag.String("redis-password", "", "")
	pflag.Int("redis-db", 15, "")
	pflag.String("redis-stream-key-for-audit", "gavel-audit-stream", "")

	// s3 config
	pflag.String("s3-endpoint", "", "")
	pflag.String("s3-bucket", "", "")
	pflag.String("s3-prefix", "reports", "")
	pflag.String("s3-public-base-url", "", "")
	pflag.String("s3-access-key-id", "", "")
	pflag.String("s3-secret-access-key", "", "")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("GAVEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// initial arguments
	return Args{
		TCPAddr:         viper.GetString("tcp-addr"),
		APIAddr:         viper.GetString("api-addr"),
		MaxClients:      viper.GetInt("max-clients"),
		HomeNationality: viper.GetString("home-nationality"),
		Engine: engine.Config{
			BiddingTimeout:      viper.GetDuration("bidding-timeout"),
			FinalizationTimeout: viper.GetDuration("finalization-timeout"),
			StartDelay:          viper.GetDuration("start-delay"),
			NextItemDelay:       viper.GetDuration("next-item-delay"),
			TeardownDelay:       viper.GetDuration("teardown-delay"),
			EmptyTeardownDelay:  viper.GetDuration("empty-teardown-delay"),
			InitialPurse:        mustDecimal(viper.GetString("initial-purse")),
			MinIncrement:        mustDecimal(viper.GetString("min-increment")),
			MaxRoster:           viper.GetInt("max-roster"),
			MaxRestricted:       viper.GetInt("max-restricted"),
			QuorumFraction:      viper.GetFloat64("quorum-fraction"),
		},
		DB: storage.Config{
			User:     viper.GetString("db-user"),
			Password: viper.GetString("db-password"),
			Host:     viper.GetString("db-host"),
			Port:     viper.GetInt("db-port"),
			Database: viper.GetString("db-database"),
			Schema:   viper.GetString("db-schema"),
		},
		Redis: RedisConfig{
			Addr:           viper.GetString("redis-addr"),
			Password:       viper.GetString("redis-password"),
			DB:             viper.GetInt("redis-db"),
			AuditStreamKey: viper.GetString("redis-stream-key-for-audit"),
		},
		S3: S3Config{
			Endpoint:        viper.GetString("s3-endpoint"),
			Bucket:          viper.GetString("s3-bucket"),
			Prefix:          viper.GetString("s3-prefix"),
			PublicBaseURL:   viper.GetString("s3-public-base-url"),
			AccessKeyID:     viper.GetString("s3-access-key-id"),
			SecretAccessKey: viper.GetString("s3-secret-access-key"),
		},
	}
}

func mustDecimal(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		panic("invalid decimal argument: " + value)
	}
	return parsed
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	AuditStreamKey string
}

type S3Config struct {
	Endpoint        string
	Bucket          string
	Prefix          string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
}

type Args struct {
	TCPAddr         string
	APIAddr         string
	MaxClients      int
	HomeNationality string
	Engine          engine.Config
	DB              storage.Config
	Redis           RedisConfig
	S3              S3Config
}

func (args Args) Validate() bool {
	return args.TCPAddr != "" && args.HomeNationality != "" &&
		args.DB.Host != "" && args.DB.User != "" && args.DB.Database != ""
}
