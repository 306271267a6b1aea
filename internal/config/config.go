package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Pricing   PricingConfig
	Suppliers SuppliersConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

type PricingConfig struct {
	DefaultVAT   float64 // percentage
	ExchangeRate float64 // USD -> ARS fallback until discovered from feeds
}

type SuppliersConfig struct {
	Endpoints    map[string]string // supplier ID -> API URL
	FetchTimeout int               // in seconds
	FetchRPS     float64           // per-supplier request rate
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 15)
	viper.SetDefault("JWT_REFRESH_EXPIRY", 7)
	viper.SetDefault("DEFAULT_VAT", 21.0)
	viper.SetDefault("EXCHANGE_RATE", 1220.0)
	viper.SetDefault("SUPPLIER_FETCH_TIMEOUT", 30)
	viper.SetDefault("SUPPLIER_FETCH_RPS", 5.0)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  viper.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: viper.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Pricing: PricingConfig{
			DefaultVAT:   viper.GetFloat64("DEFAULT_VAT"),
			ExchangeRate: viper.GetFloat64("EXCHANGE_RATE"),
		},
		Suppliers: SuppliersConfig{
			Endpoints:    supplierEndpoints(),
			FetchTimeout: viper.GetInt("SUPPLIER_FETCH_TIMEOUT"),
			FetchRPS:     viper.GetFloat64("SUPPLIER_FETCH_RPS"),
		},
	}
}

// supplierEndpoints collects SUPPLIER_<ID>_URL entries for the known feeds.
// A supplier without a configured URL is simply not synced.
func supplierEndpoints() map[string]string {
	ids := []string{"NEWBYTES", "GRUPONUCLEO", "ELIT", "TGS", "GAMINGCITY"}

	endpoints := make(map[string]string, len(ids))
	for _, id := range ids {
		if url := viper.GetString("SUPPLIER_" + id + "_URL"); url != "" {
			endpoints[strings.ToLower(id)] = url
		}
	}
	return endpoints
}
