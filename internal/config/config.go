package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL renders the connection string used by the migration runner.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// DSN renders the keyword/value connection string used by GORM.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker addresses and the consumer group prefix.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// BusinessConfig holds the deployment-configured business constants used by
// the pricing calculator, admission validator and reporting engine.
type BusinessConfig struct {
	// TaxRate applies to direct-channel bookings (e.g. 0.12 for 12%).
	TaxRate float64
	// ServiceFeeCents is the flat fee added to direct-channel bookings.
	ServiceFeeCents int64
	// CommissionRate is the partner-channel discount (e.g. 0.15 for 15%).
	CommissionRate float64
	// MinLeadHours is the minimum lead time before the scheduled date.
	MinLeadHours int
	// ReportTimezone is the reference time zone for today/month buckets.
	ReportTimezone string
	// SnapshotCron is the schedule for periodic snapshot recomputation.
	SnapshotCron string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port     string
	AppEnv   string
	DB       DatabaseConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
	Business BusinessConfig
}

// Load reads configuration from the environment with a BOOKING_ prefix.
// A .env file in the working directory is honored for local development.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "bookings")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "recharge.")
	v.SetDefault("TAX_RATE", 0.12)
	v.SetDefault("SERVICE_FEE_CENTS", 1500)
	v.SetDefault("COMMISSION_RATE", 0.15)
	v.SetDefault("MIN_LEAD_HOURS", 48)
	v.SetDefault("REPORT_TIMEZONE", "Asia/Colombo")
	v.SetDefault("SNAPSHOT_CRON", "*/15 * * * *")

	if v.GetString("JWT_SECRET") == "" && v.GetString("APP_ENV") != "development" {
		return nil, fmt.Errorf("BOOKING_JWT_SECRET is required outside development")
	}

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("APP_ENV"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		Business: BusinessConfig{
			TaxRate:         v.GetFloat64("TAX_RATE"),
			ServiceFeeCents: v.GetInt64("SERVICE_FEE_CENTS"),
			CommissionRate:  v.GetFloat64("COMMISSION_RATE"),
			MinLeadHours:    v.GetInt("MIN_LEAD_HOURS"),
			ReportTimezone:  v.GetString("REPORT_TIMEZONE"),
			SnapshotCron:    v.GetString("SNAPSHOT_CRON"),
		},
	}, nil
}
