package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Realtime  RealtimeConfig
	Redis     RedisConfig
	NATS      NATSConfig
	SMTP      SMTPConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	OTP       OTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// IsProduction indica si la app corre en producción (cookie secure, sin logs de OTP).
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
	MaxConns    int
	MinConns    int
	ForceIPv4   bool // entornos Docker sin IPv6
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT (access + refresh).
type JWTConfig struct {
	Secret           string
	Issuer           string
	AccessExpMinutes int
	RefreshExpDays   int
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RealtimeConfig listener WebSocket para eventos en vivo.
type RealtimeConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha del hub.
func (c RealtimeConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig almacén de sesiones de refresh.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NATSConfig bus de eventos. URL vacía = deshabilitado.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

// SMTPConfig envío de correos (OTP). Host vacío = solo log.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	SenderName string
	Encryption string // ssl, tls, none
}

// StorageConfig almacenamiento de avatares (MinIO / S3). Endpoint vacío = deshabilitado.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// RateLimitConfig límite por IP sobre las rutas de auth.
type RateLimitConfig struct {
	AuthRPS   int
	AuthBurst int
}

// OTPConfig parámetros de códigos de un solo uso.
type OTPConfig struct {
	ExpirationMinutes int
	CleanupSpec       string // cron spec de purga de OTP vencidos
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "storefront-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "storefront"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
			ForceIPv4:   getBool(v, "DB_FORCE_IPV4", false),
		},
		JWT: JWTConfig{
			Secret:           getString(v, "JWT_SECRET", ""),
			Issuer:           getString(v, "JWT_ISSUER", "storefront-api"),
			AccessExpMinutes: getInt(v, "JWT_ACCESS_EXPIRATION_MINUTES", 15),
			RefreshExpDays:   getInt(v, "JWT_REFRESH_EXPIRATION_DAYS", 7),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Realtime: RealtimeConfig{
			Host: getString(v, "REALTIME_HOST", "0.0.0.0"),
			Port: getInt(v, "REALTIME_PORT", 8081),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		NATS: NATSConfig{
			URL:           getString(v, "NATS_URL", ""),
			SubjectPrefix: getString(v, "NATS_SUBJECT_PREFIX", "storefront"),
		},
		SMTP: SMTPConfig{
			Host:       getString(v, "SMTP_HOST", ""),
			Port:       getInt(v, "SMTP_PORT", 587),
			Username:   getString(v, "SMTP_USERNAME", ""),
			Password:   getString(v, "SMTP_PASSWORD", ""),
			From:       getString(v, "SMTP_FROM", "no-reply@storefront.local"),
			SenderName: getString(v, "SMTP_SENDER_NAME", "Storefront"),
			Encryption: getString(v, "SMTP_ENCRYPTION", "tls"),
		},
		Storage: StorageConfig{
			Endpoint:  getString(v, "MINIO_ENDPOINT", ""),
			AccessKey: getString(v, "MINIO_ACCESS_KEY", ""),
			SecretKey: getString(v, "MINIO_SECRET_KEY", ""),
			Bucket:    getString(v, "MINIO_BUCKET", "avatars"),
			UseSSL:    getBool(v, "MINIO_USE_SSL", false),
			PublicURL: getString(v, "MINIO_PUBLIC_URL", ""),
		},
		RateLimit: RateLimitConfig{
			AuthRPS:   getInt(v, "RATE_LIMIT_AUTH_RPS", 5),
			AuthBurst: getInt(v, "RATE_LIMIT_AUTH_BURST", 10),
		},
		OTP: OTPConfig{
			ExpirationMinutes: getInt(v, "OTP_EXPIRATION_MINUTES", 10),
			CleanupSpec:       getString(v, "OTP_CLEANUP_SPEC", "@every 15m"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
