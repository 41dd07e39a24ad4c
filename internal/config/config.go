package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port          int
	DB            DB
	Kafka         Kafka
	Redis         Redis
	NATS          NATS
	Dispatch      Dispatch
	ProfileLookup ProfileLookup
	RateLimit     RateLimit
	Pprof         Pprof
	Log           Log
	Tracing       Tracing
}

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns a postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		d.User, d.Pass, net.JoinHostPort(d.Host, d.Port), d.Name)
}

// Kafka stores delivery intake consumer settings. No brokers disables the consumer.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Redis stores offer journal settings. Empty Addr disables the journal.
type Redis struct {
	Addr       string
	Password   string
	DB         int
	JournalTTL time.Duration
}

// NATS stores status bus settings. Empty URL disables publishing.
type NATS struct {
	URL           string
	StatusSubject string
}

// Dispatch stores matching engine settings.
type Dispatch struct {
	OfferTimeout     time.Duration
	DefaultRadiusKm  float64
	Capability       string
	MaxCandidates    int
	SessionRetention time.Duration
	JanitorInterval  time.Duration
	OperationTimeout time.Duration
}

// ProfileLookup stores retry settings for courier profile reads.
type ProfileLookup struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RateLimit stores courier event rate limit settings.
type RateLimit struct {
	Enabled    bool
	Limit      int
	Window     time.Duration
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores profiling endpoint settings.
type Pprof struct {
	Enabled bool
	User    string
	Pass    string
}

// Log stores logger settings.
type Log struct {
	Backend string
	Level   string
}

// Tracing stores tracer settings.
type Tracing struct {
	Enabled bool
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:          DefaultPort(),
		DB:            DefaultDB(),
		Kafka:         DefaultKafka(),
		Redis:         DefaultRedis(),
		NATS:          DefaultNATS(),
		Dispatch:      DefaultDispatch(),
		ProfileLookup: DefaultProfileLookup(),
		RateLimit:     DefaultRateLimit(),
		Log:           DefaultLog(),
	}

	e := envReader{}
	e.int("PORT", &cfg.Port)

	e.str("POSTGRES_HOST", &cfg.DB.Host)
	e.str("POSTGRES_PORT", &cfg.DB.Port)
	e.str("POSTGRES_USER", &cfg.DB.User)
	e.str("POSTGRES_PASSWORD", &cfg.DB.Pass)
	e.str("POSTGRES_DB", &cfg.DB.Name)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		e.fail("POSTGRES_PORT", cfg.DB.Port, err)
	}

	e.list("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	e.str("KAFKA_GROUP_ID", &cfg.Kafka.GroupID)
	e.str("KAFKA_DELIVERY_TOPIC", &cfg.Kafka.Topic)

	e.str("REDIS_ADDR", &cfg.Redis.Addr)
	e.str("REDIS_PASSWORD", &cfg.Redis.Password)
	e.int("REDIS_DB", &cfg.Redis.DB)
	e.duration("REDIS_JOURNAL_TTL", &cfg.Redis.JournalTTL)

	e.str("NATS_URL", &cfg.NATS.URL)
	e.str("NATS_STATUS_SUBJECT", &cfg.NATS.StatusSubject)

	e.duration("DISPATCH_OFFER_TIMEOUT", &cfg.Dispatch.OfferTimeout)
	e.float("DISPATCH_DEFAULT_RADIUS_KM", &cfg.Dispatch.DefaultRadiusKm)
	e.str("DISPATCH_CAPABILITY", &cfg.Dispatch.Capability)
	e.int("DISPATCH_MAX_CANDIDATES", &cfg.Dispatch.MaxCandidates)
	e.duration("DISPATCH_SESSION_RETENTION", &cfg.Dispatch.SessionRetention)
	e.duration("DISPATCH_JANITOR_INTERVAL", &cfg.Dispatch.JanitorInterval)
	e.duration("DISPATCH_OPERATION_TIMEOUT", &cfg.Dispatch.OperationTimeout)

	e.int("PROFILE_LOOKUP_MAX_ATTEMPTS", &cfg.ProfileLookup.MaxAttempts)
	e.duration("PROFILE_LOOKUP_BASE_DELAY", &cfg.ProfileLookup.BaseDelay)
	e.duration("PROFILE_LOOKUP_MAX_DELAY", &cfg.ProfileLookup.MaxDelay)

	e.bool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	e.int("RATE_LIMIT_REQUESTS", &cfg.RateLimit.Limit)
	e.duration("RATE_LIMIT_WINDOW", &cfg.RateLimit.Window)
	e.duration("RATE_LIMIT_BUCKET_TTL", &cfg.RateLimit.TTL)
	e.int("RATE_LIMIT_MAX_BUCKETS", &cfg.RateLimit.MaxBuckets)

	e.bool("PPROF_ENABLED", &cfg.Pprof.Enabled)
	e.str("PPROF_USER", &cfg.Pprof.User)
	e.str("PPROF_PASS", &cfg.Pprof.Pass)

	e.str("LOG_BACKEND", &cfg.Log.Backend)
	e.str("LOG_LEVEL", &cfg.Log.Level)
	e.bool("TRACING_ENABLED", &cfg.Tracing.Enabled)

	if e.err != nil {
		return nil, e.err
	}

	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseFlags(cfg *Config) error {
	fs := pflag.CommandLine
	// флаги go test и прочие чужие не ломают запуск
	fs.ParseErrorsWhitelist.UnknownFlags = true
	if fs.Lookup("port") == nil {
		fs.IntP("port", "p", cfg.Port, "port to listen on")
	}
	if fs.Lookup("offer-timeout") == nil {
		fs.Duration("offer-timeout", cfg.Dispatch.OfferTimeout, "how long a courier has to answer an offer")
	}
	if fs.Lookup("log-level") == nil {
		fs.String("log-level", cfg.Log.Level, "debug|info|warn|error")
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if fs.Changed("port") {
		v, err := fs.GetInt("port")
		if err != nil {
			return fmt.Errorf("parse flags: %w", err)
		}
		cfg.Port = v
	}
	if fs.Changed("offer-timeout") {
		v, err := fs.GetDuration("offer-timeout")
		if err != nil {
			return fmt.Errorf("parse flags: %w", err)
		}
		cfg.Dispatch.OfferTimeout = v
	}
	if fs.Changed("log-level") {
		v, err := fs.GetString("log-level")
		if err != nil {
			return fmt.Errorf("parse flags: %w", err)
		}
		cfg.Log.Level = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Dispatch.OfferTimeout <= 0 {
		return fmt.Errorf("invalid offer timeout: %s", c.Dispatch.OfferTimeout)
	}
	if c.Dispatch.DefaultRadiusKm <= 0 {
		return fmt.Errorf("invalid default radius: %v", c.Dispatch.DefaultRadiusKm)
	}
	if c.Dispatch.MaxCandidates < 0 {
		return fmt.Errorf("invalid max candidates: %d", c.Dispatch.MaxCandidates)
	}
	switch c.Log.Backend {
	case "slog", "zap":
	default:
		return fmt.Errorf("invalid log backend: %q", c.Log.Backend)
	}
	return nil
}

// envReader collects the first parse error.
type envReader struct{ err error }

func (e *envReader) fail(key, raw string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
}

func (e *envReader) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
	}
}

func (e *envReader) int(key string, dst *int) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) float(key string, dst *float64) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = f
}

func (e *envReader) bool(key string, dst *bool) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = b
}

func (e *envReader) duration(key string, dst *time.Duration) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = d
}

func (e *envReader) list(key string, dst *[]string) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
