package config

import (
	"time"

	"courier-dispatch/internal/domain"
)

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "test_db",
}

var defaultKafka = Kafka{
	GroupID: "courier-dispatch",
	Topic:   "deliveries",
}

var defaultRedis = Redis{
	JournalTTL: 24 * time.Hour,
}

var defaultNATS = NATS{
	StatusSubject: "deliveries.status",
}

var defaultDispatch = Dispatch{
	OfferTimeout:     30 * time.Second,
	DefaultRadiusKm:  10,
	Capability:       domain.CapabilityDeliveries,
	SessionRetention: 5 * time.Minute,
	JanitorInterval:  30 * time.Second,
	OperationTimeout: 3 * time.Second,
}

var defaultProfileLookup = ProfileLookup{
	MaxAttempts: 3,
	BaseDelay:   50 * time.Millisecond,
	MaxDelay:    200 * time.Millisecond,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Limit:      20,
	Window:     time.Second,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultLog = Log{
	Backend: "slog",
	Level:   "info",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultKafka returns the default intake consumer settings.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultRedis returns the default offer journal settings.
func DefaultRedis() Redis {
	return defaultRedis
}

// DefaultNATS returns the default status bus settings.
func DefaultNATS() NATS {
	return defaultNATS
}

// DefaultDispatch returns the default engine settings.
func DefaultDispatch() Dispatch {
	return defaultDispatch
}

// DefaultProfileLookup returns the default profile lookup retry settings.
func DefaultProfileLookup() ProfileLookup {
	return defaultProfileLookup
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultLog returns the default logger settings.
func DefaultLog() Log {
	return defaultLog
}
