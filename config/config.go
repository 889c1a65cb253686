package config

import (
	"flag"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	defaultServerAddress     = ":8080"
	defaultDatabaseDSN       = ""
	defaultLogLevel          = "debug"
	defaultEnvironment       = "sandbox"
	defaultReconcileInterval = time.Minute
	defaultPaymentMethods    = "credit_card,bank_transfer,bca_va,bni_va,bri_va,permata_va,echannel,gopay,shopeepay,indomaret,alfamart"
)

type Config struct {
	ServerAddr        string
	DatabaseDSN       string
	LogLevel          string
	JWTSecret         string
	Environment       string
	MidtransServerKey string
	MidtransClientKey string
	PaymentMethods    []string
	ReconcileInterval time.Duration
}

var (
	once      sync.Once
	singleton *Config
)

// IsProduction reports whether the service runs against the live gateway.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		var paymentMethods string

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret")
		flag.StringVar(&cfg.Environment, "env", defaultEnvironment, "environment: sandbox or production")
		flag.StringVar(&cfg.MidtransServerKey, "midtrans-server-key", "", "midtrans server key")
		flag.StringVar(&cfg.MidtransClientKey, "midtrans-client-key", "", "midtrans client key")
		flag.StringVar(&paymentMethods, "payment-methods", defaultPaymentMethods, "comma-separated enabled payment methods")
		flag.DurationVar(&cfg.ReconcileInterval, "reconcile-interval", defaultReconcileInterval, "payment reconcile sweep interval, 0 disables")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if databaseURIEnv := os.Getenv("DATABASE_URI"); databaseURIEnv != "" {
			cfg.DatabaseDSN = databaseURIEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if jwtSecretEnv := os.Getenv("JWT_SECRET"); jwtSecretEnv != "" {
			cfg.JWTSecret = jwtSecretEnv
		}
		if envEnv := os.Getenv("APP_ENV"); envEnv != "" {
			cfg.Environment = envEnv
		}
		if serverKeyEnv := os.Getenv("MIDTRANS_SERVER_KEY"); serverKeyEnv != "" {
			cfg.MidtransServerKey = serverKeyEnv
		}
		if clientKeyEnv := os.Getenv("MIDTRANS_CLIENT_KEY"); clientKeyEnv != "" {
			cfg.MidtransClientKey = clientKeyEnv
		}
		if methodsEnv := os.Getenv("MIDTRANS_PAYMENT_METHODS"); methodsEnv != "" {
			paymentMethods = methodsEnv
		}
		if intervalEnv := os.Getenv("RECONCILE_INTERVAL"); intervalEnv != "" {
			if d, err := time.ParseDuration(intervalEnv); err == nil {
				cfg.ReconcileInterval = d
			}
		}

		for _, m := range strings.Split(paymentMethods, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.PaymentMethods = append(cfg.PaymentMethods, m)
			}
		}

		singleton = &cfg
	})

	return singleton, nil
}
