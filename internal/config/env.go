package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Validate reports every required setting that is missing. Razorpay
// credentials are optional so the catalog and cash-on-delivery checkout keep
// working in environments without a gateway account.
func (c Config) Validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Shipping.FreeThreshold < 0 || c.Shipping.FlatFee < 0 {
		errs = append(errs, fmt.Errorf("shipping threshold and fee must be non-negative, got %v/%v",
			c.Shipping.FreeThreshold, c.Shipping.FlatFee))
	}
	return errors.Join(errs...)
}

// PaymentsEnabled reports whether the Razorpay routes can be served.
func (c Config) PaymentsEnabled() bool {
	return c.Razorpay.KeyID != "" && c.Razorpay.KeySecret != ""
}

func getFloatEnv(key string, fallback float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getListEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
