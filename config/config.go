/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package config loads the dreq runtime settings from DREQ_* environment
// variables. Every field has a working default, so an empty environment
// yields a valid configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries the settings consumed by the recorder and the rate
// limiter. Zero values never pass Validate; the defaults are applied by
// the env tags.
type Config struct {
	// ServiceName, ServiceVersion and Environment become the static
	// service fields on every wide event.
	ServiceName    string `env:"DREQ_SERVICE_NAME" envDefault:"dreq"`
	ServiceVersion string `env:"DREQ_SERVICE_VERSION" envDefault:"dev"`
	Environment    string `env:"DREQ_ENVIRONMENT" envDefault:"development"`

	// RateLimitMax requests per RateLimitWindow, per client key.
	RateLimitMax    int           `env:"DREQ_RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow time.Duration `env:"DREQ_RATE_LIMIT_WINDOW" envDefault:"1m"`

	// RateLimitSweep is the janitor interval for expired window entries.
	RateLimitSweep time.Duration `env:"DREQ_RATE_LIMIT_SWEEP" envDefault:"5m"`

	// SlowThreshold is the duration above which a request is always
	// sampled.
	SlowThreshold time.Duration `env:"DREQ_SLOW_THRESHOLD" envDefault:"2s"`

	// SampleRate is the keep probability for routine traffic, in [0, 1].
	SampleRate float64 `env:"DREQ_SAMPLE_RATE" envDefault:"0.05"`
}

// FromEnv parses and validates a Config from the process environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the recorder and limiter rely on.
func (c Config) Validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, errors.New("service name must not be empty"))
	}
	if c.RateLimitMax <= 0 {
		errs = append(errs, fmt.Errorf("rate limit max must be positive, got %d", c.RateLimitMax))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("rate limit window must be positive, got %s", c.RateLimitWindow))
	}
	if c.RateLimitSweep <= 0 {
		errs = append(errs, fmt.Errorf("rate limit sweep interval must be positive, got %s", c.RateLimitSweep))
	}
	if c.SlowThreshold <= 0 {
		errs = append(errs, fmt.Errorf("slow threshold must be positive, got %s", c.SlowThreshold))
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("sample rate must be in [0, 1], got %g", c.SampleRate))
	}
	return errors.Join(errs...)
}
