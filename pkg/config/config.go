/*
Copyright 2026 the Stockroom Authors.

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

package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/stockroom-labs/api-smoke/pkg/client"

	"k8s.io/utils/ptr"
)

// ErrInvalid is returned when the merged configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is everything a smoke run needs to know.
type Config struct {
	BaseURL     string             `yaml:"baseURL" validate:"required,http_url"`
	Credentials client.Credentials `yaml:"credentials"`
	Product     client.Product     `yaml:"product"`
	NewQuantity int                `yaml:"newQuantity" validate:"gte=0"`
	// ExpectedQuantity is what the listing check compares against.
	// When unset the requested NewQuantity is used.
	ExpectedQuantity *int          `yaml:"expectedQuantity,omitempty" validate:"omitempty,gte=0"`
	RequestTimeout   time.Duration `yaml:"requestTimeout" validate:"gte=0"`
	LogRequests      bool          `yaml:"logRequests"`
	LogResponses     bool          `yaml:"logResponses"`
	NoColor          bool          `yaml:"noColor"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		BaseURL: "http://localhost:8080",
		Credentials: client.Credentials{
			Username: "puja",
			Password: "mypassword",
		},
		Product:     client.NewProductPayload().Build(),
		NewQuantity: 15,
	}
}

// ListingQuantity is the quantity the product listing is expected to report.
func (c *Config) ListingQuantity() int {
	if c.ExpectedQuantity != nil {
		return *c.ExpectedQuantity
	}

	return c.NewQuantity
}

// ClientOptions returns the options for the API client.
func (c *Config) ClientOptions() client.Options {
	return client.Options{
		BaseURL:        c.BaseURL,
		RequestTimeout: c.RequestTimeout,
		LogRequests:    c.LogRequests,
		LogResponses:   c.LogResponses,
	}
}

// Options are the command line flags.
type Options struct {
	ConfigFile       string
	EnvFile          string
	BaseURL          string
	Username         string
	Password         string
	ProductName      string
	NewQuantity      int
	ExpectedQuantity int
	RequestTimeout   time.Duration
	LogRequests      bool
	LogResponses     bool
	NoColor          bool

	flags *pflag.FlagSet
}

// AddFlags registers the flags with the given flag set.  Only flags the
// user actually set take part in Load, so defaults here are for help text.
func (o *Options) AddFlags(f *pflag.FlagSet) {
	defaults := Default()

	f.StringVar(&o.ConfigFile, "config", "", "Path to a YAML configuration file.")
	f.StringVar(&o.EnvFile, "env-file", ".env", "Path to a dotenv file, ignored if absent.")
	f.StringVar(&o.BaseURL, "base-url", defaults.BaseURL, "Base address of the API under test.")
	f.StringVar(&o.Username, "username", defaults.Credentials.Username, "Username to register and log in with.")
	f.StringVar(&o.Password, "password", defaults.Credentials.Password, "Password to register and log in with.")
	f.StringVar(&o.ProductName, "product-name", defaults.Product.Name, "Name of the product to create and look for.")
	f.IntVar(&o.NewQuantity, "new-quantity", defaults.NewQuantity, "Quantity to set on the created product.")
	f.IntVar(&o.ExpectedQuantity, "expected-quantity", defaults.NewQuantity, "Quantity the listing must report, defaults to --new-quantity.")
	f.DurationVar(&o.RequestTimeout, "request-timeout", 0, "Per request timeout, 0 disables it.")
	f.BoolVar(&o.LogRequests, "log-requests", false, "Log every request at debug level.")
	f.BoolVar(&o.LogResponses, "log-responses", false, "Log every response body at debug level.")
	f.BoolVar(&o.NoColor, "no-color", false, "Disable coloured output.")

	o.flags = f
}

// Load merges, in increasing order of precedence, the defaults, the YAML
// file, the dotenv file and process environment, then any flags that were
// explicitly set.  The result is validated.
func Load(o *Options) (*Config, error) {
	config := Default()

	if o.ConfigFile != "" {
		if err := loadFile(o.ConfigFile, config); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFile(o.EnvFile); err != nil {
		return nil, err
	}

	applyEnvironment(config)
	o.apply(config)

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		// Absent files are fine, CI sets the environment directly.
		return nil //nolint:nilerr
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}

	return nil
}

func applyEnvironment(config *Config) {
	config.BaseURL = getStringWithDefault("SMOKE_BASE_URL", config.BaseURL)
	config.Credentials.Username = getStringWithDefault("SMOKE_USERNAME", config.Credentials.Username)
	config.Credentials.Password = getStringWithDefault("SMOKE_PASSWORD", config.Credentials.Password)
	config.Product.Name = getStringWithDefault("SMOKE_PRODUCT_NAME", config.Product.Name)
	config.NewQuantity = getIntWithDefault("SMOKE_NEW_QUANTITY", config.NewQuantity)
	config.RequestTimeout = getDurationWithDefault("SMOKE_REQUEST_TIMEOUT", config.RequestTimeout)
	config.LogRequests = getBoolWithDefault("SMOKE_LOG_REQUESTS", config.LogRequests)
	config.LogResponses = getBoolWithDefault("SMOKE_LOG_RESPONSES", config.LogResponses)
	config.NoColor = getBoolWithDefault("SMOKE_NO_COLOR", config.NoColor)

	if value, ok := os.LookupEnv("SMOKE_EXPECTED_QUANTITY"); ok {
		if quantity, err := strconv.Atoi(value); err == nil {
			config.ExpectedQuantity = ptr.To(quantity)
		}
	}
}

func (o *Options) apply(config *Config) {
	if o.flags == nil {
		return
	}

	changed := o.flags.Changed

	if changed("base-url") {
		config.BaseURL = o.BaseURL
	}

	if changed("username") {
		config.Credentials.Username = o.Username
	}

	if changed("password") {
		config.Credentials.Password = o.Password
	}

	if changed("product-name") {
		config.Product.Name = o.ProductName
	}

	if changed("new-quantity") {
		config.NewQuantity = o.NewQuantity
	}

	if changed("expected-quantity") {
		config.ExpectedQuantity = ptr.To(o.ExpectedQuantity)
	}

	if changed("request-timeout") {
		config.RequestTimeout = o.RequestTimeout
	}

	if changed("log-requests") {
		config.LogRequests = o.LogRequests
	}

	if changed("log-responses") {
		config.LogResponses = o.LogResponses
	}

	if changed("no-color") {
		config.NoColor = o.NoColor
	}
}

// getStringWithDefault gets a string from environment variable or returns default.
func getStringWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getIntWithDefault gets an integer from environment variable or returns default.
func getIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// Validate checks the configuration, reporting every offending field at once.
func Validate(config *Config) error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validating configuration: %w", err)
	}

	invalid := make([]string, 0, len(validationErrors))

	for _, fieldError := range validationErrors {
		invalid = append(invalid, fmt.Sprintf("%s (%s)", strings.TrimPrefix(fieldError.Namespace(), "Config."), fieldError.Tag()))
	}

	sort.Strings(invalid)

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(invalid, ", "))
}
