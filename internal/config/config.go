// Package config loads quatcalc settings from defaults, an optional config
// file, QUATCALC_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"hypercomplex/math"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. QUATCALC_EPSILON.
	EnvPrefix = "QUATCALC"

	KeyEpsilon  = "epsilon"
	KeyOutput   = "output"
	KeyIdentity = "identity"

	OutputText = "text"
	OutputJSON = "json"
)

// Config is the resolved quatcalc configuration.
type Config struct {
	// Epsilon is the default tolerance for approximate comparisons.
	Epsilon float32
	// Output selects how results are printed: "text" or "json".
	Output string
	// Identity seeds every mul product: "mul A B" prints Identity·A·B.
	Identity math.Quaternion
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyEpsilon, 1e-6)
	v.SetDefault(KeyOutput, OutputText)
	v.SetDefault(KeyIdentity, math.QuaternionIdentity().String())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path, when path is not empty, and resolves
// the final Config from v.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	identity, err := math.ParseQuaternion(v.GetString(KeyIdentity))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", KeyIdentity, err)
	}

	cfg := Config{
		Epsilon:  float32(v.GetFloat64(KeyEpsilon)),
		Output:   strings.ToLower(v.GetString(KeyOutput)),
		Identity: identity,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Epsilon < 0 {
		errs = append(errs, fmt.Errorf("epsilon must not be negative, got %v", c.Epsilon))
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", c.Output))
	}
	return errors.Join(errs...)
}
