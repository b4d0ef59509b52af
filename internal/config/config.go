// Package config loads the routedecor server configuration from a YAML file
// and ROUTEDECOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/toyz/routedecor/pkg/routedecor"
)

// EnvPrefix prefixes every environment override, e.g. ROUTEDECOR_SERVER_PORT.
const EnvPrefix = "ROUTEDECOR"

// Strategy names accepted under controllers.strategy
const (
	StrategyDirect    = "direct"
	StrategyContainer = "container"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Controllers ControllersConfig `mapstructure:"controllers"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Adapter string `mapstructure:"adapter" validate:"oneof=echo gin fiber"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
	// Prefix mounts every controller under a route group
	Prefix string `mapstructure:"prefix" validate:"omitempty,startswith=/"`
}

type ControllersConfig struct {
	// Expression selects catalog modules; derived from Strategy when empty
	Expression string `mapstructure:"expression" validate:"omitempty,glob"`
	Strategy   string `mapstructure:"strategy" validate:"oneof=direct container"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

// Addr is the listen address of the server
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// ControllerExpression returns the configured expression, or the demo
// catalog branch matching the strategy.
func (c ControllersConfig) ControllerExpression() string {
	if c.Expression != "" {
		return c.Expression
	}
	return "demo/" + c.Strategy + "/**"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.adapter", "echo")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.prefix", "")
	v.SetDefault("controllers.expression", "")
	v.SetDefault("controllers.strategy", StrategyContainer)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads path when given, otherwise looks for routedecor.yaml in the
// working directory. A missing default file is not an error. Environment
// variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("routedecor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return routedecor.ValidExpression(fl.Field().String())
	})
	return v
}

// Validate checks every field and joins the failures into one error
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msg := fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (param=%s)", e.Param())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
