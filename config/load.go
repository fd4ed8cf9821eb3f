package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads the optional .env files, then the process environment, and
// falls back to each field's env-default tag.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// a missing .env is normal outside local development
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	var cfg Config
	if err := decode(v, &cfg); err != nil {
		return cfg, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func decode(v *viper.Viper, cfg *Config) error {
	rv := reflect.ValueOf(cfg).Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		key := field.Tag.Get("env")
		if key == "" {
			continue
		}
		v.SetDefault(key, field.Tag.Get("env-default"))
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}

		target := rv.Field(i)
		switch {
		case field.Type == durationType:
			d, err := time.ParseDuration(v.GetString(key))
			if err != nil {
				return fmt.Errorf("invalid duration for %s: %w", key, err)
			}
			target.SetInt(int64(d))
		case field.Type.Kind() == reflect.String:
			target.SetString(v.GetString(key))
		case field.Type.Kind() == reflect.Int:
			target.SetInt(int64(v.GetInt(key)))
		case field.Type.Kind() == reflect.Bool:
			target.SetBool(v.GetBool(key))
		case field.Type.Kind() == reflect.Float64:
			target.SetFloat(v.GetFloat64(key))
		case field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.String:
			target.Set(reflect.ValueOf(splitList(v.GetString(key))))
		default:
			return fmt.Errorf("unsupported config field type %s for %s", field.Type, key)
		}
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DatabaseURL builds the connection string for the configured driver.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost, c.DatabasePort, c.DatabaseUserName, c.DatabasePassword, c.DatabaseName, c.DatabaseSSLMode)
}
