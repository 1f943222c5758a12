package config

import (
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"io/fs"
	"reflect"
	"strings"
	"time"
)

type LookupConfig struct {
	URL        string        `mapstructure:"URL" validate:"required,url"`
	Timeout    time.Duration `mapstructure:"TIMEOUT" validate:"gt=0"`
	Retries    int           `mapstructure:"RETRIES" validate:"gte=0,lte=10"`
	Padding    bool          `mapstructure:"PADDING"`
	CacheTTL   time.Duration `mapstructure:"CACHE_TTL" validate:"gte=0"`
	CacheSize  int64         `mapstructure:"CACHE_SIZE" validate:"gt=0"`
	FailClosed bool          `mapstructure:"FAIL_CLOSED"`
	Proxy      string        `mapstructure:"PROXY" validate:"omitempty,url"`
	UserAgent  string        `mapstructure:"USER_AGENT" validate:"required"`
}

type ServerConfig struct {
	Port     uint16        `mapstructure:"PORT" validate:"required"`
	SelfTLS  bool          `mapstructure:"SELF_TLS" validate:"required_without_all=TLSCert TLSKey"`
	TLSCert  string        `mapstructure:"TLS_CERT" validate:"required_if=SelfTLS false,required_with=TLSKey"`
	TLSKey   string        `mapstructure:"TLS_KEY" validate:"required_if=SelfTLS false,required_with=TLSCert"`
	Debounce time.Duration `mapstructure:"DEBOUNCE" validate:"gte=0"`
}

type HandoffConfig struct {
	TTL        time.Duration `mapstructure:"TTL" validate:"gt=0"`
	MaxEntries int64         `mapstructure:"MAX_ENTRIES" validate:"gt=0"`
	RedisURL   string        `mapstructure:"REDIS_URL" validate:"omitempty,url"`
}

type Config struct {
	Debug   bool          `mapstructure:"DEBUG"`
	Lookup  LookupConfig  `mapstructure:"LOOKUP"`
	Server  ServerConfig  `mapstructure:"SERVER"`
	Handoff HandoffConfig `mapstructure:"HANDOFF"`
}

func setDefaults() {
	viper.SetDefault("LOOKUP.URL", "https://api.pwnedpasswords.com")
	viper.SetDefault("LOOKUP.TIMEOUT", 10*time.Second)
	viper.SetDefault("LOOKUP.RETRIES", 3)
	viper.SetDefault("LOOKUP.PADDING", true)
	viper.SetDefault("LOOKUP.CACHE_TTL", 10*time.Minute)
	viper.SetDefault("LOOKUP.CACHE_SIZE", 4096)
	viper.SetDefault("LOOKUP.USER_AGENT", "pwd-analyzer/1.0")
	viper.SetDefault("SERVER.PORT", 3100)
	viper.SetDefault("SERVER.DEBOUNCE", time.Second)
	viper.SetDefault("HANDOFF.TTL", 2*time.Minute)
	viper.SetDefault("HANDOFF.MAX_ENTRIES", 1024)
}

func bindEnvs(iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch v.Kind() {
		case reflect.Struct:
			bindEnvs(v.Interface(), append(parts, tv)...)
		default:
			_ = viper.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_without_all":
		return fmt.Sprintf("This field is required if fields [%s] are missing", util.ToScreamingSnakeCase(fe.Param()))
	case "required_if":
		return fmt.Sprintf("This field is required if %s", util.ToScreamingSnakeCase(fe.Param()))
	case "required_with":
		return fmt.Sprintf("This field requires the presence of %s", util.ToScreamingSnakeCase(fe.Param()))
	case "url":
		return "This field must be a valid URL"
	case "gt", "gte", "lte":
		return fmt.Sprintf("This field must be %s %s", fe.Tag(), fe.Param())
	}
	return fe.Error() // default error
}

// envName turns a validator namespace (Config.Server.TLSCert) into the
// environment variable that sets it (SERVER_TLS_CERT).
func envName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = util.ToScreamingSnakeCase(p)
	}
	return strings.Join(parts, "_")
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("%s: %s", envName(fe), msgForTag(fe)))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ". "))
	}
	return fmt.Errorf("error validating configuration from environment: %w", err)
}

// Load reads the configuration from the environment, an optional .env file in
// the working directory and any flag bound to viper before calling it.
func Load() (config Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("error loading .env file: %w", err)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults()

	// I hate this, but it works.
	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	config = Config{}
	bindEnvs(config)

	if err = viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("error reading configuration: %w", err)
	}

	validate := validator.New()
	if err = validate.StructExcept(config, "Server"); err != nil {
		return config, validationError(err)
	}

	return config, nil
}

// ValidateServer checks the settings only the API server needs.
func (c Config) ValidateServer() error {
	if err := validator.New().Struct(c); err != nil {
		return validationError(err)
	}
	return nil
}
