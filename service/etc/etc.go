package etc

import (
	"bytes"
	_ "embed"
	"strings"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var Config *Configuration

//go:embed config.sample.yaml
var DefaultConfig []byte

// Configuration is the Configuration structure.
type Configuration struct {
	LogLevel string `mapstructure:"log_level"`

	// Listen is the address of the HTTP API.
	Listen string `mapstructure:"listen"`

	Judges map[string]struct {
		Host  string `mapstructure:"host"`
		Token string `mapstructure:"token"`

		// Timeout bounds every request sent to the judge.
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"judges"`

	Poll struct {
		Interval       time.Duration `mapstructure:"interval"`
		MaxAttempts    int           `mapstructure:"max_attempts"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
	} `mapstructure:"poll"`

	Translation struct {
		Endpoint string        `mapstructure:"endpoint"`
		Locale   string        `mapstructure:"locale"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"translation"`

	Cache struct {
		// ResultTTL is how long finished views are kept in redis.
		ResultTTL time.Duration `mapstructure:"result_ttl"`
	} `mapstructure:"cache"`

	Database struct {
		Redis struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"database"`
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	case "fatal":
		log.SetLevel(log.FatalLevel)
	case "panic":
		log.SetLevel(log.PanicLevel)
	default:
		log.WithField("level", level).Fatal("Invalid log level")
	}
}

// decode is shared by viper for every unmarshal so durations like "500ms" are
// accepted in the YAML file and in the environment.
func decode(dc *mapstructure.DecoderConfig) {
	dc.ErrorUnused = true
	dc.ZeroFields = true
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Load reads the configuration from v. The embedded sample is used when no
// config file can be found.
func Load(v *viper.Viper) (*Configuration, error) {
	if err := v.ReadInConfig(); err != nil {
		log.WithError(err).Warning("Failed to read config, use default config")
		if err := v.ReadConfig(bytes.NewReader(DefaultConfig)); err != nil {
			return nil, err
		}
	}
	var c Configuration
	if err := v.UnmarshalExact(&c, decode); err != nil {
		return nil, err
	}
	return &c, nil
}

// newViper looks for config.yaml and reads overrides from JUDGEWATCH_* env
// vars, nested keys joined by "_" (poll.interval is JUDGEWATCH_POLL_INTERVAL).
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/judgewatch/")
	v.AddConfigPath(".")
	v.SetEnvPrefix("judgewatch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func loadConfig() {
	c, err := Load(newViper())
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	Config = c
}

func init() {
	log.SetFormatter(&nested.Formatter{})
	loadConfig()
	setLogLevel(Config.LogLevel)
	log.Info("Loaded config")
}
