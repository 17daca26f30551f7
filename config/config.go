// Package config loads the statestore application config from yml files and
// STATESTORE_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	AppName    = "statestore"
	EnvPrefix  = "STATESTORE"
	configType = "yml"
)

type Application struct {
	Debug   bool    `mapstructure:"debug"`
	Name    string  `mapstructure:"name"`
	Remote  Remote  `mapstructure:"remote"`
	Local   Local   `mapstructure:"local"`
	Metrics Metrics `mapstructure:"metrics"`
}

type Remote struct {
	//table name, derived from Name when empty
	Table            string `mapstructure:"table"`
	Region           string `mapstructure:"region"`
	Endpoint         string `mapstructure:"endpoint"`
	MaxRetries       int    `mapstructure:"max_retries"`
	FetchConcurrency int    `mapstructure:"fetch_concurrency"`
}

type Local struct {
	Dir         string `mapstructure:"dir"`
	Bucket      string `mapstructure:"bucket"`
	SegmentSize int64  `mapstructure:"segment_size"`
}

type Metrics struct {
	Prefix         string        `mapstructure:"prefix"`
	ListenAddr     string        `mapstructure:"listen_addr"`
	ReportInterval time.Duration `mapstructure:"report_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("name", "tron/state")
	v.SetDefault("remote.region", "us-west-1")
	v.SetDefault("remote.max_retries", 3)
	v.SetDefault("remote.fetch_concurrency", 4)
	v.SetDefault("local.dir", "./state")
	v.SetDefault("local.bucket", "state")
	v.SetDefault("local.segment_size", 64*1024*1024)
	v.SetDefault("metrics.prefix", AppName)
	v.SetDefault("metrics.report_interval", time.Second)
}

// New returns a viper instance with defaults, env binding and the config
// search path set up, nothing is read yet.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType(configType)
	v.AddConfigPath(".")
	v.AddConfigPath("./config/")
	v.SetConfigName(AppName)
	return v
}

// Load reads the config into v. file, when set, replaces the search path.
// A missing default config file is fine, defaults and env still apply;
// statestore-<env>.yml is merged on top when env is set.
func Load(v *viper.Viper, file string) (Application, error) {
	var application Application
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return application, errors.WithMessage(err, "failed to read config")
		}
	}
	if env := v.GetString("env"); env != "" && file == "" {
		v.SetConfigName(AppName + "-" + env)
		//the env specific file is optional
		_ = v.MergeInConfig()
	}
	if err := v.Unmarshal(&application); err != nil {
		return application, errors.WithMessage(err, "failed to unmarshal config")
	}
	return application, nil
}
