package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "GROUPMEMO"

type AppConfig struct {
	v *viper.Viper
}

func NewAppConfig() *AppConfig {
	c := &AppConfig{v: viper.New()}

	setDefaults(c.v)

	return c
}

// Load reads the first readable file. Missing files are logged and skipped.
func (c *AppConfig) Load(filename ...string) bool {
	for _, name := range filename {
		if name == "" {
			continue
		}

		c.v.SetConfigFile(name)

		if err := c.v.ReadInConfig(); err != nil {
			slog.Info("error loading config", "file", name, "error", err.Error())
			continue
		}

		return true
	}

	return false
}

// LoadEnv maps GROUPMEMO_TOKEN_SECRET to token.secret and so on.
func (c *AppConfig) LoadEnv(prefix string) {
	c.v.SetEnvPrefix(prefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()
}

func (c *AppConfig) BindFlags(fs *pflag.FlagSet) error {
	return c.v.BindPFlags(fs)
}

// Watch calls fn on every change of the loaded config file.
func (c *AppConfig) Watch(fn func(c *AppConfig)) {
	c.v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config changed", "file", e.Name, "op", e.Op.String())
		fn(c)
	})
	c.v.WatchConfig()
}

func (c *AppConfig) Bool(key string) bool {
	return c.v.GetBool(key)
}

func (c *AppConfig) String(key string) string {
	return c.v.GetString(key)
}

func (c *AppConfig) Int(key string) int {
	return c.v.GetInt(key)
}

func (c *AppConfig) Duration(key string) time.Duration {
	return c.v.GetDuration(key)
}

func (c *AppConfig) Set(key string, v any) {
	c.v.Set(key, v)
}

func (c *AppConfig) Addr() string {
	return c.v.GetString("addr")
}

func (c *AppConfig) DB() string {
	return c.v.GetString("db")
}

func (c *AppConfig) DBDebug() bool {
	return c.v.GetBool("db_debug")
}

func (c *AppConfig) Origin() string {
	return strings.TrimRight(c.v.GetString("origin"), "/")
}

func (c *AppConfig) TokenSecret() string {
	return c.v.GetString("token.secret")
}

func (c *AppConfig) TokenTTL() time.Duration {
	return c.v.GetDuration("token.ttl")
}

func (c *AppConfig) UsersFile() string {
	return c.v.GetString("users_file")
}

func (c *AppConfig) LogLevel() slog.Level {
	var l slog.Level

	if err := l.UnmarshalText([]byte(c.v.GetString("log_level"))); err != nil {
		return slog.LevelInfo
	}

	return l
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("db", "groupmemo.sqlite")
	v.SetDefault("db_debug", false)
	v.SetDefault("origin", "")
	v.SetDefault("token.secret", "")
	v.SetDefault("token.ttl", time.Hour*24*7)
	v.SetDefault("users_file", "users.yml")
	v.SetDefault("log_level", "info")
}
