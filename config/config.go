package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const DefaultUpstreamBaseURL = "https://api.spaceflightnewsapi.net/v3"

// Config는 서버 실행에 필요한 설정 값입니다.
type Config struct {
	Addr              string        `mapstructure:"addr"`
	UpstreamBaseURL   string        `mapstructure:"upstream_base_url"`
	UpstreamTimeout   time.Duration `mapstructure:"upstream_timeout"` // 0이면 타임아웃 없음
	UpstreamRPS       float64       `mapstructure:"upstream_rps"`     // 0이면 제한 없음
	CORSAllowedOrigin string        `mapstructure:"cors_allowed_origin"`
	LogLevel          string        `mapstructure:"log_level"`
}

// 설정 키 -> 플래그 이름
var flagNames = map[string]string{
	"addr":                "addr",
	"upstream_base_url":   "upstream-base-url",
	"upstream_timeout":    "upstream-timeout",
	"upstream_rps":        "upstream-rps",
	"cors_allowed_origin": "cors-allowed-origin",
	"log_level":           "log-level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("upstream_base_url", DefaultUpstreamBaseURL)
	v.SetDefault("upstream_timeout", time.Duration(0))
	v.SetDefault("upstream_rps", 0.0)
	v.SetDefault("cors_allowed_origin", "*")
	v.SetDefault("log_level", "info")
}

// Load는 envFile(.env)을 먼저 읽고 환경 변수, 플래그 순으로 덮어쓴 설정을 반환합니다.
// envFile이 없어도 오류가 아닙니다. flags는 nil이어도 됩니다.
func Load(envFile string, flags *pflag.FlagSet) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagNames {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.UpstreamBaseURL)
	if err != nil {
		return fmt.Errorf("upstream_base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream_base_url must be an absolute http(s) URL, got %q", c.UpstreamBaseURL)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("upstream_timeout must be >= 0, got %s", c.UpstreamTimeout)
	}
	if c.UpstreamRPS < 0 {
		return fmt.Errorf("upstream_rps must be >= 0, got %v", c.UpstreamRPS)
	}
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	return nil
}

// RegisterFlags는 serve 명령에 설정 플래그를 추가합니다. 기본값은 Load의 기본값과 같습니다.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("addr", ":8080", "listen address")
	flags.String("upstream-base-url", DefaultUpstreamBaseURL, "article API base URL")
	flags.Duration("upstream-timeout", 0, "timeout for each upstream call (0 = none)")
	flags.Float64("upstream-rps", 0, "upstream requests per second (0 = unlimited)")
	flags.String("cors-allowed-origin", "*", "Access-Control-Allow-Origin value")
	flags.String("log-level", "info", "debug, info, warn or error")
}
