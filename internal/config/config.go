package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Versifine/dune/internal/logger"
	"github.com/Versifine/dune/internal/protocol"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Client  ClientConfig  `yaml:"client"`
	Session SessionConfig `yaml:"session"`
	Driver  DriverConfig  `yaml:"driver"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Record  RecordConfig  `yaml:"record"`
	Proxy   ProxyConfig   `yaml:"proxy"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type ClientConfig struct {
	Username        string `yaml:"username"`
	ProtocolVersion int32  `yaml:"protocol_version"`
}

type SessionConfig struct {
	MaxFrameSize   int `yaml:"max_frame_size"`
	ReadBufferSize int `yaml:"read_buffer_size"`
}

type DriverConfig struct {
	PollTimeout time.Duration `yaml:"poll_timeout"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Logger converts the section into logger.Config.
func (l LoggingConfig) Logger() logger.Config {
	return logger.Config{
		Level:      l.Level,
		Format:     l.Format,
		File:       l.File,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
	}
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Listen    string `yaml:"listen"`
	Namespace string `yaml:"namespace"`
}

type RecordConfig struct {
	// Path of the recording file; empty disables recording.
	Path string `yaml:"path"`
}

type ProxyConfig struct {
	Listen  string `yaml:"listen"`
	Backend string `yaml:"backend"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 25565},
		Client: ClientConfig{Username: "dune", ProtocolVersion: protocol.CurrentProtocolVersion},
		Session: SessionConfig{
			MaxFrameSize:   protocol.MaxPacketSize,
			ReadBufferSize: 4096,
		},
		Driver:  DriverConfig{PollTimeout: time.Second},
		Logging: LoggingConfig{Level: "info", Format: "console", MaxSize: 64, MaxBackups: 3},
		Metrics: MetricsConfig{Listen: "127.0.0.1:9100", Namespace: "dune"},
		Proxy:   ProxyConfig{Listen: "127.0.0.1:25566", Backend: "127.0.0.1:25565"},
	}
}

// Load reads path over Default and validates the result. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Host == "" {
		errs = append(errs, errors.New("server.host is empty"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if n := len(c.Client.Username); n == 0 || n > 16 {
		errs = append(errs, fmt.Errorf("client.username %q must be 1-16 bytes", c.Client.Username))
	}
	if c.Session.MaxFrameSize <= 0 {
		errs = append(errs, fmt.Errorf("session.max_frame_size %d must be positive", c.Session.MaxFrameSize))
	}
	if c.Session.ReadBufferSize <= 0 {
		errs = append(errs, fmt.Errorf("session.read_buffer_size %d must be positive", c.Session.ReadBufferSize))
	}
	if c.Driver.PollTimeout < 0 {
		errs = append(errs, fmt.Errorf("driver.poll_timeout %s is negative", c.Driver.PollTimeout))
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if !logger.ValidFormat(c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format %q is not console, text or json", c.Logging.Format))
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errs = append(errs, errors.New("metrics.listen is empty"))
	}
	return errors.Join(errs...)
}
