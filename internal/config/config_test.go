package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Versifine/dune/internal/protocol"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

// TestLoad 使用表驱动测试覆盖配置加载的核心场景
func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name: "正常加载有效YAML",
			content: `server:
  host: "mc.example.com"
  port: 25570
client:
  username: "Steve"
session:
  max_frame_size: 65536
driver:
  poll_timeout: 250ms
logging:
  level: "debug"
  format: "json"
  file: "dune.log"
metrics:
  enabled: true
  listen: ":9200"
record:
  path: "session.dune"
proxy:
  listen: ":25566"
  backend: "mc.example.com:25565"
`,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Server.Addr() != "mc.example.com:25570" {
					t.Errorf("Server.Addr() = %q, 期望 %q", cfg.Server.Addr(), "mc.example.com:25570")
				}
				if cfg.Client.Username != "Steve" {
					t.Errorf("Client.Username = %q, 期望 %q", cfg.Client.Username, "Steve")
				}
				if cfg.Session.MaxFrameSize != 65536 {
					t.Errorf("Session.MaxFrameSize = %d, 期望 65536", cfg.Session.MaxFrameSize)
				}
				if cfg.Driver.PollTimeout != 250*time.Millisecond {
					t.Errorf("Driver.PollTimeout = %v, 期望 250ms", cfg.Driver.PollTimeout)
				}
				if cfg.Logging.Format != "json" || cfg.Logging.File != "dune.log" {
					t.Errorf("Logging = %+v", cfg.Logging)
				}
				if !cfg.Metrics.Enabled || cfg.Metrics.Listen != ":9200" {
					t.Errorf("Metrics = %+v", cfg.Metrics)
				}
				if cfg.Record.Path != "session.dune" {
					t.Errorf("Record.Path = %q", cfg.Record.Path)
				}
				if cfg.Proxy.Backend != "mc.example.com:25565" {
					t.Errorf("Proxy.Backend = %q", cfg.Proxy.Backend)
				}
			},
		},
		{
			name:    "未指定的字段保留默认值",
			content: "client:\n  username: \"Alex\"\n",
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != 25565 {
					t.Errorf("Server.Port = %d, 期望默认值 25565", cfg.Server.Port)
				}
				if cfg.Client.ProtocolVersion != protocol.CurrentProtocolVersion {
					t.Errorf("Client.ProtocolVersion = %d, 期望 %d", cfg.Client.ProtocolVersion, protocol.CurrentProtocolVersion)
				}
				if cfg.Session.ReadBufferSize != 4096 {
					t.Errorf("Session.ReadBufferSize = %d, 期望 4096", cfg.Session.ReadBufferSize)
				}
				if cfg.Logging.Level != "info" {
					t.Errorf("Logging.Level = %q, 期望 info", cfg.Logging.Level)
				}
			},
		},
		{
			name:    "无效YAML应该返回错误",
			content: "server: [unclosed",
			wantErr: "yaml",
		},
		{
			name:    "端口越界",
			content: "server:\n  port: 70000\n",
			wantErr: "server.port",
		},
		{
			name:    "用户名过长",
			content: "client:\n  username: \"ThisNameIsWayTooLong\"\n",
			wantErr: "client.username",
		},
		{
			name:    "未知日志级别",
			content: "logging:\n  level: \"loud\"\n",
			wantErr: "logging.level",
		},
		{
			name:    "未知日志格式",
			content: "logging:\n  format: \"xml\"\n",
			wantErr: "logging.format",
		},
		{
			name:    "帧大小为零",
			content: "session:\n  max_frame_size: 0\n",
			wantErr: "session.max_frame_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.content))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Load() 应该返回错误")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Load() err = %v, 应包含 %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() 返回错误: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("Load() err = %v, 期望文件不存在错误", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") 返回错误: %v", err)
	}
	if cfg.Server.Addr() != "127.0.0.1:25565" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

// TestValidateJoinsErrors 所有问题一次性报告
func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Host = ""
	cfg.Metrics.Enabled = true
	cfg.Metrics.Listen = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() 应该返回错误")
	}
	for _, want := range []string{"server.host", "metrics.listen"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err = %v, 应包含 %q", err, want)
		}
	}
}

func TestLoggingConfigLogger(t *testing.T) {
	l := LoggingConfig{Level: "warn", Format: "text", File: "x.log", MaxSize: 5, Compress: true}.Logger()
	if l.Level != "warn" || l.Format != "text" || l.File != "x.log" || l.MaxSize != 5 || !l.Compress {
		t.Errorf("Logger() = %+v", l)
	}
}
