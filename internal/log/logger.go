// Package log 封装 zerolog：进程内只配置一次，其余代码按 component 取子 logger。
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config 是全局 logger 的配置。
type Config struct {
	Level  string    // debug/info/warn/error；空则读 LATEKAN_LOG_LEVEL，再空则为 warn
	Output io.Writer // 默认 os.Stderr（stdout 留给 JSON 报告 / CSV）
	Pretty bool      // 人类可读输出（TTY 时使用）
}

const FieldComponent = "component"

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
)

// Configure 替换全局 logger。CLI 在解析完 flag 后调用一次。
func Configure(cfg Config) {
	level := ParseLevel(cfg.Level)
	if strings.TrimSpace(cfg.Level) == "" {
		level = ParseLevel(os.Getenv("LATEKAN_LOG_LEVEL"))
	}
	zerolog.TimeFieldFormat = time.RFC3339

	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
	}

	l := zerolog.New(w).Level(level).With().Timestamp().Logger()

	mu.Lock()
	base = l
	mu.Unlock()
}

// ParseLevel 解析日志级别；非法或空值返回 warn。
func ParseLevel(s string) zerolog.Level {
	s = strings.TrimSpace(s)
	if s == "" {
		return zerolog.WarnLevel
	}
	lv, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || lv == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return lv
}

// Base 返回当前全局 logger。
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent 返回带 component 字段的子 logger。
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str(FieldComponent, component).Logger()
}
