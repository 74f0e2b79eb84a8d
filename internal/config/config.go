package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/latekan/internal/domain"
	"github.com/John-Robertt/latekan/internal/fit"
)

const (
	// ErrCodeNotFound 表示 --config 显式指定的文件不存在。
	ErrCodeNotFound = domain.ErrCodeConfigNotFound
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = domain.ErrCodeConfigInvalid
	// ErrCodeLengthsInvalid 表示文字数模式不是逗号分隔的整数。
	ErrCodeLengthsInvalid = domain.ErrCodeLengthsInvalid
	// ErrCodeInputMissing 表示 run 时没有指定 EPG 文件。
	ErrCodeInputMissing = domain.ErrCodeInputMissing
)

const (
	// DefaultLengths 是文字数模式的内置默认值。
	DefaultLengths = "10,5,4,3"
	// DefaultAddr 是 serve 的默认监听地址。
	DefaultAddr = ":8080"
	// DefaultMaxUploadMB 是上传文件大小上限（MB）。
	DefaultMaxUploadMB = 10
	// DefaultRateLimitRPS 是 /api 的全局限速（每秒请求数；0 表示关闭）。
	DefaultRateLimitRPS = 10
	// DefaultCSVName 是 CSV 下载的文件名。
	DefaultCSVName = "latekans.csv"
)

// 未指定 --config 时，按顺序在 cwd 下查找（可选）。
var discoverNames = []string{"latekan.json", "latekan.yaml", "latekan.yml"}

// MarkFlags 记录 CLI 上显式指定的标记；nil 表示未指定（沿用配置文件）。
// 这样 --new=false 才能覆盖配置里的 new: true。
type MarkFlags struct {
	Subtitled *bool
	Dubbed    *bool
	New       *bool
	Final     *bool
}

// CLIArgs 是 CLI 暴露的入口参数，并保留“是否显式指定”的信息。
type CLIArgs struct {
	ConfigPath string
	Input      string

	Lengths    string
	LengthsSet bool

	Marks MarkFlags

	Writer    string
	WriterSet bool

	ShortTitle    string
	ShortTitleSet bool

	CSV    string
	CSVSet bool

	Overwrite    bool
	OverwriteSet bool

	Truncate    string
	TruncateSet bool

	Addr    string
	AddrSet bool
}

// FileConfig 对应 latekan.json / latekan.yaml。
type FileConfig struct {
	Input      string                   `json:"input" yaml:"input"`
	Lengths    LengthList               `json:"lengths" yaml:"lengths"`
	Marks      *MarksConfig             `json:"marks" yaml:"marks"`
	Writer     string                   `json:"writer" yaml:"writer"`
	ShortTitle string                   `json:"short_title" yaml:"short_title"`
	Positions  map[string]PositionValue `json:"positions" yaml:"positions"`
	Truncate   string                   `json:"truncate" yaml:"truncate"`
	CSV        string                   `json:"csv" yaml:"csv"`
	Overwrite  *bool                    `json:"overwrite" yaml:"overwrite"`
	Server     *ServerFileConfig        `json:"server" yaml:"server"`
}

type MarksConfig struct {
	Subtitled bool `json:"subtitled" yaml:"subtitled"`
	Dubbed    bool `json:"dubbed" yaml:"dubbed"`
	New       bool `json:"new" yaml:"new"`
	Final     bool `json:"final" yaml:"final"`
}

type ServerFileConfig struct {
	Addr         string `json:"addr" yaml:"addr"`
	RateLimitRPS *int   `json:"rate_limit_rps" yaml:"rate_limit_rps"`
	MaxUploadMB  int    `json:"max_upload_mb" yaml:"max_upload_mb"`
}

// ServerConfig 是 serve 子命令的最终配置。
type ServerConfig struct {
	Addr           string
	RateLimitRPS   int
	MaxUploadBytes int64
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	ConfigPath string // 实际加载的配置文件；未加载时为空

	Input string // 绝对路径；serve 时可为空

	Lengths    []int
	Marks      domain.MarkSet
	Writer     string
	ShortTitle string

	Layout   domain.Layout
	Truncate fit.Mode

	// CSVPath：空表示不导出；"-" 表示写到 stdout；其他为绝对路径。
	CSVPath   string
	Overwrite bool

	Server ServerConfig
}

// Request 把配置转换为核心流程的不可变请求。
func (e EffectiveConfig) Request() domain.Request {
	return domain.Request{
		Lengths:    append([]int(nil), e.Lengths...),
		Marks:      e.Marks,
		Writer:     e.Writer,
		ShortTitle: e.ShortTitle,
		Layout:     e.Layout.Clone(),
		Truncate:   string(e.Truncate),
	}
}

// RequireInput 校验 run 所需的输入文件已指定。
func (e EffectiveConfig) RequireInput() error {
	if strings.TrimSpace(e.Input) == "" {
		return &Error{Code: ErrCodeInputMissing, Err: errors.New("EPGファイルを指定してください（例：latekan run epg.xlsx）")}
	}
	return nil
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：設定ファイル %q が見つかりません", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：設定ファイル %q が不正です：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：設定ファイル %q が不正です", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则：
// 1) CLI 提供 --config：必须存在
// 2) 否则依次尝试 <cwd>/latekan.json、latekan.yaml、latekan.yml（均可选）
//
// 覆盖优先级：CLI（显式指定）> 配置文件 > 内置默认。
// 文字数模式在这里就做校验：格式错误时后续一切处理都不会开始。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	var (
		cfgPath string
		fc      FileConfig
	)

	if strings.TrimSpace(cli.ConfigPath) != "" {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
		var exists bool
		fc, exists, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		if !exists {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
		}
	} else {
		for _, name := range discoverNames {
			p := filepath.Join(cwdAbs, name)
			c, exists, e := readFileConfig(p)
			if e != nil {
				return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: p, Err: e}
			}
			if exists {
				cfgPath, fc = p, c
				break
			}
		}
	}

	eff, err := merge(cwdAbs, cli, fc, cfgPath)
	if err != nil {
		return EffectiveConfig{}, err
	}
	eff.ConfigPath = cfgPath
	return eff, nil
}

func merge(cwdAbs string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// lengths：CLI > config > 默认
	rawLengths := DefaultLengths
	if cli.LengthsSet {
		rawLengths = cli.Lengths
	} else if fc.Lengths.Set {
		rawLengths = fc.Lengths.Raw
	}
	lengths, err := ParseLengths(rawLengths)
	if err != nil {
		return EffectiveConfig{}, err
	}

	var marks domain.MarkSet
	if fc.Marks != nil {
		marks = domain.MarkSet{
			Subtitled: fc.Marks.Subtitled,
			Dubbed:    fc.Marks.Dubbed,
			New:       fc.Marks.New,
			Final:     fc.Marks.Final,
		}
	}
	overrideBool(&marks.Subtitled, cli.Marks.Subtitled)
	overrideBool(&marks.Dubbed, cli.Marks.Dubbed)
	overrideBool(&marks.New, cli.Marks.New)
	overrideBool(&marks.Final, cli.Marks.Final)

	writer := fc.Writer
	if cli.WriterSet {
		writer = cli.Writer
	}

	shortTitle := strings.TrimSpace(fc.ShortTitle)
	if cli.ShortTitleSet {
		shortTitle = strings.TrimSpace(cli.ShortTitle)
	}

	rawTruncate := fc.Truncate
	if cli.TruncateSet {
		rawTruncate = cli.Truncate
	}
	mode, err := fit.ParseMode(rawTruncate)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	layout, err := buildLayout(fc.Positions)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	input := strings.TrimSpace(fc.Input)
	if strings.TrimSpace(cli.Input) != "" {
		input = cli.Input
	}
	if input != "" {
		input = absCleanFrom(cwdAbs, input)
	}

	csvPath := strings.TrimSpace(fc.CSV)
	if cli.CSVSet {
		csvPath = strings.TrimSpace(cli.CSV)
	}
	if csvPath != "" && csvPath != "-" {
		csvPath = absCleanFrom(cwdAbs, csvPath)
	}

	overwrite := false
	if cli.OverwriteSet {
		overwrite = cli.Overwrite
	} else if fc.Overwrite != nil {
		overwrite = *fc.Overwrite
	}

	srv, err := buildServer(cli, fc.Server)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return EffectiveConfig{
		Input:      input,
		Lengths:    lengths,
		Marks:      marks,
		Writer:     writer,
		ShortTitle: shortTitle,
		Layout:     layout,
		Truncate:   mode,
		CSVPath:    csvPath,
		Overwrite:  overwrite,
		Server:     srv,
	}, nil
}

func buildLayout(positions map[string]PositionValue) (domain.Layout, error) {
	layout := domain.DefaultLayout()
	known := make(map[domain.Field]struct{}, len(layout))
	for _, f := range domain.Fields() {
		known[f] = struct{}{}
	}
	for name, pv := range positions {
		f := domain.Field(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := known[f]; !ok {
			return nil, fmt.Errorf("positions に未知の項目があります：%q", name)
		}
		layout[f] = pv.Position
	}
	return layout, nil
}

func buildServer(cli CLIArgs, sc *ServerFileConfig) (ServerConfig, error) {
	out := ServerConfig{
		Addr:           DefaultAddr,
		RateLimitRPS:   DefaultRateLimitRPS,
		MaxUploadBytes: DefaultMaxUploadMB << 20,
	}
	if sc != nil {
		if a := strings.TrimSpace(sc.Addr); a != "" {
			out.Addr = a
		}
		if sc.RateLimitRPS != nil {
			if *sc.RateLimitRPS < 0 {
				return ServerConfig{}, fmt.Errorf("server.rate_limit_rps は 0 以上で指定してください：%d", *sc.RateLimitRPS)
			}
			out.RateLimitRPS = *sc.RateLimitRPS
		}
		if sc.MaxUploadMB < 0 {
			return ServerConfig{}, fmt.Errorf("server.max_upload_mb は 0 以上で指定してください：%d", sc.MaxUploadMB)
		}
		if sc.MaxUploadMB > 0 {
			out.MaxUploadBytes = int64(sc.MaxUploadMB) << 20
		}
	}
	if cli.AddrSet && strings.TrimSpace(cli.Addr) != "" {
		out.Addr = strings.TrimSpace(cli.Addr)
	}
	return out, nil
}

func overrideBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析配置文件（.json 用 encoding/json，.yaml/.yml 用 yaml.v3）。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &fc)
	default:
		err = json.Unmarshal(b, &fc)
	}
	if err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
