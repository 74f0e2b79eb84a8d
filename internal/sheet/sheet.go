package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/latekan/internal/domain"
)

// Reader 把某种表格文件解析为 domain.Grid。
//
// 约束：
// - Read 只做解析，不做字段语义判断（字段位置由 domain.Layout 决定）
// - 多工作表文件只读第一个工作表
// - 结果里的缺失值占位由 domain.NewGrid 统一处理
type Reader interface {
	Name() string
	Extensions() []string
	Read(ctx context.Context, r io.Reader) (domain.Grid, error)
}

// Error 是读取阶段的可追溯错误。
// Stage："open"（打开文件失败）或 "parse"（文件内容无法解析）。
type Error struct {
	Format string
	Stage  string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("format=%s stage=%s: %v", e.Format, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// UnsupportedError 表示没有 Reader 能处理该扩展名。
type UnsupportedError struct {
	Name string
	Ext  string
}

func (e *UnsupportedError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("拡張子がありません：%q（対応形式：xlsx / csv / tsv / html）", e.Name)
	}
	return fmt.Sprintf("未対応のファイル形式です：%q（対応形式：xlsx / csv / tsv / html）", e.Ext)
}

// IsUnsupported 判断 err 是否为不支持的格式。
func IsUnsupported(err error) bool {
	var e *UnsupportedError
	return errors.As(err, &e)
}

// Registry 是 Reader 的只读注册表（按扩展名索引）。
type Registry struct {
	byExt  map[string]Reader
	byName map[string]Reader
}

func NewRegistry(readers ...Reader) (Registry, error) {
	byExt := make(map[string]Reader, len(readers)*2)
	byName := make(map[string]Reader, len(readers))
	for _, r := range readers {
		if r == nil {
			return Registry{}, fmt.Errorf("reader 不能为空")
		}
		name := strings.ToLower(strings.TrimSpace(r.Name()))
		if name == "" {
			return Registry{}, fmt.Errorf("reader.Name 不能为空")
		}
		if _, ok := byName[name]; ok {
			return Registry{}, fmt.Errorf("重复的 reader：%q", name)
		}
		byName[name] = r
		for _, ext := range r.Extensions() {
			ext = normExt(ext)
			if prev, ok := byExt[ext]; ok {
				return Registry{}, fmt.Errorf("扩展名 %q 同时注册给 %q 与 %q", ext, prev.Name(), name)
			}
			byExt[ext] = r
		}
	}
	return Registry{byExt: byExt, byName: byName}, nil
}

// DefaultRegistry 注册全部内置 Reader：xlsx / csv / tsv / html。
func DefaultRegistry() Registry {
	reg, err := NewRegistry(XLSX{}, CSV{}, TSV(), HTML{})
	if err != nil {
		// 内置 Reader 的扩展名互不重叠；走到这里说明代码有 bug。
		panic(err)
	}
	return reg
}

// Get 按名字查找 Reader。
func (r Registry) Get(name string) (Reader, bool) {
	if r.byName == nil {
		return nil, false
	}
	rd, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return rd, ok
}

// ForName 按文件名的扩展名查找 Reader。
func (r Registry) ForName(filename string) (Reader, error) {
	ext := normExt(filepath.Ext(filename))
	if ext == "" {
		return nil, &UnsupportedError{Name: filename}
	}
	rd, ok := r.byExt[ext]
	if !ok {
		return nil, &UnsupportedError{Name: filename, Ext: ext}
	}
	return rd, nil
}

// ReadNamed 用 filename 的扩展名挑选 Reader，并解析 src（HTTP 上传走这里）。
func (r Registry) ReadNamed(ctx context.Context, filename string, src io.Reader) (domain.Grid, string, error) {
	rd, err := r.ForName(filename)
	if err != nil {
		return domain.Grid{}, "", err
	}
	if err := ctx.Err(); err != nil {
		return domain.Grid{}, rd.Name(), err
	}
	g, err := rd.Read(ctx, src)
	if err != nil {
		return domain.Grid{}, rd.Name(), &Error{Format: rd.Name(), Stage: "parse", Err: err}
	}
	return g, rd.Name(), nil
}

// Open 打开本地文件并解析。
func (r Registry) Open(ctx context.Context, path string) (domain.Grid, string, error) {
	rd, err := r.ForName(path)
	if err != nil {
		return domain.Grid{}, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Grid{}, rd.Name(), &Error{Format: rd.Name(), Stage: "open", Err: err}
	}
	defer f.Close()
	return r.ReadNamed(ctx, path, f)
}

func normExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
