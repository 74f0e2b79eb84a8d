// Package fsx 提供导出文件的原子写入（临时文件 + rename）。
package fsx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// 测试用：替换 rename 以模拟失败。
var renameFunc = os.Rename

// PathTypeConflictError 表示目标路径已存在但不是普通文件（例如是目录）。
type PathTypeConflictError struct {
	Path string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("出力先 %q はファイルではありません（%s）", e.Path, e.Got)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// ExistsError 表示目标文件已存在且未允许覆盖。
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("出力先 %q は既に存在します（上書きする場合は --overwrite を指定してください）", e.Path)
}

func (e *ExistsError) Is(target error) bool { return target == os.ErrExist }

// WriteFile 原子写入 path。overwrite=false 时目标已存在即失败（*ExistsError，可 errors.Is(os.ErrExist)）。
//
// 失败时不会留下临时文件，也不会留下写了一半的目标文件。
func WriteFile(path string, data []byte, overwrite bool) error {
	path = filepath.Clean(path)
	if fi, err := os.Lstat(path); err == nil {
		switch {
		case fi.IsDir():
			return &PathTypeConflictError{Path: path, Got: "dir"}
		case !fi.Mode().IsRegular():
			return &PathTypeConflictError{Path: path, Got: fi.Mode().Type().String()}
		case !overwrite:
			return &ExistsError{Path: path}
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// 临时文件必须与目标同目录，rename 才是原子的。
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := renameFunc(tmpName, path); err != nil {
		return err
	}

	_ = syncDir(dir)
	return nil
}

func syncDir(dir string) error {
	// Windows 上目录 Sync 不可靠，跳过。
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
