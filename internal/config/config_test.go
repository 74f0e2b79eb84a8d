package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/John-Robertt/latekan/internal/domain"
	"github.com/John-Robertt/latekan/internal/fit"
)

func TestLoadEffective_Defaults(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if diff := cmp.Diff([]int{10, 5, 4, 3}, eff.Lengths); diff != "" {
		t.Fatalf("默认 lengths 不符 (-want +got):\n%s", diff)
	}
	if eff.ConfigPath != "" {
		t.Fatalf("未放置配置文件时不应加载任何配置，实际=%q", eff.ConfigPath)
	}
	if eff.Truncate != fit.ModeRune {
		t.Fatalf("期望默认 truncate=rune，实际=%q", eff.Truncate)
	}
	if diff := cmp.Diff(domain.DefaultLayout(), eff.Layout); diff != "" {
		t.Fatalf("默认布局不符 (-want +got):\n%s", diff)
	}
	if eff.Server.Addr != DefaultAddr || eff.Server.MaxUploadBytes != DefaultMaxUploadMB<<20 {
		t.Fatalf("server 默认值不符：%+v", eff.Server)
	}
}

func TestLoadEffective_ConfigNotFound(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{ConfigPath: "missing.json"})
	if Code(err) != ErrCodeNotFound {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeNotFound, err, Code(err))
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("期望可 errors.Is(os.ErrNotExist)，实际 err=%v", err)
	}
}

func TestLoadEffective_InvalidConfig(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "latekan.json"), []byte(`{`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_LengthsMergeOrder(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "latekan.json"), []byte(`{"lengths":[8,6]}`))

	// CLI 未指定 lengths，则应使用配置文件中的值。
	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if diff := cmp.Diff([]int{8, 6}, eff.Lengths); diff != "" {
		t.Fatalf("lengths 不符 (-want +got):\n%s", diff)
	}

	// CLI 显式指定，则覆盖配置文件。
	eff2, err := LoadEffective(cwd, CLIArgs{Lengths: "12", LengthsSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if diff := cmp.Diff([]int{12}, eff2.Lengths); diff != "" {
		t.Fatalf("lengths 不符 (-want +got):\n%s", diff)
	}
}

func TestLoadEffective_InvalidLengthsFailFast(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{Lengths: "10,abc", LengthsSet: true})
	if Code(err) != ErrCodeLengthsInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeLengthsInvalid, err, Code(err))
	}
}

func TestLoadEffective_MarksCLIOverride(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "latekan.yaml"), []byte("marks:\n  new: true\n  dubbed: true\nwriter: 佐藤\n"))

	off := false
	on := true
	eff, err := LoadEffective(cwd, CLIArgs{
		Marks: MarkFlags{New: &off, Final: &on}, // --new=false --final
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	want := domain.MarkSet{Dubbed: true, Final: true}
	if eff.Marks != want {
		t.Fatalf("期望 marks=%+v，实际=%+v", want, eff.Marks)
	}
	if eff.Writer != "佐藤" {
		t.Fatalf("期望 writer=佐藤，实际=%q", eff.Writer)
	}
	if filepath.Base(eff.ConfigPath) != "latekan.yaml" {
		t.Fatalf("期望加载 latekan.yaml，实际=%q", eff.ConfigPath)
	}
}

func TestLoadEffective_WriterPassedThrough(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "latekan.json"), []byte(`{"writer":" 編成部 "}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Writer != " 編成部 " {
		t.Fatalf("writer 应原样保留，实际=%q", eff.Writer)
	}

	eff, err = LoadEffective(cwd, CLIArgs{Writer: "  山田 ", WriterSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Writer != "  山田 " {
		t.Fatalf("CLI writer 应原样保留，实际=%q", eff.Writer)
	}
}

func TestLoadEffective_DiscoveryPrefersJSON(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "latekan.json"), []byte(`{"writer":"json"}`))
	writeFile(t, filepath.Join(cwd, "latekan.yml"), []byte("writer: yml\n"))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Writer != "json" {
		t.Fatalf("期望优先使用 latekan.json，实际 writer=%q", eff.Writer)
	}
}

func TestLoadEffective_Positions(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "latekan.json"), []byte(`{"positions":{"title":"C8","cast":{"row":3,"col":0}}}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if got := eff.Layout[domain.FieldTitle]; got != (domain.Position{Row: 7, Col: 2}) {
		t.Fatalf("期望 title=(7,2)，实际=%s", got)
	}
	if got := eff.Layout[domain.FieldCast]; got != (domain.Position{Row: 3, Col: 0}) {
		t.Fatalf("期望 cast=(3,0)，实际=%s", got)
	}
	// 未配置的字段保留默认位置。
	if got := eff.Layout[domain.FieldShortTitle]; got != (domain.Position{Row: 40, Col: 1}) {
		t.Fatalf("期望 short_title=(40,1)，实际=%s", got)
	}
}

func TestLoadEffective_UnknownPositionField(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "latekan.json"), []byte(`{"positions":{"genre":"A1"}}`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_InvalidTruncate(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{Truncate: "bytes", TruncateSet: true})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_PathsResolvedFromCwd(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "latekan.json"), []byte(`{"input":"epg/2024.xlsx","csv":"out.csv"}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if want := filepath.Join(cwd, "epg", "2024.xlsx"); eff.Input != want {
		t.Fatalf("期望 input=%q，实际=%q", want, eff.Input)
	}
	if want := filepath.Join(cwd, "out.csv"); eff.CSVPath != want {
		t.Fatalf("期望 csv=%q，实际=%q", want, eff.CSVPath)
	}

	// "-" 表示 stdout，不做路径解析。
	eff2, err := LoadEffective(cwd, CLIArgs{CSV: "-", CSVSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff2.CSVPath != "-" {
		t.Fatalf("期望 csv=-，实际=%q", eff2.CSVPath)
	}
}

func TestEffectiveConfig_RequireInput(t *testing.T) {
	err := EffectiveConfig{}.RequireInput()
	if Code(err) != ErrCodeInputMissing {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInputMissing, err, Code(err))
	}
	if err := (EffectiveConfig{Input: "/tmp/epg.xlsx"}).RequireInput(); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
}

func TestEffectiveConfig_RequestIsCopy(t *testing.T) {
	eff := EffectiveConfig{Lengths: []int{10}, Layout: domain.DefaultLayout(), Truncate: fit.ModeWidth}
	req := eff.Request()
	req.Lengths[0] = 99
	req.Layout[domain.FieldTitle] = domain.Position{}

	if eff.Lengths[0] != 10 {
		t.Fatalf("Request 不应共享 lengths 底层数组")
	}
	if eff.Layout[domain.FieldTitle] != (domain.Position{Row: 6, Col: 1}) {
		t.Fatalf("Request 不应共享 layout")
	}
	if req.Truncate != "width" {
		t.Fatalf("期望 truncate=width，实际=%q", req.Truncate)
	}
}

func TestParseLengths(t *testing.T) {
	cases := []struct {
		in   string
		want []int
	}{
		{"10,5,4,3", []int{10, 5, 4, 3}},
		{" 10 , 5 ", []int{10, 5}},
		{"10,,5,", []int{10, 5}},
		{"１０，５", []int{10, 5}},
		{"0,-3", []int{0, -3}},
	}
	for _, c := range cases {
		got, err := ParseLengths(c.in)
		if err != nil {
			t.Fatalf("ParseLengths(%q) 不期望错误：%v", c.in, err)
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Fatalf("ParseLengths(%q) (-want +got):\n%s", c.in, diff)
		}
	}

	for _, bad := range []string{"", " , ", "10,abc", "10.5"} {
		if _, err := ParseLengths(bad); Code(err) != ErrCodeLengthsInvalid {
			t.Fatalf("ParseLengths(%q) 期望 %q，实际 err=%v", bad, ErrCodeLengthsInvalid, err)
		}
	}
}

func TestParseCellName(t *testing.T) {
	pos, err := ParseCellName("b41")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if pos != (domain.Position{Row: 40, Col: 1}) {
		t.Fatalf("期望 (40,1)，实际=%s", pos)
	}
	if _, err := ParseCellName("41B"); err == nil {
		t.Fatalf("期望非法单元格名报错")
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
