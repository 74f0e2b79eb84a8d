package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/latekan/internal/app/run"
	"github.com/John-Robertt/latekan/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的阶段输出。
//
// - 所有过程信息写到 stderr，不污染 stdout 的 JSON / CSV 输出
// - 事件驱动：run 层只发事件，CLI 决定如何展示
type progressUI struct {
	w io.Writer

	mu        sync.Mutex
	startedAt time.Time

	dim lipgloss.Style
}

func newProgressUI(w io.Writer) *progressUI {
	r := lipgloss.NewRenderer(w)
	return &progressUI{
		w:   w,
		dim: r.NewStyle().Faint(true),
	}
}

func (p *progressUI) OnStart(source string, req domain.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.startedAt = now

	fmt.Fprintf(p.w, "[%s] latekan run\n", now.Format("15:04:05"))
	fmt.Fprintln(p.w, "設定（有効値）:")
	fmt.Fprintf(p.w, "  input: %s\n", source)
	fmt.Fprintf(p.w, "  lengths: %s\n", formatLengths(req.Lengths))
	fmt.Fprintf(p.w, "  marks: %s\n", orDash(req.Marks.String()))
	fmt.Fprintf(p.w, "  truncate: %s\n", orDefault(req.Truncate, "rune"))
	if req.ShortTitle != "" {
		fmt.Fprintf(p.w, "  short_title: %s\n", req.ShortTitle)
	}
	fmt.Fprintln(p.w)
}

func (p *progressUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var line string
	switch name {
	case "read":
		line = fmt.Sprintf("読込: format=%v rows=%d cols=%d", fields["format"], intField(fields, "rows"), intField(fields, "cols"))
	case "generate":
		line = fmt.Sprintf("生成: lengths=%d ideas=%d", intField(fields, "lengths"), intField(fields, "ideas"))
	case "export":
		line = fmt.Sprintf("CSV: %v rows=%d", fields["path"], intField(fields, "rows"))
	default:
		line = name
	}
	fmt.Fprintln(p.w, line+" "+p.dim.Render("("+formatShortDuration(dur)+")"))
}

func (p *progressUI) OnGroupDone(idx, total int, g domain.LengthGroup) {
	p.mu.Lock()
	defer p.mu.Unlock()

	note := ""
	if len(g.Ideas) == 0 {
		note = " " + p.dim.Render("(案なし)")
	}
	fmt.Fprintf(p.w, "[%d/%d] %d文字 案=%d title=%s%s\n", idx, total, g.Length, len(g.Ideas), orDash(g.UsedTitle), note)
}

func formatLengths(xs []int) string {
	parts := make([]string, 0, len(xs))
	for _, x := range xs {
		parts = append(parts, fmt.Sprint(x))
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	return orDefault(s, "-")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func intField(fields map[string]any, key string) int {
	if fields == nil {
		return 0
	}
	switch x := fields[key].(type) {
	case int:
		return x
	case int64:
		return int(x)
	default:
		return 0
	}
}
