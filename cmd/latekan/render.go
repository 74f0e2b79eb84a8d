package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/latekan/internal/domain"
	"github.com/John-Robertt/latekan/internal/title"
)

type styles struct {
	heading lipgloss.Style
	label   lipgloss.Style
	length  lipgloss.Style
	muted   lipgloss.Style
	err     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true).Underline(true),
		label:   r.NewStyle().Bold(true),
		length:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		muted:   r.NewStyle().Faint(true),
		err:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935")),
	}
}

// renderReport 以“結果表示”的形式输出给人看的结果。
func renderReport(w io.Writer, rr domain.RunReport) {
	if rr.Status != domain.StatusOK {
		return
	}
	st := newStyles(w)
	p := rr.Program

	fmt.Fprintln(w, st.heading.Render("結果表示"))
	fmt.Fprintln(w, st.label.Render("① 正式タイトル")+"："+p.Title)
	fmt.Fprintln(w, st.label.Render("①' 短縮版タイトル")+"："+p.ShortTitle)
	fmt.Fprintln(w, st.label.Render("② 放送日時")+"："+p.Broadcast)
	fmt.Fprintln(w, st.label.Render("③ 出演者")+"："+p.Cast)
	fmt.Fprintln(w, st.label.Render("④ 記入者")+"："+p.Writer)
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.label.Render("⑤ 文字数パターン別ラテ欄アイデア")+st.muted.Render(fmt.Sprintf("（%d文字以下なら短縮版）", title.ShortTitleMaxLength)))

	for _, g := range rr.Groups {
		fmt.Fprintln(w, "- "+st.length.Render(fmt.Sprintf("%d文字", g.Length)))
		if len(g.Ideas) == 0 {
			fmt.Fprintln(w, "　"+st.muted.Render("（案なし）"))
			continue
		}
		for i, idea := range g.Ideas {
			fmt.Fprintf(w, "　案%d: %s\n", i+1, idea)
		}
	}
}

func renderError(w io.Writer, rr domain.RunReport) {
	st := newStyles(w)
	fmt.Fprintf(w, "%s %s\n", st.err.Render(rr.ErrorCode), rr.ErrorMsg)
}
