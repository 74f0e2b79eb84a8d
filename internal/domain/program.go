package domain

import "strings"

const (
	PlaceholderUnknown    = "（不明）"
	PlaceholderShortUnset = "（未設定 → 正式使用）"
	PlaceholderNoWriter   = "（未入力）"
)

// Program 是从 EPG 表中抽取出的字段（已去空白，缺失为空串）。
type Program struct {
	Title      string `json:"title"`
	ShortTitle string `json:"short_title"`
	Cast       string `json:"cast"`
	DateLeft   string `json:"date_left"`
	DateRight  string `json:"date_right"`
	TimeLeft   string `json:"time_left"`
	TimeRight  string `json:"time_right"`
}

// Broadcast 拼出放送日时："{日付左} {日付右} {時刻左}～{時刻右}"（首尾去空白）。
func (p Program) Broadcast() string {
	return strings.TrimSpace(p.DateLeft + " " + p.DateRight + " " + p.TimeLeft + "～" + p.TimeRight)
}

// Summary 是给人看的字段摘要：缺失值以占位文字显式呈现。
type Summary struct {
	Title      string `json:"title"`
	ShortTitle string `json:"short_title"`
	Broadcast  string `json:"broadcast"`
	Cast       string `json:"cast"`
	Writer     string `json:"writer"`
}

// Summarize 生成摘要。
func (p Program) Summarize(writer string) Summary {
	return Summary{
		Title:      orPlaceholder(p.Title, PlaceholderUnknown),
		ShortTitle: orPlaceholder(p.ShortTitle, PlaceholderShortUnset),
		Broadcast:  p.Broadcast(),
		Cast:       orPlaceholder(p.Cast, PlaceholderUnknown),
		Writer:     orPlaceholder(writer, PlaceholderNoWriter),
	}
}

func orPlaceholder(s, ph string) string {
	if strings.TrimSpace(s) == "" {
		return ph
	}
	return s
}
