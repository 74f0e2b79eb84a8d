package domain

import (
	"encoding/json"
	"time"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const (
	ErrCodeLengthsInvalid   = "lengths_invalid"
	ErrCodeInputMissing     = "input_missing"
	ErrCodeInputUnsupported = "input_unsupported"
	ErrCodeReadFailed       = "read_failed"
	ErrCodeConfigInvalid    = "config_invalid"
	ErrCodeConfigNotFound   = "config_not_found"
	ErrCodeWriteFailed      = "write_failed"
	ErrCodeInputTooLarge    = "input_too_large"
)

// IdeaRow 是结果表的一行（CSV 列顺序即字段顺序）。
type IdeaRow struct {
	Length    int    `json:"length"`
	IdeaNo    int    `json:"idea_no"`
	Text      string `json:"text"`
	Writer    string `json:"writer"`
	UsedTitle string `json:"used_title"`
}

// LengthGroup 是同一文字数下的全部案（用于分组展示）。
type LengthGroup struct {
	Length    int      `json:"length"`
	UsedTitle string   `json:"used_title"`
	Ideas     []string `json:"ideas"`
}

// RunReport 是对外稳定输出（stdout JSON / HTTP JSON）的结构。
type RunReport struct {
	RunID  string `json:"run_id"`
	Source string `json:"source"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	Lengths []int   `json:"lengths"`
	Marks   MarkSet `json:"marks"`

	Program Summary       `json:"program"`
	Groups  []LengthGroup `json:"groups"`
	Rows    []IdeaRow     `json:"rows"`

	Totals ReportTotals `json:"totals"`
}

type ReportTotals struct {
	Lengths      int `json:"lengths"`
	Ideas        int `json:"ideas"`
	EmptyLengths int `json:"empty_lengths"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC
// 2) nil 切片换成空切片（JSON 输出 [] 而不是 null）
// 3) totals 由 groups 计算得出
//
// rows 的顺序就是文字数模式的输入顺序，这里不排序。
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	if r.Status == "" {
		r.Status = StatusOK
	}
	if r.Lengths == nil {
		r.Lengths = []int{}
	}
	if r.Groups == nil {
		r.Groups = []LengthGroup{}
	}
	if r.Rows == nil {
		r.Rows = []IdeaRow{}
	}

	var t ReportTotals
	for _, g := range r.Groups {
		t.Lengths++
		t.Ideas += len(g.Ideas)
		if len(g.Ideas) == 0 {
			t.EmptyLengths++
		}
	}
	r.Totals = t
}

// Failed 把报告标记为失败。
func (r *RunReport) Failed(code, msg string) {
	r.Status = StatusFailed
	r.ErrorCode = code
	r.ErrorMsg = msg
}

// MarshalJSON 仅用于集中约束输出的稳定性。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
