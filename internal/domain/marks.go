package domain

const (
	MarkSubtitled = "字"
	MarkDubbed    = "デ"
	MarkNew       = "新"
	MarkFinal     = "終"
)

// MarkSet 是四个互相独立的放送标记。
// 字/デ 作为前置注记；新/終 分别作为标题前缀/后缀。
type MarkSet struct {
	Subtitled bool `json:"subtitled" yaml:"subtitled"`
	Dubbed    bool `json:"dubbed" yaml:"dubbed"`
	New       bool `json:"new" yaml:"new"`
	Final     bool `json:"final" yaml:"final"`
}

// String 按固定顺序（字デ新終）返回已启用的标记，便于日志与展示。
func (m MarkSet) String() string {
	s := ""
	if m.Subtitled {
		s += MarkSubtitled
	}
	if m.Dubbed {
		s += MarkDubbed
	}
	if m.New {
		s += MarkNew
	}
	if m.Final {
		s += MarkFinal
	}
	return s
}
