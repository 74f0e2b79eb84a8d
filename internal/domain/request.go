package domain

// Request 是一次生成所需的全部输入（不可变；核心流程只依赖它与解析好的 Grid）。
type Request struct {
	Lengths    []int
	Marks      MarkSet
	Writer     string
	ShortTitle string // 手工输入的短缩标题，优先于表格 B41
	Layout     Layout
	Truncate   string // "rune" | "width"
}
