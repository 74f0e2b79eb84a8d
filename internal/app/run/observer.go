package run

import (
	"time"

	"github.com/John-Robertt/latekan/internal/domain"
)

// Observer 用于把“阶段/分组结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 实现必须并发安全：serve 时多个请求可能共用一个 Observer。
type Observer interface {
	// OnStart 在开始读取输入前调用。
	OnStart(source string, req domain.Request)
	// OnPhaseDone 在阶段结束时调用（read / generate / export）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnGroupDone 在某个文字数的案生成完毕后调用（idx 从 1 开始）。
	OnGroupDone(idx, total int, g domain.LengthGroup)
}
