package run

import (
	"time"

	"github.com/John-Robertt/nfosum/internal/config"
)

// Observer 用于把“运行进度/阶段/格式结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 整条流水线是单线程串行的，但 Observer 实现不应依赖这一点。
type Observer interface {
	// OnStart 在 Execute 开始时调用（应尽量早，保证用户第一时间看到输出）。
	OnStart(eff config.Effective)
	// OnPhaseDone 在阶段结束时调用（用于打印阶段统计与耗时）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnFormatDone 在单个输出格式完成（成功或失败）时调用。
	OnFormatDone(format, output string, err error, dur time.Duration)
}
