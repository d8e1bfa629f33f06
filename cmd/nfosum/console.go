package main

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/John-Robertt/nfosum/internal/config"
)

// consoleObserver 把运行阶段与格式结果打印到交互终端（stderr）。
// 只在 TTY 下启用，绝不触碰 stdout 的 JSON 契约。
type consoleObserver struct {
	mu sync.Mutex
	w  io.Writer
}

func (o *consoleObserver) OnStart(eff config.Effective) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, "扫描目录：%s（格式：%s）\n", eff.Dir, eff.Format)
}

func (o *consoleObserver) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// fields 按 key 排序输出，保证同一阶段两次运行的行内容稳定。
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(o.w, "%s 完成：", name)
	for i, k := range keys {
		if i > 0 {
			fmt.Fprint(o.w, " ")
		}
		fmt.Fprintf(o.w, "%s=%v", k, fields[k])
	}
	fmt.Fprintf(o.w, "（%s）\n", dur.Round(time.Millisecond))
}

func (o *consoleObserver) OnFormatDone(format, output string, err error, dur time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		fmt.Fprintf(o.w, "%s 失败：%v（%s）\n", format, err, dur.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(o.w, "%s 完成：%s（%s）\n", format, output, dur.Round(time.Millisecond))
}
