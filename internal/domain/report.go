package domain

import (
	"encoding/json"
	"time"
)

const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatPDF      = "pdf"
	FormatAll      = "all"
)

const (
	FormatStatusWritten = "written"
	FormatStatusFailed  = "failed"
)

const (
	ErrCodeNoRecords         = "no_records_found"
	ErrCodeRenderUnavailable = "render_unavailable"
	ErrCodeOutputWrite       = "output_write_failed"
	ErrCodeIOFailed          = "io_failed"
	ErrCodeConfigInvalid     = "config_invalid"
)

// RunReport 是对外稳定输出（stdout JSON）的结构。
type RunReport struct {
	Path   string `json:"path"`
	Format string `json:"format"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary  `json:"summary"`
	Formats []FormatResult `json:"formats"`

	// ErrorCode/ErrorMsg 表示整次运行级别的终止条件
	// （no_records_found / io_failed / config_invalid）；格式级失败不在这里。
	ErrorCode string `json:"error_code,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`

	// SkippedFiles 仅在诊断模式（-v）下填充；默认只输出计数。
	SkippedFiles []SkippedFile `json:"skipped_files,omitempty"`
}

type ReportSummary struct {
	Files      int `json:"files"`
	Records    int `json:"records"`
	Skipped    int `json:"skipped"`
	ReadErrors int `json:"read_errors"`
	Categories int `json:"categories"`
}

// FormatResult 是单个输出格式的结果：一个格式失败不影响其它格式。
type FormatResult struct {
	Format    string `json:"format"`
	Output    string `json:"output"`
	Status    string `json:"status"`
	ErrorCode string `json:"error_code,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}

type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Finalize 统一时间为 UTC（确保 JSON 为 RFC3339 且后缀 Z）。
// Formats 保持请求顺序，不排序：顺序本身就是约定（md → html → pdf）。
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
	if r.Formats == nil {
		r.Formats = []FormatResult{}
	}
}

// Written 返回成功落盘的格式数。
func (r *RunReport) Written() int {
	n := 0
	for _, f := range r.Formats {
		if f.Status == FormatStatusWritten {
			n++
		}
	}
	return n
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
