package run

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/John-Robertt/nfosum/internal/catalog"
	"github.com/John-Robertt/nfosum/internal/collect"
	"github.com/John-Robertt/nfosum/internal/config"
	"github.com/John-Robertt/nfosum/internal/domain"
	"github.com/John-Robertt/nfosum/internal/infra/fsx"
	"github.com/John-Robertt/nfosum/internal/infra/pdfx"
	"github.com/John-Robertt/nfosum/internal/render"
	"github.com/John-Robertt/nfosum/internal/scan"
)

// Paginator 是分页渲染协作方的窄接口：吃超文本与大纲树，吐 PDF 字节。
// 生产实现是 pdfx.Render；测试里用假实现模拟“渲染器缺失”。
type Paginator func(ctx context.Context, html []byte, outline []domain.OutlineNode, log *slog.Logger) ([]byte, error)

// Deps 是 Execute 的外部协作方集合。
type Deps struct {
	Paginate Paginator
	Log      *slog.Logger
	Now      func() time.Time
}

func (d *Deps) defaults() {
	if d.Paginate == nil {
		d.Paginate = pdfx.Render
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

// Execute 执行一次完整的 采集→分组→渲染 批处理，返回对外稳定的 RunReport。
//
// 降级规则（与错误分类一一对应）：
// - 单个坏文件：采集层计数，不中断
// - 单个格式失败（渲染器缺失/写盘失败）：该格式标记 failed，其余格式继续，
//   已落盘的产物不受影响
// - 全量提取失败（0 条记录）：运行级终止条件 no_records_found
//
// 三个阶段严格串行；Catalog 构建一次，`all` 的三种产物共享同一实例。
func Execute(ctx context.Context, eff config.Effective, deps Deps, obs Observer) domain.RunReport {
	deps.defaults()
	started := deps.Now().UTC()

	if obs != nil {
		obs.OnStart(eff)
	}

	rr := domain.RunReport{
		Path:      eff.Dir,
		Format:    eff.Format,
		StartedAt: started,
	}

	scanStarted := deps.Now()
	files, err := scan.NFOFiles(eff.Dir, eff.ExcludeDirs)
	if err != nil {
		rr.ErrorCode = domain.ErrCodeIOFailed
		rr.ErrorMsg = fmt.Sprintf("扫描失败：%v", err)
		return finish(&rr, deps.Now)
	}
	if obs != nil {
		obs.OnPhaseDone("scan", map[string]any{"files": len(files)}, deps.Now().Sub(scanStarted))
	}

	collectStarted := deps.Now()
	res := collect.Run(files, deps.Log)
	if obs != nil {
		obs.OnPhaseDone("collect", map[string]any{
			"records":     len(res.Records),
			"skipped":     res.Skipped,
			"read_errors": len(res.Errors),
		}, deps.Now().Sub(collectStarted))
	}

	rr.Summary = domain.ReportSummary{
		Files:      len(files),
		Records:    len(res.Records),
		Skipped:    res.Skipped,
		ReadErrors: len(res.Errors),
	}
	if eff.Verbose {
		rr.SkippedFiles = res.Errors
	}

	if len(res.Records) == 0 {
		// 空目录上的报告没有意义：运行级终止。
		rr.ErrorCode = domain.ErrCodeNoRecords
		rr.ErrorMsg = fmt.Sprintf("在 %s 下没有提取到任何有效记录", eff.Dir)
		return finish(&rr, deps.Now)
	}

	cat := catalog.Build(res.Records, started)
	rr.Summary.Categories = len(cat.Groups)

	for _, format := range formats(eff.Format) {
		fmtStarted := deps.Now()
		fr := renderOne(ctx, format, cat, eff, deps)
		rr.Formats = append(rr.Formats, fr)
		if obs != nil {
			var ferr error
			if fr.Status == domain.FormatStatusFailed {
				ferr = fmt.Errorf("%s", fr.ErrorMsg)
			}
			obs.OnFormatDone(format, fr.Output, ferr, deps.Now().Sub(fmtStarted))
		}
	}

	return finish(&rr, deps.Now)
}

func finish(rr *domain.RunReport, now func() time.Time) domain.RunReport {
	rr.FinishedAt = now().UTC()
	rr.Finalize()
	return *rr
}

// formats 展开 all；顺序固定 md → html → pdf。
func formats(f string) []string {
	if f == domain.FormatAll {
		return []string{domain.FormatMarkdown, domain.FormatHTML, domain.FormatPDF}
	}
	return []string{f}
}

// renderOne 渲染并落盘单个格式；任何失败都收敛为该格式的 FormatResult。
func renderOne(ctx context.Context, format string, cat *catalog.Catalog, eff config.Effective, deps Deps) domain.FormatResult {
	out := OutputPath(eff, format)
	fr := domain.FormatResult{Format: format, Output: out}

	var data []byte
	switch format {
	case domain.FormatMarkdown:
		data = render.Markdown(cat, eff.Title)

	case domain.FormatHTML:
		b, err := render.HTML(cat, eff.Title)
		if err != nil {
			return failed(fr, domain.ErrCodeIOFailed, err)
		}
		data = b

	case domain.FormatPDF:
		// 分页产物吃的是同一份超文本：先渲染 HTML，再交给外部协作方。
		b, err := render.HTML(cat, eff.Title)
		if err != nil {
			return failed(fr, domain.ErrCodeIOFailed, err)
		}
		data, err = deps.Paginate(ctx, b, render.Outline(cat), deps.Log)
		if err != nil {
			if pdfx.IsUnavailable(err) {
				// 明确指示改用 md/html，而不是笼统报错。
				return failed(fr, domain.ErrCodeRenderUnavailable,
					fmt.Errorf("%v；请改用 -f md 或 -f html", err))
			}
			return failed(fr, domain.ErrCodeIOFailed, err)
		}

	default:
		return failed(fr, domain.ErrCodeConfigInvalid, fmt.Errorf("未知格式 %q", format))
	}

	if err := fsx.WriteArtifact(out, data); err != nil {
		return failed(fr, domain.ErrCodeOutputWrite, err)
	}
	fr.Status = domain.FormatStatusWritten
	return fr
}

func failed(fr domain.FormatResult, code string, err error) domain.FormatResult {
	fr.Status = domain.FormatStatusFailed
	fr.ErrorCode = code
	fr.ErrorMsg = err.Error()
	return fr
}

// OutputPath 计算某个格式的产物路径。
//
// 规则（与历史行为一致）：
// - 未指定 -o：<扫描目录>/<标题>.<ext>
// - 指定了 -o 且扩展名匹配：原样使用
// - 指定了 -o 但扩展名不匹配（含 all 模式）：追加 .<ext>
func OutputPath(eff config.Effective, format string) string {
	ext := "." + format
	if eff.Output == "" {
		return filepath.Join(eff.Dir, eff.Title+ext)
	}
	if strings.EqualFold(filepath.Ext(eff.Output), ext) {
		return eff.Output
	}
	return eff.Output + ext
}
