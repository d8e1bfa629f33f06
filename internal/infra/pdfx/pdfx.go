// Package pdfx 是“超文本 → 分页文档”的外部渲染协作方封装：
// 无头 Chromium 打印 HTML，pdfcpu 注入书签大纲。
//
// 已知限制（上游行为，这里不做“假修复”）：
// - 打印以临时中间文件为入口，PDF 内的页内链接解析的是那个临时文件，
//   转换后不保证可跳转；书签大纲才是权威导航
// - 书签页码按版式几何估算（锚点元素纵向偏移 / 每页内容高度），是尽力值
package pdfx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/John-Robertt/nfosum/internal/domain"
)

// 页面几何必须与超文本样式表里的 @page 规则保持一致（A4，四边 15mm）。
const (
	pageHeightMM = 297.0
	pageMarginMM = 15.0
	pxPerMM      = 96.0 / 25.4
)

// UnavailableError 表示分页渲染器（无头 Chromium）缺失或无法启动。
// 调用方应提示改用 md/html 格式，而不是让整次运行失败。
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("分页渲染器不可用（需要可用的 Chromium/Chrome）：%v", e.Err)
	}
	return "分页渲染器不可用（需要可用的 Chromium/Chrome）"
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable 判断 err 是否为“渲染器不可用”。
func IsUnavailable(err error) bool {
	var e *UnavailableError
	return errors.As(err, &e)
}

// Render 把超文本产物打印为带书签大纲的 PDF 字节。
//
// 约束：
// - 同步调用；navigation/加载有 30s 上限，整体受 ctx 控制
// - 书签注入失败不致命：退回无大纲的 PDF（产物仍然可用）
// - 打印调用显式关闭页眉页脚注入并把打印边距归零，页面几何完全交给
//   样式表的 @page 规则——这是对“首页空白页”缺陷的明确抑制
func Render(ctx context.Context, html []byte, outline []domain.OutlineNode, log *slog.Logger) ([]byte, error) {
	if log == nil {
		log = slog.Default()
	}

	bin, has := launcher.LookPath()
	if !has {
		return nil, &UnavailableError{}
	}

	// 打印以本地文件为入口：data URL 在大文档上不可靠。
	dir, err := os.MkdirTemp("", "nfosum-*")
	if err != nil {
		return nil, fmt.Errorf("创建临时目录失败：%w", err)
	}
	defer os.RemoveAll(dir)

	htmlPath := filepath.Join(dir, "report.html")
	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return nil, fmt.Errorf("写入临时文件失败：%w", err)
	}

	raw, tops, err := printPDF(ctx, bin, htmlPath, anchorIDs(outline))
	if err != nil {
		return nil, err
	}

	out, err := addBookmarks(raw, outline, tops)
	if err != nil {
		log.Warn("书签注入失败，退回无大纲 PDF", "err", err)
		return raw, nil
	}
	return out, nil
}

// printPDF 启动无头浏览器、加载临时文件并打印。
// 返回 PDF 字节以及各锚点元素的页面纵向偏移（px）。
func printPDF(ctx context.Context, bin, htmlPath string, ids []string) ([]byte, map[string]float64, error) {
	u, err := launcher.New().Bin(bin).Headless(true).Launch()
	if err != nil {
		return nil, nil, &UnavailableError{Err: err}
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, nil, &UnavailableError{Err: err}
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, nil, &UnavailableError{Err: err}
	}

	navCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	fileURL := "file://" + filepath.ToSlash(htmlPath)
	if err := page.Context(navCtx).Navigate(fileURL); err != nil {
		return nil, nil, fmt.Errorf("加载超文本失败：%w", err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		return nil, nil, fmt.Errorf("等待加载失败：%w", err)
	}

	tops := measureAnchors(page, ids)

	f := func(v float64) *float64 { return &v }
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		// 页眉页脚与打印边距都可能在首个内容区之前挤出一页空白；
		// 全部关闭/归零，边距只由 @page 控制。
		DisplayHeaderFooter: false,
		MarginTop:           f(0),
		MarginBottom:        f(0),
		MarginLeft:          f(0),
		MarginRight:         f(0),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("打印失败：%w", err)
	}
	raw, err := io.ReadAll(stream)
	if err != nil {
		return nil, nil, fmt.Errorf("读取打印结果失败：%w", err)
	}
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("打印结果为空")
	}
	return raw, tops, nil
}

// measureAnchors 读取各锚点元素相对文档顶部的偏移。
// 测量失败只影响书签页码精度，不影响打印本身，因此吞掉错误。
func measureAnchors(page *rod.Page, ids []string) map[string]float64 {
	tops := make(map[string]float64, len(ids))
	res, err := page.Eval(`(ids) => {
		const out = {};
		for (const id of ids) {
			const el = document.getElementById(id);
			if (el) {
				out[id] = el.getBoundingClientRect().top + window.scrollY;
			}
		}
		return out;
	}`, ids)
	if err != nil {
		return tops
	}
	for id, v := range res.Value.Map() {
		tops[id] = v.Num()
	}
	return tops
}

// addBookmarks 依据大纲树与锚点偏移构建书签并写回 PDF。
func addBookmarks(raw []byte, outline []domain.OutlineNode, tops map[string]float64) ([]byte, error) {
	if len(outline) == 0 {
		return raw, nil
	}

	conf := model.NewDefaultConfiguration()
	rctx, err := api.ReadValidateAndOptimize(bytes.NewReader(raw), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	pageCount := rctx.PageCount

	bms := bookmarkTree(outline, tops, pageCount)
	if len(bms) == 0 {
		return raw, nil
	}

	var buf bytes.Buffer
	if err := api.AddBookmarks(bytes.NewReader(raw), &buf, bms, true, conf); err != nil {
		return nil, fmt.Errorf("pdfcpu bookmarks: %w", err)
	}
	return buf.Bytes(), nil
}

func bookmarkTree(nodes []domain.OutlineNode, tops map[string]float64, pageCount int) []pdfcpu.Bookmark {
	out := make([]pdfcpu.Bookmark, 0, len(nodes))
	for _, n := range nodes {
		bm := pdfcpu.Bookmark{
			Title:    n.Label,
			PageFrom: pageFor(n.Anchor, tops, pageCount),
		}
		if len(n.Children) > 0 {
			bm.Kids = bookmarkTree(n.Children, tops, pageCount)
		}
		out = append(out, bm)
	}
	return out
}

// pageFor 把锚点纵向偏移换算成 1 起始的页码。
// 未测量到的锚点落到第 1 页（书签仍可用，只是不精确）。
func pageFor(anchor string, tops map[string]float64, pageCount int) int {
	top, ok := tops[anchor]
	if !ok {
		return 1
	}
	contentPx := (pageHeightMM - 2*pageMarginMM) * pxPerMM
	p := int(math.Floor(top/contentPx)) + 1
	if p < 1 {
		p = 1
	}
	if pageCount > 0 && p > pageCount {
		p = pageCount
	}
	return p
}

func anchorIDs(outline []domain.OutlineNode) []string {
	var ids []string
	var walk func(nodes []domain.OutlineNode)
	walk = func(nodes []domain.OutlineNode) {
		for _, n := range nodes {
			ids = append(ids, n.Anchor)
			walk(n.Children)
		}
	}
	walk(outline)
	return ids
}
