package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/John-Robertt/nfosum/internal/catalog"
	"github.com/John-Robertt/nfosum/internal/domain"
)

// HTML 渲染自包含的单文件超文本产物。
//
// 结构：
// - 目录块由模板直接按 Outline 生成：分类是小标题，记录是页内锚点链接
//   （目录里只有记录带链接；PDF 书签树里分类与记录都可跳转）
// - 正文由 Markdown 经 goldmark 转换，标题通过 {#id} 属性携带锚点，
//   id 与目录链接一一对应
// - 不引用任何外部资源，可直接打开，也可原样交给分页渲染器
func HTML(c *catalog.Catalog, title string) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(bodyMarkdown(c)), &body); err != nil {
		return nil, fmt.Errorf("正文转换失败：%w", err)
	}

	var out bytes.Buffer
	err := pageTmpl.Execute(&out, pageData{
		Title:       title,
		GeneratedAt: c.GeneratedAt.Format(timeLayout),
		Total:       c.Total,
		Outline:     Outline(c),
		Body:        template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("模板渲染失败：%w", err)
	}
	return out.Bytes(), nil
}

// bodyMarkdown 生成正文部分的 Markdown（不含目录；目录走模板）。
// 标题行尾的 {#id} 由 goldmark 的 attribute 语法转成元素 id。
func bodyMarkdown(c *catalog.Catalog) string {
	var b strings.Builder
	for _, g := range c.Groups {
		fmt.Fprintf(&b, "## %d. %s {#%s}\n\n", g.Index, g.Name, CategoryAnchor(g.Index))
		for ri, rec := range g.Records {
			fmt.Fprintf(&b, "### %d.%d %s {#%s}\n\n", g.Index, ri+1, rec.Title, RecordAnchor(g.Index, ri+1))
			writeKeyPoints(&b, rec.Synopsis)
			fmt.Fprintf(&b, "来源：`%s`\n\n", rec.Source)
			b.WriteString("---\n\n")
		}
	}
	return b.String()
}

type pageData struct {
	Title       string
	GeneratedAt string
	Total       int
	Outline     []domain.OutlineNode
	Body        template.HTML
}

// 视觉样式是固定的；@page 规则同时决定分页渲染的页面几何，
// 与 pdfx 的书签页码估算常量保持一致（改这里必须同步改 pdfx）。
var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
@page {
    size: A4;
    margin: 15mm;
}
body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'PingFang SC', 'Hiragino Sans GB', 'Microsoft YaHei', sans-serif;
    line-height: 1.6;
    max-width: 1200px;
    margin: 0 auto;
    padding: 20px;
    background-color: #f8f9fa;
}
.container {
    background-color: white;
    padding: 30px;
    border-radius: 8px;
    box-shadow: 0 2px 10px rgba(0,0,0,0.1);
}
h1 {
    color: #2c3e50;
    border-bottom: 3px solid #3498db;
    padding-bottom: 10px;
    margin-top: 0;
}
h2 {
    color: #34495e;
    margin-top: 30px;
    page-break-after: avoid;
}
h3 {
    color: #7f8c8d;
    page-break-after: avoid;
}
a {
    color: #3498db;
    text-decoration: none;
}
a:hover {
    text-decoration: underline;
}
.toc {
    background-color: #f8f9fa;
    padding: 20px;
    border-radius: 5px;
    margin: 20px 0;
}
ul, ol {
    padding-left: 20px;
}
li {
    margin: 5px 0;
}
hr {
    border: none;
    border-top: 2px solid #ecf0f1;
    margin: 30px 0;
}
.meta-info {
    color: #7f8c8d;
    font-size: 0.9em;
    margin-bottom: 20px;
}
@media print {
    body {
        background-color: white;
        padding: 0;
        max-width: none;
    }
    .container {
        box-shadow: none;
        padding: 0;
        border-radius: 0;
    }
}
</style>
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
<div class="meta-info">生成时间：{{.GeneratedAt}}</div>
<div class="meta-info">总计条目：{{.Total}}</div>
<h2>目录</h2>
<div class="toc">
{{- range .Outline}}
<h3>{{.Label}}</h3>
<ul>
{{- range .Children}}
<li><a href="#{{.Anchor}}">{{.Label}}</a></li>
{{- end}}
</ul>
{{- end}}
</div>
<hr>
{{.Body}}</div>
</body>
</html>
`))
