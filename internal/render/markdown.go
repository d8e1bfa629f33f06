package render

import (
	"fmt"
	"strings"

	"github.com/John-Robertt/nfosum/internal/catalog"
)

const timeLayout = "2006-01-02 15:04:05"

const noSynopsis = "暂无概要信息"

// Markdown 渲染纯结构化文本产物。
//
// 约定：
// - 目录是“无链接”的扁平标题序列：跨引用语法在不同 Markdown 阅读器里
//   不保证可解析，纯文本形态干脆不做导航
// - 每条记录的固定模板：标题 → 按句切分的要点编号列表 → 来源脚注
// - 输出只依赖 Catalog 本身：同一 Catalog 两次渲染字节级一致
func Markdown(c *catalog.Catalog, title string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "生成时间：%s\n\n", c.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(&b, "总计条目：%d\n\n", c.Total)

	b.WriteString("## 目录\n\n")
	for _, g := range c.Groups {
		fmt.Fprintf(&b, "### %d. %s\n\n", g.Index, g.Name)
		for _, rec := range g.Records {
			fmt.Fprintf(&b, "- %s\n", rec.Title)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")

	for _, g := range c.Groups {
		fmt.Fprintf(&b, "## %d. %s\n\n", g.Index, g.Name)
		for ri, rec := range g.Records {
			fmt.Fprintf(&b, "### %d.%d %s\n\n", g.Index, ri+1, rec.Title)
			writeKeyPoints(&b, rec.Synopsis)
			fmt.Fprintf(&b, "来源：`%s`\n\n", rec.Source)
			b.WriteString("---\n\n")
		}
	}

	return []byte(b.String())
}

func writeKeyPoints(b *strings.Builder, synopsis string) {
	points := splitSentences(synopsis)
	if len(points) == 0 {
		b.WriteString(noSynopsis + "\n\n")
		return
	}
	b.WriteString("**要点：**\n\n")
	for i, p := range points {
		fmt.Fprintf(b, "%d. %s\n", i+1, p)
	}
	b.WriteString("\n")
}
