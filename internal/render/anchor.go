package render

import (
	"fmt"

	"github.com/John-Robertt/nfosum/internal/catalog"
	"github.com/John-Robertt/nfosum/internal/domain"
)

// 锚点标识从分组阶段分配的数字序号派生，不使用标题文本：
// - 标题可能是非 ASCII，部分消费端解析不了非 ASCII 的 fragment
// - 序号天然无冲突，且同一 Catalog 两次渲染产出完全一致
//
// HTML 目录与 PDF 书签消费同一套标识，两种产物的导航永不漂移。

// CategoryAnchor 返回分类标题的锚点标识，ci 为 1 起始的分类序号。
func CategoryAnchor(ci int) string {
	return fmt.Sprintf("c%d", ci)
}

// RecordAnchor 返回记录标题的锚点标识，ri 为组内 1 起始的记录序号。
func RecordAnchor(ci, ri int) string {
	return fmt.Sprintf("c%d-i%d", ci, ri)
}

// Outline 生成与 分类→记录 嵌套完全一致的导航树。
// 叶子节点的 Anchor 与 HTML 正文里的锚点目标一一对应，
// PDF 书签可以独立于页内链接解析来构建。
func Outline(c *catalog.Catalog) []domain.OutlineNode {
	nodes := make([]domain.OutlineNode, 0, len(c.Groups))
	for _, g := range c.Groups {
		n := domain.OutlineNode{
			Label:    fmt.Sprintf("%d. %s", g.Index, g.Name),
			Anchor:   CategoryAnchor(g.Index),
			Children: make([]domain.OutlineNode, 0, len(g.Records)),
		}
		for ri, rec := range g.Records {
			n.Children = append(n.Children, domain.OutlineNode{
				Label:  rec.Title,
				Anchor: RecordAnchor(g.Index, ri+1),
			})
		}
		nodes = append(nodes, n)
	}
	return nodes
}
