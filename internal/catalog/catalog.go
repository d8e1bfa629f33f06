package catalog

import (
	"time"

	"github.com/John-Robertt/nfosum/internal/domain"
)

// Group 是同一 tag 下的有序记录集合。
// Index 是 1 起始的分类序号，Records 内的位置+1 即记录序号；
// 这两个序号就是下游锚点/书签标识的来源。
type Group struct {
	Name    string
	Index   int
	Records []domain.Record
}

// Catalog 是传给渲染层的聚合结果，构建完成后只读。
type Catalog struct {
	Groups      []Group
	Total       int
	GeneratedAt time.Time

	index map[string]int // name → Groups 下标
}

// Build 对记录做单趟分组。
//
// 硬约束：
// - 分类顺序 = 各 tag 首次出现的顺序（不是字典序）。扫描阶段已保证输入
//   顺序固定，因此同一文件集两次运行产出完全相同的分组与序号
// - tag 为空的记录归入 domain.UncategorizedTag
// - 调用方保证每条记录 Title 非空（采集阶段的不变量）
func Build(records []domain.Record, now time.Time) *Catalog {
	c := &Catalog{
		Groups:      make([]Group, 0, 16),
		GeneratedAt: now,
		index:       make(map[string]int, 16),
	}

	for _, rec := range records {
		name := rec.Tag
		if name == "" {
			name = domain.UncategorizedTag
		}

		i, ok := c.index[name]
		if !ok {
			i = len(c.Groups)
			c.index[name] = i
			c.Groups = append(c.Groups, Group{
				Name:  name,
				Index: i + 1,
			})
		}
		c.Groups[i].Records = append(c.Groups[i].Records, rec)
		c.Total++
	}

	return c
}

// Lookup 按分类名取组（O(1)），主要供测试与诊断使用。
func (c *Catalog) Lookup(name string) (Group, bool) {
	i, ok := c.index[name]
	if !ok {
		return Group{}, false
	}
	return c.Groups[i], true
}
