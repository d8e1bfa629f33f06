package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/nfosum/internal/domain"
)

// Fields 从单个 nfo 文件内容中提取 (title, tag, plot)。
//
// 策略按固定优先级依次尝试（同一结果类型的有序函数序列，不做继承）：
// 1) 标记树解析：取树中任意位置第一个匹配的元素（兼容“标准”与“简化”两种
//    嵌套结构，不限定为直接子节点），解析失败不向上抛，降级到 2)
// 2) 正则兜底：按 <title>…</title> 形状的子串逐字段捕获，plot 允许跨行；
//    输入完全不是合法标记也必须能工作
//
// 结果规则：两种策略都拿不到非空 title → ok=false，由调用方计入 skipped。
// 纯函数：不读文件、不触碰任何外部状态；字节解码错误是采集层的事。
func Fields(content string) (rec domain.Record, ok bool) {
	content = unwrapCDATA(content)

	rec = fromTree(content)
	if rec.Title == "" {
		// 树解析没拿到 title：整体降级到正则，避免半棵树半正则的混合结果。
		rec = fromPattern(content)
	}
	if rec.Title == "" {
		return domain.Record{}, false
	}
	return rec, true
}

// fromTree 把内容当作标记树解析。
// 解析器对破损标记高度容忍，因此“失败”体现为字段为空而不是 error。
func fromTree(content string) domain.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return domain.Record{}
	}
	return domain.Record{
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		Tag:      strings.TrimSpace(doc.Find("tag").First().Text()),
		Synopsis: strings.TrimSpace(doc.Find("plot").First().Text()),
	}
}

var (
	// 字段名固定且大小写敏感（与常见刮削器产物一致）。
	titleRe = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	tagRe   = regexp.MustCompile(`(?s)<tag>(.*?)</tag>`)
	plotRe  = regexp.MustCompile(`(?s)<plot>(.*?)</plot>`)

	cdataRe = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
)

func fromPattern(content string) domain.Record {
	return domain.Record{
		Title:    firstGroup(titleRe, content),
		Tag:      firstGroup(tagRe, content),
		Synopsis: firstGroup(plotRe, content),
	}
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// unwrapCDATA 去掉 CDATA 包裹，只留内容。
// 真实 nfo 里 plot 常用 CDATA；HTML 容忍解析会把它当注释丢掉，必须先展开。
func unwrapCDATA(s string) string {
	if !strings.Contains(s, "<![CDATA[") {
		return s
	}
	return cdataRe.ReplaceAllString(s, "$1")
}
