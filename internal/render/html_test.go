package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestHTML_TOCLinksResolveToUniqueTargets(t *testing.T) {
	out, err := HTML(buildScenario(t), "内容汇总")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("产物必须是可解析的 HTML：%v", err)
	}

	links := doc.Find(".toc a")
	if links.Length() != 2 {
		t.Fatalf("目录期望恰好 2 条链接（2 条记录），实际 %d", links.Length())
	}

	links.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || !strings.HasPrefix(href, "#") {
			t.Fatalf("目录链接必须是页内锚点，实际 %q", href)
		}
		id := strings.TrimPrefix(href, "#")
		targets := doc.Find("#" + id)
		if targets.Length() != 1 {
			t.Fatalf("锚点 %q 在正文中必须恰好出现一次，实际 %d 次", id, targets.Length())
		}
	})
}

func TestHTML_SelfContained(t *testing.T) {
	out, err := HTML(buildScenario(t), "内容汇总")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("解析失败：%v", err)
	}

	// 自包含：不允许任何外部资源引用。
	if n := doc.Find("link, script[src], img[src]").Length(); n != 0 {
		t.Fatalf("产物必须自包含，发现 %d 个外部资源引用", n)
	}
	if doc.Find("style").Length() == 0 {
		t.Fatalf("缺少内联样式表")
	}
}

func TestHTML_HeadingsCarryAnchors(t *testing.T) {
	out, err := HTML(buildScenario(t), "内容汇总")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("解析失败：%v", err)
	}

	if doc.Find("h2#c1").Length() != 1 {
		t.Fatalf("分类标题必须携带锚点 id=c1")
	}
	if doc.Find("h3#c1-i1").Length() != 1 || doc.Find("h3#c1-i2").Length() != 1 {
		t.Fatalf("记录标题必须携带锚点 id=c1-i1 / c1-i2")
	}
}

func TestHTML_EscapesTitleText(t *testing.T) {
	c := buildScenario(t)
	out, err := HTML(c, `<script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if bytes.Contains(out, []byte("<script>alert(1)</script>")) {
		t.Fatalf("报告标题必须做 HTML 转义")
	}
}
