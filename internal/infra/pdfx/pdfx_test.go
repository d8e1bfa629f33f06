package pdfx

import (
	"testing"

	"github.com/John-Robertt/nfosum/internal/domain"
)

func sampleOutline() []domain.OutlineNode {
	return []domain.OutlineNode{
		{
			Label:  "1. X",
			Anchor: "c1",
			Children: []domain.OutlineNode{
				{Label: "甲", Anchor: "c1-i1"},
				{Label: "乙", Anchor: "c1-i2"},
			},
		},
		{Label: "2. Y", Anchor: "c2"},
	}
}

func TestAnchorIDs_FlattensWholeTree(t *testing.T) {
	got := anchorIDs(sampleOutline())
	want := []string{"c1", "c1-i1", "c1-i2", "c2"}
	if len(got) != len(want) {
		t.Fatalf("期望 %d 个锚点，实际 %d：%v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("第 %d 个锚点期望 %q，实际 %q", i, want[i], got[i])
		}
	}
}

func TestPageFor_GeometryAndClamping(t *testing.T) {
	contentPx := (pageHeightMM - 2*pageMarginMM) * pxPerMM

	tops := map[string]float64{
		"first":  0,
		"second": contentPx + 1, // 刚越过第一页
		"far":    contentPx * 100,
	}

	if p := pageFor("first", tops, 3); p != 1 {
		t.Fatalf("偏移 0 期望第 1 页，实际 %d", p)
	}
	if p := pageFor("second", tops, 3); p != 2 {
		t.Fatalf("跨页偏移期望第 2 页，实际 %d", p)
	}
	// 超出实际页数必须截断。
	if p := pageFor("far", tops, 3); p != 3 {
		t.Fatalf("超界偏移期望截断到 3，实际 %d", p)
	}
	// 未测量到的锚点落到第 1 页。
	if p := pageFor("missing", tops, 3); p != 1 {
		t.Fatalf("缺失锚点期望第 1 页，实际 %d", p)
	}
}

func TestBookmarkTree_MirrorsOutline(t *testing.T) {
	tops := map[string]float64{"c1": 0, "c1-i1": 0, "c1-i2": 0, "c2": 0}

	bms := bookmarkTree(sampleOutline(), tops, 1)

	if len(bms) != 2 {
		t.Fatalf("期望 2 个顶层书签，实际 %d", len(bms))
	}
	if bms[0].Title != "1. X" || len(bms[0].Kids) != 2 {
		t.Fatalf("顶层书签结构不对：%+v", bms[0])
	}
	if bms[0].Kids[1].Title != "乙" {
		t.Fatalf("子书签必须保持大纲顺序，实际 %q", bms[0].Kids[1].Title)
	}
}

func TestIsUnavailable(t *testing.T) {
	if !IsUnavailable(&UnavailableError{}) {
		t.Fatalf("UnavailableError 必须被识别")
	}
	if IsUnavailable(nil) {
		t.Fatalf("nil 不是 UnavailableError")
	}
}
