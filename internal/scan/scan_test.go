package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNFOFiles_OnlyNFOExt(t *testing.T) {
	root := t.TempDir()

	touch(t, filepath.Join(root, "a", "movie.nfo"))
	touch(t, filepath.Join(root, "a", "movie.mp4"))
	touch(t, filepath.Join(root, "readme.txt"))

	got, err := NFOFiles(root, nil)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("期望 1 个 nfo 文件，实际 %d", len(got))
	}
	wantRel := filepath.Join("a", "movie.nfo")
	if got[0].RelPath != wantRel {
		t.Fatalf("期望 rel=%q，实际=%q", wantRel, got[0].RelPath)
	}
}

func TestNFOFiles_ExtCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "X.NFO"))

	got, err := NFOFiles(root, nil)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("期望 1 个 nfo 文件，实际 %d", len(got))
	}
}

func TestNFOFiles_ExcludeDirsFromConfig(t *testing.T) {
	root := t.TempDir()

	touch(t, filepath.Join(root, "temp", "a.nfo"))
	touch(t, filepath.Join(root, "ok", "b.nfo"))

	got, err := NFOFiles(root, []string{"temp"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("期望 1 个 nfo 文件，实际 %d", len(got))
	}
	wantRel := filepath.Join("ok", "b.nfo")
	if got[0].RelPath != wantRel {
		t.Fatalf("期望 rel=%q，实际=%q", wantRel, got[0].RelPath)
	}
}

func TestNFOFiles_StableOrder(t *testing.T) {
	root := t.TempDir()

	// 写入顺序与字典序故意相反。
	touch(t, filepath.Join(root, "z", "z.nfo"))
	touch(t, filepath.Join(root, "a", "a.nfo"))
	touch(t, filepath.Join(root, "m.nfo"))

	got, err := NFOFiles(root, nil)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(got) != 3 {
		t.Fatalf("期望 3 个 nfo 文件，实际 %d", len(got))
	}
	want := []string{
		filepath.Join("a", "a.nfo"),
		"m.nfo",
		filepath.Join("z", "z.nfo"),
	}
	for i, w := range want {
		if got[i].RelPath != w {
			t.Fatalf("第 %d 项期望 rel=%q，实际=%q", i, w, got[i].RelPath)
		}
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, []byte("<movie><title>x</title></movie>"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}
