package fsx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteArtifact_SuccessAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()

	if err := WriteArtifact(filepath.Join(dir, "a.md"), []byte("hello")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "a.md"))
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("内容不一致：%q", string(b))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".a.md.tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}

func TestWriteArtifact_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")

	if err := WriteArtifact(path, []byte("v1")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := WriteArtifact(path, []byte("v2")); err != nil {
		t.Fatalf("覆盖写入不期望错误：%v", err)
	}

	b, _ := os.ReadFile(path)
	if string(b) != "v2" {
		t.Fatalf("期望覆盖后内容 v2，实际 %q", string(b))
	}
}

func TestWriteArtifact_CreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "deep", "a.html")

	if err := WriteArtifact(path, []byte("x")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("目标文件不存在：%v", err)
	}
}
