package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/John-Robertt/nfosum/internal/config"
)

func TestViewerCommand(t *testing.T) {
	if name, args := viewerCommand("linux", "/x/a.html"); name != "xdg-open" || args[0] != "/x/a.html" {
		t.Fatalf("linux 打开命令不对：%s %v", name, args)
	}
	if name, _ := viewerCommand("darwin", "/x/a.html"); name != "open" {
		t.Fatalf("darwin 打开命令不对：%s", name)
	}
	if name, _ := viewerCommand("windows", `C:\a.html`); name != "rundll32" {
		t.Fatalf("windows 打开命令不对：%s", name)
	}
}

func TestConfigErrorReport(t *testing.T) {
	rr := configErrorReport("/cwd", &config.Error{Code: config.ErrCodeInvalid})
	if rr.ErrorCode != config.ErrCodeInvalid {
		t.Fatalf("期望 error_code=%q，实际 %q", config.ErrCodeInvalid, rr.ErrorCode)
	}
	if rr.Path != "/cwd" {
		t.Fatalf("期望 path=/cwd，实际 %q", rr.Path)
	}
}

func TestConsoleObserver_PhaseLineStable(t *testing.T) {
	var buf bytes.Buffer
	o := &consoleObserver{w: &buf}

	o.OnPhaseDone("collect", map[string]any{"skipped": 1, "records": 2}, 5*time.Millisecond)

	got := buf.String()
	// key 按字典序：records 在 skipped 前面。
	if !strings.Contains(got, "records=2 skipped=1") {
		t.Fatalf("阶段行字段顺序必须稳定：%q", got)
	}
}
