package report

import (
	"bytes"
	"strings"
	"testing"

	"mypyrun/internal/config"
)

func plainOptions() config.Options {
	o := config.Defaults()
	o.Color = false
	return o
}

func TestLinePlain(t *testing.T) {
	buf := &bytes.Buffer{}
	Line(buf, plainOptions(), "foo.py", "10", "error", "bad type", false, "incompatible_arg")
	if got := strings.TrimSpace(buf.String()); got != "foo.py:10: error: bad type" {
		t.Fatalf("unexpected line: %q", got)
	}
}

func TestLinePlainWithErrorKey(t *testing.T) {
	opts := plainOptions()
	opts.ShowErrorKeys = true
	buf := &bytes.Buffer{}
	Line(buf, opts, "foo.py", "10", "error", "bad type", false, "incompatible_arg")
	if got := strings.TrimSpace(buf.String()); got != "foo.py:10: incompatible_arg: error: bad type" {
		t.Fatalf("unexpected line: %q", got)
	}
}

func TestLineIgnoredPrefix(t *testing.T) {
	opts := plainOptions()
	opts.ShowIgnored = true
	buf := &bytes.Buffer{}
	Line(buf, opts, "foo.py", "10", "error", "bad type", true, "")
	if !strings.HasPrefix(buf.String(), "IGNORED foo.py:10: ") {
		t.Fatalf("missing IGNORED prefix: %q", buf.String())
	}

	// filtered 但没开 show_ignored 时不加前缀（调用方负责别走到这里）
	buf.Reset()
	opts.ShowIgnored = false
	Line(buf, opts, "foo.py", "10", "error", "bad type", true, "")
	if strings.HasPrefix(buf.String(), "IGNORED") {
		t.Fatalf("unexpected prefix: %q", buf.String())
	}
}

func TestLineColored(t *testing.T) {
	opts := config.Defaults() // color=true
	buf := &bytes.Buffer{}
	Line(buf, opts, "foo.py", "10", "error", "bad type", false, "")
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected ANSI escapes: %q", out)
	}
	if !strings.Contains(out, "foo.py") || !strings.Contains(out, "bad type") {
		t.Fatalf("content missing: %q", out)
	}
}

func TestSevere(t *testing.T) {
	buf := &bytes.Buffer{}
	Severe(buf, false)
	if !strings.Contains(buf.String(), "严重错误") {
		t.Fatalf("unexpected banner: %q", buf.String())
	}
	buf.Reset()
	Severe(buf, true)
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected colored banner: %q", buf.String())
	}
}
