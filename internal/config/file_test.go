package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestParseINIGlobalSection(t *testing.T) {
	p := writeFile(t, t.TempDir(), "mypyrun.ini", `
[mypyrun]
select = incompatible_arg, no_attr
warn = need_annotation
exclude = vendor/**, *_pb2.py
paths = src, stubs
color = false
show_error_keys = true
`)
	stderr := &bytes.Buffer{}
	patch, rules, err := parseINIFile(p, true, stderr)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rules) != 0 {
		t.Fatalf("unexpected override rules: %#v", rules)
	}
	opts := Merge(Defaults(), patch)
	if _, ok := opts.Select["incompatible_arg"]; !ok {
		t.Fatalf("select not parsed: %#v", opts.Select)
	}
	if _, ok := opts.Warn["need_annotation"]; !ok {
		t.Fatalf("warn not parsed: %#v", opts.Warn)
	}
	if len(opts.Exclude) != 2 || len(opts.Paths) != 2 {
		t.Fatalf("exclude/paths not parsed: %#v %#v", opts.Exclude, opts.Paths)
	}
	if opts.Color || !opts.ShowErrorKeys {
		t.Fatalf("bool fields not parsed: %+v", opts)
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected warnings: %s", stderr.String())
	}
}

func TestParseINIOverrideSections(t *testing.T) {
	p := writeFile(t, t.TempDir(), "mypyrun.ini", `
[mypyrun]
select = incompatible_arg

[mypyrun-a*,b*]
ignore = no_attr

[mypyrun-legacy/*.py]
warn = need_annotation
show_ignored = true
`)
	stderr := &bytes.Buffer{}
	_, rules, err := parseINIFile(p, true, stderr)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	// glob 列表展开成两条规则，顺序保持声明顺序
	if len(rules) != 3 {
		t.Fatalf("expected 3 override rules, got %d", len(rules))
	}
	if rules[0].Glob != "a*" || rules[1].Glob != "b*" || rules[2].Glob != "legacy/*.py" {
		t.Fatalf("unexpected glob order: %#v", rules)
	}
	if rules[0].Patch.Ignore == nil || rules[1].Patch.Ignore == nil {
		t.Fatalf("expanded rules should share the patch")
	}
	// 全局专属字段被剥离并告警，其余字段保留
	if rules[2].Patch.ShowIgnored != nil {
		t.Fatalf("global-only field should be stripped")
	}
	if rules[2].Patch.Warn == nil {
		t.Fatalf("per-module field should survive stripping")
	}
	if !strings.Contains(stderr.String(), "show_ignored") {
		t.Fatalf("expected warning about show_ignored, got: %s", stderr.String())
	}
}

func TestParseINIUnknownKeyRecovered(t *testing.T) {
	p := writeFile(t, t.TempDir(), "mypyrun.ini", `
[mypyrun]
select = incompatible_arg
bogus_key = 1
color = not_a_bool
`)
	stderr := &bytes.Buffer{}
	patch, _, err := parseINIFile(p, true, stderr)
	if err != nil {
		t.Fatalf("field errors must not be fatal: %v", err)
	}
	if patch.Select == nil {
		t.Fatalf("valid field should still be parsed")
	}
	if patch.Color != nil {
		t.Fatalf("unparseable bool should be skipped")
	}
	out := stderr.String()
	if !strings.Contains(out, "bogus_key") || !strings.Contains(out, "color") {
		t.Fatalf("expected warnings for both fields, got: %s", out)
	}
}

func TestParseINIMissingGlobalSection(t *testing.T) {
	dir := t.TempDir()
	dedicated := writeFile(t, dir, "mypyrun.ini", "[other]\nk = v\n")
	stderr := &bytes.Buffer{}
	if _, _, err := parseINIFile(dedicated, true, stderr); err != nil {
		t.Fatalf("missing section is a warning, not an error: %v", err)
	}
	if !strings.Contains(stderr.String(), "[mypyrun]") {
		t.Fatalf("expected missing-section warning: %s", stderr.String())
	}

	// 共享配置文件里没有 [mypyrun] 段不告警
	shared := writeFile(t, dir, "setup.cfg", "[flake8]\nmax-line-length = 100\n")
	stderr.Reset()
	if _, _, err := parseINIFile(shared, false, stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr.Len() != 0 {
		t.Fatalf("shared file should not warn: %s", stderr.String())
	}
}

func TestParseYAMLFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "mypyrun.yaml", `
select:
  - incompatible_arg
warn:
  - need_annotation
exclude:
  - vendor/**
color: false
per_module:
  - match: "a*,b*"
    ignore:
      - no_attr
`)
	patch, rules, err := parseYAMLFile(p)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if patch.Select == nil || (*patch.Select)[0] != "incompatible_arg" {
		t.Fatalf("select not parsed: %#v", patch.Select)
	}
	if patch.Color == nil || *patch.Color {
		t.Fatalf("color not parsed: %#v", patch.Color)
	}
	if len(rules) != 2 || rules[0].Glob != "a*" || rules[1].Glob != "b*" {
		t.Fatalf("per_module not expanded: %#v", rules)
	}
}

func TestParseYAMLUnknownFieldFatal(t *testing.T) {
	p := writeFile(t, t.TempDir(), "mypyrun.yaml", "bogus: 1\n")
	if _, _, err := parseYAMLFile(p); err == nil {
		t.Fatalf("expected strict decode error")
	}
}

func TestResolveExplicitPathMissing(t *testing.T) {
	_, _, err := Resolve(Sources{ConfigPath: filepath.Join(t.TempDir(), "absent.ini")})
	if err == nil {
		t.Fatalf("explicit missing config must be fatal")
	}
}

func TestResolveLayersFileEnvFlags(t *testing.T) {
	p := writeFile(t, t.TempDir(), "mypyrun.ini", `
[mypyrun]
select = no_attr
warn = need_annotation
`)
	t.Setenv(EnvPrefix+"SELECT", "missing_module")
	flagSelect := []string{"incompatible_arg"}

	opts, _, err := Resolve(Sources{
		ConfigPath: p,
		Flags:      Patch{Select: &flagSelect},
		Stderr:     &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if _, ok := opts.Select["incompatible_arg"]; !ok {
		t.Fatalf("flag layer should override env and file: %#v", opts.Select)
	}
	if _, ok := opts.Warn["need_annotation"]; !ok {
		t.Fatalf("untouched file field should survive: %#v", opts.Warn)
	}
}
