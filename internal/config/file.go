package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	globalSection  = "mypyrun"
	overridePrefix = "mypyrun-"
)

// 候选配置文件按优先级排列，取第一个存在的；
// 共享文件（mypy.ini / setup.cfg）里没有 [mypyrun] 段不算错。
var (
	projectConfigFiles = []string{"mypyrun.yaml", "mypyrun.ini"}
	sharedConfigFiles  = []string{"mypy.ini", "setup.cfg"}
	userConfigFiles    = []string{"~/.mypy.ini"}
)

// Sources 汇总 Resolve 需要的全部输入。
type Sources struct {
	// ConfigPath 非空时只读取这一个文件，找不到或解析失败都是致命错误。
	ConfigPath string
	// Flags 是命令行层增量，只包含调用方显式指定的字段。
	Flags Patch
	// Stderr 接收字段级配置告警；nil 时丢弃。
	Stderr io.Writer
}

// Resolve 依次叠加 默认值 → 配置文件 → 环境变量 → 命令行 四层配置，
// 返回冻结前的最终快照和全部覆盖段。
func Resolve(src Sources) (Options, []OverrideRule, error) {
	stderr := src.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	filePatch, overrides, err := loadConfigFile(src.ConfigPath, stderr)
	if err != nil {
		return Options{}, nil, err
	}
	opts := Merge(Defaults(), filePatch, FromEnv(EnvPrefix, stderr), src.Flags)
	return opts, overrides, nil
}

func candidateFiles() []string {
	out := append([]string{}, projectConfigFiles...)
	out = append(out, sharedConfigFiles...)
	for _, p := range userConfigFiles {
		out = append(out, expandUser(p))
	}
	return out
}

func expandUser(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

func loadConfigFile(explicit string, stderr io.Writer) (Patch, []OverrideRule, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return Patch{}, nil, fmt.Errorf("读取配置文件失败：%w", err)
		}
		return parseConfigFile(explicit, true, stderr)
	}
	for _, cand := range candidateFiles() {
		if _, err := os.Stat(cand); err != nil {
			continue
		}
		p, rules, err := parseConfigFile(cand, false, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", cand, err)
			continue
		}
		return p, rules, nil
	}
	fmt.Fprintln(stderr, "未找到配置文件")
	return Patch{}, nil, nil
}

func parseConfigFile(path string, explicit bool, stderr io.Writer) (Patch, []OverrideRule, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLFile(path)
	default:
		return parseINIFile(path, explicit, stderr)
	}
}

func parseINIFile(path string, explicit bool, stderr io.Writer) (Patch, []OverrideRule, error) {
	f, err := ini.Load(path)
	if err != nil {
		return Patch{}, nil, fmt.Errorf("解析配置文件失败：%w", err)
	}

	var global Patch
	sec, err := f.GetSection(globalSection)
	if err != nil {
		if explicit || !isSharedConfigFile(path) {
			fmt.Fprintf(stderr, "%s: 配置文件中没有 [%s] 段\n", path, globalSection)
		}
	} else {
		global = parseSection(fmt.Sprintf("%s: [%s]", path, globalSection), sec, stderr)
	}

	var rules []OverrideRule
	for _, s := range f.Sections() {
		name := s.Name()
		if !strings.HasPrefix(name, overridePrefix) {
			continue
		}
		prefix := fmt.Sprintf("%s: [%s]", path, name)
		patch := stripGlobalOnly(prefix, parseSection(prefix, s, stderr), stderr)
		// 段名里的 glob 列表展开成多条规则，增量相同
		for _, glob := range SplitCSV(strings.TrimPrefix(name, overridePrefix)) {
			rules = append(rules, OverrideRule{Glob: glob, Patch: patch})
		}
	}
	return global, rules, nil
}

func isSharedConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, s := range sharedConfigFiles {
		if base == s {
			return true
		}
	}
	return false
}

// parseSection 逐个键解析；单个键解析失败只跳过该键并告警，不中断其余键。
func parseSection(prefix string, sec *ini.Section, stderr io.Writer) Patch {
	var p Patch
	for _, key := range sec.Keys() {
		name := key.Name()
		switch name {
		case "select":
			v := SplitCSV(key.String())
			p.Select = &v
		case "ignore":
			v := SplitCSV(key.String())
			p.Ignore = &v
		case "warn":
			v := SplitCSV(key.String())
			p.Warn = &v
		case "paths":
			v := SplitCSV(key.String())
			p.Paths = &v
		case "exclude":
			globs, err := parseGlobList(key.String())
			if err != nil {
				fmt.Fprintf(stderr, "%s: %s: %v\n", prefix, name, err)
				continue
			}
			p.Exclude = &globs
		case "color", "show_ignored", "show_error_keys":
			b, err := key.Bool()
			if err != nil {
				fmt.Fprintf(stderr, "%s: %s: 不是有效布尔值\n", prefix, name)
				continue
			}
			switch name {
			case "color":
				p.Color = &b
			case "show_ignored":
				p.ShowIgnored = &b
			case "show_error_keys":
				p.ShowErrorKeys = &b
			}
		default:
			fmt.Fprintf(stderr, "%s: 无法识别的配置项：%s = %s\n", prefix, name, key.String())
		}
	}
	return p
}

// stripGlobalOnly 剥离覆盖段里不允许出现的全局专属字段；只告警，不致命。
func stripGlobalOnly(prefix string, p Patch, stderr io.Writer) Patch {
	var offending []string
	if p.Color != nil {
		offending = append(offending, "color")
		p.Color = nil
	}
	if p.ShowIgnored != nil {
		offending = append(offending, "show_ignored")
		p.ShowIgnored = nil
	}
	if p.ShowErrorKeys != nil {
		offending = append(offending, "show_error_keys")
		p.ShowErrorKeys = nil
	}
	if len(offending) > 0 {
		fmt.Fprintf(stderr, "%s: 针对模块的覆盖段只能设置模块级配置项（%s）\n", prefix, strings.Join(offending, ", "))
	}
	return p
}
