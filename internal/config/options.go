package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options 是合并所有配置来源后的最终快照。
// 流式过滤开始前冻结，之后只读。
type Options struct {
	Select  map[string]struct{}
	Ignore  map[string]struct{}
	Warn    map[string]struct{}
	Exclude []string
	Paths   []string

	Color         bool
	ShowIgnored   bool
	ShowErrorKeys bool
}

// Defaults 返回内置默认配置：空名单、开启颜色。
func Defaults() Options {
	return Options{
		Select: map[string]struct{}{},
		Ignore: map[string]struct{}{},
		Warn:   map[string]struct{}{},
		Color:  true,
	}
}

// Patch 是单个配置来源产生的增量；nil 字段表示该来源没有指定这一项。
// 空列表也是一种显式指定（比如配置文件里写 select = 清空白名单）。
type Patch struct {
	Select  *[]string
	Ignore  *[]string
	Warn    *[]string
	Exclude *[]string
	Paths   *[]string

	Color         *bool
	ShowIgnored   *bool
	ShowErrorKeys *bool
}

// OverrideRule 是一个针对目标 glob 的配置覆盖段。
// 覆盖段只允许模块级字段，全局专属字段在解析阶段已被剥离。
type OverrideRule struct {
	Glob  string
	Patch Patch
}

// Merge 从 base 出发按顺序叠加各层增量，返回新快照，不修改 base。
func Merge(base Options, patches ...Patch) Options {
	out := base
	for _, p := range patches {
		if p.Select != nil {
			out.Select = toSet(*p.Select)
		}
		if p.Ignore != nil {
			out.Ignore = toSet(*p.Ignore)
		}
		if p.Warn != nil {
			out.Warn = toSet(*p.Warn)
		}
		if p.Exclude != nil {
			out.Exclude = append([]string(nil), (*p.Exclude)...)
		}
		if p.Paths != nil {
			out.Paths = append([]string(nil), (*p.Paths)...)
		}
		if p.Color != nil {
			out.Color = *p.Color
		}
		if p.ShowIgnored != nil {
			out.ShowIgnored = *p.ShowIgnored
		}
		if p.ShowErrorKeys != nil {
			out.ShowErrorKeys = *p.ShowErrorKeys
		}
	}
	return out
}

// Effective 返回对 path 生效的配置：按声明顺序叠加所有 glob 命中的覆盖段，
// 后声明的段在字段冲突时覆盖先声明的段。
func Effective(base Options, rules []OverrideRule, path string) Options {
	var patches []Patch
	for _, r := range rules {
		if matchPath(r.Glob, path) {
			patches = append(patches, r.Patch)
		}
	}
	if len(patches) == 0 {
		return base
	}
	return Merge(base, patches...)
}

// IsExcludedPath 报告 path 是否命中任一 exclude 模式。
// 模式同时对完整路径和文件名匹配，宽松程度对齐原工具的后缀式匹配。
func (o Options) IsExcludedPath(path string) bool {
	for _, p := range o.Exclude {
		if matchPath(p, path) {
			return true
		}
	}
	return false
}

func matchPath(pattern, path string) bool {
	if ok, err := doublestar.Match(pattern, filepath.ToSlash(path)); err == nil && ok {
		return true
	}
	if ok, err := doublestar.Match(pattern, filepath.Base(path)); err == nil && ok {
		return true
	}
	return false
}

// Validate 在全部来源合并后执行一次，违规即致命。
func Validate(opts Options, codes map[string]struct{}) error {
	var overlap []string
	for c := range opts.Select {
		if _, ok := opts.Ignore[c]; ok {
			overlap = append(overlap, c)
		}
	}
	if len(overlap) > 0 {
		sort.Strings(overlap)
		return fmt.Errorf("同一错误码不能同时出现在 select 和 ignore：%s", strings.Join(overlap, ", "))
	}
	if err := validateCodes(opts.Select, codes); err != nil {
		return err
	}
	if err := validateCodes(opts.Ignore, codes); err != nil {
		return err
	}
	if err := validateCodes(opts.Warn, codes); err != nil {
		return err
	}
	// 自检：词表里既没被 select 也没被 ignore 的剩余部分同样必须是已知错误码
	rest := make(map[string]struct{}, len(codes))
	for c := range codes {
		rest[c] = struct{}{}
	}
	for c := range opts.Select {
		delete(rest, c)
	}
	for c := range opts.Ignore {
		delete(rest, c)
	}
	return validateCodes(rest, codes)
}

func validateCodes(set, codes map[string]struct{}) error {
	var invalid []string
	for c := range set {
		if _, ok := codes[c]; !ok {
			invalid = append(invalid, c)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	sort.Strings(invalid)
	return fmt.Errorf("无效的错误码：%s", strings.Join(invalid, ", "))
}

// SplitCSV 按逗号切分并去掉空白与空项。
func SplitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func toSet(list []string) map[string]struct{} {
	out := make(map[string]struct{}, len(list))
	for _, v := range list {
		out[v] = struct{}{}
	}
	return out
}

func parseGlobList(v string) ([]string, error) {
	globs := SplitCSV(v)
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("无效的 glob 模式：%s", g)
		}
	}
	return globs, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool")
	}
}
