package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Select  []string `yaml:"select"`
	Ignore  []string `yaml:"ignore"`
	Warn    []string `yaml:"warn"`
	Exclude []string `yaml:"exclude"`
	Paths   []string `yaml:"paths"`

	Color         *bool `yaml:"color"`
	ShowIgnored   *bool `yaml:"show_ignored"`
	ShowErrorKeys *bool `yaml:"show_error_keys"`

	PerModule []yamlModule `yaml:"per_module"`
}

// yamlModule 是 YAML 形式的覆盖段，对应 INI 的 [mypyrun-<glob 列表>]。
// 结构上就不包含全局专属字段，不需要再剥离。
type yamlModule struct {
	Match   string   `yaml:"match"`
	Select  []string `yaml:"select"`
	Ignore  []string `yaml:"ignore"`
	Warn    []string `yaml:"warn"`
	Exclude []string `yaml:"exclude"`
	Paths   []string `yaml:"paths"`
}

func parseYAMLFile(path string) (Patch, []OverrideRule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Patch{}, nil, fmt.Errorf("读取配置文件失败：%w", err)
	}
	dec := yaml.NewDecoder(strings.NewReader(string(b)))
	dec.KnownFields(true)
	var yf yamlFile
	if err := dec.Decode(&yf); err != nil {
		if errors.Is(err, io.EOF) {
			return Patch{}, nil, nil
		}
		return Patch{}, nil, fmt.Errorf("解析配置文件失败：%w", err)
	}

	global, err := yamlPatch(yf.Select, yf.Ignore, yf.Warn, yf.Exclude, yf.Paths)
	if err != nil {
		return Patch{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	global.Color = yf.Color
	global.ShowIgnored = yf.ShowIgnored
	global.ShowErrorKeys = yf.ShowErrorKeys

	var rules []OverrideRule
	for i, m := range yf.PerModule {
		if strings.TrimSpace(m.Match) == "" {
			return Patch{}, nil, fmt.Errorf("%s: per_module[%d] 缺少 match", path, i)
		}
		patch, err := yamlPatch(m.Select, m.Ignore, m.Warn, m.Exclude, m.Paths)
		if err != nil {
			return Patch{}, nil, fmt.Errorf("%s: per_module[%d]: %w", path, i, err)
		}
		for _, glob := range SplitCSV(m.Match) {
			rules = append(rules, OverrideRule{Glob: glob, Patch: patch})
		}
	}
	return global, rules, nil
}

func yamlPatch(sel, ign, warn, excl, paths []string) (Patch, error) {
	var p Patch
	if sel != nil {
		p.Select = &sel
	}
	if ign != nil {
		p.Ignore = &ign
	}
	if warn != nil {
		p.Warn = &warn
	}
	if excl != nil {
		globs, err := parseGlobList(strings.Join(excl, ","))
		if err != nil {
			return Patch{}, err
		}
		p.Exclude = &globs
	}
	if paths != nil {
		p.Paths = &paths
	}
	return p, nil
}
