package config

import (
	"fmt"
	"io"
	"os"
)

const EnvPrefix = "MYPYRUN_"

// FromEnv 从环境变量读取一层配置。
// 例如：MYPYRUN_SELECT=incompatible_arg,no_attr MYPYRUN_SHOW_IGNORED=true
// 单个变量解析失败只告警并跳过该变量，与配置文件的字段级恢复策略一致。
func FromEnv(prefix string, stderr io.Writer) Patch {
	var p Patch

	setList := func(key string, assign func([]string)) {
		if v, ok := os.LookupEnv(prefix + key); ok {
			assign(SplitCSV(v))
		}
	}
	setBool := func(key string, assign func(bool)) {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return
		}
		b, err := parseBool(v)
		if err != nil {
			fmt.Fprintf(stderr, "环境变量 %s%s 不是有效布尔值\n", prefix, key)
			return
		}
		assign(b)
	}

	setList("SELECT", func(v []string) { p.Select = &v })
	setList("IGNORE", func(v []string) { p.Ignore = &v })
	setList("WARN", func(v []string) { p.Warn = &v })
	setList("PATHS", func(v []string) { p.Paths = &v })

	if v, ok := os.LookupEnv(prefix + "EXCLUDE"); ok {
		globs, err := parseGlobList(v)
		if err != nil {
			fmt.Fprintf(stderr, "环境变量 %sEXCLUDE：%v\n", prefix, err)
		} else {
			p.Exclude = &globs
		}
	}

	setBool("COLOR", func(b bool) { p.Color = &b })
	setBool("SHOW_IGNORED", func(b bool) { p.ShowIgnored = &b })
	setBool("SHOW_ERROR_KEYS", func(b bool) { p.ShowErrorKeys = &b })
	return p
}
