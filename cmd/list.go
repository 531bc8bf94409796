package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"mypyrun/internal/filter"
)

// printCodes 输出错误码词表和对应的匹配模式，按错误码排序、两列对齐。
func printCodes(w io.Writer) {
	rules := append([]filter.Rule(nil), filter.Rules()...)
	sort.Slice(rules, func(i, j int) bool { return rules[i].Code < rules[j].Code })

	width := 0
	for _, r := range rules {
		if n := runewidth.StringWidth(r.Code); n > width {
			width = n
		}
	}
	for _, r := range rules {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(r.Code))
		fmt.Fprintf(w, "  %s%s  %s\n", r.Code, pad, r.Pattern.String())
	}
}
