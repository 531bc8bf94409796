package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"mypyrun/internal/config"
)

// statusColors 对齐 mypy 的呈现习惯：error 红、warning 黄、note 不上色。
var statusColors = map[string]color.Attribute{
	"error":   color.FgRed,
	"warning": color.FgYellow,
}

// Line 输出一条诊断行。
// filtered 表示该行按策略本应被抑制，只因 show_ignored 才走到这里：
// 无色模式加 IGNORED 前缀，有色模式整行变暗。
func Line(w io.Writer, opts config.Options, filename, lineno, status, msg string, filtered bool, errorKey string) {
	if !opts.Color {
		head := status + ": " + msg
		if opts.ShowErrorKeys && errorKey != "" {
			head = errorKey + ": " + head
		}
		prefix := ""
		if opts.ShowIgnored && filtered {
			prefix = "IGNORED "
		}
		fmt.Fprintf(w, "%s%s:%s: %s\n", prefix, filename, lineno, head)
		return
	}

	var dim []color.Attribute
	if opts.ShowIgnored && filtered {
		dim = []color.Attribute{color.Faint}
	}
	sc, hasColor := statusColors[status]

	out := paint(filename, append([]color.Attribute{color.FgCyan}, dim...)...)
	out += paint(fmt.Sprintf(":%s: ", lineno), dim...)
	if opts.ShowErrorKeys && errorKey != "" {
		out += paint(errorKey+": ", append([]color.Attribute{color.FgMagenta}, dim...)...)
	}
	statusAttrs := dim
	if hasColor {
		statusAttrs = append([]color.Attribute{sc}, dim...)
	}
	out += paint(status+": ", statusAttrs...)
	out += paint(msg, statusAttrs...)
	fmt.Fprintln(w, out)
}

// Severe 在底层进程异常退出时输出醒目的警告横幅。
func Severe(w io.Writer, useColor bool) {
	const banner = "警告：底层检查进程发生严重错误"
	if useColor {
		fmt.Fprintln(w, paint(banner, color.FgRed))
		return
	}
	fmt.Fprintln(w, banner)
}

// paint 强制着色：开关由 Options.Color 决定，不跟随终端探测。
func paint(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}
