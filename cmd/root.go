package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mypyrun/internal/config"
	"mypyrun/internal/filter"
	"mypyrun/internal/runner"
)

type rootFlags struct {
	List          bool
	Daemon        bool
	Select        string
	Ignore        string
	Config        string
	NoColor       bool
	ShowIgnored   bool
	ShowErrorKeys bool
	SelectAll     bool
	ShowVersion   bool
}

func Execute() int {
	root := NewRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(os.Args[1:])
	if err := root.Execute(); err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			if ee.Msg != "" {
				fmt.Fprintln(os.Stderr, ee.Msg)
			}
			return ee.Code
		}
		fmt.Fprintln(os.Stderr, err.Error())
		return ExitInternal
	}
	return ExitOK
}

func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "mypyrun [flags] [-- mypy 参数与文件...]",
		Short:         "运行 mypy 并按错误码筛选、重排其诊断输出",
		Long:          rootLongHelp(),
		Example:       rootExampleHelp(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ShowVersion {
				printVersion(stdout)
				return nil
			}
			if flags.List {
				printCodes(stdout)
				return nil
			}
			return runFilter(cmd, stdout, stderr, flags, args)
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true
	bindFlags(root, flags)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(stdout)
		},
	}
	root.AddCommand(versionCmd)
	return root
}

func bindFlags(cmd *cobra.Command, flags *rootFlags) {
	f := cmd.Flags()
	f.SortFlags = false
	f.BoolVar(&flags.List, "list", false, "列出全部已知错误码后退出")
	f.BoolVarP(&flags.Daemon, "daemon", "d", false, "走守护进程模式（dmypy run）")
	f.StringVarP(&flags.Select, "select", "s", "", "只报这些错误码（逗号分隔，白名单）")
	f.StringVarP(&flags.Ignore, "ignore", "i", "", "跳过这些错误码（逗号分隔，黑名单）")
	f.StringVar(&flags.Config, "config", "", "配置文件路径（不传则按约定位置探测）")
	f.BoolVar(&flags.NoColor, "no-color", false, "关闭彩色输出")
	f.BoolVarP(&flags.ShowIgnored, "show-ignored", "x", false, "展示被抑制的诊断（彩色模式下变暗显示）")
	f.BoolVar(&flags.ShowErrorKeys, "show-error-keys", false, "每行附带错误码")
	f.BoolVar(&flags.SelectAll, "select-all", false, "选中全部错误码（排查分类缺口用）")
	f.BoolVarP(&flags.ShowVersion, "version", "v", false, "显示版本信息")
}

func runFilter(cmd *cobra.Command, stdout, stderr io.Writer, flags *rootFlags, args []string) error {
	opts, overrides, err := config.Resolve(config.Sources{
		ConfigPath: flags.Config,
		Flags:      flagPatch(cmd, flags),
		Stderr:     stderr,
	})
	if err != nil {
		return &ExitError{Code: ExitParsing, Msg: err.Error()}
	}

	codes := filter.Codes()
	if flags.SelectAll {
		opts.Select = codes
		opts.ShowIgnored = true
	}
	if err := config.Validate(opts, codes); err != nil {
		return &ExitError{Code: ExitParsing, Msg: err.Error()}
	}

	eng := &runner.Engine{
		Options:   opts,
		Overrides: overrides,
		Stdout:    stdout,
		Stderr:    stderr,
	}
	rc, err := eng.Run(args, flags.Daemon)
	if err != nil {
		return &ExitError{Code: ExitInternal, Msg: err.Error()}
	}
	if rc != 0 {
		return &ExitError{Code: rc}
	}
	return nil
}

// flagPatch 只收集调用方显式传过的参数，留在默认值的不参与覆盖。
func flagPatch(cmd *cobra.Command, flags *rootFlags) config.Patch {
	var p config.Patch
	f := cmd.Flags()
	if f.Changed("select") {
		v := config.SplitCSV(flags.Select)
		p.Select = &v
	}
	if f.Changed("ignore") {
		v := config.SplitCSV(flags.Ignore)
		p.Ignore = &v
	}
	if f.Changed("no-color") {
		v := !flags.NoColor
		p.Color = &v
	}
	if f.Changed("show-ignored") {
		p.ShowIgnored = &flags.ShowIgnored
	}
	if f.Changed("show-error-keys") {
		p.ShowErrorKeys = &flags.ShowErrorKeys
	}
	return p
}
