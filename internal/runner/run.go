package runner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"mypyrun/internal/config"
	"mypyrun/internal/filter"
	"mypyrun/internal/report"
)

// mypy 约定：退出码 1 表示"运行成功且查出问题"，其余非零码都是自身异常。
const exitFoundIssues = 1

// matchState 记录最近一条已分类诊断的归类结果，
// 用来决定紧随其后的 note 行继承什么可见性与错误码。
type matchState struct {
	active bool
	status filter.Status // 为空表示父诊断被抑制（仅 show_ignored 下仍可见）
	code   string
}

// lastDiagnostic 保留最后一条解析成功的诊断，异常退出时无条件补报，
// 保证崩溃路径上不会静默丢失信息。
type lastDiagnostic struct {
	ok       bool
	filename string
	lineno   string
	msg      string
	code     string
}

// Engine 驱动底层进程并逐行过滤其输出。
// 单线程同步模型：读行、分类、输出都在同一个 goroutine 上，状态无需加锁。
type Engine struct {
	Options   config.Options
	Overrides []config.OverrideRule
	Stdout    io.Writer
	Stderr    io.Writer
	Spawn     SpawnFunc // nil 时用 ExecSpawn
}

// Run 启动 mypy（daemon 为真时改走 dmypy run --），过滤其输出并返回最终退出码。
// mypyArgs 原样透传给底层进程。
func (e *Engine) Run(mypyArgs []string, daemon bool) (int, error) {
	args := []string{"mypy"}
	if daemon {
		args = []string{"dmypy", "run", "--"}
	}
	args = append(args, mypyArgs...)

	var extraEnv []string
	if len(e.Options.Paths) > 0 {
		mypyPath := strings.Join(e.Options.Paths, string(os.PathListSeparator))
		if prev := os.Getenv("MYPYPATH"); prev != "" {
			mypyPath = prev + string(os.PathListSeparator) + mypyPath
		}
		extraEnv = append(extraEnv, "MYPYPATH="+mypyPath)
	}

	spawn := e.Spawn
	if spawn == nil {
		spawn = ExecSpawn
	}
	proc, err := spawn(args, extraEnv)
	if err != nil {
		return 0, err
	}

	errorCount, last := e.filterStream(proc.Out)
	rc := proc.Wait()

	if rc != exitFoundIssues {
		report.Severe(e.Stdout, e.Options.Color)
		if last.ok {
			report.Line(e.Stdout, e.Options, last.filename, last.lineno,
				string(filter.StatusError), last.msg, false, last.code)
		}
	}
	// 异常退出码原样上抛；1 则由过滤后的错误计数决定：
	// 全部被抑制时即便 mypy 查出了问题也按成功退出
	if rc != 0 && rc != exitFoundIssues {
		return rc, nil
	}
	if errorCount > 0 {
		return rc, nil
	}
	return 0, nil
}

func (e *Engine) filterStream(r io.Reader) (int, lastDiagnostic) {
	var (
		state      matchState
		last       lastDiagnostic
		errorCount int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		filename, lineno, status, msg, ok := splitDiagnostic(line)
		if !ok {
			// 不符合协议的行原样透传，不影响状态
			fmt.Fprintln(e.Stdout, line)
			continue
		}

		opts := config.Effective(e.Options, e.Overrides, filename)
		if opts.IsExcludedPath(filename) {
			continue
		}

		status = strings.TrimSpace(status)
		msg = strings.TrimSpace(msg)
		code, classified := filter.Classify(msg)
		last = lastDiagnostic{ok: true, filename: filename, lineno: lineno, msg: msg, code: code}

		switch {
		case classified && status == string(filter.StatusError):
			resolved := filter.ResolveStatus(opts, code)
			if resolved == filter.StatusError {
				errorCount++
			}
			if opts.ShowIgnored || resolved != "" {
				shown := resolved
				if shown == "" {
					shown = filter.StatusError
				}
				report.Line(e.Stdout, opts, filename, lineno, string(shown), msg, resolved == "", code)
				state = matchState{active: true, status: resolved, code: code}
			} else {
				// 被抑制且不展示：连同后续 note 一起丢弃
				state = matchState{}
			}
		case status == string(filter.StatusNote):
			// note 继承前一条诊断的可见性与错误码，自身不参与分类
			if state.active {
				report.Line(e.Stdout, opts, filename, lineno, status, msg, state.status == "", state.code)
			}
		default:
			// 其余组合（比如没有可识别错误码的顶层行）按现有分类覆盖面静默丢弃
			if !classified {
				state = matchState{}
			}
		}
	}
	return errorCount, last
}

// splitDiagnostic 按协议切分一行：
// path:line:severity:message 或缺行号的 path:severity:message。
func splitDiagnostic(line string) (filename, lineno, status, msg string, ok bool) {
	parts := strings.SplitN(line, ":", 4)
	if len(parts) == 4 {
		return parts[0], parts[1], parts[2], parts[3], true
	}
	if len(parts) == 3 {
		return parts[0], "", parts[1], parts[2], true
	}
	return "", "", "", "", false
}
