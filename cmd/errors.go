package cmd

import "fmt"

// 0 和 mypy 自身的退出码原样透传；自有常量选在 mypy 不会用到的区间。
const (
	ExitOK       = 0
	ExitParsing  = 100
	ExitInternal = 101
)

type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Msg
}
