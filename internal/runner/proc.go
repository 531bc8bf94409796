package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Proc 是底层检查进程的窄接口：一个行流加一个取退出码的句柄。
// 引擎只依赖这个形状，测试可以用合成流替代真实进程。
type Proc struct {
	Out  io.ReadCloser
	Wait func() int
}

// SpawnFunc 启动底层进程；extraEnv 追加在继承环境之后。
type SpawnFunc func(args []string, extraEnv []string) (*Proc, error)

// ExecSpawn 用 os/exec 启动真实进程。
// stderr 直接继承宿主进程，引擎不截获。
func ExecSpawn(args []string, extraEnv []string) (*Proc, error) {
	cmd := exec.Command(args[0], args[1:]...)
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("启动 %s 失败：%w", args[0], err)
	}
	wait := func() int {
		err := cmd.Wait()
		if err == nil {
			return 0
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return ee.ExitCode()
		}
		return -1
	}
	return &Proc{Out: stdout, Wait: wait}, nil
}
