package cmd

import "strings"

func rootLongHelp() string {
	return strings.TrimSpace(`
mypy 诊断输出的过滤器：把 mypy 报出的每条诊断归类到稳定的错误码，
再按 select / ignore / warn 策略决定报错、降级还是抑制。

工作方式：
- mypyrun 以子进程启动 mypy（或 dmypy run），逐行消费其输出
- 每条诊断先按路径 exclude 过滤，再按消息归类错误码
- note 行继承前一条诊断的可见性，不单独归类
- mypy 异常退出（退出码不是 1）时输出警告横幅并补报最后一条诊断

策略语义：
- select 非空：白名单模式，只有列出的错误码按 error 呈现
- warn：命中的错误码降级为 warning（优先于 ignore）
- ignore：命中的错误码被抑制
- select 为空：默认全报，没被 ignore 的都是 error
- select 与 ignore 不允许有交集（致命错误，退出码 100）

配置来源（后者覆盖前者）：
1. 内置默认值
2. 配置文件：mypyrun.yaml / mypyrun.ini / mypy.ini / setup.cfg / ~/.mypy.ini
   取第一个存在的；INI 的全局段是 [mypyrun]，
   [mypyrun-<glob 列表>] 是针对目标文件的覆盖段（只能设模块级字段）
3. MYPYRUN_* 环境变量（SELECT/IGNORE/WARN/EXCLUDE/PATHS/COLOR/
   SHOW_IGNORED/SHOW_ERROR_KEYS）
4. 命令行参数（只有显式传过的才覆盖）

退出码：
- 0 通过（包括 mypy 查出问题但全部被抑制的情况）
- mypy 的退出码：有诊断未被抑制，或 mypy 自身异常退出
- 100 配置/校验错误（启动 mypy 之前就失败）
- 101 内部错误

传给 mypy 的参数放在 -- 之后：
  mypyrun --select incompatible_arg -- --strict pkg/
`)
}

func rootExampleHelp() string {
	return strings.TrimSpace(`
  # 默认全报，直接透传路径给 mypy
  mypyrun -- pkg/

  # 白名单模式：只报参数类型不匹配
  mypyrun --select incompatible_arg -- pkg/

  # 黑名单模式：跳过缺注解类，其余照报
  mypyrun --ignore need_annotation -- pkg/

  # 展示被抑制的诊断（变暗显示），每行附带错误码
  mypyrun --ignore no_attr --show-ignored --show-error-keys -- pkg/

  # 守护进程模式
  mypyrun -d -- pkg/

  # 列出全部已知错误码
  mypyrun --list
`)
}
