package filter

import "mypyrun/internal/config"

// Status 是一条诊断最终的呈现级别；空串表示被抑制、不呈现。
type Status string

const (
	StatusError   Status = "error"
	StatusWarning Status = "warning"
	StatusNote    Status = "note"
)

// ResolveStatus 判定一个错误码按什么级别呈现。
// 判定顺序不可调换：select 是白名单，warn 是降级名单，ignore 是黑名单；
// warn 在 ignore 之前生效，所以同时出现在 warn 和 ignore 的错误码会降级呈现而不是被抑制。
func ResolveStatus(opts config.Options, code string) Status {
	if len(opts.Select) > 0 {
		if _, ok := opts.Select[code]; ok {
			return StatusError
		}
	}
	if len(opts.Warn) > 0 {
		if _, ok := opts.Warn[code]; ok {
			return StatusWarning
		}
	}
	if len(opts.Ignore) > 0 {
		if _, ok := opts.Ignore[code]; ok {
			return ""
		}
	}
	// select 为空表示"默认全报"：没被显式 ignore 的都按错误处理
	if len(opts.Ignore) > 0 || len(opts.Select) == 0 {
		return StatusError
	}
	return ""
}
