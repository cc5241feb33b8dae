package agent

import "errors"

// Sentinel errors surfaced by Config validation and Runner.Run. These
// mirror the C library's agent_error_t table (agent_types.h) one for
// one, as distinguishable Go errors rather than an int enum.
var (
	ErrInvalidArgument = errors.New("agent: invalid argument")
	ErrOutOfMemory     = errors.New("agent: out of memory")
	ErrParseError      = errors.New("agent: parse error")
	ErrInvalidUTF8     = errors.New("agent: invalid utf-8")
	ErrBufferTooSmall  = errors.New("agent: buffer too small")
	ErrNotFound        = errors.New("agent: not found")
	ErrMaxIterations   = errors.New("agent: maximum iterations reached")
	ErrCallbackFailed  = errors.New("agent: callback failed")
	ErrCancelled       = errors.New("agent: cancelled")
)
