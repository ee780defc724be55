package config

import "time"

// Host rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Terminal limits. The canvas never grows beyond these so a huge terminal
// does not turn every frame into a megabyte of escape codes.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 80
	MinTermWidth  = 40
	MinTermHeight = 12
)

// Environment keys read by the commands.
const (
	EnvSSHHost      = "SSH_HOST"
	EnvSSHPort      = "SSH_PORT"
	EnvSSHHostKey   = "SSH_HOST_KEY"
	EnvMetricsAddr  = "METRICS_ADDR"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFile      = "LOG_FILE"
	EnvTuningFile   = "GAME_TUNING"
	EnvSessionRate  = "SESSION_RATE"
	EnvSessionBurst = "SESSION_BURST"
)
