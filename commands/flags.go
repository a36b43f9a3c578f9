package commands

import "github.com/xiaoyuanzhu-com/yaruze/config"

// Flags holds global flags shared by every command.
type Flags struct {
	LogLevel string

	// Config is the environment configuration; command flags default to it.
	Config *config.Config
}
