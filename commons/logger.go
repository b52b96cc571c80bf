// SPDX-License-Identifier: GPL-3.0-only

package commons

import (
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

var Logger = NewLogger("rentdesk")

// NewLogger builds a component logger whose level follows LOG_LEVEL.
func NewLogger(prefix string) *log.Logger {
	logger := log.New(prefix)
	logger.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
	logger.SetHeader("${time_rfc3339} ${level} ${short_file}:${line} -")
	return logger
}

func ParseLevel(level string) log.Lvl {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return log.DEBUG
	case "WARN":
		return log.WARN
	case "ERROR":
		return log.ERROR
	case "OFF":
		return log.OFF
	default:
		return log.INFO
	}
}
