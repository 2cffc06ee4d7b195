package backend

import (
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogLevelEnv names the environment variable setting the log level of fake servers.
//
// Levels are debug, info, warn, error and off (default).
const LogLevelEnv = "CHRONO_TEST_BACKEND_LOG"

// logRequests logs each request and its response status at info level.
func logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		meth := c.Request().Method
		path := c.Request().URL
		begin := time.Now()
		c.Logger().Infof("< request %s %s", meth, path)

		err := next(c)

		c.Logger().Infof(
			"> response status = %d (for %s %s) in %v / error = %v",
			c.Response().Status, meth, path, time.Since(begin), err,
		)
		return err
	}
}

func logLevel(name string) log.Lvl {
	switch strings.ToLower(name) {
	case "debug":
		return log.DEBUG
	case "info":
		return log.INFO
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.OFF
	}
}

func setLogLevel(e *echo.Echo) {
	e.Logger.SetLevel(logLevel(os.Getenv(LogLevelEnv)))
}
