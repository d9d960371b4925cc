// Package echoutil carries logging glue for echo servers.
package echoutil

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs one line when a request arrives and one when its
// response is written, with the elapsed time and the handler error.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		method := c.Request().Method
		url := c.Request().URL
		begin := time.Now()
		c.Logger().Infof("< request @[%s] %s %s", begin, method, url)

		err := next(c)

		end := time.Now()
		c.Logger().Infof(
			"> response @[%s] status = %d (for request @[%s] %s %s) in %v / error = %+v",
			end, c.Response().Status, begin, method, url, end.Sub(begin), err,
		)
		return err
	}
}

var levels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"":      log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

// SetLevel applies a loglevel name to the server's logger. Unknown
// names fall back to warn, with a warning saying so.
func SetLevel(e *echo.Echo, loglevel string) {
	if lvl, ok := levels[strings.ToLower(loglevel)]; ok {
		e.Logger.SetLevel(lvl)
		return
	}
	e.Logger.SetLevel(log.WARN)
	e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", loglevel)
}
