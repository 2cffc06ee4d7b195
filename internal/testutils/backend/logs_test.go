package backend

import (
	"testing"

	"github.com/labstack/gommon/log"
)

func TestLogLevel(t *testing.T) {
	for name, expected := range map[string]log.Lvl{
		"debug": log.DEBUG,
		"INFO":  log.INFO,
		"warn":  log.WARN,
		"error": log.ERROR,
		"off":   log.OFF,
		"":      log.OFF,
		"loud":  log.OFF,
	} {
		if actual := logLevel(name); actual != expected {
			t.Errorf("logLevel(%q) = %d, expected %d", name, actual, expected)
		}
	}
}
