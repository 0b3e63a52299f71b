// FILE: lixenwraith/settings/log.go
package settings

import (
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var logger atomic.Pointer[logrus.Logger]

func init() {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	logger.Store(l)
}

// SetLogger replaces the package logger. A nil logger restores a silent one.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
		l.SetLevel(logrus.PanicLevel)
	}
	logger.Store(l)
}

func pkgLogger() *logrus.Logger {
	return logger.Load()
}
