package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New создает JSON-логгер с заданным уровнем; некорректный уровень заменяется на info
func New(logLevel string) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{logrus.FieldKeyMsg: "message"},
	})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("level", logLevel).Warn("Unknown log level, falling back to info")
	}
	log.SetLevel(level)
	return log
}
