package main

import "github.com/sirupsen/logrus"

var verboseLogging = false

// SetVerbose turns debug logging on for every layer. Command output is
// unaffected; only diagnostics move.
func SetVerbose(v bool) { verboseLogging = v }

func makeLogger(fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Level = logrus.WarnLevel
	if verboseLogging {
		logger.Logger.Level = logrus.DebugLevel
	}
	return logger
}

func monitorLogger() *logrus.Entry { return makeLogger(logrus.Fields{"layer": "monitor"}) }
func configLogger() *logrus.Entry  { return makeLogger(logrus.Fields{"layer": "config"}) }
