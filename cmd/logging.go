package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/soliddigital/mpesa-stk-gateway/config"
)

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.WithField("service", cfg.App.ServiceName).Debug("Logging configured")

	return nil
}
