package main

import (
	"fmt"
	"os"
	"path/filepath"

	_ "time/tzdata"

	"github.com/exoream/sayur/internal/config"
	"github.com/exoream/sayur/internal/database"
	"github.com/exoream/sayur/internal/router"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	}

	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		logrus.WithError(err).Fatal("create data dir")
	}
	if err := ensureDir(cfg.Upload.Dir); err != nil {
		logrus.WithError(err).Fatal("create upload dir")
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("init database")
	}

	if err := database.AutoMigrate(db); err != nil {
		logrus.WithError(err).Fatal("migrate database")
	}

	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logrus.WithField("addr", addr).Info("server listening")
	if err := r.Run(addr); err != nil {
		logrus.WithError(err).Fatal("run server")
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
