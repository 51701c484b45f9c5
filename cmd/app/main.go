package main

import (
	"motorpool/config"
	"motorpool/di"
	"motorpool/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
