package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"motorpool/config"
	"motorpool/di"
	"motorpool/shared/logger"
)

const (
	argLength = 2
)

// The sweeper runs the retention actions from cron: "expire" deletes stale
// pending reservations and archives finished ones, "purge-archived" removes
// reservations archived past the retention window.
func main() {
	if len(os.Args) < argLength {
		log.Fatal().Msg("Sweep action (expire/purge-archived) is required")
	}

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	service := di.InitializeSweeper()
	ctx := context.Background()

	switch os.Args[1] {
	case "expire":
		result, err := service.ExpireSweep(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("expire sweep failed")
		}

		log.Info().Int64("pending_deleted", result.PendingDeleted).Int64("archived", result.Archived).Msg("expire sweep finished")
	case "purge-archived":
		result, err := service.PurgeArchived(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("archive purge failed")
		}

		log.Info().Int64("deleted", result.Deleted).Msg("archive purge finished")
	default:
		log.Fatal().Msg("Invalid action. Use 'expire' or 'purge-archived'")
	}
}
