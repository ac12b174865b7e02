// Command athlos-bot is the Telegram front-end of the Athlos API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tteodorogustavo/athlos/internal/bot"
	"github.com/tteodorogustavo/athlos/internal/config"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Log.Error("Failed to load config", zap.Error(err))
		os.Exit(1)
	}
	utils.Log.SetLevel(cfg.LogLevel)
	defer utils.Log.Sync()

	if cfg.TelegramToken == "" {
		utils.Log.Error("TELEGRAM_TOKEN not set")
		os.Exit(1)
	}

	botApp, err := bot.NewBotApp(cfg.TelegramToken, cfg.APIURL)
	if err != nil {
		utils.Log.Error("Failed to create bot", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	utils.Log.Info("Telegram bot starting...", zap.String("api_url", cfg.APIURL))
	botApp.Run(ctx)
}
