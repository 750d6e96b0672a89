package app

import (
	"go-internship-automation/internal/config"
	"go-internship-automation/internal/telegram"
)

func newTelegramBot(cfg *config.Config) (Bot, error) {
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return nil, err
	}
	return bot, nil
}
