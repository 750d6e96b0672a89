// Package telegram sends listing digests, run summaries and alert
// confirmations to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-internship-automation/internal/models"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    sender
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

// SendListing posts one listing with a button to its detail page.
func (b *Bot) SendListing(l models.Listing) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔥 *%s*\n", escapeMarkdown(l.Title))
	fmt.Fprintf(&sb, "🏢 %s\n", escapeMarkdown(orNA(l.Company)))
	if l.Stipend != "" {
		fmt.Fprintf(&sb, "💰 %s\n", escapeMarkdown(l.Stipend))
	}
	fmt.Fprintf(&sb, "📍 %s\n", escapeMarkdown(orNA(l.Location)))
	if l.Duration != "" {
		fmt.Fprintf(&sb, "⏳ %s\n", escapeMarkdown(l.Duration))
	}
	if l.DatePosted != "" {
		fmt.Fprintf(&sb, "📅 %s\n", escapeMarkdown(l.DatePosted))
	}
	fmt.Fprintf(&sb, "🔖 Source: %s\n", escapeMarkdown(l.Source))

	msg := tgbotapi.NewMessage(b.chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if strings.HasPrefix(l.DetailURL, "http") {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🔗 View Listing", l.DetailURL),
			),
		)
	}

	_, err := b.api.Send(msg)
	return err
}

// NotifyRun posts the summary of an auto-apply run.
func (b *Bot) NotifyRun(ctx context.Context, result *models.ApplyResult, criteria models.SearchCriteria) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.api.Send(tgbotapi.NewMessage(b.chatID, RunSummary(result, criteria)))
	return err
}

// RunSummary renders a plain-text report of a run.
func RunSummary(result *models.ApplyResult, criteria models.SearchCriteria) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🤖 Auto-apply finished: %s (%s)\n", criteria.Role, criteria.Type)
	fmt.Fprintf(&sb, "🎯 Matched: %d\n", result.TotalMatched)

	statuses := make([]string, 0, len(result.Summary))
	for status := range result.Summary {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		if n := result.Summary[models.ApplyStatus(status)]; n > 0 {
			fmt.Fprintf(&sb, "• %s: %d\n", status, n)
		}
	}
	fmt.Fprintf(&sb, "🆔 %s", result.RunID)
	return sb.String()
}

// SendTo posts a plain message to an arbitrary chat.
func (b *Bot) SendTo(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) SendError(err error) error {
	return b.SendTo(b.chatID, fmt.Sprintf("❌ Error: %v", err))
}

func (b *Bot) SendStatus(message string) error {
	return b.SendTo(b.chatID, "ℹ️ "+message)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
