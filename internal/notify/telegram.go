// Package notify pushes sync results and share cards to a Telegram chat.
package notify

import (
	"fmt"
	"html"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/render"
	"github.com/JonnyWalker81/yearinmotion/internal/service"
)

// Telegram sends messages to one chat through a bot.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram connects the bot. endpoint is a format string taking the token
// and the method name; empty means tgbotapi.APIEndpoint.
func NewTelegram(token string, chatID int64, endpoint string, client *http.Client) (*Telegram, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// SendSyncReport posts a one-message summary of a sync pass.
func (t *Telegram) SendSyncReport(report *service.SyncReport) error {
	text := fmt.Sprintf(
		"🔄 <b>Activity sync finished</b>\n\n"+
			"Athletes: %d\n"+
			"Synced: %d\n"+
			"Failed: %d\n"+
			"Activities: %d\n"+
			"<i>Took %s</i>",
		report.Sessions, report.Succeeded, report.Failed, report.Activities,
		report.Duration.Round(time.Millisecond))

	return t.send(text)
}

// SendReview posts the dashboard headline figures.
func (t *Telegram) SendReview(review *models.Review) error {
	d := render.NewDashboard(review)
	text := fmt.Sprintf(
		"🏃 <b>Your %d in motion</b>\n\n"+
			"Distance: %s\n"+
			"Activities: %s\n"+
			"Elevation: %s\n"+
			"Time: %s\n\n"+
			"<i>%s</i>",
		d.Year, d.Distance.Value, d.Activities.Value, d.Elevation.Value, d.TotalTime,
		html.EscapeString(d.Weekly.Headline))

	return t.send(text)
}

// SendShareCard uploads a rendered share card as a photo.
func (t *Telegram) SendShareCard(year int, png []byte) error {
	photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FileBytes{
		Name:  render.ShareCardFileName(year),
		Bytes: png,
	})
	photo.Caption = fmt.Sprintf("Strava %d Review", year)

	if _, err := t.bot.Send(photo); err != nil {
		return fmt.Errorf("failed to send share card: %w", err)
	}
	return nil
}

func (t *Telegram) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
