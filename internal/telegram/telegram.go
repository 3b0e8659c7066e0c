// Package telegram relays Telegram chats through the chat service. Each
// Telegram chat maps to one session, bound to the configured company.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	"etegie-bot/backend/internal/service"
	"etegie-bot/backend/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SessionPrefix marks sessions opened from Telegram
const SessionPrefix = "tg_"

const errorReply = "Sorry, something went wrong. Please try again later."

// Bot is the slice of *tgbotapi.BotAPI the channel uses
type Bot interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	StopReceivingUpdates()
}

// Chatter is satisfied by *service.ChatService
type Chatter interface {
	Chat(ctx context.Context, in service.ChatInput) (*service.ChatOutput, error)
}

// Channel polls Telegram for messages and answers them
type Channel struct {
	bot       Bot
	chat      Chatter
	companyID string
	greeting  string
	logger    *logger.Logger
}

// New creates a Telegram channel. greeting answers /start.
func New(bot Bot, chat Chatter, companyID, greeting string, log *logger.Logger) *Channel {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &Channel{
		bot:       bot,
		chat:      chat,
		companyID: companyID,
		greeting:  greeting,
		logger:    log.WithCompanyID(companyID).WithFields("channel", "telegram"),
	}
}

// Connect authenticates token against the Telegram API
func Connect(token string, debug bool) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = debug
	return bot, nil
}

// SessionID returns the chat session used for a Telegram chat
func SessionID(chatID int64) string {
	return SessionPrefix + strconv.FormatInt(chatID, 10)
}

// Run long-polls for updates until ctx is done. Updates are handled one at a
// time so replies within a chat keep their order.
func (ch *Channel) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := ch.bot.GetUpdatesChan(u)

	ch.logger.Info("Telegram polling started")
	defer ch.logger.Info("Telegram polling stopped")

	for {
		select {
		case <-ctx.Done():
			ch.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			ch.handle(ctx, update)
		}
	}
}

func (ch *Channel) handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	chatID := msg.Chat.ID
	var text string

	if msg.IsCommand() && msg.Command() == "start" {
		text = ch.greeting
	} else {
		out, err := ch.chat.Chat(ctx, service.ChatInput{
			Message:   msg.Text,
			CompanyID: ch.companyID,
			SessionID: SessionID(chatID),
			Channel:   "telegram",
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			ch.logger.LogError(err, "telegram chat failed", "chat_id", chatID)
			text = errorReply
		} else {
			text = out.Response
		}
	}

	reply := tgbotapi.NewMessage(chatID, text)
	reply.ReplyToMessageID = msg.MessageID
	if _, err := ch.bot.Send(reply); err != nil {
		ch.logger.LogError(err, "failed to send telegram reply", "chat_id", chatID)
	}
}
