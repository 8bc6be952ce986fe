package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(bot *tgbotapi.BotAPI, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		bot:    bot,
		logger: logger,
	}
}

// Send sends a message to the specified chat. A nil keyboard pointer sends no markup.
func (s *MessageSender) Send(chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb, ok := markup.(*tgbotapi.InlineKeyboardMarkup); ok {
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
	} else if markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := s.bot.Send(msg); err != nil {
		s.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return err
	}

	return nil
}

// SendDocument uploads a generated file to the chat
func (s *MessageSender) SendDocument(chatID int64, filename string, data []byte) error {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadDocument)
	if _, err := s.bot.Request(action); err != nil {
		s.logger.Warn("failed to send upload action", zap.Error(err), zap.Int64("chat_id", chatID))
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	if _, err := s.bot.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}
