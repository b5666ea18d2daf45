// Package events listens to telegram updates, checks messages for scams, replies and reports to the admin chat.
package events

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tbapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/umputun/scam-spotter/app/bot"
)

//go:generate moq --out mocks/tb_api.go --pkg mocks --with-resets --skip-ensure . TbAPI
//go:generate moq --out mocks/bot.go --pkg mocks --with-resets --skip-ensure . Bot
//go:generate moq --out mocks/seen.go --pkg mocks --with-resets --skip-ensure . Seen

// TbAPI is an interface for telegram bot API, only subset of methods used
type TbAPI interface {
	GetUpdatesChan(config tbapi.UpdateConfig) tbapi.UpdatesChannel
	Send(c tbapi.Chattable) (tbapi.Message, error)
	Request(c tbapi.Chattable) (*tbapi.APIResponse, error)
	GetChat(config tbapi.ChatInfoConfig) (tbapi.ChatFullInfo, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot checks messages and makes responses
type Bot interface {
	OnMessage(ctx context.Context, msg bot.Message) (bot.Response, error)
}

// Seen is a persistent store of processed messages
type Seen interface {
	Add(ctx context.Context, itemID string) error
	Has(ctx context.Context, itemID string) (bool, error)
	Trim(ctx context.Context, keep int) (int64, error)
}

func escapeMarkDownV1Text(text string) string {
	escSymbols := []string{"_", "*", "`", "["}
	for _, esc := range escSymbols {
		text = strings.ReplaceAll(text, esc, "\\"+esc)
	}
	return text
}

// send a message to the telegram as markdown first and if failed - as plain text
func send(tbMsg tbapi.Chattable, tbAPI TbAPI) error {
	withParseMode := func(tbMsg tbapi.Chattable, parseMode string) tbapi.Chattable {
		switch msg := tbMsg.(type) {
		case tbapi.MessageConfig:
			msg.ParseMode = parseMode
			msg.LinkPreviewOptions = tbapi.LinkPreviewOptions{IsDisabled: true}
			return msg
		case tbapi.EditMessageTextConfig:
			msg.ParseMode = parseMode
			msg.LinkPreviewOptions = tbapi.LinkPreviewOptions{IsDisabled: true}
			return msg
		}
		return tbMsg // don't touch other types
	}

	msg := withParseMode(tbMsg, tbapi.ModeMarkdown) // try markdown first
	if _, err := tbAPI.Send(msg); err != nil {
		log.Printf("[WARN] failed to send message as markdown, %v", err)
		msg = withParseMode(tbMsg, "") // try plain text
		if _, err := tbAPI.Send(msg); err != nil {
			return fmt.Errorf("can't send message to telegram: %w", err)
		}
	}
	return nil
}

// itemID makes id of the telegram message unique across chats
func itemID(chatID int64, msgID int) string {
	return fmt.Sprintf("tg:%d:%d", chatID, msgID)
}

// messageLink makes a link to the message, empty for private chats
func messageLink(chat tbapi.Chat, msgID int) string {
	if chat.UserName != "" {
		return fmt.Sprintf("https://t.me/%s/%d", chat.UserName, msgID)
	}
	if id := strconv.FormatInt(chat.ID, 10); strings.HasPrefix(id, "-100") {
		return fmt.Sprintf("https://t.me/c/%s/%d", strings.TrimPrefix(id, "-100"), msgID)
	}
	return ""
}

// transform makes bot.Message from telegram message. Text and caption go to the body, images are added by the caller.
func transform(msg *tbapi.Message) bot.Message {
	message := bot.Message{
		ID:       itemID(msg.Chat.ID, msg.MessageID),
		MsgID:    msg.MessageID,
		ChatID:   msg.Chat.ID,
		Sent:     msg.Time(),
		Text:     msg.Text,
		Link:     messageLink(msg.Chat, msg.MessageID),
		SelfPost: len(msg.Photo) == 0,
	}

	if msg.From != nil {
		message.From = bot.User{ID: msg.From.ID, Username: msg.From.UserName}
		if strings.TrimSpace(msg.From.FirstName) != "" {
			message.From.DisplayName = msg.From.FirstName
		}
		if strings.TrimSpace(msg.From.LastName) != "" {
			message.From.DisplayName = strings.TrimSpace(message.From.DisplayName + " " + msg.From.LastName)
		}
	}
	if msg.From == nil && msg.SenderChat != nil {
		message.From = bot.User{ID: msg.SenderChat.ID, Username: msg.SenderChat.UserName, DisplayName: msg.SenderChat.Title}
	}

	if msg.Caption != "" {
		if message.Text == "" {
			message.Text = msg.Caption
		} else {
			message.Text += "\n" + msg.Caption
		}
	}
	return message
}
