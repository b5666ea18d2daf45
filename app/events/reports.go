package events

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/umputun/scam-spotter/app/bot"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

// adminReports sends detections asking for a report to the admin chat and handles admin decisions
type adminReports struct {
	tbAPI       TbAPI
	adminChatID int64
	superUsers  SuperUsers
	dry         bool
}

// notify forwards the original message to the admin chat and sends the report with delete and keep buttons
// callback format: D<chatID>:<msgID> to delete, K<chatID>:<msgID> to keep
func (r *adminReports) notify(msg bot.Message, resp bot.Response) error {
	if msg.MsgID != 0 {
		if _, err := r.tbAPI.Send(tbapi.NewForward(r.adminChatID, msg.ChatID, msg.MsgID)); err != nil {
			log.Printf("[WARN] failed to forward %s to admin chat: %v", msg.ID, err)
		}
	}

	text := fmt.Sprintf("*scam detected* from %s\n\n%s\n\n%s",
		escapeMarkDownV1Text(bot.DisplayName(msg)), escapeMarkDownV1Text(summary(resp.Verdict.Checks)),
		escapeMarkDownV1Text(shortText(msg.Text, 512)))
	if msg.Link != "" {
		text += "\n\n" + msg.Link
	}

	tbMsg := tbapi.NewMessage(r.adminChatID, text)
	tbMsg.ReplyMarkup = tbapi.NewInlineKeyboardMarkup(
		tbapi.NewInlineKeyboardRow(
			tbapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("D%d:%d", msg.ChatID, msg.MsgID)),
			tbapi.NewInlineKeyboardButtonData("✅ Keep", fmt.Sprintf("K%d:%d", msg.ChatID, msg.MsgID)),
		),
	)
	if err := send(tbMsg, r.tbAPI); err != nil {
		return fmt.Errorf("failed to send report to admin chat: %w", err)
	}
	log.Printf("[INFO] report for %s sent to admin chat", msg.ID)
	return nil
}

// handleCallback handles admin decision on the report
func (r *adminReports) handleCallback(query *tbapi.CallbackQuery) error {
	if query.Message == nil || query.Message.Chat.ID != r.adminChatID {
		return nil
	}
	userName, userID := "", int64(0)
	if query.From != nil {
		userName, userID = query.From.UserName, query.From.ID
	}
	if !r.superUsers.IsSuper(userName, userID) {
		log.Printf("[WARN] callback from %q (%d) ignored, not a super user", userName, userID)
		return nil
	}

	action, chatID, msgID, err := parseCallbackData(query.Data)
	if err != nil {
		return err
	}

	var updText string
	switch action {
	case 'D':
		if r.dry {
			log.Printf("[INFO] dry run: delete message %d in chat %d", msgID, chatID)
		} else {
			_, err := r.tbAPI.Request(tbapi.DeleteMessageConfig{BaseChatMessage: tbapi.BaseChatMessage{
				MessageID:  msgID,
				ChatConfig: tbapi.ChatConfig{ChatID: chatID},
			}})
			if err != nil {
				return fmt.Errorf("failed to delete message %d in chat %d: %w", msgID, chatID, err)
			}
			log.Printf("[INFO] message %d in chat %d deleted by %s", msgID, chatID, userName)
		}
		updText = query.Message.Text + fmt.Sprintf("\n\n_deleted by %s in %v_", userName, sinceQuery(query))
	case 'K':
		log.Printf("[INFO] message %d in chat %d kept by %s", msgID, chatID, userName)
		updText = query.Message.Text + fmt.Sprintf("\n\n_kept by %s in %v_", userName, sinceQuery(query))
	}

	if _, err := r.tbAPI.Request(tbapi.NewCallback(query.ID, "accepted")); err != nil {
		log.Printf("[WARN] failed to answer callback %s: %v", query.ID, err)
	}

	editMsg := tbapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, updText)
	editMsg.ReplyMarkup = &tbapi.InlineKeyboardMarkup{InlineKeyboard: [][]tbapi.InlineKeyboardButton{}}
	if err := send(editMsg, r.tbAPI); err != nil {
		return fmt.Errorf("failed to update report, chatID:%d, msgID:%d, %w", query.Message.Chat.ID, query.Message.MessageID, err)
	}
	return nil
}

// parseCallbackData parses D<chatID>:<msgID> and K<chatID>:<msgID>
func parseCallbackData(data string) (action byte, chatID int64, msgID int, err error) {
	if len(data) < 4 || (data[0] != 'D' && data[0] != 'K') {
		return 0, 0, 0, fmt.Errorf("unknown callback %q", data)
	}
	chat, msg, ok := strings.Cut(data[1:], ":")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid callback data %q", data)
	}
	if chatID, err = strconv.ParseInt(chat, 10, 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid chat id in %q: %w", data, err)
	}
	if msgID, err = strconv.Atoi(msg); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid message id in %q: %w", data, err)
	}
	return data[0], chatID, msgID, nil
}

// sinceQuery returns time since the report was sent, rounded to seconds
func sinceQuery(query *tbapi.CallbackQuery) time.Duration {
	res := time.Since(query.Message.Time()).Round(time.Second)
	if res < 0 {
		return 0
	}
	return res
}

func summary(checks []scamcheck.Response) string {
	lines := make([]string, 0, len(checks))
	for _, c := range checks {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, "\n")
}

func shortText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
