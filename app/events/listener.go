package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/hashicorp/go-multierror"

	"github.com/umputun/scam-spotter/app/bot"
)

// TelegramListener listens to tg updates, checks messages with the bot, replies and reports detected scams.
// Not thread safe
type TelegramListener struct {
	TbAPI      TbAPI
	Bot        Bot
	Seen       Seen          // persistent store of processed messages, optional
	Group      string        // can be int64 or public group username (without "@" prefix), all chats if empty
	AdminGroup string        // reports sent here, can be int64 or public group username
	SuperUsers SuperUsers    // allowed to act on reports, all admin chat members if empty
	StartupMsg string        // sent to the group on start
	KeepSeen   int           // number of seen messages kept in the store
	SeenTTL    time.Duration // seen messages kept in memory for this long
	Dry        bool          // no deletions on reports

	chatID      int64
	adminChatID int64
	seen        cache.Cache[string, struct{}]
	seenAdded   int
	reports     *adminReports
}

// trimEvery is a number of stored seen messages between trims
const trimEvery = 100

// Do process all events, blocked call
func (l *TelegramListener) Do(ctx context.Context) error {
	log.Printf("[INFO] start telegram listener for %q", l.Group)

	var err error
	if l.Group != "" {
		if l.chatID, err = l.getChatID(l.Group); err != nil {
			return fmt.Errorf("failed to get chat ID for group %q: %w", l.Group, err)
		}
	}

	if l.AdminGroup != "" {
		if l.adminChatID, err = l.getChatID(l.AdminGroup); err != nil {
			return fmt.Errorf("failed to get chat ID for admin group %q: %w", l.AdminGroup, err)
		}
		log.Printf("[INFO] admin chat ID: %d", l.adminChatID)
		l.reports = &adminReports{tbAPI: l.TbAPI, adminChatID: l.adminChatID, superUsers: l.SuperUsers, dry: l.Dry}
	}

	if l.SeenTTL == 0 {
		l.SeenTTL = 24 * time.Hour
	}
	l.seen = cache.NewCache[string, struct{}]().WithTTL(l.SeenTTL).WithMaxKeys(10000)

	if l.StartupMsg != "" && l.chatID != 0 && !l.Dry {
		if err := send(tbapi.NewMessage(l.chatID, l.StartupMsg), l.TbAPI); err != nil {
			log.Printf("[WARN] failed to send startup message, %v", err)
		}
	}

	u := tbapi.NewUpdate(0)
	u.Timeout = 60
	updates := l.TbAPI.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				return errors.New("telegram update chan closed")
			}

			if update.CallbackQuery != nil {
				if l.reports == nil {
					continue
				}
				if err := l.reports.handleCallback(update.CallbackQuery); err != nil {
					log.Printf("[WARN] failed to process callback: %v", err)
				}
				continue
			}

			msg := update.Message
			if msg == nil {
				msg = update.ChannelPost
			}
			if msg == nil {
				continue
			}
			if l.chatID != 0 && msg.Chat.ID != l.chatID {
				log.Printf("[DEBUG] ignoring message from chat %d", msg.Chat.ID)
				continue
			}
			if l.adminChatID != 0 && msg.Chat.ID == l.adminChatID {
				continue
			}

			if err := l.procMessage(ctx, msg); err != nil {
				log.Printf("[WARN] failed to process message %d: %v", msg.MessageID, err)
			}
		}
	}
}

// procMessage checks the message once, replies if asked and reports to the admin chat
func (l *TelegramListener) procMessage(ctx context.Context, tbMsg *tbapi.Message) error {
	msg := transform(tbMsg)
	if len(tbMsg.Photo) > 0 {
		photo := tbMsg.Photo[len(tbMsg.Photo)-1] // the largest size
		url, err := l.TbAPI.GetFileDirectURL(photo.FileID)
		if err != nil {
			log.Printf("[WARN] can't get url of photo %s: %v", photo.FileID, err)
		} else {
			msg.Images = append(msg.Images, url)
		}
	}
	if msg.Empty() {
		return nil
	}
	if l.isSeen(ctx, msg.ID) {
		log.Printf("[DEBUG] message %s already checked", msg.ID)
		return nil
	}

	resp, err := l.Bot.OnMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", msg.ID, err)
	}
	l.markSeen(ctx, msg.ID)

	errs := new(multierror.Error)
	if resp.Send {
		if err := l.sendReply(resp, msg.ChatID); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if resp.Report && l.reports != nil {
		if err := l.reports.notify(msg, resp); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func (l *TelegramListener) sendReply(resp bot.Response, chatID int64) error {
	log.Printf("[DEBUG] bot response - %s, reply-to:%d", strings.ReplaceAll(resp.Text, "\n", "\\n"), resp.ReplyTo)
	tbMsg := tbapi.NewMessage(chatID, resp.Text)
	tbMsg.ReplyParameters.MessageID = resp.ReplyTo
	if err := send(tbMsg, l.TbAPI); err != nil {
		return fmt.Errorf("can't send reply to %d: %w", resp.ReplyTo, err)
	}
	return nil
}

// isSeen checks the memory cache first and the persistent store after
func (l *TelegramListener) isSeen(ctx context.Context, id string) bool {
	if _, ok := l.seen.Get(id); ok {
		return true
	}
	if l.Seen == nil {
		return false
	}
	has, err := l.Seen.Has(ctx, id)
	if err != nil {
		log.Printf("[WARN] can't check seen %s: %v", id, err)
		return false
	}
	return has
}

func (l *TelegramListener) markSeen(ctx context.Context, id string) {
	l.seen.Set(id, struct{}{}, l.SeenTTL)
	if l.Seen == nil {
		return
	}
	if err := l.Seen.Add(ctx, id); err != nil {
		log.Printf("[WARN] can't store seen %s: %v", id, err)
		return
	}
	l.seenAdded++
	if l.KeepSeen > 0 && l.seenAdded%trimEvery == 0 {
		removed, err := l.Seen.Trim(ctx, l.KeepSeen)
		if err != nil {
			log.Printf("[WARN] can't trim seen: %v", err)
			return
		}
		log.Printf("[DEBUG] trimmed %d seen messages", removed)
	}
}

func (l *TelegramListener) getChatID(group string) (int64, error) {
	chatID, err := strconv.ParseInt(group, 10, 64)
	if err == nil {
		return chatID, nil
	}

	chat, err := l.TbAPI.GetChat(tbapi.ChatInfoConfig{ChatConfig: tbapi.ChatConfig{SuperGroupUsername: "@" + group}})
	if err != nil {
		return 0, fmt.Errorf("can't get chat for %s: %w", group, err)
	}
	return chat.ID, nil
}
