package events

import (
	"context"
	"errors"
	"testing"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/scam-spotter/app/bot"
	"github.com/umputun/scam-spotter/app/events/mocks"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

func newMockAPI(updates ...tbapi.Update) *mocks.TbAPIMock {
	updChan := make(chan tbapi.Update, len(updates))
	for _, u := range updates {
		updChan <- u
	}
	close(updChan)
	return &mocks.TbAPIMock{
		GetChatFunc: func(config tbapi.ChatInfoConfig) (tbapi.ChatFullInfo, error) {
			if config.SuperGroupUsername == "@admins" {
				return tbapi.ChatFullInfo{Chat: tbapi.Chat{ID: 999}}, nil
			}
			return tbapi.ChatFullInfo{Chat: tbapi.Chat{ID: 123}}, nil
		},
		SendFunc: func(c tbapi.Chattable) (tbapi.Message, error) { return tbapi.Message{}, nil },
		RequestFunc: func(c tbapi.Chattable) (*tbapi.APIResponse, error) {
			return &tbapi.APIResponse{Ok: true}, nil
		},
		GetFileDirectURLFunc: func(fileID string) (string, error) {
			return "https://api.telegram.org/file/bot-token/" + fileID + ".jpg", nil
		},
		GetUpdatesChanFunc: func(config tbapi.UpdateConfig) tbapi.UpdatesChannel { return updChan },
	}
}

func scamBot() *mocks.BotMock {
	return &mocks.BotMock{OnMessageFunc: func(_ context.Context, msg bot.Message) (bot.Response, error) {
		switch msg.Text {
		case "free nitro":
			return bot.Response{Send: true, Text: "this is a scam", ReplyTo: msg.MsgID, Report: true,
				Verdict: scamcheck.Verdict{ID: msg.ID, Checks: []scamcheck.Response{{Name: "nitro", Score: 0.9, Report: true}}}}, nil
		case "fail":
			return bot.Response{}, errors.New("check failed")
		}
		return bot.Response{ReplyTo: msg.MsgID, Verdict: scamcheck.Verdict{ID: msg.ID}}, nil
	}}
}

func textUpdate(chatID int64, msgID int, text string) tbapi.Update {
	return tbapi.Update{Message: &tbapi.Message{MessageID: msgID, Chat: tbapi.Chat{ID: chatID}, Text: text,
		From: &tbapi.User{ID: 1, UserName: "user"}, Date: int(time.Now().Unix())}}
}

func TestTelegramListener_Do(t *testing.T) {
	mockAPI := newMockAPI(
		textUpdate(123, 1, "hello"),
		textUpdate(123, 2, "free nitro"),
		textUpdate(123, 2, "free nitro"), // duplicate
		textUpdate(555, 3, "free nitro"), // other chat
		textUpdate(999, 4, "free nitro"), // admin chat
		tbapi.Update{ChannelPost: &tbapi.Message{MessageID: 5, Chat: tbapi.Chat{ID: 123}, Caption: "free nitro",
			Photo: []tbapi.PhotoSize{{FileID: "small"}, {FileID: "big"}}, Date: int(time.Now().Unix())}},
		textUpdate(123, 6, "fail"),
		textUpdate(123, 7, "  "),
		tbapi.Update{},
	)
	botMock := scamBot()
	l := TelegramListener{TbAPI: mockAPI, Bot: botMock, Group: "gr", AdminGroup: "admins", StartupMsg: "started"}

	err := l.Do(context.Background())
	require.EqualError(t, err, "telegram update chan closed")
	assert.Equal(t, int64(123), l.chatID)
	assert.Equal(t, int64(999), l.adminChatID)

	calls := botMock.OnMessageCalls()
	require.Len(t, calls, 4, "duplicate, other chats and empty messages skipped")
	assert.Equal(t, "tg:123:1", calls[0].Msg.ID)
	assert.Equal(t, "tg:123:2", calls[1].Msg.ID)
	assert.Equal(t, "tg:123:5", calls[2].Msg.ID)
	assert.Equal(t, []string{"https://api.telegram.org/file/bot-token/big.jpg"}, calls[2].Msg.Images)
	assert.False(t, calls[2].Msg.SelfPost)
	assert.Equal(t, "tg:123:6", calls[3].Msg.ID)
	require.Len(t, mockAPI.GetFileDirectURLCalls(), 1)
	assert.Equal(t, "big", mockAPI.GetFileDirectURLCalls()[0].FileID)

	sends := mockAPI.SendCalls()
	// startup, then for each of two scams: reply, forward, report
	require.Len(t, sends, 7)
	assert.Equal(t, "started", sends[0].C.(tbapi.MessageConfig).Text)
	reply := sends[1].C.(tbapi.MessageConfig)
	assert.Equal(t, "this is a scam", reply.Text)
	assert.Equal(t, int64(123), reply.ChatID)
	assert.Equal(t, 2, reply.ReplyParameters.MessageID)
	_, isForward := sends[2].C.(tbapi.ForwardConfig)
	assert.True(t, isForward)
	report := sends[3].C.(tbapi.MessageConfig)
	assert.Equal(t, int64(999), report.ChatID)
	assert.Contains(t, report.Text, "nitro: 90%")
	assert.NotNil(t, report.ReplyMarkup)
	assert.Equal(t, 5, sends[4].C.(tbapi.MessageConfig).ReplyParameters.MessageID)
}

func TestTelegramListener_DoCanceled(t *testing.T) {
	mockAPI := newMockAPI()
	mockAPI.GetUpdatesChanFunc = func(tbapi.UpdateConfig) tbapi.UpdatesChannel { return make(chan tbapi.Update) }
	l := TelegramListener{TbAPI: mockAPI, Bot: scamBot()}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := l.Do(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, mockAPI.GetChatCalls(), "no group, all chats")
	assert.Empty(t, mockAPI.SendCalls())
}

func TestTelegramListener_DoBadGroup(t *testing.T) {
	mockAPI := newMockAPI()
	mockAPI.GetChatFunc = func(tbapi.ChatInfoConfig) (tbapi.ChatFullInfo, error) {
		return tbapi.ChatFullInfo{}, errors.New("chat not found")
	}
	l := TelegramListener{TbAPI: mockAPI, Bot: scamBot(), Group: "nope"}
	err := l.Do(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")

	l = TelegramListener{TbAPI: mockAPI, Bot: scamBot(), Group: "123", AdminGroup: "nope"}
	err = l.Do(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin group")
}

func TestTelegramListener_Seen(t *testing.T) {
	stored := map[string]bool{"tg:123:1": true}
	seen := &mocks.SeenMock{
		HasFunc: func(_ context.Context, id string) (bool, error) { return stored[id], nil },
		AddFunc: func(_ context.Context, id string) error {
			stored[id] = true
			return nil
		},
		TrimFunc: func(context.Context, int) (int64, error) { return 0, nil },
	}

	updates := []tbapi.Update{textUpdate(123, 1, "hello")}
	for i := range trimEvery {
		updates = append(updates, textUpdate(123, 100+i, "hello"))
	}
	mockAPI := newMockAPI(updates...)
	botMock := scamBot()
	l := TelegramListener{TbAPI: mockAPI, Bot: botMock, Group: "123", Seen: seen, KeepSeen: 500}

	err := l.Do(context.Background())
	require.EqualError(t, err, "telegram update chan closed")
	assert.Len(t, botMock.OnMessageCalls(), trimEvery, "stored message skipped")
	assert.Len(t, seen.AddCalls(), trimEvery)
	require.Len(t, seen.TrimCalls(), 1)
	assert.Equal(t, 500, seen.TrimCalls()[0].Keep)
}

func TestTelegramListener_ProcMessageErrors(t *testing.T) {
	mockAPI := newMockAPI()
	mockAPI.GetFileDirectURLFunc = func(string) (string, error) { return "", errors.New("file too big") }
	mockAPI.SendFunc = func(tbapi.Chattable) (tbapi.Message, error) { return tbapi.Message{}, errors.New("forbidden") }
	botMock := scamBot()
	l := TelegramListener{TbAPI: mockAPI, Bot: botMock, Group: "123"}
	require.EqualError(t, l.Do(context.Background()), "telegram update chan closed")

	// photo without caption, url failed, nothing to check
	err := l.procMessage(context.Background(), &tbapi.Message{MessageID: 1, Chat: tbapi.Chat{ID: 123},
		Photo: []tbapi.PhotoSize{{FileID: "f1"}}})
	require.NoError(t, err)
	assert.Empty(t, botMock.OnMessageCalls())

	err = l.procMessage(context.Background(), &tbapi.Message{MessageID: 2, Chat: tbapi.Chat{ID: 123}, Text: "free nitro"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")

	err = l.procMessage(context.Background(), &tbapi.Message{MessageID: 3, Chat: tbapi.Chat{ID: 123}, Text: "fail"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check failed")

	err = l.procMessage(context.Background(), &tbapi.Message{MessageID: 3, Chat: tbapi.Chat{ID: 123}, Text: "fail"})
	require.Error(t, err, "failed check is not marked as seen")
}
