package events

import (
	"errors"
	"testing"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/scam-spotter/app/bot"
	"github.com/umputun/scam-spotter/app/events/mocks"
)

func TestTransform(t *testing.T) {
	sent := time.Date(2020, 2, 11, 19, 35, 55, 0, time.UTC)
	tbl := []struct {
		name string
		in   *tbapi.Message
		want bot.Message
	}{
		{
			name: "text from user",
			in: &tbapi.Message{MessageID: 7, Chat: tbapi.Chat{ID: -1001234, UserName: "group"}, Text: "free nitro",
				From: &tbapi.User{ID: 100, UserName: "bob", FirstName: "Bob", LastName: "Smith"}, Date: int(sent.Unix())},
			want: bot.Message{ID: "tg:-1001234:7", MsgID: 7, ChatID: -1001234, Sent: sent.Local(), Text: "free nitro",
				Link: "https://t.me/group/7", SelfPost: true,
				From: bot.User{ID: 100, Username: "bob", DisplayName: "Bob Smith"}},
		},
		{
			name: "photo with caption in private supergroup",
			in: &tbapi.Message{MessageID: 8, Chat: tbapi.Chat{ID: -1005555}, Caption: "see this",
				Photo: []tbapi.PhotoSize{{FileID: "small"}, {FileID: "big"}}, From: &tbapi.User{ID: 101, LastName: "Doe"},
				Date: int(sent.Unix())},
			want: bot.Message{ID: "tg:-1005555:8", MsgID: 8, ChatID: -1005555, Sent: sent.Local(), Text: "see this",
				Link: "https://t.me/c/5555/8", From: bot.User{ID: 101, DisplayName: "Doe"}},
		},
		{
			name: "text and caption, channel post",
			in: &tbapi.Message{MessageID: 9, Chat: tbapi.Chat{ID: 42}, Text: "line1", Caption: "line2",
				SenderChat: &tbapi.Chat{ID: -100777, UserName: "chan", Title: "Channel"}, Date: int(sent.Unix())},
			want: bot.Message{ID: "tg:42:9", MsgID: 9, ChatID: 42, Sent: sent.Local(), Text: "line1\nline2", SelfPost: true,
				From: bot.User{ID: -100777, Username: "chan", DisplayName: "Channel"}},
		},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			got := transform(tt.in)
			assert.True(t, tt.want.Sent.Equal(got.Sent))
			got.Sent = tt.want.Sent
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSend(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		mockAPI := &mocks.TbAPIMock{SendFunc: func(c tbapi.Chattable) (tbapi.Message, error) { return tbapi.Message{}, nil }}
		require.NoError(t, send(tbapi.NewMessage(123, "*hi*"), mockAPI))
		require.Len(t, mockAPI.SendCalls(), 1)
		msg := mockAPI.SendCalls()[0].C.(tbapi.MessageConfig)
		assert.Equal(t, tbapi.ModeMarkdown, msg.ParseMode)
		assert.True(t, msg.LinkPreviewOptions.IsDisabled)
	})

	t.Run("fallback to plain text", func(t *testing.T) {
		mockAPI := &mocks.TbAPIMock{SendFunc: func(c tbapi.Chattable) (tbapi.Message, error) {
			if c.(tbapi.MessageConfig).ParseMode == tbapi.ModeMarkdown {
				return tbapi.Message{}, errors.New("can't parse entities")
			}
			return tbapi.Message{}, nil
		}}
		require.NoError(t, send(tbapi.NewMessage(123, "bad_markdown"), mockAPI))
		require.Len(t, mockAPI.SendCalls(), 2)
		assert.Empty(t, mockAPI.SendCalls()[1].C.(tbapi.MessageConfig).ParseMode)
	})

	t.Run("failed", func(t *testing.T) {
		mockAPI := &mocks.TbAPIMock{SendFunc: func(c tbapi.Chattable) (tbapi.Message, error) {
			return tbapi.Message{}, errors.New("blocked")
		}}
		err := send(tbapi.NewMessage(123, "text"), mockAPI)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked")
	})
}

func TestEscapeMarkDownV1Text(t *testing.T) {
	assert.Equal(t, `a\_b \*c\* \`+"`"+`d\[e]`, escapeMarkDownV1Text("a_b *c* `d[e]"))
}

func TestMessageLink(t *testing.T) {
	assert.Equal(t, "https://t.me/pub/1", messageLink(tbapi.Chat{ID: -1001, UserName: "pub"}, 1))
	assert.Equal(t, "https://t.me/c/123/2", messageLink(tbapi.Chat{ID: -100123}, 2))
	assert.Empty(t, messageLink(tbapi.Chat{ID: 555}, 3))
}
