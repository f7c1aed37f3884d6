package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/user/tubevibes/internal/model"
)

// TelegramClient defines the interface for sending Telegram messages
type TelegramClient interface {
	SendMarkdown(chatID int64, text string) error
	SendPhoto(chatID int64, photoURL string, caption string) error
}

// Client wraps the Telegram Bot API for sending messages
type Client struct {
	api *tgbotapi.BotAPI
}

// NewClient creates a new Telegram client with the given bot token
func NewClient(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	return &Client{api: api}, nil
}

// SendMarkdown sends a message with MarkdownV2 formatting to a chat
func (c *Client) SendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err := c.api.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send markdown message: %w", err)
	}
	return nil
}

// SendPhoto sends a photo with caption to a chat
// The photoURL can be a URL or a file_id
func (c *Client) SendPhoto(chatID int64, photoURL string, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdownV2
	_, err := c.api.Send(photo)
	if err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}

// TelegramSink announces new uploads in one chat
type TelegramSink struct {
	client  TelegramClient
	chatID  int64
	baseURL string
}

// NewTelegramSink creates a sink posting to chatID
func NewTelegramSink(client TelegramClient, chatID int64, baseURL string) *TelegramSink {
	return &TelegramSink{client: client, chatID: chatID, baseURL: baseURL}
}

func (s *TelegramSink) Name() string {
	return "telegram"
}

// Deliver posts uploads only; edits and deletions are not announced
func (s *TelegramSink) Deliver(ctx context.Context, event model.VideoEvent) error {
	if event.Type != model.EventUploaded {
		return nil
	}

	message := FormatVideoMessage(&event.Video, s.baseURL)

	// Photo only works with a URL Telegram can fetch
	if isHTTPURL(event.Video.ThumbnailURL) {
		if err := s.client.SendPhoto(s.chatID, event.Video.ThumbnailURL, message); err == nil {
			return nil
		}
	}
	return s.client.SendMarkdown(s.chatID, message)
}
