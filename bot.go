package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

var (
	ErrClosed         = errors.New("bot has closed")
	ErrSessionExpired = errors.New("session has expired")
	ErrAlreadyStarted = errors.New("bot already started")
)

var keyboardLayout = [][]calc.Key{
	{calc.KeyClearEntry, calc.KeyClear, calc.KeyBackspace, calc.KeyPercent, calc.KeyDivide},
	{calc.Digit(7), calc.Digit(8), calc.Digit(9), calc.KeyMultiply},
	{calc.Digit(4), calc.Digit(5), calc.Digit(6), calc.KeySubtract},
	{calc.Digit(1), calc.Digit(2), calc.Digit(3), calc.KeyAdd},
	{calc.KeyToggleSign, calc.Digit(0), calc.KeyDot, calc.KeyEquals},
}

func newKeyboard(layout [][]calc.Key) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(layout))
	for _, keys := range layout {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(keys))
		for _, k := range keys {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(k.Label(), k.Label()))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

var botKeyboard = newKeyboard(keyboardLayout)

// render lays out the calculator display as the message text: the
// expression trail, when there is one, above the result.
func render(e *calc.Engine) string {
	if trail := e.ExpressionText(); trail != "" {
		return trail + "\n" + e.ResultText()
	}
	return e.ResultText()
}

type Bot struct {
	sessions   *Sessions
	api        *tgbotapi.BotAPI
	config     *Config
	welcome    string
	help       string
	isStarted  atomic.Bool
	inShutdown atomic.Bool
	isDone     chan struct{}
	logger     *slog.Logger
}

func LoadBot(config *Config, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "connect telegram")
	}
	logger.Info("authorized", "account", api.Self.UserName)

	return &Bot{
		api:      api,
		config:   config,
		logger:   logger,
		isDone:   make(chan struct{}),
		sessions: NewSessions(config.SessionTTL, config.SessionCleanupInterval),
		welcome: fmt.Sprintf(
			"%s%s %s of inactivity.",
			"Welcome! Type /open to get a calculator.\n",
			"Note: the calculator is forgotten after",
			config.SessionTTL,
		),
		help: strings.Join([]string{
			"Help:",
			"/start - welcome message.",
			"/open - open a new calculator.",
			"/help - send this message.",
			"",
			"CE clears the current entry, C clears everything,",
			"⌫ deletes the last digit and ± changes the sign.",
		}, "\n"),
	}, nil
}

func (b *Bot) Run() error {
	if b.isStarted.Swap(true) {
		return ErrAlreadyStarted
	}
	defer close(b.isDone)

	updateConfig := tgbotapi.NewUpdate(b.config.BotOffset)
	updateConfig.Timeout = b.config.BotTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {
		if b.inShutdown.Load() && b.sessions.IsEmpty() {
			continue
		}

		if update.CallbackQuery != nil {
			if err := b.handleCallback(update.CallbackQuery); err != nil {
				b.logger.Warn("failed to handle key press",
					"data", update.CallbackQuery.Data,
					"error", err,
				)
			}
			continue
		}

		if update.Message == nil {
			continue
		}

		if err := b.handleCommand(update.Message); err != nil {
			b.logger.Warn("failed to handle command",
				"chat", update.Message.Chat.ID,
				"text", update.Message.Text,
				"error", err,
			)
		}
	}

	return ErrClosed
}

func (b *Bot) createMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return errors.Wrap(err, "send message")
	}
	return nil
}

func (b *Bot) createKeyboard(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = botKeyboard

	if _, err := b.api.Send(msg); err != nil {
		return errors.Wrap(err, "send keyboard")
	}
	return nil
}

func (b *Bot) updateKeyboard(callback *tgbotapi.CallbackQuery, text string) error {
	if text == callback.Message.Text {
		return nil
	}

	edit := tgbotapi.NewEditMessageText(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		text,
	)
	edit.ReplyMarkup = &botKeyboard

	if _, err := b.api.Send(edit); err != nil {
		return errors.Wrap(err, "edit keyboard")
	}
	return nil
}

func (b *Bot) handleCommand(command *tgbotapi.Message) error {
	switch command.Command() {
	case "start":
		return b.createMessage(command.Chat.ID, b.welcome)
	case "help":
		return b.createMessage(command.Chat.ID, b.help)
	case "open":
		if command.From == nil {
			return nil
		}
		key := SessionKey{ChatID: command.Chat.ID, UserID: command.From.ID}

		engine, ok := b.sessions.Open(key)
		if !ok {
			return b.createMessage(command.Chat.ID, "Your calculator is still open!")
		}
		b.logger.Debug("session opened", "chat", key.ChatID, "user", key.UserID)
		return b.createKeyboard(command.Chat.ID, render(engine))
	default:
		return b.createMessage(command.Chat.ID, "Unknown command. Try /help")
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		return errors.Wrap(err, "answer callback")
	}
	if callback.Message == nil {
		return nil
	}

	key := SessionKey{ChatID: callback.Message.Chat.ID, UserID: callback.From.ID}
	engine := b.sessions.Get(key)
	if engine == nil {
		err := b.updateKeyboard(
			callback,
			"Your calculator has expired, please /open a new one.",
		)
		if err != nil {
			return err
		}
		return ErrSessionExpired
	}

	k, err := calc.ParseKey(callback.Data)
	if err != nil {
		return err
	}
	engine.Press(k)
	b.sessions.Touch(key)

	if engine.IsError() {
		b.logger.Debug("calculation failed",
			"chat", key.ChatID,
			"kind", engine.State().Err(),
		)
	}
	return b.updateKeyboard(callback, render(engine))
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.inShutdown.Store(true)
	err := b.sessions.Shutdown(ctx)
	b.api.StopReceivingUpdates()

	select {
	case <-b.isDone:
		if errors.Is(err, ErrSessionsClosed) {
			return ErrClosed
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) Close() error {
	b.inShutdown.Store(true)
	err := b.sessions.Close()
	b.api.StopReceivingUpdates()
	<-b.isDone

	if errors.Is(err, ErrSessionsClosed) {
		return ErrClosed
	}
	return err
}
