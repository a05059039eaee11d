package helpers

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	tb "gopkg.in/tucnak/telebot.v2"
)

// LogOptions configures the shared Logger.
type LogOptions struct {
	File           string
	Level          string
	TelegramOutput bool
	TelegramToken  string
	TelegramChatID string
	TelegramLevel  string
}

type FileLogger struct {
	*log.Logger
	file *os.File
}

func NewFileLogger() *FileLogger {
	plainFormatter := new(PlainFormatter)
	plainFormatter.TimestampFormat = "2006-01-02 15:04:05"
	plainFormatter.LevelDesc = []string{"PANIC", "FATAL", "ERROR", "WARN ", "INFO ", "DEBUG", "TRACE"}

	logger := log.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(plainFormatter)
	logger.SetLevel(log.InfoLevel)

	return &FileLogger{Logger: logger}
}

var Logger = NewFileLogger()

// Configure points the logger at its file, sets the level and attaches the
// Telegram hook when enabled. An empty file or "-" keeps stdout.
func (l *FileLogger) Configure(opts LogOptions) error {
	if opts.Level != "" {
		level, err := log.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("error parsing logLevel: %w", err)
		}
		l.SetLevel(level)
	}

	if opts.File != "" && opts.File != "-" {
		f, err := os.OpenFile(opts.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("error opening log file: %w", err)
		}
		l.SetOutput(f)
		if l.file != nil {
			_ = l.file.Close()
		}
		l.file = f
	}

	if opts.TelegramOutput {
		if opts.TelegramToken == "" {
			return fmt.Errorf("telegramOutput set to true but telegramToken parameter not found")
		}
		if opts.TelegramChatID == "" {
			return fmt.Errorf("telegramOutput set to true but telegramChatId parameter not found")
		}
		hook, err := newTelegramHook(opts.TelegramToken, opts.TelegramChatID, opts.TelegramLevel)
		if err != nil {
			return err
		}
		l.AddHook(hook)
	}

	return nil
}

// Close releases the log file, if any, and falls back to stdout.
func (l *FileLogger) Close() {
	if l.file == nil {
		return
	}
	l.SetOutput(os.Stdout)
	_ = l.file.Close()
	l.file = nil
}

// SetWriter redirects output, mostly for tests.
func (l *FileLogger) SetWriter(w io.Writer) {
	l.SetOutput(w)
}

type PlainFormatter struct {
	TimestampFormat string
	LevelDesc       []string
}

func (f PlainFormatter) Format(entry *log.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)
	line := fmt.Sprintf("%s %s %s", f.LevelDesc[entry.Level], timestamp, entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]string, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s=%v", k, entry.Data[k]))
		}
		line += " " + strings.Join(fields, " ")
	}

	return []byte(line + "\n"), nil
}

type telegramHook struct {
	bot    *tb.Bot
	chat   *tb.Chat
	levels []log.Level
}

func newTelegramHook(token string, chatID string, minLevel string) (*telegramHook, error) {
	level := log.WarnLevel
	if minLevel != "" {
		parsed, err := log.ParseLevel(minLevel)
		if err != nil {
			return nil, fmt.Errorf("error parsing telegramLevel: %w", err)
		}
		level = parsed
	}

	b, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: &tb.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}

	chat, err := b.ChatByID(chatID)
	if err != nil {
		return nil, err
	}

	var levels []log.Level
	for _, l := range log.AllLevels {
		if l <= level {
			levels = append(levels, l)
		}
	}

	return &telegramHook{bot: b, chat: chat, levels: levels}, nil
}

func (h *telegramHook) Levels() []log.Level {
	return h.levels
}

func (h *telegramHook) Fire(entry *log.Entry) error {
	_, err := h.bot.Send(h.chat, entry.Message)
	return err
}
