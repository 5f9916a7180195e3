// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"finance-tracker/internal/analytics"
	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage/postgres"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/text/encoding/charmap"
)

const helpText = "💰 *Трекер финансов*\n\n" +
	"Команды:\n" +
	"`/link email пароль` — привязать аккаунт\n" +
	"`/unlink` — отвязать аккаунт\n" +
	"`/summary` — доходы и расходы (всего и за месяц)\n" +
	"`/recent` — последние 5 операций"

func main() {
	_ = godotenv.Load()

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set")
	}

	cfg := config.MustLoad()
	db, err := pgxpool.New(context.Background(), cfg.DBConn)
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}
	defer db.Close()

	store := postgres.NewStorage(db)
	engine := analytics.NewEngine(store)

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Panic(err)
	}

	log.Printf("Bot started: @%s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		chatID := update.Message.Chat.ID
		text := strings.TrimSpace(fixEncoding(update.Message.Text))

		var msgText string
		var errHandle error

		switch {
		case text == "/start" || text == "/help":
			msgText = helpText

		case strings.HasPrefix(text, "/link "):
			msgText, errHandle = handleLink(store, chatID, strings.TrimSpace(text[6:]))

		case text == "/unlink":
			errHandle = store.UnlinkTelegramChat(context.Background(), chatID)
			if errHandle == nil {
				msgText = "✅ Аккаунт отвязан"
			}

		case text == "/summary":
			msgText, errHandle = handleSummary(store, engine, chatID)

		case text == "/recent":
			msgText, errHandle = handleRecent(store, engine, chatID)

		default:
			msgText = "Неизвестная команда. Напиши /help"
		}

		if errHandle != nil {
			msgText = "❌ Ошибка: " + errHandle.Error()
		}

		msg := tgbotapi.NewMessage(chatID, msgText)
		msg.ParseMode = "Markdown"
		_, _ = bot.Send(msg)
	}
}

func handleLink(store *postgres.Storage, chatID int64, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "❌ Используй: /link email пароль", nil
	}
	email, password := fields[0], fields[1]

	user, err := store.FindUserByEmail(context.Background(), email)
	// Неверный email и неверный пароль дают один и тот же ответ.
	if err != nil || !auth.CheckPassword(password, user.PasswordHash) {
		return "❌ Неверный email или пароль", nil
	}

	if err := store.LinkTelegramChat(context.Background(), user.ID, chatID); err != nil {
		return "", err
	}
	return "✅ Аккаунт привязан. Пароль можно удалить из истории чата.", nil
}

func linkedUser(store *postgres.Storage, chatID int64) (*domain.User, error) {
	return store.FindUserByTelegramChat(context.Background(), chatID)
}

func handleSummary(store *postgres.Storage, engine *analytics.Engine, chatID int64) (string, error) {
	user, err := linkedUser(store, chatID)
	if err != nil {
		return "📭 Аккаунт не привязан. Используй /link", nil
	}

	s, err := engine.Summary(context.Background(), user.ID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("💰 *Сводка*\n\n"+
		"Доходы всего: %.2f\n"+
		"Расходы всего: %.2f\n\n"+
		"Доходы за месяц: %.2f\n"+
		"Расходы за месяц: %.2f",
		s.IncomeTotal, s.ExpenseTotal, s.MonthIncome, s.MonthExpense), nil
}

func handleRecent(store *postgres.Storage, engine *analytics.Engine, chatID int64) (string, error) {
	user, err := linkedUser(store, chatID)
	if err != nil {
		return "📭 Аккаунт не привязан. Используй /link", nil
	}

	transactions, err := engine.RecentTransactions(context.Background(), user.ID, 5)
	if err != nil {
		return "", err
	}
	if len(transactions) == 0 {
		return "📭 Операций пока нет", nil
	}

	var lines []string
	lines = append(lines, "🧾 *Последние операции*")
	for _, t := range transactions {
		sign := "+"
		if t.Type == domain.TypeExpense {
			sign = "-"
		}
		desc := ""
		if t.Description != nil {
			desc = " — " + *t.Description
		}
		lines = append(lines, fmt.Sprintf("%s %s%.2f%s", t.Timestamp.Format("02.01"), sign, t.Amount, desc))
	}
	return strings.Join(lines, "\n"), nil
}

func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	// Telegram-клиенты под Windows иногда шлют windows-1251
	decoder := charmap.Windows1251.NewDecoder()
	fixed, err := decoder.String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}

	return strings.ToValidUTF8(s, "")
}
