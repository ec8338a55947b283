// Package bot is the Telegram front end. Each handler is a thin adapter:
// it resolves the sender to an owner, forwards one call into the tracker
// service, and turns sentinel errors into user-facing replies.
package bot

import (
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/julianstephens/habitbot/internal/logger"
	"github.com/julianstephens/habitbot/internal/models"
	"github.com/julianstephens/habitbot/internal/tracker"
)

type Bot struct {
	tb  *tele.Bot
	svc *tracker.Service

	// chats that sent a bare /add and owe us a habit name next.
	// Updates are handled synchronously, so plain map access is safe.
	pendingAdd map[int64]bool

	menu      *tele.ReplyMarkup
	btnDone   tele.Btn
	btnDelete tele.Btn
}

func New(token string, svc *tracker.Service) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		// The store is single-writer: one update at a time.
		Synchronous: true,
	})
	if err != nil {
		return nil, err
	}

	b := &Bot{
		tb:         tb,
		svc:        svc,
		pendingAdd: make(map[int64]bool),
	}
	b.buildMenu()
	b.route()

	return b, nil
}

// Start begins long-polling. Blocks until Stop is called.
func (b *Bot) Start() {
	logger.Info("Bot started", "username", b.tb.Me.Username)
	b.tb.Start()
}

func (b *Bot) Stop() {
	b.tb.Stop()
}

func (b *Bot) buildMenu() {
	b.menu = &tele.ReplyMarkup{ResizeKeyboard: true}
	b.menu.Reply(
		b.menu.Row(b.menu.Text("/add"), b.menu.Text("/done")),
		b.menu.Row(b.menu.Text("/delete"), b.menu.Text("/week")),
	)

	b.btnDone = tele.Btn{Unique: "done"}
	b.btnDelete = tele.Btn{Unique: "delete"}
}

func (b *Bot) route() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/add", b.handleAdd)
	b.tb.Handle("/done", b.handleDone)
	b.tb.Handle("/delete", b.handleDelete)
	b.tb.Handle("/week", b.handleWeek)
	b.tb.Handle(tele.OnText, b.handleText)
	b.tb.Handle(&b.btnDone, b.handleDoneCallback)
	b.tb.Handle(&b.btnDelete, b.handleDeleteCallback)
}

// user upserts the sender's chat identity on every interaction.
func (b *Bot) user(c tele.Context) (models.User, error) {
	sender := c.Sender()
	return b.svc.UpsertUser(sender.ID, sender.Username)
}
