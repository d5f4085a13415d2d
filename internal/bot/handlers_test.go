package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/spendbot/internal/config"
	"github.com/m3rciful/spendbot/internal/mail"
	"github.com/m3rciful/spendbot/internal/report"
	"github.com/m3rciful/spendbot/internal/service"
	"github.com/m3rciful/spendbot/internal/session"
	"github.com/m3rciful/spendbot/internal/storage"
)

// fakeContext stubs the handful of tele.Context methods the handlers touch
// and records every reply.
type fakeContext struct {
	tele.Context
	user *tele.User
	text string
	sent []string
}

func (f *fakeContext) Sender() *tele.User  { return f.user }
func (f *fakeContext) Chat() *tele.Chat    { return &tele.Chat{ID: f.user.ID} }
func (f *fakeContext) Update() tele.Update { return tele.Update{ID: 1} }
func (f *fakeContext) Text() string        { return f.text }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

func (f *fakeContext) lastSent() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

func newTestApp(t *testing.T) (*App, *storage.MemoryStore, *session.Manager) {
	t.Helper()
	store := storage.NewMemoryStore()
	sessions := session.NewManager()
	svc := service.New(store, sessions, time.UTC)
	app := New(&config.Config{}, svc, sessions, report.NewRenderer(t.TempDir()), mail.NewMailer(config.MailConfig{}))
	return app, store, sessions
}

func send(t *testing.T, app *App, userID int64, text string) *fakeContext {
	t.Helper()
	c := &fakeContext{user: &tele.User{ID: userID}, text: text}
	require.NoError(t, app.handleText(c))
	return c
}

func seedProfile(t *testing.T, store *storage.MemoryStore, userID, budget int64) {
	t.Helper()
	require.NoError(t, store.UpsertProfile(context.Background(), storage.Profile{
		UserID: userID, DisplayName: "Budi", Contact: "budi@example.com",
	}))
	require.NoError(t, store.UpdateBudget(context.Background(), userID, budget))
}

func TestRegistrationDialogue(t *testing.T) {
	app, store, sessions := newTestApp(t)

	send(t, app, 1, "/start")
	assert.Equal(t, session.StateAwaitName, sessions.State(1))

	c := send(t, app, 1, "Budi")
	assert.Equal(t, session.StateAwaitContact, sessions.State(1))
	assert.Contains(t, c.lastSent(), "Budi")

	c = send(t, app, 1, "budi@example.com")
	assert.Equal(t, msgRegistered, c.lastSent())
	assert.Equal(t, session.StateIdle, sessions.State(1))

	p, err := store.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Budi", p.DisplayName)
	assert.Equal(t, "budi@example.com", p.Contact)
}

func TestBudgetRePromptKeepsState(t *testing.T) {
	app, store, sessions := newTestApp(t)
	seedProfile(t, store, 1, 0)

	send(t, app, 1, "/newmonth")
	c := send(t, app, 1, "a lot")

	// Malformed input re-asks the same question without advancing or writing.
	assert.Equal(t, session.StateAwaitBudget, sessions.State(1))
	assert.Contains(t, c.lastSent(), msgAskBudget)
	p, err := store.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, p.Budget)

	send(t, app, 1, "500000")
	assert.Equal(t, session.StateIdle, sessions.State(1))
	p, err = store.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(500000), p.Budget)
}

func TestAmountRePromptKeepsPendingItem(t *testing.T) {
	app, store, sessions := newTestApp(t)
	seedProfile(t, store, 1, 500000)

	send(t, app, 1, "/expense")
	send(t, app, 1, "kopi")
	assert.Equal(t, session.StateAwaitAmount, sessions.State(1))

	c := send(t, app, 1, "no idea")
	assert.Equal(t, session.StateAwaitAmount, sessions.State(1))
	assert.Contains(t, c.lastSent(), "kopi")
	assert.Equal(t, 0, store.ExpenseCount())

	c = send(t, app, 1, "5000")
	assert.Equal(t, session.StateIdle, sessions.State(1))
	assert.Equal(t, 1, store.ExpenseCount())
	assert.Contains(t, c.lastSent(), "495,000")
}

func TestCancelMidAmountDiscardsEntry(t *testing.T) {
	app, store, sessions := newTestApp(t)
	seedProfile(t, store, 1, 500000)

	send(t, app, 1, "/expense")
	send(t, app, 1, "kopi")

	c := send(t, app, 1, "/cancel")
	assert.Equal(t, msgCancelled, c.lastSent())
	assert.Equal(t, session.StateIdle, sessions.State(1))
	assert.Equal(t, 0, store.ExpenseCount())

	c = send(t, app, 1, "/cancel")
	assert.Equal(t, msgNothingToDo, c.lastSent())
}

func TestDialogueEntryOverwrites(t *testing.T) {
	app, _, sessions := newTestApp(t)

	send(t, app, 1, "/start")
	assert.Equal(t, session.StateAwaitName, sessions.State(1))

	// A command mid-dialogue replaces the active session instead of being
	// swallowed as the pending answer.
	send(t, app, 1, "/expense")
	assert.Equal(t, session.StateAwaitItemName, sessions.State(1))
}

func TestIdleTextGetsHint(t *testing.T) {
	app, _, _ := newTestApp(t)
	c := send(t, app, 1, "hello")
	assert.Equal(t, msgUnknownText, c.lastSent())
}

func TestManualReportErrors(t *testing.T) {
	app, store, _ := newTestApp(t)

	c := &fakeContext{user: &tele.User{ID: 1}, text: "/report"}
	require.NoError(t, app.handleReport(c))
	assert.Equal(t, msgNotRegistered, c.lastSent())

	seedProfile(t, store, 1, 500000)
	c = &fakeContext{user: &tele.User{ID: 1}, text: "/report"}
	require.NoError(t, app.handleReport(c))
	assert.Equal(t, msgNoExpenses, c.lastSent())
}

func TestScheduledFireBeforeBotRuns(t *testing.T) {
	app, store, _ := newTestApp(t)
	seedProfile(t, store, 1, 500000)

	// No expenses yet: the fire is a silent skip.
	require.NoError(t, app.SendDailyReport(context.Background(), 1))

	require.NoError(t, store.InsertExpense(context.Background(), storage.Expense{
		UserID: 1, ItemLabel: "kopi", Amount: 5000, CreatedAt: time.Now(),
	}))

	// With the bot not yet built, delivery must fail with an error, never
	// panic inside the scheduler goroutine.
	err := app.SendDailyReport(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")
}
