package bot

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/spendbot/internal/report"
	"github.com/m3rciful/spendbot/internal/service"
	"github.com/m3rciful/spendbot/internal/session"
	"github.com/m3rciful/spendbot/internal/storage"
)

func (a *App) registerCommands() {
	a.registry.Register("/start", Command{
		Handler:     a.handleStart,
		Description: "Register your profile",
	})
	a.registry.Register("/newmonth", Command{
		Handler:     a.handleNewMonth,
		Description: "Set this month's budget",
	})
	a.registry.Register("/reporttime", Command{
		Handler:     a.handleReportTime,
		Description: "Schedule the daily report",
	})
	a.registry.Register("/expense", Command{
		Handler:     a.handleExpense,
		Description: "Record a purchase",
	})
	a.registry.Register("/report", Command{
		Handler:     a.handleReport,
		Description: "Send today's report now",
	})
	a.registry.Register("/cancel", Command{
		Handler:     a.handleCancel,
		Description: "Cancel the current dialogue",
	})
	a.registry.Register("/help", Command{
		Handler:     a.handleHelp,
		Description: "Show available commands",
	})
}

// Dialogue entry points. Entering a new dialogue while one is active
// overwrites the session; dialogues do not stack.

func (a *App) handleStart(c tele.Context) error {
	a.sessions.Begin(c.Sender().ID, session.StateAwaitName)
	return c.Send(msgAskName)
}

func (a *App) handleNewMonth(c tele.Context) error {
	a.sessions.Begin(c.Sender().ID, session.StateAwaitBudget)
	return c.Send(msgAskBudget)
}

func (a *App) handleReportTime(c tele.Context) error {
	a.sessions.Begin(c.Sender().ID, session.StateAwaitTime)
	return c.Send(msgAskTime)
}

func (a *App) handleExpense(c tele.Context) error {
	a.sessions.Begin(c.Sender().ID, session.StateAwaitItemName)
	return c.Send(msgAskItem)
}

func (a *App) handleCancel(c tele.Context) error {
	userID := c.Sender().ID
	if !a.sessions.InProgress(userID) {
		return c.Send(msgNothingToDo)
	}
	a.sessions.Clear(userID)
	return c.Send(msgCancelled)
}

func (a *App) handleHelp(c tele.Context) error {
	text := "Here's what I can do:\n"
	for _, cmd := range a.registry.List() {
		text += fmt.Sprintf("%s - %s\n", cmd.Text, cmd.Description)
	}
	return c.Send(text)
}

// handleReport prints today's report on demand. Unlike a scheduled fire,
// an empty day gets an explicit reply instead of a silent skip.
func (a *App) handleReport(c tele.Context) error {
	userID := c.Sender().ID
	rep, err := a.svc.BuildDailyReport(contextOf(c), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoExpenses):
			return c.Send(msgNoExpenses)
		case errors.Is(err, storage.ErrProfileNotFound):
			return c.Send(msgNotRegistered)
		default:
			return c.Send(msgStoreFailure)
		}
	}
	return a.deliver(rep, &tele.User{ID: userID})
}

// handleText routes free-form text into the active dialogue step.
func (a *App) handleText(c tele.Context) error {
	userID := c.Sender().ID

	// Commands arriving as plain text still take priority: an entry
	// trigger overwrites whatever dialogue is active.
	if cmd, ok := a.registry.Lookup(c.Text()); ok {
		return cmd.Handler(c)
	}

	switch a.sessions.State(userID) {
	case session.StateAwaitName:
		return a.stepName(c)
	case session.StateAwaitContact:
		return a.stepContact(c)
	case session.StateAwaitBudget:
		return a.stepBudget(c)
	case session.StateAwaitTime:
		return a.stepTime(c)
	case session.StateAwaitItemName:
		return a.stepItemName(c)
	case session.StateAwaitAmount:
		return a.stepAmount(c)
	default:
		return c.Send(msgUnknownText)
	}
}

func (a *App) stepName(c tele.Context) error {
	userID := c.Sender().ID
	name := c.Text()
	a.sessions.SetPending(userID, session.PendingName, name)
	a.sessions.Advance(userID, session.StateAwaitContact)
	return c.Send(fmt.Sprintf(msgAskContact, name))
}

func (a *App) stepContact(c tele.Context) error {
	userID := c.Sender().ID
	name, _ := a.sessions.Pending(userID, session.PendingName)

	if err := a.svc.Register(contextOf(c), userID, name, c.Text()); err != nil {
		// Session stays in place so the user can resend the address.
		return c.Send(msgStoreFailure)
	}
	a.sessions.Clear(userID)
	return c.Send(msgRegistered)
}

func (a *App) stepBudget(c tele.Context) error {
	userID := c.Sender().ID
	budget, err := service.ParseAmount(c.Text())
	if err != nil {
		return c.Send(msgBadAmount + " " + msgAskBudget)
	}
	if err := a.svc.SetBudget(contextOf(c), userID, budget); err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			a.sessions.Clear(userID)
			return c.Send(msgNotRegistered)
		}
		return c.Send(msgStoreFailure)
	}
	a.sessions.Clear(userID)
	return c.Send(fmt.Sprintf(msgBudgetSaved, report.FormatAmount(budget)))
}

func (a *App) stepTime(c tele.Context) error {
	userID := c.Sender().ID
	hhmm, err := service.ParseClock(c.Text())
	if err != nil {
		return c.Send(msgBadClock)
	}
	if err := a.svc.SetReportTime(contextOf(c), userID, hhmm); err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			a.sessions.Clear(userID)
			return c.Send(msgNotRegistered)
		}
		return c.Send(msgStoreFailure)
	}
	a.sessions.Clear(userID)
	return c.Send(fmt.Sprintf(msgTimeSaved, hhmm))
}

func (a *App) stepItemName(c tele.Context) error {
	userID := c.Sender().ID
	item := c.Text()
	a.sessions.SetPending(userID, session.PendingItem, item)
	a.sessions.Advance(userID, session.StateAwaitAmount)
	return c.Send(fmt.Sprintf(msgAskAmount, item))
}

func (a *App) stepAmount(c tele.Context) error {
	userID := c.Sender().ID
	item, _ := a.sessions.Pending(userID, session.PendingItem)

	amount, err := service.ParseAmount(c.Text())
	if err != nil {
		// Exact repeat of the same question; state does not advance.
		return c.Send(msgBadAmount + " " + fmt.Sprintf(msgAskAmount, item))
	}

	remaining, err := a.svc.AddExpense(contextOf(c), userID, item, amount)
	if err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			a.sessions.Clear(userID)
			return c.Send(msgNotRegistered)
		}
		return c.Send(msgStoreFailure)
	}
	a.sessions.Clear(userID)
	return c.Send(fmt.Sprintf(msgExpenseSaved,
		item, report.FormatAmount(amount), report.FormatAmount(remaining)))
}
