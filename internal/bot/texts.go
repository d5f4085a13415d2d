package bot

// User-facing reply texts. Kept in one place so dialogues can re-prompt
// with the exact same question after malformed input.
const (
	msgAskName    = "What's your name?"
	msgAskContact = "Nice to meet you, %s! Now send me your email address:"
	msgRegistered = "Profile saved. Type /newmonth to set this month's budget."

	msgAskBudget   = "What's your snack budget for this month?"
	msgBudgetSaved = "Budget Rp%s saved! Type /expense whenever you spend something."
	msgBadAmount   = "Please send a plain non-negative number."

	msgAskTime   = "When should I send your daily report? Send a time like 21:00."
	msgTimeSaved = "Got it. Your daily report will arrive at %s every day."
	msgBadClock  = "That doesn't look like a valid time. " + msgAskTime

	msgAskItem      = "What did you buy?"
	msgAskAmount    = "How much was %s?"
	msgExpenseSaved = "✅ %s (Rp%s) recorded!\nRemaining budget this month: Rp%s\n\nType /expense again or /report."

	msgNoExpenses    = "No expenses recorded today."
	msgReportCaption = "Daily report"
	msgCancelled     = "Okay, cancelled. Nothing was saved."
	msgNothingToDo   = "There's nothing to cancel."
	msgStoreFailure  = "Something went wrong on my side. Please send that again."
	msgNotRegistered = "I don't know you yet. Type /start to register first."
	msgUnknownText   = "I wasn't expecting that. Type /help to see what I can do."
)
