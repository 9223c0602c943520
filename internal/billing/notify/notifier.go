package notify

import "context"

// ReminderMessage summarizes the overdue ledger for one reminder run.
type ReminderMessage struct {
	RunDate      string `json:"run_date"`
	OverdueCount int    `json:"overdue_count"`
	OverdueTotal string `json:"overdue_total"`
	PendingCount int    `json:"pending_count"`
}

// Notifier sends payment reminders.
type Notifier interface {
	Notify(ctx context.Context, msg ReminderMessage) error
}
