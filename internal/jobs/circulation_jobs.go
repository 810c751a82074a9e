package jobs

import (
	"context"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/utils"
)

// ScanOverdueLoans refreshes stored book status labels and writes an
// overdue reminder notification for every open loan past its due date.
// Reminders are deduplicated per loan per day.
func (jr *JobRunner) ScanOverdueLoans() {
	jr.runWithRecovery("ScanOverdueLoans", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		// Bring display status labels in line with copy counts. Books under
		// maintenance keep their label; counts stay authoritative either way.
		statusQuery := `
			UPDATE books
			SET status = CASE WHEN available_copies > 0 THEN 'AVAILABLE' ELSE 'BORROWED' END,
			    updated_on = NOW()
			WHERE status != 'MAINTENANCE'
			  AND status != CASE WHEN available_copies > 0 THEN 'AVAILABLE' ELSE 'BORROWED' END
		`

		result, err := jr.db.ExecContext(ctx, statusQuery)
		if err != nil {
			logger.Error("Failed to refresh book status labels", "error", err)
			return
		}
		refreshed, _ := result.RowsAffected()
		logger.Info("Refreshed book status labels", "count", refreshed)

		// One reminder per overdue loan per day.
		reminderQuery := `
			INSERT INTO notifications (user_id, title, message, attributes, read, created_on)
			SELECT l.user_id,
			       'Overdue book reminder',
			       'The book "' || b.title || '" was due on ' || to_char(l.due_date, 'YYYY-MM-DD') || '. Please return it.',
			       json_build_object(
			           'type', 'OVERDUE_REMINDER',
			           'loan_id', l.id::text,
			           'book_id', b.id::text,
			           'due_date', to_char(l.due_date, 'YYYY-MM-DD')
			       ),
			       false,
			       NOW()
			FROM loans l
			JOIN books b ON b.id = l.book_id
			WHERE l.return_date IS NULL
			  AND l.due_date < $1
			  AND NOT EXISTS (
			      SELECT 1 FROM notifications n
			      WHERE n.user_id = l.user_id
			        AND n.attributes->>'type' = 'OVERDUE_REMINDER'
			        AND n.attributes->>'loan_id' = l.id::text
			        AND n.created_on::date = $1::date
			  )
			RETURNING id, user_id
		`

		rows, err := jr.db.QueryContext(ctx, reminderQuery, today)
		if err != nil {
			logger.Error("Failed to write overdue reminders", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var noteID, userID int32
			if err := rows.Scan(&noteID, &userID); err != nil {
				logger.Error("Failed to scan overdue reminder", "error", err)
				continue
			}
			logger.Debug("Wrote overdue reminder", "notification_id", noteID, "user_id", userID)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue reminders", "error", err)
			return
		}

		logger.Info("Wrote overdue reminders", "count", count)
	})
}

// RecordDailySnapshot persists the end-of-day circulation totals so the
// reporting endpoints can chart history without replaying loans.
func (jr *JobRunner) RecordDailySnapshot() {
	jr.runWithRecovery("RecordDailySnapshot", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		totals, err := jr.store.CurrentTotals(ctx, now)
		if err != nil {
			logger.Error("Failed to compute circulation totals", "error", err)
			return
		}

		snap := &domain.DailySnapshot{
			Day:              utils.TruncateToDay(now),
			ActiveLoans:      totals.ActiveLoans,
			OverdueLoans:     totals.OverdueLoans,
			UnpaidFineCount:  totals.UnpaidFineCount,
			UnpaidFineAmount: totals.UnpaidFineAmount,
		}
		if err := jr.store.RecordDailySnapshot(ctx, snap); err != nil {
			logger.Error("Failed to record daily snapshot", "error", err)
			return
		}

		logger.Info("Recorded daily snapshot",
			"day", snap.Day.Format("2006-01-02"),
			"active_loans", snap.ActiveLoans,
			"overdue_loans", snap.OverdueLoans,
			"unpaid_fine_amount", snap.UnpaidFineAmount.String())
	})
}
