package jobs

import (
	"context"
	"time"

	"carrental-backend/internal/logger"
	"carrental-backend/internal/timeutil"
)

// MarkOverdueRentals marks rentals as OVERDUE if they are past their end_date
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		// Find rentals that are past their end date and still in ACTIVE status
		query := `
			UPDATE rentals
			SET status = 'OVERDUE',
			    updated_on = NOW()
			WHERE status = 'ACTIVE'
			  AND end_date < $1
			RETURNING id, customer_id, car_id, end_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().UTC().Format(timeutil.DateLayout))
		if err != nil {
			logger.Error("Failed to mark overdue rentals", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var rentalID, customerID, carID int32
			var endDate time.Time
			if err := rows.Scan(&rentalID, &customerID, &carID, &endDate); err != nil {
				logger.Error("Failed to scan overdue rental", "error", err)
				continue
			}
			count++
			logger.Debug("Marked rental as overdue",
				"rental_id", rentalID,
				"customer_id", customerID,
				"car_id", carID,
				"end_date", endDate.Format(timeutil.DateLayout))
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue rentals", "error", err)
			return
		}

		logger.Info("Marked rentals as overdue", "count", count)
	})
}

// SendOverdueReminders emails every customer holding an OVERDUE rental
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		query := `
			SELECT r.id, r.end_date, u.email, c.make, c.model, c.plate_number
			FROM rentals r
			JOIN users u ON u.id = r.customer_id
			JOIN cars c ON c.id = r.car_id
			WHERE r.status = 'OVERDUE'
		`

		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}
		defer rows.Close()

		sent := 0
		for rows.Next() {
			var rentalID int32
			var endDate time.Time
			var email, make, model, plate string
			if err := rows.Scan(&rentalID, &endDate, &email, &make, &model, &plate); err != nil {
				logger.Error("Failed to scan overdue rental", "error", err)
				continue
			}
			carLabel := make + " " + model + " (" + plate + ")"
			if err := jr.emailSvc.SendOverdueReminder(ctx, email, carLabel, endDate.Format(timeutil.DateLayout)); err != nil {
				logger.Error("Failed to send overdue reminder", "rental_id", rentalID, "error", err)
				continue
			}
			sent++
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue rentals", "error", err)
			return
		}

		logger.Info("Sent overdue reminders", "count", sent)
	})
}
