package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, car_id, customer_id, start_date, end_date, rental_days, total_cost_cents, status, decided_by, created_on, updated_on`

func scanRental(row interface{ Scan(...any) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.CarID, &rt.CustomerID, &rt.StartDate, &rt.EndDate,
		&rt.RentalDays, &rt.TotalCostCents, &rt.Status, &rt.DecidedBy, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error {
	query := `INSERT INTO rentals (car_id, customer_id, start_date, end_date, rental_days, total_cost_cents, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	err := tx.QueryRowContext(ctx, query, rt.CarID, rt.CustomerID, rt.StartDate, rt.EndDate,
		rt.RentalDays, rt.TotalCostCents, rt.Status, now, now).Scan(&rt.ID)
	if err != nil {
		return domain.WrapInternal(err, "insert rental")
	}
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.ErrNotFound, "rental %d not found", id)
	}
	if err != nil {
		return nil, domain.WrapInternal(err, "get rental %d", id)
	}
	return rt, nil
}

func (r *rentalRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 FOR UPDATE`
	rt, err := scanRental(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.ErrNotFound, "rental %d not found", id)
	}
	if err != nil {
		return nil, domain.WrapInternal(err, "lock rental %d", id)
	}
	return rt, nil
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id int32, status domain.RentalStatus, decidedBy *int32) error {
	query := `UPDATE rentals SET status = $1, decided_by = COALESCE($2, decided_by), updated_on = $3 WHERE id = $4`
	if _, err := tx.ExecContext(ctx, query, status, decidedBy, time.Now(), id); err != nil {
		return domain.WrapInternal(err, "update rental %d status", id)
	}
	return nil
}

// CountOpenByCar counts rentals that still occupy the car. Run inside
// the booking transaction after the car row is locked so concurrent
// bookings serialize on the car.
func (r *rentalRepository) CountOpenByCar(ctx context.Context, tx *sql.Tx, carID int32) (int32, error) {
	query := `SELECT count(*) FROM rentals WHERE car_id = $1 AND status IN ('PENDING', 'APPROVED', 'ACTIVE', 'OVERDUE')`
	var count int32
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, carID).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, query, carID).Scan(&count)
	}
	if err != nil {
		return 0, domain.WrapInternal(err, "count open rentals for car %d", carID)
	}
	return count, nil
}

func (r *rentalRepository) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE customer_id = $1 ORDER BY created_on DESC, id DESC`
	return r.queryRentals(ctx, query, customerID)
}

func (r *rentalRepository) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1 ORDER BY created_on DESC, id DESC`
	return r.queryRentals(ctx, query, status)
}

func (r *rentalRepository) ListInDateRange(ctx context.Context, from, to time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE start_date < $2 AND end_date > $1 ORDER BY start_date, id`
	return r.queryRentals(ctx, query, from, to)
}

func (r *rentalRepository) queryRentals(ctx context.Context, query string, args ...any) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapInternal(err, "list rentals")
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, domain.WrapInternal(err, "scan rental")
		}
		rentals = append(rentals, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapInternal(err, "iterate rentals")
	}
	return rentals, nil
}

func (r *rentalRepository) Statistics(ctx context.Context) (*domain.RentalStatistics, error) {
	stats := &domain.RentalStatistics{CountsByStatus: map[domain.RentalStatus]int32{}}

	countQuery := `SELECT status, count(*) FROM rentals GROUP BY status`
	rows, err := r.db.QueryContext(ctx, countQuery)
	if err != nil {
		return nil, domain.WrapInternal(err, "count rentals by status")
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.RentalStatus
		var count int32
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.WrapInternal(err, "scan status count")
		}
		stats.CountsByStatus[status] = count
		stats.TotalRentals += count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapInternal(err, "iterate status counts")
	}

	aggQuery := `SELECT COALESCE(SUM(total_cost_cents) FILTER (WHERE status = 'COMPLETED'), 0),
	                    COALESCE(AVG(rental_days), 0)
	             FROM rentals`
	err = r.db.QueryRowContext(ctx, aggQuery).Scan(&stats.TotalRevenueCents, &stats.AverageRentalDays)
	if err != nil {
		return nil, domain.WrapInternal(err, "aggregate rentals")
	}
	return stats, nil
}
