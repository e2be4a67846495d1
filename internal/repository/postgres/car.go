package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

const carColumns = `id, make, model, year, plate_number, mileage, daily_rate_cents, min_rental_days, max_rental_days, available, created_on, deleted_on`

func scanCar(row interface{ Scan(...any) error }) (*domain.Car, error) {
	c := &domain.Car{}
	err := row.Scan(&c.ID, &c.Make, &c.Model, &c.Year, &c.PlateNumber, &c.Mileage,
		&c.DailyRateCents, &c.MinRentalDays, &c.MaxRentalDays, &c.Available, &c.CreatedOn, &c.DeletedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	query := `INSERT INTO cars (make, model, year, plate_number, mileage, daily_rate_cents, min_rental_days, max_rental_days, available, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.Make, c.Model, c.Year, c.PlateNumber, c.Mileage,
		c.DailyRateCents, c.MinRentalDays, c.MaxRentalDays, c.Available, time.Now()).Scan(&c.ID)
	if err != nil {
		return domain.WrapInternal(err, "insert car")
	}
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 AND deleted_on IS NULL`
	c, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.ErrNotFound, "car %d not found", id)
	}
	if err != nil {
		return nil, domain.WrapInternal(err, "get car %d", id)
	}
	return c, nil
}

func (r *carRepository) GetByPlate(ctx context.Context, plate string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE plate_number = $1 AND deleted_on IS NULL`
	c, err := scanCar(r.db.QueryRowContext(ctx, query, plate))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.ErrNotFound, "car with plate %s not found", plate)
	}
	if err != nil {
		return nil, domain.WrapInternal(err, "get car by plate")
	}
	return c, nil
}

func (r *carRepository) Update(ctx context.Context, c *domain.Car) error {
	query := `UPDATE cars SET make=$1, model=$2, year=$3, plate_number=$4, mileage=$5, daily_rate_cents=$6, min_rental_days=$7, max_rental_days=$8 WHERE id=$9 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, c.Make, c.Model, c.Year, c.PlateNumber, c.Mileage,
		c.DailyRateCents, c.MinRentalDays, c.MaxRentalDays, c.ID)
	if err != nil {
		return domain.WrapInternal(err, "update car %d", c.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Errorf(domain.ErrNotFound, "car %d not found", c.ID)
	}
	return nil
}

func (r *carRepository) SoftDelete(ctx context.Context, tx *sql.Tx, id int32) error {
	query := `UPDATE cars SET deleted_on = $1 WHERE id = $2 AND deleted_on IS NULL`
	res, err := tx.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return domain.WrapInternal(err, "delete car %d", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Errorf(domain.ErrNotFound, "car %d not found", id)
	}
	return nil
}

func (r *carRepository) List(ctx context.Context) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE deleted_on IS NULL ORDER BY id`
	return r.queryCars(ctx, query)
}

func (r *carRepository) ListAvailable(ctx context.Context) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE available = TRUE AND deleted_on IS NULL ORDER BY id`
	return r.queryCars(ctx, query)
}

func (r *carRepository) queryCars(ctx context.Context, query string, args ...any) ([]domain.Car, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapInternal(err, "list cars")
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, domain.WrapInternal(err, "scan car")
		}
		cars = append(cars, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapInternal(err, "iterate cars")
	}
	return cars, nil
}

func (r *carRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int32) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 AND deleted_on IS NULL FOR UPDATE`
	c, err := scanCar(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.ErrNotFound, "car %d not found", id)
	}
	if err != nil {
		return nil, domain.WrapInternal(err, "lock car %d", id)
	}
	return c, nil
}

func (r *carRepository) SetAvailability(ctx context.Context, tx *sql.Tx, id int32, available bool) error {
	query := `UPDATE cars SET available = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, available, id); err != nil {
		return domain.WrapInternal(err, "set car %d availability", id)
	}
	return nil
}
