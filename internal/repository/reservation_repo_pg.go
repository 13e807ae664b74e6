package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/tablebooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateReservationParams carries everything the transactional create needs.
// DinerNames are resolved with get-or-create by exact name; this is a legacy
// convenience path that conflates diners sharing a name. Callers that track
// diner identity should pass DinerIDs instead.
type CreateReservationParams struct {
	TableID    int64
	StartsAt   time.Time
	DinerNames []string
	DinerIDs   []int64
}

type ReservationRepository interface {
	// Create resolves diners, checks the diner and table booking-window
	// invariants and inserts the reservation with its diner links, all
	// inside one serializable transaction.
	Create(ctx context.Context, params CreateReservationParams) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
	// ConflictingTableIDs returns the subset of tableIDs holding at least
	// one reservation with from < starts_at < to.
	ConflictingTableIDs(ctx context.Context, tableIDs []int64, from, to time.Time) ([]int64, error)
	DueForReminder(ctx context.Context, from, to time.Time) ([]domain.Reservation, error)
	MarkReminded(ctx context.Context, id int64) error
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

func (r *PGReservationRepository) Create(ctx context.Context, params CreateReservationParams) (*domain.Reservation, error) {
	// Serializable so that two overlapping bookings cannot both pass the
	// conflict reads and commit; the loser surfaces SQLSTATE 40001.
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	diners, err := resolveDiners(ctx, tx, params.DinerNames, params.DinerIDs)
	if err != nil {
		return nil, err
	}

	from, to := domain.BookingWindowBounds(params.StartsAt)

	if len(diners) > 0 {
		ids := make([]int64, 0, len(diners))
		for _, d := range diners {
			ids = append(ids, d.ID)
		}
		var name string
		err := tx.QueryRow(ctx, `SELECT d.name
			FROM reservations res
			JOIN reservation_diners rd ON rd.reservation_id = res.id
			JOIN diners d ON d.id = rd.diner_id
			WHERE rd.diner_id = ANY($1) AND res.starts_at > $2 AND res.starts_at < $3
			ORDER BY d.id LIMIT 1`, ids, from, to).Scan(&name)
		if err == nil {
			return nil, &domain.DinerConflictError{DinerName: name}
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	var restaurantName string
	err = tx.QueryRow(ctx, `SELECT rst.name
		FROM tables t
		JOIN restaurants rst ON rst.id = t.restaurant_id
		WHERE t.id = $1`, params.TableID).Scan(&restaurantName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTableNotFound
		}
		return nil, err
	}

	var taken bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE table_id = $1 AND starts_at > $2 AND starts_at < $3
		)`, params.TableID, from, to).Scan(&taken); err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrTableConflict
	}

	res := &domain.Reservation{
		TableID:        params.TableID,
		RestaurantName: restaurantName,
		StartsAt:       params.StartsAt,
		Diners:         diners,
	}
	if err := tx.QueryRow(ctx, `INSERT INTO reservations (table_id, starts_at)
		VALUES ($1, $2)
		RETURNING id, created_at`, params.TableID, params.StartsAt).
		Scan(&res.ID, &res.CreatedAt); err != nil {
		return nil, err
	}
	for _, d := range diners {
		if _, err := tx.Exec(ctx, `INSERT INTO reservation_diners (reservation_id, diner_id) VALUES ($1, $2)`, res.ID, d.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "40001" {
			return nil, domain.ErrTableConflict
		}
		return nil, err
	}
	return res, nil
}

// rowQuerier is the slice of pgx.Tx that diner resolution needs.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// resolveDiners maps names and ids to diner rows inside the transaction so
// the resolution is covered by the same snapshot as the conflict checks.
// Resolving an existing name is idempotent: the ON CONFLICT upsert always
// returns the row already holding that name.
func resolveDiners(ctx context.Context, tx rowQuerier, names []string, ids []int64) ([]domain.Diner, error) {
	diners := make([]domain.Diner, 0, len(names)+len(ids))
	seen := make(map[int64]bool)
	for _, id := range ids {
		var d domain.Diner
		err := tx.QueryRow(ctx, `SELECT id, name FROM diners WHERE id = $1`, id).Scan(&d.ID, &d.Name)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrDinerNotFound
			}
			return nil, err
		}
		if !seen[d.ID] {
			seen[d.ID] = true
			diners = append(diners, d)
		}
	}
	for _, name := range names {
		var d domain.Diner
		err := tx.QueryRow(ctx, `INSERT INTO diners (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id, name`, name).Scan(&d.ID, &d.Name)
		if err != nil {
			return nil, err
		}
		if !seen[d.ID] {
			seen[d.ID] = true
			diners = append(diners, d)
		}
	}
	return diners, nil
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT res.id, res.table_id, res.starts_at, res.reminded_at, res.created_at, rst.name
		FROM reservations res
		JOIN tables t ON t.id = res.table_id
		JOIN restaurants rst ON rst.id = t.restaurant_id
		WHERE res.id = $1`, id)
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.TableID, &res.StartsAt, &res.RemindedAt, &res.CreatedAt, &res.RestaurantName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	diners, err := r.dinersFor(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	res.Diners = diners
	return &res, nil
}

func (r *PGReservationRepository) dinersFor(ctx context.Context, reservationID int64) ([]domain.Diner, error) {
	rows, err := r.db.Query(ctx, `SELECT d.id, d.name
		FROM reservation_diners rd
		JOIN diners d ON d.id = rd.diner_id
		WHERE rd.reservation_id = $1
		ORDER BY d.id`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	diners := make([]domain.Diner, 0)
	for rows.Next() {
		var d domain.Diner
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		diners = append(diners, d)
	}
	return diners, rows.Err()
}

// Delete removes the reservation and its diner links. The diner and table
// rows themselves are never touched.
func (r *PGReservationRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reservation_diners WHERE reservation_id = $1`, id); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return tx.Commit(ctx)
}

func (r *PGReservationRepository) ConflictingTableIDs(ctx context.Context, tableIDs []int64, from, to time.Time) ([]int64, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT DISTINCT table_id FROM reservations
		WHERE table_id = ANY($1) AND starts_at > $2 AND starts_at < $3`, tableIDs, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var conflicted []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		conflicted = append(conflicted, id)
	}
	return conflicted, rows.Err()
}

func (r *PGReservationRepository) DueForReminder(ctx context.Context, from, to time.Time) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT res.id, res.table_id, res.starts_at, res.reminded_at, res.created_at, rst.name
		FROM reservations res
		JOIN tables t ON t.id = res.table_id
		JOIN restaurants rst ON rst.id = t.restaurant_id
		WHERE res.starts_at > $1 AND res.starts_at <= $2 AND res.reminded_at IS NULL
		ORDER BY res.starts_at`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	due := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.TableID, &res.StartsAt, &res.RemindedAt, &res.CreatedAt, &res.RestaurantName); err != nil {
			return nil, err
		}
		due = append(due, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range due {
		diners, err := r.dinersFor(ctx, due[i].ID)
		if err != nil {
			return nil, err
		}
		due[i].Diners = diners
	}
	return due, nil
}

func (r *PGReservationRepository) MarkReminded(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE reservations SET reminded_at = now() WHERE id = $1 AND reminded_at IS NULL`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
