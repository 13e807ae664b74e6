package repository

import (
	"context"

	"github.com/Domenick1991/tablebooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository reads the restaurant catalog: restaurants together with
// their endorsements and tables.
type CatalogRepository interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
}

type PGCatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &PGCatalogRepository{db: db}
}

func (r *PGCatalogRepository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := make([]domain.Restaurant, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.CreatedAt); err != nil {
			return nil, err
		}
		rest.Endorsements = make([]domain.Endorsement, 0)
		rest.Tables = make([]domain.Table, 0)
		index[rest.ID] = len(restaurants)
		restaurants = append(restaurants, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return restaurants, nil
	}

	erows, err := r.db.Query(ctx, `SELECT re.restaurant_id, e.id, e.name
		FROM restaurant_endorsements re
		JOIN endorsements e ON e.id = re.endorsement_id
		ORDER BY re.restaurant_id, e.id`)
	if err != nil {
		return nil, err
	}
	defer erows.Close()
	for erows.Next() {
		var restID int64
		var e domain.Endorsement
		if err := erows.Scan(&restID, &e.ID, &e.Name); err != nil {
			return nil, err
		}
		if idx, ok := index[restID]; ok {
			restaurants[idx].Endorsements = append(restaurants[idx].Endorsements, e)
		}
	}
	if err := erows.Err(); err != nil {
		return nil, err
	}

	trows, err := r.db.Query(ctx, `SELECT id, restaurant_id, capacity FROM tables ORDER BY restaurant_id, id`)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t domain.Table
		if err := trows.Scan(&t.ID, &t.RestaurantID, &t.Capacity); err != nil {
			return nil, err
		}
		if idx, ok := index[t.RestaurantID]; ok {
			restaurants[idx].Tables = append(restaurants[idx].Tables, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return restaurants, nil
}

var _ CatalogRepository = (*PGCatalogRepository)(nil)
