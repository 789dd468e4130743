package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const facilityColumns = `id, name, sport, price, capacity, available, features, created_at, updated_at`

type FacilityRepository struct {
	*base.Repository
}

func NewFacilityRepository(repo *base.Repository) *FacilityRepository {
	return &FacilityRepository{Repository: repo}
}

// Create создаёт новую площадку
func (r *FacilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO facilities (name, sport, price, capacity, available, features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	features := facility.Features
	if features == nil {
		features = []string{}
	}

	err := r.QueryRow(
		ctx, query,
		facility.Name,
		string(facility.Sport),
		facility.Price,
		facility.Capacity,
		facility.Available,
		features,
		facility.CreatedAt,
		facility.UpdatedAt,
	).Scan(&facility.ID)

	return base.Classify("create facility", err)
}

// GetByID получает площадку по ID
func (r *FacilityRepository) GetByID(ctx context.Context, id int64) (*model.Facility, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE id = $1`

	facility, err := scanFacility(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Classify("get facility by id", err)
	}

	return facility, nil
}

// List получает все площадки
func (r *FacilityRepository) List(ctx context.Context) ([]*model.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities ORDER BY sport, name, id`
	return r.list(ctx, "list facilities", query)
}

// ListBySport получает площадки одного вида спорта
func (r *FacilityRepository) ListBySport(ctx context.Context, sport model.Sport) ([]*model.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE sport = $1 ORDER BY name, id`
	return r.list(ctx, "list facilities by sport", query, string(sport))
}

func (r *FacilityRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Facility, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, base.Classify(op, err)
	}
	defer rows.Close()

	var facilities []*model.Facility
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, base.Classify("scan facility", err)
		}
		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		return nil, base.Classify(op, err)
	}

	return facilities, nil
}

// Update применяет частичное обновление площадки
func (r *FacilityRepository) Update(ctx context.Context, id int64, patch model.FacilityPatch) (*model.Facility, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	args := base.NewArgs(base.Dollar)
	var sets []string
	if patch.Name != nil {
		sets = append(sets, "name = "+args.Add(*patch.Name))
	}
	if patch.Price != nil {
		sets = append(sets, "price = "+args.Add(*patch.Price))
	}
	if patch.Capacity != nil {
		sets = append(sets, "capacity = "+args.Add(*patch.Capacity))
	}
	if patch.Available != nil {
		sets = append(sets, "available = "+args.Add(*patch.Available))
	}
	if patch.Features != nil {
		features := *patch.Features
		if features == nil {
			features = []string{}
		}
		sets = append(sets, "features = "+args.Add(features))
	}
	sets = append(sets, "updated_at = now()")

	query := "UPDATE facilities SET " + strings.Join(sets, ", ") +
		" WHERE id = " + args.Add(id) +
		" RETURNING " + facilityColumns

	facility, err := scanFacility(r.QueryRow(ctx, query, args.Values()...))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("facility %d: %w", id, model.ErrNotFound)
		}
		return nil, base.Classify("update facility", err)
	}

	return facility, nil
}

// Delete удаляет площадку; площадку с бронированиями удалить нельзя
func (r *FacilityRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	affected, err := r.ExecAffected(ctx, `DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		return base.Classify("delete facility", err)
	}
	if affected == 0 {
		return fmt.Errorf("facility %d: %w", id, model.ErrNotFound)
	}
	return nil
}

func scanFacility(row pgx.Row) (*model.Facility, error) {
	var (
		facility model.Facility
		sport    string
	)

	err := row.Scan(
		&facility.ID,
		&facility.Name,
		&sport,
		&facility.Price,
		&facility.Capacity,
		&facility.Available,
		&facility.Features,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	facility.Sport = model.Sport(sport)
	return &facility, nil
}
