package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/repository/base"
)

const facilityColumns = `id, name, sport, price, capacity, available, features, created_at, updated_at`

type FacilityRepository struct {
	*Store
}

func NewFacilityRepository(store *Store) *FacilityRepository {
	return &FacilityRepository{Store: store}
}

// Create создаёт новую площадку
func (r *FacilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	features, err := encodeFeatures(facility.Features)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO facilities (name, sport, price, capacity, available, features, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		facility.Name,
		string(facility.Sport),
		facility.Price,
		facility.Capacity,
		facility.Available,
		features,
		facility.CreatedAt.UTC(),
		facility.UpdatedAt.UTC(),
	)
	if err != nil {
		return classify("create facility", err)
	}

	facility.ID, err = result.LastInsertId()
	if err != nil {
		return classify("create facility", err)
	}

	return nil
}

// GetByID получает площадку по ID
func (r *FacilityRepository) GetByID(ctx context.Context, id int64) (*model.Facility, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	facility, err := scanFacility(r.db.QueryRowContext(ctx, `SELECT `+facilityColumns+` FROM facilities WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get facility by id", err)
	}

	return facility, nil
}

// List получает все площадки
func (r *FacilityRepository) List(ctx context.Context) ([]*model.Facility, error) {
	return r.list(ctx, "list facilities", `SELECT `+facilityColumns+` FROM facilities ORDER BY sport, name, id`)
}

// ListBySport получает площадки одного вида спорта
func (r *FacilityRepository) ListBySport(ctx context.Context, sport model.Sport) ([]*model.Facility, error) {
	return r.list(ctx, "list facilities by sport", `SELECT `+facilityColumns+` FROM facilities WHERE sport = ? ORDER BY name, id`, string(sport))
}

func (r *FacilityRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Facility, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	var facilities []*model.Facility
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, classify("scan facility", err)
		}
		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}

	return facilities, nil
}

// Update применяет частичное обновление площадки
func (r *FacilityRepository) Update(ctx context.Context, id int64, patch model.FacilityPatch) (*model.Facility, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := base.NewArgs(base.Question)
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
		features, err := encodeFeatures(*patch.Features)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "features = "+args.Add(features))
	}
	sets = append(sets, "updated_at = "+args.Add(time.Now().UTC()))

	query := "UPDATE facilities SET " + strings.Join(sets, ", ") +
		" WHERE id = " + args.Add(id) +
		" RETURNING " + facilityColumns

	facility, err := scanFacility(r.db.QueryRowContext(ctx, query, args.Values()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("facility %d: %w", id, model.ErrNotFound)
		}
		return nil, classify("update facility", err)
	}

	return facility, nil
}

// Delete удаляет площадку; площадку с бронированиями удалить нельзя
func (r *FacilityRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = ?`, id)
	if err != nil {
		return classify("delete facility", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return classify("delete facility", err)
	}
	if affected == 0 {
		return fmt.Errorf("facility %d: %w", id, model.ErrNotFound)
	}
	return nil
}

func scanFacility(row rowScanner) (*model.Facility, error) {
	var (
		facility model.Facility
		sport    string
		features string
	)

	err := row.Scan(
		&facility.ID,
		&facility.Name,
		&sport,
		&facility.Price,
		&facility.Capacity,
		&facility.Available,
		&features,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	facility.Sport = model.Sport(sport)
	if err := json.Unmarshal([]byte(features), &facility.Features); err != nil {
		return nil, fmt.Errorf("decode facility features: %w", err)
	}

	return &facility, nil
}

// encodeFeatures хранит список удобств как JSON-массив
func encodeFeatures(features []string) (string, error) {
	if features == nil {
		features = []string{}
	}
	data, err := json.Marshal(features)
	if err != nil {
		return "", fmt.Errorf("encode facility features: %w", err)
	}
	return string(data), nil
}
