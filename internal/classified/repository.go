// AngelaMos | 2026
// repository.go

package classified

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/josealexandro/chaama/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Classified) error
	GetByID(ctx context.Context, id string) (*Classified, error)
	Update(ctx context.Context, id, ownerID string, patch Patch) error
	List(ctx context.Context, params ListParams) ([]Classified, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Classified, error)
}

type repository struct {
	db      core.DBTX
	dialect goqu.DialectWrapper
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		db:      db,
		dialect: goqu.Dialect("postgres"),
	}
}

var classifiedColumns = []any{
	"id", "owner_id", "title", "description", "image_ref", "link_url",
	"city", "city_key", "address", "active", "created_at", "updated_at",
}

func (r *repository) Create(ctx context.Context, c *Classified) error {
	query, args, err := r.dialect.Insert("classifieds").
		Rows(goqu.Record{
			"id":          c.ID,
			"owner_id":    c.OwnerID,
			"title":       c.Title,
			"description": c.Description,
			"image_ref":   c.ImageRef,
			"link_url":    c.LinkURL,
			"city":        c.City,
			"city_key":    c.CityKey,
			"address":     c.Address,
			"active":      c.Active,
		}).
		Returning("created_at", "updated_at").
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build classified insert: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("create classified: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Classified, error) {
	query, args, err := r.dialect.From("classifieds").
		Select(classifiedColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build classified query: %w", err)
	}

	var c Classified
	err = r.db.GetContext(ctx, &c, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get classified: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get classified: %w", err)
	}

	return &c, nil
}

// Update applies patch to the owner's classified. Missing rows and rows of
// other owners both report core.ErrNotFound.
func (r *repository) Update(
	ctx context.Context,
	id, ownerID string,
	patch Patch,
) error {
	query, args, err := r.dialect.Update("classifieds").
		Set(patchRecord(patch)).
		Where(goqu.C("id").Eq(id), goqu.C("owner_id").Eq(ownerID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build classified update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update classified: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update classified: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update classified: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Classified, int, error) {
	ds := r.dialect.From("classifieds").Where(goqu.C("active").IsTrue())
	if params.City != "" {
		ds = ds.Where(goqu.C("city_key").Eq(params.City))
	}

	countQuery, countArgs, err := ds.Select(goqu.COUNT("*")).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build classified count: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count classifieds: %w", err)
	}

	query, args, err := ds.Select(classifiedColumns...).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Asc()).
		Limit(uint(params.PageSize)).   //nolint:gosec // normalized to [1, MaxPageSize]
		Offset(uint(params.Offset())). //nolint:gosec // never negative after Normalize
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build classified list: %w", err)
	}

	var items []Classified
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classifieds: %w", err)
	}

	return items, total, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]Classified, error) {
	query, args, err := r.dialect.From("classifieds").
		Select(classifiedColumns...).
		Where(goqu.C("owner_id").Eq(ownerID)).
		Order(goqu.C("created_at").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build classified owner query: %w", err)
	}

	var items []Classified
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list classifieds by owner: %w", err)
	}

	return items, nil
}

func patchRecord(p Patch) goqu.Record {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}

	set := func(column string, v *string) {
		if v != nil {
			record[column] = *v
		}
	}
	set("title", p.Title)
	set("description", p.Description)
	set("image_ref", p.ImageRef)
	set("link_url", p.LinkURL)
	set("city", p.City)
	set("city_key", p.CityKey)
	set("address", p.Address)

	if p.Active != nil {
		record["active"] = *p.Active
	}
	return record
}
