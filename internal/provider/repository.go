// AngelaMos | 2026
// repository.go

package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/josealexandro/chaama/internal/account"
	"github.com/josealexandro/chaama/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, p *Provider) error
	GetByID(ctx context.Context, id string) (*Provider, error)
	Search(ctx context.Context, params SearchParams) ([]Provider, int, error)
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

var providerColumns = []any{
	goqu.I("p.id"), goqu.I("p.name"), goqu.I("p.service"), goqu.I("p.service_key"),
	goqu.I("p.description"), goqu.I("p.city"), goqu.I("p.city_key"), goqu.I("p.whatsapp"),
	goqu.I("p.photo_ref"), goqu.I("p.avg_price"), goqu.I("p.map_link"), goqu.I("p.premium"),
	goqu.I("p.active"), goqu.I("p.rating_count"), goqu.I("p.rating_mean"),
	goqu.I("p.created_at"), goqu.I("p.updated_at"),
}

// Upsert writes the descriptive profile fields. Rating fields and the
// premium flag keep their stored values on update.
func (r *repository) Upsert(ctx context.Context, p *Provider) error {
	record := goqu.Record{
		"id":          p.ID,
		"name":        p.Name,
		"service":     p.Service,
		"service_key": p.ServiceKey,
		"description": p.Description,
		"city":        p.City,
		"city_key":    p.CityKey,
		"whatsapp":    p.Whatsapp,
		"photo_ref":   p.PhotoRef,
		"avg_price":   p.AvgPrice,
		"map_link":    p.MapLink,
		"active":      p.Active,
	}

	update := goqu.Record{
		"name":        goqu.I("excluded.name"),
		"service":     goqu.I("excluded.service"),
		"service_key": goqu.I("excluded.service_key"),
		"description": goqu.I("excluded.description"),
		"city":        goqu.I("excluded.city"),
		"city_key":    goqu.I("excluded.city_key"),
		"whatsapp":    goqu.I("excluded.whatsapp"),
		"photo_ref":   goqu.I("excluded.photo_ref"),
		"avg_price":   goqu.I("excluded.avg_price"),
		"map_link":    goqu.I("excluded.map_link"),
		"active":      goqu.I("excluded.active"),
		"updated_at":  goqu.L("NOW()"),
	}

	query, args, err := r.dialect.Insert("providers").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", update)).
		Returning("premium", "rating_count", "rating_mean", "created_at", "updated_at").
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build provider upsert: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(
		&p.Premium,
		&p.RatingCount,
		&p.RatingMean,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert provider: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Provider, error) {
	query, args, err := r.dialect.From(goqu.T("providers").As("p")).
		Select(providerColumns...).
		Where(goqu.I("p.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build provider query: %w", err)
	}

	var p Provider
	err = r.db.GetContext(ctx, &p, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get provider: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}

	return &p, nil
}

// likeEscaper quotes LIKE wildcards with Postgres' default escape character
// so a search term only ever matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search lists published providers whose owner holds an active
// subscription, premium first and then by rating.
func (r *repository) Search(
	ctx context.Context,
	params SearchParams,
) ([]Provider, int, error) {
	ds := r.dialect.From(goqu.T("providers").As("p")).
		Join(goqu.T("accounts").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("p.id")))).
		Where(
			goqu.I("p.active").IsTrue(),
			goqu.I("a.subscription_status").Eq(string(account.StatusActive)),
		)

	if params.Service != "" {
		ds = ds.Where(goqu.I("p.service_key").Like("%" + likeEscaper.Replace(params.Service) + "%"))
	}
	if params.City != "" {
		ds = ds.Where(goqu.I("p.city_key").Eq(params.City))
	}

	countQuery, countArgs, err := ds.Select(goqu.COUNT("*")).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build provider count: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count providers: %w", err)
	}

	query, args, err := ds.Select(providerColumns...).
		Order(
			goqu.I("p.premium").Desc(),
			goqu.I("p.rating_mean").Desc(),
			goqu.I("p.rating_count").Desc(),
			goqu.I("p.id").Asc(),
		).
		Limit(uint(params.PageSize)).   //nolint:gosec // normalized to [1, MaxPageSize]
		Offset(uint(params.Offset())). //nolint:gosec // never negative after Normalize
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build provider search: %w", err)
	}

	var providers []Provider
	if err := r.db.SelectContext(ctx, &providers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search providers: %w", err)
	}

	return providers, total, nil
}
