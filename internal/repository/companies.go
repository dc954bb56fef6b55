package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/purchase-tracker/constants"
	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/entity"
)

type CompanyRepository interface {
	Upsert(ctx context.Context, c entity.Company) error
	List(ctx context.Context) ([]entity.Company, error)
	Get(ctx context.Context, code int) (entity.Company, error)
}

type companyRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewCompanyRepository(db *DB, logger *slog.Logger) CompanyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &companyRepository{db: db, logger: logger}
}

// Upsert inserts the company or renames an existing one.
func (r *companyRepository) Upsert(ctx context.Context, c entity.Company) error {
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		b := entsql.Dialect(r.db.Dialect())
		q, args := b.Update(tableCompanies).Set("name", c.Name).Where(entsql.EQ("code", c.Code)).Query()
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			return nil
		}
		q, args = b.Insert(tableCompanies).Columns("code", "name").Values(c.Code, c.Name).Query()
		_, err = tx.ExecContext(ctx, q, args...)
		return err
	})
	if err != nil {
		r.logger.Error("failed to upsert company", "code", c.Code, "error", err)
		return dbError("upsert company", err)
	}
	return nil
}

// List returns companies ordered by name.
func (r *companyRepository) List(ctx context.Context) ([]entity.Company, error) {
	q, args := entsql.Dialect(r.db.Dialect()).
		Select("code", "name").
		From(entsql.Dialect(r.db.Dialect()).Table(tableCompanies)).
		OrderBy("name").
		Query()
	rows, err := r.db.sqlDB().QueryContext(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to list companies", "error", err)
		return nil, dbError("list companies", err)
	}
	defer rows.Close()

	var out []entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, dbError("scan company", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list companies", err)
	}
	return out, nil
}

func (r *companyRepository) Get(ctx context.Context, code int) (entity.Company, error) {
	b := entsql.Dialect(r.db.Dialect())
	q, args := b.Select("code", "name").
		From(b.Table(tableCompanies)).
		Where(entsql.EQ("code", code)).
		Query()
	var c entity.Company
	err := r.db.sqlDB().QueryRowContext(ctx, q, args...).Scan(&c.Code, &c.Name)
	if err == sql.ErrNoRows {
		return c, fmt.Errorf("company %d: %w", code, common.ErrNotFound)
	}
	if err != nil {
		return c, dbError("get company", err)
	}
	return c, nil
}

// SeedCompanies loads the default purchasing units; safe to run on every start.
func SeedCompanies(ctx context.Context, repo CompanyRepository) error {
	for _, c := range constants.SeedCompanies {
		if err := repo.Upsert(ctx, entity.Company{Code: c.Code, Name: c.Name}); err != nil {
			return err
		}
	}
	return nil
}
