package order

import (
	"context"
	"fmt"
	"print-order-bot/internal/pkg/model"
	"print-order-bot/pkg"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx"
)

const schema = `create table if not exists print_orders (
	id                bigserial primary key,
	user_id           bigint not null,
	username          text not null default '',
	full_name         text not null default '',
	print_format      text not null,
	print_date        text not null,
	original_filename text not null,
	drive_file_name   text not null,
	drive_file_id     text not null,
	created_at        timestamptz not null
)`

type Repo interface {
	EnsureSchema(ctx context.Context) error
	SaveOrder(ctx context.Context, order *model.PlacedOrder) error
}

// execer is satisfied by *pgx.Conn.
type execer interface {
	ExecEx(ctx context.Context, sql string, options *pgx.QueryExOptions, arguments ...interface{}) (pgx.CommandTag, error)
}

type DefaultRepo struct {
	db      execer
	builder sq.StatementBuilderType
}

func NewDefaultRepo(db execer) Repo {
	return &DefaultRepo{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (d *DefaultRepo) EnsureSchema(ctx context.Context) error {
	if _, err := d.db.ExecEx(ctx, schema, nil); err != nil {
		return &pkg.ErrDBProcedure{
			Cause: "failed to create print_orders table",
			Err:   err,
		}
	}
	return nil
}

func (d *DefaultRepo) SaveOrder(ctx context.Context, order *model.PlacedOrder) error {
	query, args, err := d.builder.
		Insert("print_orders").
		Columns(
			"user_id", "username", "full_name", "print_format", "print_date",
			"original_filename", "drive_file_name", "drive_file_id", "created_at",
		).
		Values(
			order.Customer.ID,
			order.Customer.Username,
			order.Customer.FullName(),
			order.PrintFormat,
			order.PrintDate,
			order.OriginalFilename,
			order.DriveFileName,
			order.DriveFileID,
			order.CreatedAt,
		).
		ToSql()
	if err != nil {
		return &pkg.ErrDBProcedure{
			Cause: "failed to build query",
			Err:   err,
		}
	}

	if _, err := d.db.ExecEx(ctx, query, nil, args...); err != nil {
		return &pkg.ErrDBProcedure{
			Cause: "failed to insert order",
			Info:  fmt.Sprintf("query: %s", query),
			Err:   err,
		}
	}
	return nil
}

// NopRepo is used when the archive is disabled.
type NopRepo struct{}

func (NopRepo) EnsureSchema(ctx context.Context) error { return nil }

func (NopRepo) SaveOrder(ctx context.Context, order *model.PlacedOrder) error { return nil }
