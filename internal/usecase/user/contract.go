package user

import (
	"context"

	domrec "github.com/kailas-cloud/flatdb/internal/domain/record"
)

// Repository defines the record store contract the user service depends on.
type Repository interface {
	Find(ctx context.Context, collection string) ([]domrec.Record, error)
	FindOne(ctx context.Context, collection string, q domrec.Query) (domrec.Record, error)
	InsertOne(ctx context.Context, collection string, data domrec.Record) (domrec.Record, error)
	UpdateMany(ctx context.Context, collection string, q domrec.Query, patch domrec.Record) (int, error)
	DeleteMany(ctx context.Context, collection string, q domrec.Query) (int, error)
	Paginate(ctx context.Context, collection string, page, limit int) (domrec.Page, error)
}
