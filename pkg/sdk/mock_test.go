package flatdb

import (
	"context"

	domrec "github.com/kailas-cloud/flatdb/internal/domain/record"
	healthuc "github.com/kailas-cloud/flatdb/internal/usecase/health"
)

// --- recordUseCase mock ---

type mockRecordUC struct {
	findFn        func(ctx context.Context, col string) ([]domrec.Record, error)
	findOneFn     func(ctx context.Context, col string, q domrec.Query) (domrec.Record, error)
	findManyFn    func(ctx context.Context, col string, q domrec.Query) ([]domrec.Record, error)
	insertOneFn   func(ctx context.Context, col string, data domrec.Record) (domrec.Record, error)
	updateManyFn  func(ctx context.Context, col string, q domrec.Query, patch domrec.Record) (int, error)
	deleteManyFn  func(ctx context.Context, col string, q domrec.Query) (int, error)
	paginateFn    func(ctx context.Context, col string, page, limit int) (domrec.Page, error)
	countFn       func(ctx context.Context, col string) (int, error)
	collectionsFn func(ctx context.Context) ([]string, error)
}

func (m *mockRecordUC) Find(ctx context.Context, col string) ([]domrec.Record, error) {
	return m.findFn(ctx, col)
}

func (m *mockRecordUC) FindOne(ctx context.Context, col string, q domrec.Query) (domrec.Record, error) {
	return m.findOneFn(ctx, col, q)
}

func (m *mockRecordUC) FindMany(ctx context.Context, col string, q domrec.Query) ([]domrec.Record, error) {
	return m.findManyFn(ctx, col, q)
}

func (m *mockRecordUC) InsertOne(ctx context.Context, col string, data domrec.Record) (domrec.Record, error) {
	return m.insertOneFn(ctx, col, data)
}

func (m *mockRecordUC) UpdateMany(
	ctx context.Context, col string, q domrec.Query, patch domrec.Record,
) (int, error) {
	return m.updateManyFn(ctx, col, q, patch)
}

func (m *mockRecordUC) DeleteMany(ctx context.Context, col string, q domrec.Query) (int, error) {
	return m.deleteManyFn(ctx, col, q)
}

func (m *mockRecordUC) Paginate(ctx context.Context, col string, page, limit int) (domrec.Page, error) {
	return m.paginateFn(ctx, col, page, limit)
}

func (m *mockRecordUC) Count(ctx context.Context, col string) (int, error) {
	return m.countFn(ctx, col)
}

func (m *mockRecordUC) Collections(ctx context.Context) ([]string, error) {
	return m.collectionsFn(ctx)
}

// --- userUseCase mock ---

type mockUserUC struct {
	listFn     func(ctx context.Context) ([]domrec.Record, error)
	getFn      func(ctx context.Context, id int64) (domrec.Record, error)
	paginateFn func(ctx context.Context, page, limit int) (domrec.Page, error)
	createFn   func(ctx context.Context, data domrec.Record) (domrec.Record, error)
	updateFn   func(ctx context.Context, id int64, patch domrec.Record) (int, error)
	deleteFn   func(ctx context.Context, id int64) (int, error)
}

func (m *mockUserUC) Collection() string { return "users" }

func (m *mockUserUC) List(ctx context.Context) ([]domrec.Record, error) {
	return m.listFn(ctx)
}

func (m *mockUserUC) Get(ctx context.Context, id int64) (domrec.Record, error) {
	return m.getFn(ctx, id)
}

func (m *mockUserUC) Paginate(ctx context.Context, page, limit int) (domrec.Page, error) {
	return m.paginateFn(ctx, page, limit)
}

func (m *mockUserUC) Create(ctx context.Context, data domrec.Record) (domrec.Record, error) {
	return m.createFn(ctx, data)
}

func (m *mockUserUC) Update(ctx context.Context, id int64, patch domrec.Record) (int, error) {
	return m.updateFn(ctx, id, patch)
}

func (m *mockUserUC) Delete(ctx context.Context, id int64) (int, error) {
	return m.deleteFn(ctx, id)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}
