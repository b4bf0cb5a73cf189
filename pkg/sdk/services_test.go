package flatdb

import (
	"context"
	"errors"
	"testing"

	domrec "github.com/kailas-cloud/flatdb/internal/domain/record"
)

// --- RecordService ---

func TestRecordService_PassesCollection(t *testing.T) {
	var gotCol string
	var gotQuery domrec.Query
	mock := &mockRecordUC{
		findManyFn: func(_ context.Context, col string, q domrec.Query) ([]domrec.Record, error) {
			gotCol, gotQuery = col, q
			return []domrec.Record{{"id": 1, "status": "new"}}, nil
		},
	}

	svc := &RecordService{collection: "orders", svc: mock}
	got, err := svc.FindMany(context.Background(), Query{"status": "new"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
	if gotCol != "orders" {
		t.Errorf("collection = %q, want orders", gotCol)
	}
	if gotQuery["status"] != "new" {
		t.Errorf("query = %v", gotQuery)
	}
}

func TestRecordService_UpdateMany(t *testing.T) {
	mock := &mockRecordUC{
		updateManyFn: func(_ context.Context, _ string, _ domrec.Query, patch domrec.Record) (int, error) {
			if patch["status"] != "paid" {
				t.Errorf("patch = %v", patch)
			}
			return 3, nil
		},
	}

	svc := &RecordService{collection: "orders", svc: mock}
	n, err := svc.UpdateMany(context.Background(), Query{}, Record{"status": "paid"})
	if err != nil || n != 3 {
		t.Errorf("n=%d err=%v, want 3 <nil>", n, err)
	}
}

func TestRecordService_FindOne_NotFound(t *testing.T) {
	mock := &mockRecordUC{
		findOneFn: func(_ context.Context, _ string, _ domrec.Query) (domrec.Record, error) {
			return nil, ErrNotFound
		},
	}

	svc := &RecordService{collection: "orders", svc: mock}
	_, err := svc.FindOne(context.Background(), ByID(9))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordService_Errors(t *testing.T) {
	errDown := errors.New("disk down")
	mock := &mockRecordUC{
		findFn:       func(context.Context, string) ([]domrec.Record, error) { return nil, errDown },
		deleteManyFn: func(context.Context, string, domrec.Query) (int, error) { return 0, errDown },
		countFn:      func(context.Context, string) (int, error) { return 0, errDown },
		paginateFn:   func(context.Context, string, int, int) (domrec.Page, error) { return domrec.Page{}, errDown },
		insertOneFn:  func(context.Context, string, domrec.Record) (domrec.Record, error) { return nil, errDown },
	}
	svc := &RecordService{collection: "orders", svc: mock}
	ctx := context.Background()

	if _, err := svc.Find(ctx); !errors.Is(err, errDown) {
		t.Errorf("Find: %v", err)
	}
	if _, err := svc.DeleteMany(ctx, Query{}); !errors.Is(err, errDown) {
		t.Errorf("DeleteMany: %v", err)
	}
	if _, err := svc.Count(ctx); !errors.Is(err, errDown) {
		t.Errorf("Count: %v", err)
	}
	if _, err := svc.Paginate(ctx, 1, 1); !errors.Is(err, errDown) {
		t.Errorf("Paginate: %v", err)
	}
	if _, err := svc.InsertOne(ctx, Record{}); !errors.Is(err, errDown) {
		t.Errorf("InsertOne: %v", err)
	}
}

// --- UserService ---

func TestUserService_Get(t *testing.T) {
	mock := &mockUserUC{
		getFn: func(_ context.Context, id int64) (domrec.Record, error) {
			if id != 2 {
				return nil, ErrUserNotFound
			}
			return domrec.Record{"id": 2, "name": "Maria"}, nil
		},
	}

	svc := &UserService{svc: mock}
	u, err := svc.Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u["name"] != "Maria" {
		t.Errorf("name = %v", u["name"])
	}

	_, err = svc.Get(context.Background(), 5)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_Mutations(t *testing.T) {
	mock := &mockUserUC{
		createFn: func(_ context.Context, data domrec.Record) (domrec.Record, error) {
			out := data.Clone()
			out["id"] = int64(4)
			return out, nil
		},
		updateFn: func(_ context.Context, id int64, _ domrec.Record) (int, error) {
			if id == 1 {
				return 1, nil
			}
			return 0, nil
		},
		deleteFn: func(_ context.Context, _ int64) (int, error) { return 0, nil },
	}
	svc := &UserService{svc: mock}
	ctx := context.Background()

	u, err := svc.Create(ctx, Record{"name": "X"})
	if err != nil || u["id"] != int64(4) {
		t.Errorf("Create = %v, %v", u, err)
	}
	if n, _ := svc.Update(ctx, 1, Record{"name": "Y"}); n != 1 {
		t.Errorf("Update(1) = %d, want 1", n)
	}
	if n, _ := svc.Update(ctx, 9, Record{"name": "Y"}); n != 0 {
		t.Errorf("Update(9) = %d, want 0", n)
	}
	if n, _ := svc.Delete(ctx, 9); n != 0 {
		t.Errorf("Delete(9) = %d, want 0", n)
	}
}

func TestUserService_Paginate(t *testing.T) {
	mock := &mockUserUC{
		paginateFn: func(_ context.Context, page, limit int) (domrec.Page, error) {
			return domrec.Page{Pagination: domrec.Pagination{Page: page, Limit: limit}}, nil
		},
		listFn: func(context.Context) ([]domrec.Record, error) { return []domrec.Record{}, nil },
	}
	svc := &UserService{svc: mock}

	p, err := svc.Paginate(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Pagination.Page != 2 || p.Pagination.Limit != 5 {
		t.Errorf("pagination = %+v", p.Pagination)
	}
	if svc.Collection() != "users" {
		t.Errorf("collection = %q", svc.Collection())
	}
	if got, err := svc.List(context.Background()); err != nil || got == nil {
		t.Errorf("List = %v, %v", got, err)
	}
}
