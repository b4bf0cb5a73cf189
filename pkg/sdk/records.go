package flatdb

import (
	"context"
	"time"
)

// RecordService runs store operations on one collection. Every operation
// reads the whole collection and mutations write it back whole.
type RecordService struct {
	collection string
	svc        recordUseCase
	obs        *observer
}

// Collection returns the collection name.
func (s *RecordService) Collection() string { return s.collection }

// Find returns every record in stored order. A missing collection is empty.
func (s *RecordService) Find(ctx context.Context) (_ []Record, err error) {
	defer s.observe("records.find", time.Now(), &err)
	return s.svc.Find(ctx, s.collection)
}

// FindOne returns the first record matching q, or ErrNotFound.
func (s *RecordService) FindOne(ctx context.Context, q Query) (_ Record, err error) {
	defer s.observe("records.find_one", time.Now(), &err)
	return s.svc.FindOne(ctx, s.collection, q)
}

// FindMany returns every record matching q.
func (s *RecordService) FindMany(ctx context.Context, q Query) (_ []Record, err error) {
	defer s.observe("records.find_many", time.Now(), &err)
	return s.svc.FindMany(ctx, s.collection, q)
}

// InsertOne appends data and returns the stored record. A record without an
// id gets max(existing ids)+1.
func (s *RecordService) InsertOne(ctx context.Context, data Record) (_ Record, err error) {
	defer s.observe("records.insert_one", time.Now(), &err)
	return s.svc.InsertOne(ctx, s.collection, data)
}

// UpdateMany merges patch into every record matching q and returns how many changed.
func (s *RecordService) UpdateMany(ctx context.Context, q Query, patch Record) (_ int, err error) {
	defer s.observe("records.update_many", time.Now(), &err)
	return s.svc.UpdateMany(ctx, s.collection, q, patch)
}

// DeleteMany removes every record matching q and returns how many were removed.
func (s *RecordService) DeleteMany(ctx context.Context, q Query) (_ int, err error) {
	defer s.observe("records.delete_many", time.Now(), &err)
	return s.svc.DeleteMany(ctx, s.collection, q)
}

// Paginate returns records [(page-1)*limit, page*limit) with pagination metadata.
func (s *RecordService) Paginate(ctx context.Context, page, limit int) (_ Page, err error) {
	defer s.observe("records.paginate", time.Now(), &err)
	return s.svc.Paginate(ctx, s.collection, page, limit)
}

// Count returns the number of records.
func (s *RecordService) Count(ctx context.Context) (_ int, err error) {
	defer s.observe("records.count", time.Now(), &err)
	return s.svc.Count(ctx, s.collection)
}

func (s *RecordService) observe(op string, start time.Time, errp *error) {
	s.obs.observe(op, s.collection, start, *errp)
}
