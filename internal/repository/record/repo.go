package record

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/flatdb/internal/db"
	"github.com/kailas-cloud/flatdb/internal/domain"
	domrec "github.com/kailas-cloud/flatdb/internal/domain/record"
	"github.com/kailas-cloud/flatdb/internal/logger"
	"github.com/kailas-cloud/flatdb/internal/metrics"
)

// store is the consumer interface for whole-collection persistence (ISP).
type store interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	List(ctx context.Context) ([]string, error)
}

// Store operation names used in errors, logs and metric labels.
const (
	opFind        = "find"
	opFindOne     = "find_one"
	opFindMany    = "find_many"
	opInsertOne   = "insert_one"
	opUpdateMany  = "update_many"
	opDeleteMany  = "delete_many"
	opPaginate    = "paginate"
	opCount       = "count"
	opCollections = "collections"
)

// Repo is the record store: every collection is one serialized JSON array
// that each operation loads, changes in memory and writes back whole.
//
// Operations on one collection are serialized by a per-collection mutex, so
// concurrent writers inside the process never lose updates. Writers in other
// processes sharing the same backend are not coordinated.
type Repo struct {
	store store

	mu    sync.Mutex
	locks map[string]*collectionLock
}

// collectionLock is dropped from Repo.locks once no operation holds or waits on it.
type collectionLock struct {
	mu   sync.Mutex
	refs int
}

// New creates a record store over the given backend.
func New(s store) *Repo {
	return &Repo{store: s, locks: make(map[string]*collectionLock)}
}

// Find returns every record of the collection in stored order.
// A collection that was never written is empty.
func (r *Repo) Find(ctx context.Context, collection string) (records []domrec.Record, err error) {
	defer r.observe(ctx, opFind, collection, time.Now(), &err)
	unlock := r.lock(collection)
	defer unlock()

	return r.load(ctx, opFind, collection)
}

// FindOne returns the first record matching q, or domain.ErrNotFound.
func (r *Repo) FindOne(ctx context.Context, collection string, q domrec.Query) (rec domrec.Record, err error) {
	defer r.observe(ctx, opFindOne, collection, time.Now(), &err)
	unlock := r.lock(collection)
	defer unlock()

	records, err := r.load(ctx, opFindOne, collection)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if q.Matches(rec) {
			return rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

// FindMany returns every record matching q in stored order.
func (r *Repo) FindMany(ctx context.Context, collection string, q domrec.Query) (records []domrec.Record, err error) {
	defer r.observe(ctx, opFindMany, collection, time.Now(), &err)
	unlock := r.lock(collection)
	defer unlock()

	all, err := r.load(ctx, opFindMany, collection)
	if err != nil {
		return nil, err
	}
	return q.Filter(all), nil
}

// InsertOne appends data to the collection and returns the stored record.
// A missing or empty id is replaced by NextID; an id already present in the
// collection is rejected with domain.ErrAlreadyExists. data is not modified.
func (r *Repo) InsertOne(ctx context.Context, collection string, data domrec.Record) (rec domrec.Record, err error) {
	defer r.observe(ctx, opInsertOne, collection, time.Now(), &err)
	unlock := r.lock(collection)
	defer unlock()

	records, err := r.load(ctx, opInsertOne, collection)
	if err != nil {
		return nil, err
	}

	rec = data.Clone()
	if !rec.HasID() {
		id, err := domrec.NextID(records)
		if err != nil {
			return nil, fmt.Errorf("%w: assign id: %w", domain.ErrInvalidInput, err)
		}
		rec[domrec.IDField] = id
	} else if idTaken(records, rec[domrec.IDField]) {
		return nil, fmt.Errorf("id %v: %w", rec[domrec.IDField], domain.ErrAlreadyExists)
	}

	records = append(records, rec)
	if err := r.save(ctx, opInsertOne, collection, records); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateMany shallow-merges patch over every record matching q and returns
// how many records changed. Nothing is written when no record matches.
func (r *Repo) UpdateMany(ctx context.Context, collection string, q domrec.Query, patch domrec.Record) (n int, err error) {
	defer r.observe(ctx, opUpdateMany, collection, time.Now(), &err)
	unlock := r.lock(collection)
	defer unlock()

	records, err := r.load(ctx, opUpdateMany, collection)
	if err != nil {
		return 0, err
	}

	matched := make([]int, 0)
	for i, rec := range records {
		if q.Matches(rec) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}

	if newID, ok := patch[domrec.IDField]; ok {
		if err := checkIDChange(records, matched, newID); err != nil {
			return 0, err
		}
	}

	for _, i := range matched {
		records[i] = records[i].Merge(patch)
	}
	if err := r.save(ctx, opUpdateMany, collection, records); err != nil {
		return 0, err
	}
	return len(matched), nil
}

// DeleteMany removes every record matching q, keeping the rest in order, and
// returns how many were removed. Nothing is written when no record matches.
func (r *Repo) DeleteMany(ctx context.Context, collection string, q domrec.Query) (n int, err error) {
	defer r.observe(ctx, opDeleteMany, collection, time.Now(), &err)
	unlock := r.lock(collection)
	defer unlock()

	records, err := r.load(ctx, opDeleteMany, collection)
	if err != nil {
		return 0, err
	}

	kept := make([]domrec.Record, 0, len(records))
	for _, rec := range records {
		if !q.Matches(rec) {
			kept = append(kept, rec)
		}
	}
	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := r.save(ctx, opDeleteMany, collection, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Paginate returns page number page (1-based) of limit records.
func (r *Repo) Paginate(ctx context.Context, collection string, page, limit int) (p domrec.Page, err error) {
	defer r.observe(ctx, opPaginate, collection, time.Now(), &err)
	unlock := r.lock(collection)
	defer unlock()

	records, err := r.load(ctx, opPaginate, collection)
	if err != nil {
		return domrec.Page{}, err
	}
	return domrec.Paginate(records, page, limit), nil
}

// Count returns the number of records in the collection.
func (r *Repo) Count(ctx context.Context, collection string) (n int, err error) {
	defer r.observe(ctx, opCount, collection, time.Now(), &err)
	unlock := r.lock(collection)
	defer unlock()

	records, err := r.load(ctx, opCount, collection)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Collections returns the sorted names of stored collections.
func (r *Repo) Collections(ctx context.Context) (names []string, err error) {
	defer r.observe(ctx, opCollections, "", time.Now(), &err)

	names, err = r.store.List(ctx)
	if err != nil {
		return nil, domain.NewStorageError(opCollections, "*", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (r *Repo) lock(collection string) func() {
	r.mu.Lock()
	l, ok := r.locks[collection]
	if !ok {
		l = &collectionLock{}
		r.locks[collection] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, collection)
		}
		r.mu.Unlock()
	}
}

func (r *Repo) load(ctx context.Context, op, collection string) ([]domrec.Record, error) {
	data, err := r.store.Load(ctx, collection)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return []domrec.Record{}, nil
	case errors.Is(err, db.ErrInvalidName):
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	case err != nil:
		return nil, domain.NewStorageError(op, collection, err)
	}

	records, err := decode(data)
	if err != nil {
		return nil, domain.NewStorageError(op, collection, err)
	}
	return records, nil
}

func (r *Repo) save(ctx context.Context, op, collection string, records []domrec.Record) error {
	data, err := encode(records)
	if err != nil {
		return domain.NewStorageError(op, collection, err)
	}
	if err := r.store.Save(ctx, collection, data); err != nil {
		if errors.Is(err, db.ErrInvalidName) {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return domain.NewStorageError(op, collection, err)
	}
	metrics.StoreCollectionRecords.WithLabelValues(collection).Set(float64(len(records)))
	return nil
}

func (r *Repo) observe(ctx context.Context, op, collection string, start time.Time, errp *error) {
	err := *errp
	failed := err
	if errors.Is(err, domain.ErrNotFound) {
		failed = nil
	}
	metrics.ObserveStoreOperation(op, collection, start, failed)

	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("collection", collection),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.FromContext(ctx).Debug("store operation", fields...)
}

// decode parses a collection file. Numbers are kept as json.Number so ids and
// other numeric fields survive a rewrite unchanged.
func decode(data []byte) ([]domrec.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []domrec.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decode: trailing data after collection array")
	}
	if records == nil {
		records = []domrec.Record{}
	}
	return records, nil
}

// encode renders a collection as a two-space indented JSON array with a
// trailing newline.
func encode(records []domrec.Record) ([]byte, error) {
	if records == nil {
		records = []domrec.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func idTaken(records []domrec.Record, id any) bool {
	for _, rec := range records {
		if existing, ok := rec[domrec.IDField]; ok && domrec.Equal(existing, id) {
			return true
		}
	}
	return false
}

// checkIDChange rejects a patch that would leave two records with one id.
func checkIDChange(records []domrec.Record, matched []int, newID any) error {
	if len(matched) > 1 {
		return fmt.Errorf("set id on %d records: %w", len(matched), domain.ErrAlreadyExists)
	}
	for i, rec := range records {
		if i == matched[0] {
			continue
		}
		if existing, ok := rec[domrec.IDField]; ok && domrec.Equal(existing, newID) {
			return fmt.Errorf("id %v: %w", newID, domain.ErrAlreadyExists)
		}
	}
	return nil
}
