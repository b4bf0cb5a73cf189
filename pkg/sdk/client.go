package flatdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/flatdb/internal/db"
	dbJSONFile "github.com/kailas-cloud/flatdb/internal/db/jsonfile"
	dbMemory "github.com/kailas-cloud/flatdb/internal/db/memory"
	dbRedis "github.com/kailas-cloud/flatdb/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/flatdb/internal/db/sqlite"
	domrec "github.com/kailas-cloud/flatdb/internal/domain/record"
	recordrepo "github.com/kailas-cloud/flatdb/internal/repository/record"
	healthuc "github.com/kailas-cloud/flatdb/internal/usecase/health"
	useruc "github.com/kailas-cloud/flatdb/internal/usecase/user"
)

const defaultReadinessTimeout = 10 * time.Second

// Внутренние интерфейсы для подмены в тестах.
type recordUseCase interface {
	Find(ctx context.Context, collection string) ([]domrec.Record, error)
	FindOne(ctx context.Context, collection string, q domrec.Query) (domrec.Record, error)
	FindMany(ctx context.Context, collection string, q domrec.Query) ([]domrec.Record, error)
	InsertOne(ctx context.Context, collection string, data domrec.Record) (domrec.Record, error)
	UpdateMany(ctx context.Context, collection string, q domrec.Query, patch domrec.Record) (int, error)
	DeleteMany(ctx context.Context, collection string, q domrec.Query) (int, error)
	Paginate(ctx context.Context, collection string, page, limit int) (domrec.Page, error)
	Count(ctx context.Context, collection string) (int, error)
	Collections(ctx context.Context) ([]string, error)
}

type userUseCase interface {
	Collection() string
	List(ctx context.Context) ([]domrec.Record, error)
	Get(ctx context.Context, id int64) (domrec.Record, error)
	Paginate(ctx context.Context, page, limit int) (domrec.Page, error)
	Create(ctx context.Context, data domrec.Record) (domrec.Record, error)
	Update(ctx context.Context, id int64, patch domrec.Record) (int, error)
	Delete(ctx context.Context, id int64) (int, error)
}

// Client is the flatdb SDK entry point.
type Client struct {
	store     db.Store
	recordSvc recordUseCase
	userSvc   userUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New opens the configured backend and wires the record store and the user
// service on top of it. The provided context is used for the initial
// readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("flatdb: storage required (use WithDataDir, WithSQLite, WithRedis or WithMemory)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("flatdb: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverJSONFile:
		s, err := dbJSONFile.NewStore(dbJSONFile.Config{Dir: cfg.dataDir})
		if err != nil {
			return nil, fmt.Errorf("flatdb: create jsonfile store: %w", err)
		}
		return s, nil
	case driverSQLite:
		s, err := dbSQLite.NewStore(dbSQLite.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("flatdb: create sqlite store: %w", err)
		}
		return s, nil
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.addrs,
			Password:  cfg.password,
			KeyPrefix: cfg.keyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("flatdb: create redis store: %w", err)
		}
		return s, nil
	case driverMemory:
		return dbMemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("flatdb: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	records := recordrepo.New(store)
	users := useruc.New(records, cfg.collection, cfg.pageSize)

	return &Client{
		store:     store,
		recordSvc: records,
		userSvc:   users,
		healthSvc: healthuc.New(store, records, users.Collection()),
		obs:       obs,
	}
}

// Close releases the backend. Memory stores lose their data.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks backend connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", "", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Collections returns the names of every stored collection in ascending order.
func (c *Client) Collections(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("collections", "", start, err) }()

	names, err := c.recordSvc.Collections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

// Records returns the record store operations for one collection.
func (c *Client) Records(collection string) *RecordService {
	return &RecordService{
		collection: collection,
		svc:        c.recordSvc,
		obs:        c.obs,
	}
}

// Users returns the user service bound to the configured collection.
func (c *Client) Users() *UserService {
	return &UserService{svc: c.userSvc, obs: c.obs}
}
