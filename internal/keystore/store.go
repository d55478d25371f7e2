// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

// Package keystore persists generated key pairs in sqlite, postgres or mysql.
package keystore // import "github.com/toeirei/rsacore/internal/keystore"

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/toeirei/rsacore/internal/entropy"
	"github.com/toeirei/rsacore/internal/logging"
	"github.com/toeirei/rsacore/internal/rsa"
	"github.com/toeirei/rsacore/internal/security"
)

// keyRecord is the key_pairs row. Integers are stored as decimal text so
// every backend can hold moduli of any size.
type keyRecord struct {
	bun.BaseModel `bun:"table:key_pairs"`

	ID        string          `bun:"id,pk,type:varchar(36)"`
	Label     string          `bun:"label,unique,notnull,type:varchar(255)"`
	Bits      int             `bun:"bits,notnull"`
	N         string          `bun:"n,notnull,type:text"`
	E         string          `bun:"e,notnull,type:text"`
	D         security.Secret `bun:"d,notnull,type:text"`
	CreatedAt time.Time       `bun:"created_at,notnull"`
}

// Entry is a stored key pair with its metadata.
type Entry struct {
	ID        string
	Label     string
	Bits      int
	CreatedAt time.Time
	Pair      *rsa.KeyPair
}

// Store is a key_pairs table behind a bun connection.
type Store struct {
	db     *bun.DB
	dbType string
}

var sqlOpenFunc = sql.Open

// Open connects to dbType ("sqlite", "postgres" or "mysql") at dsn, waits
// for the server to answer and creates the key_pairs table if missing.
func Open(ctx context.Context, dbType, dsn string) (*Store, error) {
	driverName := dbType
	switch dbType {
	case "sqlite", "mysql":
	case "postgres":
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, dbType)
	}

	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	configurePool(sqlDB, dbType, dsn)

	if err := pingWithRetry(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database not reachable: %w", err)
	}

	s := &Store{db: createBunDB(sqlDB, dbType), dbType: dbType}
	if _, err := s.db.NewCreateTable().Model((*keyRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = s.db.Close()
		return nil, fmt.Errorf("failed to create key_pairs table: %w", err)
	}
	logging.Debugf("keystore: opened %s store", dbType)
	return s, nil
}

func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// configurePool applies RSACORE_DB_MAX_OPEN_CONNS and
// RSACORE_DB_CONN_MAX_LIFETIME_SECONDS. In-memory sqlite gets a single
// connection since every new connection would see a fresh database.
func configurePool(sqlDB *sql.DB, dbType, dsn string) {
	maxOpen := envInt("RSACORE_DB_MAX_OPEN_CONNS", 10)
	lifetime := time.Duration(envInt("RSACORE_DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second
	if dbType == "sqlite" && dsn == ":memory:" {
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxLifetime(lifetime)
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func pingWithRetry(ctx context.Context, sqlDB *sql.DB) error {
	b := retry.WithMaxDuration(10*time.Second, retry.NewFibonacci(100*time.Millisecond))
	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := sqlDB.PingContext(ctx); err != nil {
			logging.Debugf("keystore: ping attempt %d failed: %v", attempt, err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Save stores kp under label and returns the new entry. Pairs whose halves
// do not belong together are refused.
func (s *Store) Save(ctx context.Context, label string, kp *rsa.KeyPair) (Entry, error) {
	if label == "" {
		return Entry{}, fmt.Errorf("%w: empty label", rsa.ErrInvalidParameter)
	}
	if err := kp.Check(entropy.System()); err != nil {
		return Entry{}, fmt.Errorf("save key %q: %w", label, err)
	}
	rec := &keyRecord{
		ID:        uuid.New().String(),
		Label:     label,
		Bits:      kp.Public.Size(),
		N:         kp.Public.N().String(),
		E:         kp.Public.E().String(),
		D:         security.FromBigInt(kp.Private.D()),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if _, err := s.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return Entry{}, fmt.Errorf("save key %q: %w", label, mapDBError(err))
	}
	logging.Infof("keystore: saved %d-bit key %q (%s)", rec.Bits, label, rec.ID)
	return Entry{ID: rec.ID, Label: label, Bits: rec.Bits, CreatedAt: rec.CreatedAt, Pair: kp}, nil
}

// Get loads the key whose ID or label equals ref and verifies that its two
// halves still belong together.
func (s *Store) Get(ctx context.Context, ref string) (Entry, error) {
	rec := new(keyRecord)
	err := s.db.NewSelect().Model(rec).
		Where("id = ?", ref).WhereOr("label = ?", ref).
		Limit(1).Scan(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("get key %q: %w", ref, mapDBError(err))
	}
	e, err := rec.entry()
	if err != nil {
		return Entry{}, err
	}
	if err := e.Pair.Check(entropy.System()); err != nil {
		return Entry{}, fmt.Errorf("stored key %q is inconsistent: %w", rec.Label, err)
	}
	return e, nil
}

// List returns all keys ordered by creation time.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	var recs []keyRecord
	if err := s.db.NewSelect().Model(&recs).Order("created_at ASC", "label ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list keys: %w", mapDBError(err))
	}
	out := make([]Entry, 0, len(recs))
	for i := range recs {
		e, err := recs[i].entry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Delete removes the key whose ID or label equals ref.
func (s *Store) Delete(ctx context.Context, ref string) error {
	res, err := s.db.NewDelete().Model((*keyRecord)(nil)).
		Where("id = ?", ref).WhereOr("label = ?", ref).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete key %q: %w", ref, mapDBError(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete key %q: %w", ref, ErrNotFound)
	}
	logging.Infof("keystore: deleted key %q", ref)
	return nil
}

func (r *keyRecord) entry() (Entry, error) {
	n, okN := new(big.Int).SetString(r.N, 10)
	e, okE := new(big.Int).SetString(r.E, 10)
	if !okN || !okE {
		return Entry{}, fmt.Errorf("%w: stored key %q has a malformed public half", rsa.ErrInvalidParameter, r.Label)
	}
	d, err := r.D.BigInt()
	if err != nil {
		return Entry{}, fmt.Errorf("%w: stored key %q: %w", rsa.ErrInvalidParameter, r.Label, err)
	}
	defer d.SetInt64(0)

	pub, err := rsa.NewPublicKey(n, e)
	if err != nil {
		return Entry{}, fmt.Errorf("stored key %q: %w", r.Label, err)
	}
	priv, err := rsa.NewPrivateKey(n, d)
	if err != nil {
		return Entry{}, fmt.Errorf("stored key %q: %w", r.Label, err)
	}
	return Entry{
		ID:        r.ID,
		Label:     r.Label,
		Bits:      r.Bits,
		CreatedAt: r.CreatedAt,
		Pair:      &rsa.KeyPair{Public: pub, Private: priv},
	}, nil
}
