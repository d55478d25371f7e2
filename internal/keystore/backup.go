// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package keystore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/uptrace/bun"

	"github.com/toeirei/rsacore/internal/logging"
	"github.com/toeirei/rsacore/internal/rsa"
	"github.com/toeirei/rsacore/internal/security"
)

const backupSchemaVersion = 1

// BackupData is the document written by Backup. The private exponent is in
// clear text, so backups must be protected like the database itself.
type BackupData struct {
	SchemaVersion int           `json:"schema_version"`
	CreatedAt     time.Time     `json:"created_at"`
	Keys          []BackupEntry `json:"keys"`
}

type BackupEntry struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Bits      int       `json:"bits"`
	N         string    `json:"n"`
	E         string    `json:"e"`
	D         string    `json:"d"`
	CreatedAt time.Time `json:"created_at"`
}

// Backup writes every stored key to w as zstd-compressed JSON.
func (s *Store) Backup(ctx context.Context, w io.Writer) (int, error) {
	var recs []keyRecord
	if err := s.db.NewSelect().Model(&recs).Order("created_at ASC").Scan(ctx); err != nil {
		return 0, fmt.Errorf("export keys: %w", mapDBError(err))
	}

	data := BackupData{SchemaVersion: backupSchemaVersion, CreatedAt: time.Now().UTC()}
	for _, r := range recs {
		data.Keys = append(data.Keys, BackupEntry{
			ID:        r.ID,
			Label:     r.Label,
			Bits:      r.Bits,
			N:         r.N,
			E:         r.E,
			D:         r.D.Reveal(),
			CreatedAt: r.CreatedAt,
		})
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&data); err != nil {
		_ = zw.Close()
		return 0, fmt.Errorf("encode backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("flush backup: %w", err)
	}
	logging.Infof("keystore: backed up %d keys", len(data.Keys))
	return len(data.Keys), nil
}

// Restore imports a backup written by Backup in one transaction. With
// replace set, existing keys are removed first; otherwise a label or ID
// clash aborts the restore with ErrDuplicate.
func (s *Store) Restore(ctx context.Context, r io.Reader, replace bool) (int, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	var data BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return 0, fmt.Errorf("decode backup: %w", err)
	}
	if data.SchemaVersion != backupSchemaVersion {
		return 0, fmt.Errorf("unsupported backup schema version %d", data.SchemaVersion)
	}

	recs := make([]keyRecord, 0, len(data.Keys))
	for _, k := range data.Keys {
		rec, err := k.record()
		if err != nil {
			return 0, err
		}
		recs = append(recs, rec)
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if replace {
			if _, err := tx.NewDelete().Model((*keyRecord)(nil)).Where("1 = 1").Exec(ctx); err != nil {
				return err
			}
		}
		if len(recs) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&recs).Exec(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("restore keys: %w", mapDBError(err))
	}
	logging.Infof("keystore: restored %d keys", len(recs))
	return len(recs), nil
}

// record validates an imported entry before it reaches the database.
func (k BackupEntry) record() (keyRecord, error) {
	n, okN := new(big.Int).SetString(k.N, 10)
	e, okE := new(big.Int).SetString(k.E, 10)
	d, okD := new(big.Int).SetString(k.D, 10)
	if !okN || !okE || !okD || k.ID == "" || k.Label == "" {
		return keyRecord{}, fmt.Errorf("%w: malformed backup entry %q", rsa.ErrInvalidParameter, k.Label)
	}
	defer d.SetInt64(0)
	pub, err := rsa.NewPublicKey(n, e)
	if err != nil {
		return keyRecord{}, fmt.Errorf("backup entry %q: %w", k.Label, err)
	}
	priv, err := rsa.NewPrivateKey(n, d)
	if err != nil {
		return keyRecord{}, fmt.Errorf("backup entry %q: %w", k.Label, err)
	}
	return keyRecord{
		ID:        k.ID,
		Label:     k.Label,
		Bits:      pub.Size(),
		N:         pub.N().String(),
		E:         pub.E().String(),
		D:         security.FromBigInt(priv.D()),
		CreatedAt: k.CreatedAt,
	}, nil
}
