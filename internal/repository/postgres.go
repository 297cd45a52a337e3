package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore implements Store on top of sqlx/PostgreSQL. Outside a
// transaction repositories run against the pool; InTx rebinds them to
// a serializable transaction so a whole core operation commits or
// reverts as one unit.
type PostgresStore struct {
	db  *sqlx.DB
	ext sqlx.ExtContext

	sellers    *sellerRepo
	products   *productRepo
	purchases  *purchaseRepo
	reviews    *reviewRepo
	categories *categoryRepo
	settings   *settingsRepo
	payouts    *payoutRepo
	adminUsers *adminUserRepo
}

// NewPostgresStore creates a store backed by the given database pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return newPostgresStore(db, db)
}

func newPostgresStore(db *sqlx.DB, ext sqlx.ExtContext) *PostgresStore {
	return &PostgresStore{
		db:         db,
		ext:        ext,
		sellers:    &sellerRepo{ext: ext},
		products:   &productRepo{ext: ext},
		purchases:  &purchaseRepo{ext: ext},
		reviews:    &reviewRepo{ext: ext},
		categories: &categoryRepo{ext: ext},
		settings:   &settingsRepo{ext: ext},
		payouts:    &payoutRepo{ext: ext},
		adminUsers: &adminUserRepo{ext: ext},
	}
}

func (s *PostgresStore) Sellers() SellerRepository       { return s.sellers }
func (s *PostgresStore) Products() ProductRepository     { return s.products }
func (s *PostgresStore) Purchases() PurchaseRepository   { return s.purchases }
func (s *PostgresStore) Reviews() ReviewRepository       { return s.reviews }
func (s *PostgresStore) Categories() CategoryRepository  { return s.categories }
func (s *PostgresStore) Settings() SettingsRepository    { return s.settings }
func (s *PostgresStore) Payouts() PayoutRepository       { return s.payouts }
func (s *PostgresStore) AdminUsers() AdminUserRepository { return s.adminUsers }

// InTx runs fn inside a serializable transaction. Nested calls reuse
// the surrounding transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(Store) error) error {
	if _, ok := s.ext.(*sqlx.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txStore := newPostgresStore(s.db, tx)
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
