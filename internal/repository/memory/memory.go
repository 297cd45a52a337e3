// Package memory provides an in-memory repository.Store. It mirrors the
// Postgres store's transactional contract: InTx serializes writers and
// applies their mutations atomically, so the service-level invariants
// can be exercised without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository"
)

// Store is an in-memory implementation of repository.Store.
type Store struct {
	mu    *sync.Mutex
	state *state
	inTx  bool
}

type state struct {
	sellers map[string]*models.Seller

	products      map[int64]*models.Product
	nextProductID int64

	purchases      []*models.Purchase
	nextPurchaseID int64

	reviews      []*models.Review
	nextReviewID int64

	categories     map[int64]*models.Category
	nextCategoryID int64

	subCategories     map[int64]*models.SubCategory
	nextSubCategoryID int64

	settings map[string]int64

	payouts      []*models.Payout
	nextPayoutID int64

	adminUsers  map[string]*models.AdminUser
	nextAdminID int64

	clock int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		mu: &sync.Mutex{},
		state: &state{
			sellers:       make(map[string]*models.Seller),
			products:      make(map[int64]*models.Product),
			categories:    make(map[int64]*models.Category),
			subCategories: make(map[int64]*models.SubCategory),
			settings:      make(map[string]int64),
			adminUsers:    make(map[string]*models.AdminUser),
		},
	}
}

func (s *Store) Sellers() repository.SellerRepository       { return &sellers{s} }
func (s *Store) Products() repository.ProductRepository     { return &products{s} }
func (s *Store) Purchases() repository.PurchaseRepository   { return &purchases{s} }
func (s *Store) Reviews() repository.ReviewRepository       { return &reviews{s} }
func (s *Store) Categories() repository.CategoryRepository  { return &categories{s} }
func (s *Store) Settings() repository.SettingsRepository    { return &settings{s} }
func (s *Store) Payouts() repository.PayoutRepository       { return &payouts{s} }
func (s *Store) AdminUsers() repository.AdminUserRepository { return &adminUsers{s} }

// InTx runs fn against a cloned state and swaps it in only when fn
// succeeds, so a failing operation leaves no partial mutation behind.
// The store mutex gives writers the same total ordering the Postgres
// store gets from serializable transactions.
func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	view := &Store{mu: s.mu, state: work, inTx: true}
	if err := fn(view); err != nil {
		return err
	}
	s.state = work
	return nil
}

// locked runs fn under the store mutex unless the store is already a
// transaction view, which holds the mutex for its whole lifetime.
func (s *Store) locked(fn func(st *state) error) error {
	if s.inTx {
		return fn(s.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// now returns a strictly increasing timestamp so list orderings are
// deterministic even when operations land within the same nanosecond.
func (st *state) now() time.Time {
	st.clock++
	return time.Unix(0, st.clock)
}

func (st *state) clone() *state {
	cp := &state{
		sellers:           make(map[string]*models.Seller, len(st.sellers)),
		products:          make(map[int64]*models.Product, len(st.products)),
		nextProductID:     st.nextProductID,
		purchases:         make([]*models.Purchase, len(st.purchases)),
		nextPurchaseID:    st.nextPurchaseID,
		reviews:           make([]*models.Review, len(st.reviews)),
		nextReviewID:      st.nextReviewID,
		categories:        make(map[int64]*models.Category, len(st.categories)),
		nextCategoryID:    st.nextCategoryID,
		subCategories:     make(map[int64]*models.SubCategory, len(st.subCategories)),
		nextSubCategoryID: st.nextSubCategoryID,
		settings:          make(map[string]int64, len(st.settings)),
		payouts:           make([]*models.Payout, len(st.payouts)),
		nextPayoutID:      st.nextPayoutID,
		adminUsers:        make(map[string]*models.AdminUser, len(st.adminUsers)),
		nextAdminID:       st.nextAdminID,
		clock:             st.clock,
	}
	for k, v := range st.sellers {
		c := *v
		cp.sellers[k] = &c
	}
	for k, v := range st.products {
		cp.products[k] = copyProduct(v)
	}
	for i, v := range st.purchases {
		c := *v
		cp.purchases[i] = &c
	}
	for i, v := range st.reviews {
		c := *v
		cp.reviews[i] = &c
	}
	for k, v := range st.categories {
		c := *v
		cp.categories[k] = &c
	}
	for k, v := range st.subCategories {
		c := *v
		cp.subCategories[k] = &c
	}
	for k, v := range st.settings {
		cp.settings[k] = v
	}
	for i, v := range st.payouts {
		c := *v
		cp.payouts[i] = &c
	}
	for k, v := range st.adminUsers {
		c := *v
		cp.adminUsers[k] = &c
	}
	return cp
}

func copyProduct(p *models.Product) *models.Product {
	c := *p
	c.Colors = append([]string(nil), p.Colors...)
	c.Sizes = append([]string(nil), p.Sizes...)
	c.Images = append([]string(nil), p.Images...)
	return &c
}
