package memory

import (
	"context"
	"sort"
	"time"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository"
)

type sellers struct{ s *Store }

func (r *sellers) Get(ctx context.Context, address string) (*models.Seller, error) {
	var out *models.Seller
	err := r.s.locked(func(st *state) error {
		sl, ok := st.sellers[address]
		if !ok {
			return repository.ErrNotFound
		}
		c := *sl
		out = &c
		return nil
	})
	return out, err
}

func (r *sellers) GetForUpdate(ctx context.Context, address string) (*models.Seller, error) {
	return r.Get(ctx, address)
}

func (r *sellers) Create(ctx context.Context, s *models.Seller) error {
	return r.s.locked(func(st *state) error {
		s.RegisteredAt = st.now()
		c := *s
		st.sellers[s.Address] = &c
		return nil
	})
}

func (r *sellers) UpdateProfile(ctx context.Context, s *models.Seller) error {
	return r.s.locked(func(st *state) error {
		cur, ok := st.sellers[s.Address]
		if !ok {
			return repository.ErrNotFound
		}
		cur.BusinessName = s.BusinessName
		cur.Description = s.Description
		cur.Email = s.Email
		cur.Phone = s.Phone
		cur.Logo = s.Logo
		cur.TermsAccepted = s.TermsAccepted
		cur.Status = s.Status
		return nil
	})
}

func (r *sellers) UpdateStatus(ctx context.Context, address string, status models.SellerStatus) error {
	return r.s.locked(func(st *state) error {
		cur, ok := st.sellers[address]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Status = status
		return nil
	})
}

func (r *sellers) CreditBalance(ctx context.Context, address string, amount int64) error {
	return r.s.locked(func(st *state) error {
		cur, ok := st.sellers[address]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Balance += amount
		return nil
	})
}

func (r *sellers) ZeroBalance(ctx context.Context, address string) error {
	return r.s.locked(func(st *state) error {
		cur, ok := st.sellers[address]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Balance = 0
		return nil
	})
}

func (r *sellers) List(ctx context.Context) ([]models.Seller, error) {
	out := []models.Seller{}
	err := r.s.locked(func(st *state) error {
		for _, sl := range st.sellers {
			out = append(out, *sl)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
		return nil
	})
	return out, err
}

func (r *sellers) ListByStatus(ctx context.Context, status models.SellerStatus) ([]models.Seller, error) {
	out := []models.Seller{}
	err := r.s.locked(func(st *state) error {
		for _, sl := range st.sellers {
			if sl.Status == status {
				out = append(out, *sl)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
		return nil
	})
	return out, err
}

func (r *sellers) ProductIDs(ctx context.Context, address string) ([]int64, error) {
	ids := []int64{}
	err := r.s.locked(func(st *state) error {
		for _, p := range st.products {
			if p.Seller == address && !p.Deleted {
				ids = append(ids, p.ID)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return nil
	})
	return ids, err
}

type products struct{ s *Store }

func (r *products) Create(ctx context.Context, p *models.Product) error {
	return r.s.locked(func(st *state) error {
		st.nextProductID++
		p.ID = st.nextProductID
		p.CreatedAt = st.now()
		st.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *products) Update(ctx context.Context, p *models.Product) error {
	return r.s.locked(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return repository.ErrNotFound
		}
		c := copyProduct(p)
		c.CreatedAt = cur.CreatedAt
		c.Deleted = cur.Deleted
		st.products[p.ID] = c
		return nil
	})
}

func (r *products) SoftDelete(ctx context.Context, id int64) error {
	return r.s.locked(func(st *state) error {
		cur, ok := st.products[id]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Deleted = true
		return nil
	})
}

func (r *products) Get(ctx context.Context, id int64) (*models.Product, error) {
	var out *models.Product
	err := r.s.locked(func(st *state) error {
		cur, ok := st.products[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = copyProduct(cur)
		return nil
	})
	return out, err
}

func (r *products) GetForUpdate(ctx context.Context, id int64) (*models.Product, error) {
	return r.Get(ctx, id)
}

func (r *products) SetStock(ctx context.Context, id, stock int64, soldout bool) error {
	return r.s.locked(func(st *state) error {
		cur, ok := st.products[id]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Stock = stock
		cur.Soldout = soldout
		return nil
	})
}

func (r *products) list(filter func(*models.Product) bool) ([]models.Product, error) {
	out := []models.Product{}
	err := r.s.locked(func(st *state) error {
		for _, p := range st.products {
			if !p.Deleted && filter(p) {
				out = append(out, *copyProduct(p))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
		return nil
	})
	return out, err
}

func (r *products) ListActive(ctx context.Context) ([]models.Product, error) {
	return r.list(func(*models.Product) bool { return true })
}

func (r *products) ListByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	return r.list(func(p *models.Product) bool { return p.CategoryID == categoryID })
}

func (r *products) ListBySeller(ctx context.Context, seller string) ([]models.Product, error) {
	return r.list(func(p *models.Product) bool { return p.Seller == seller })
}

type purchases struct{ s *Store }

func (r *purchases) Create(ctx context.Context, p *models.Purchase) error {
	return r.s.locked(func(st *state) error {
		st.nextPurchaseID++
		p.ID = st.nextPurchaseID
		p.CreatedAt = st.now()
		c := *p
		st.purchases = append(st.purchases, &c)
		return nil
	})
}

func (r *purchases) list(filter func(*models.Purchase) bool) ([]models.Purchase, error) {
	out := []models.Purchase{}
	err := r.s.locked(func(st *state) error {
		for _, p := range st.purchases {
			if filter(p) {
				out = append(out, *p)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	return out, err
}

func (r *purchases) ListByProductAndBuyer(ctx context.Context, productID int64, buyer string) ([]models.Purchase, error) {
	return r.list(func(p *models.Purchase) bool { return p.ProductID == productID && p.Buyer == buyer })
}

func (r *purchases) MarkDelivered(ctx context.Context, id int64, at time.Time) error {
	return r.s.locked(func(st *state) error {
		for _, p := range st.purchases {
			if p.ID == id && !p.IsDelivered {
				p.IsDelivered = true
				t := at
				p.DeliveredAt = &t
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (r *purchases) ListBySeller(ctx context.Context, seller string) ([]models.Purchase, error) {
	return r.list(func(p *models.Purchase) bool { return p.Seller == seller })
}

func (r *purchases) ListByBuyer(ctx context.Context, buyer string) ([]models.Purchase, error) {
	return r.list(func(p *models.Purchase) bool { return p.Buyer == buyer })
}

func (r *purchases) ListAll(ctx context.Context) ([]models.Purchase, error) {
	return r.list(func(*models.Purchase) bool { return true })
}

type reviews struct{ s *Store }

func (r *reviews) Create(ctx context.Context, rv *models.Review) error {
	return r.s.locked(func(st *state) error {
		st.nextReviewID++
		rv.ID = st.nextReviewID
		rv.CreatedAt = st.now()
		c := *rv
		st.reviews = append(st.reviews, &c)
		return nil
	})
}

func (r *reviews) Get(ctx context.Context, productID, reviewID int64) (*models.Review, error) {
	var out *models.Review
	err := r.s.locked(func(st *state) error {
		for _, rv := range st.reviews {
			if rv.ProductID == productID && rv.ID == reviewID {
				c := *rv
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *reviews) SoftDelete(ctx context.Context, productID, reviewID int64) error {
	return r.s.locked(func(st *state) error {
		for _, rv := range st.reviews {
			if rv.ProductID == productID && rv.ID == reviewID {
				rv.Deleted = true
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (r *reviews) ListByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	out := []models.Review{}
	err := r.s.locked(func(st *state) error {
		for _, rv := range st.reviews {
			if rv.ProductID == productID && !rv.Deleted {
				out = append(out, *rv)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
		return nil
	})
	return out, err
}

func (r *reviews) AverageRating(ctx context.Context, productID int64) (float64, int, error) {
	var sum, count int
	err := r.s.locked(func(st *state) error {
		for _, rv := range st.reviews {
			if rv.ProductID == productID && !rv.Deleted {
				sum += rv.Rating
				count++
			}
		}
		return nil
	})
	if err != nil || count == 0 {
		return 0, 0, err
	}
	return float64(sum) / float64(count), count, nil
}

type categories struct{ s *Store }

func (r *categories) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.s.locked(func(st *state) error {
		st.nextCategoryID++
		c.ID = st.nextCategoryID
		c.CreatedAt = st.now()
		cp := *c
		st.categories[c.ID] = &cp
		return nil
	})
}

func (r *categories) CreateSubCategory(ctx context.Context, sc *models.SubCategory) error {
	return r.s.locked(func(st *state) error {
		st.nextSubCategoryID++
		sc.ID = st.nextSubCategoryID
		sc.CreatedAt = st.now()
		cp := *sc
		st.subCategories[sc.ID] = &cp
		return nil
	})
}

func (r *categories) UpdateCategory(ctx context.Context, id int64, name string, isActive bool) error {
	return r.s.locked(func(st *state) error {
		cur, ok := st.categories[id]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Name = name
		cur.IsActive = isActive
		return nil
	})
}

func (r *categories) UpdateSubCategory(ctx context.Context, id int64, name string, isActive bool) error {
	return r.s.locked(func(st *state) error {
		cur, ok := st.subCategories[id]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Name = name
		cur.IsActive = isActive
		return nil
	})
}

func (r *categories) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var out *models.Category
	err := r.s.locked(func(st *state) error {
		cur, ok := st.categories[id]
		if !ok {
			return repository.ErrNotFound
		}
		c := *cur
		out = &c
		return nil
	})
	return out, err
}

func (r *categories) GetSubCategory(ctx context.Context, id int64) (*models.SubCategory, error) {
	var out *models.SubCategory
	err := r.s.locked(func(st *state) error {
		cur, ok := st.subCategories[id]
		if !ok {
			return repository.ErrNotFound
		}
		c := *cur
		out = &c
		return nil
	})
	return out, err
}

func (r *categories) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	err := r.s.locked(func(st *state) error {
		for _, c := range st.categories {
			out = append(out, *c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *categories) ListSubCategories(ctx context.Context, parentID int64) ([]models.SubCategory, error) {
	out := []models.SubCategory{}
	err := r.s.locked(func(st *state) error {
		for _, sc := range st.subCategories {
			if sc.ParentCategoryID == parentID {
				out = append(out, *sc)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *categories) SubCategoryIDs(ctx context.Context, parentID int64) ([]int64, error) {
	subs, err := r.ListSubCategories(ctx, parentID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(subs))
	for _, sc := range subs {
		ids = append(ids, sc.ID)
	}
	return ids, nil
}

type settings struct{ s *Store }

const (
	settingServicePct = "service_pct"
	settingFeePool    = "fee_pool"
)

func (r *settings) get(key string) (int64, error) {
	var out int64
	err := r.s.locked(func(st *state) error {
		v, ok := st.settings[key]
		if !ok {
			return repository.ErrNotFound
		}
		out = v
		return nil
	})
	return out, err
}

func (r *settings) ServicePct(ctx context.Context) (int, error) {
	v, err := r.get(settingServicePct)
	return int(v), err
}

func (r *settings) SetServicePct(ctx context.Context, pct int) error {
	return r.s.locked(func(st *state) error {
		st.settings[settingServicePct] = int64(pct)
		return nil
	})
}

func (r *settings) FeePool(ctx context.Context) (int64, error) {
	return r.get(settingFeePool)
}

func (r *settings) AddFeePool(ctx context.Context, amount int64) error {
	return r.s.locked(func(st *state) error {
		st.settings[settingFeePool] += amount
		return nil
	})
}

func (r *settings) EnsureDefaults(ctx context.Context, servicePct int) error {
	return r.s.locked(func(st *state) error {
		if _, ok := st.settings[settingServicePct]; !ok {
			st.settings[settingServicePct] = int64(servicePct)
		}
		if _, ok := st.settings[settingFeePool]; !ok {
			st.settings[settingFeePool] = 0
		}
		return nil
	})
}

type payouts struct{ s *Store }

func (r *payouts) Create(ctx context.Context, p *models.Payout) error {
	return r.s.locked(func(st *state) error {
		st.nextPayoutID++
		p.ID = st.nextPayoutID
		p.CreatedAt = st.now()
		c := *p
		st.payouts = append(st.payouts, &c)
		return nil
	})
}

func (r *payouts) ListUnsent(ctx context.Context, maxAttempts int) ([]models.Payout, error) {
	out := []models.Payout{}
	err := r.s.locked(func(st *state) error {
		for _, p := range st.payouts {
			if p.Status != models.PayoutSent && p.Attempts < maxAttempts {
				out = append(out, *p)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *payouts) MarkSent(ctx context.Context, id int64) error {
	return r.s.locked(func(st *state) error {
		for _, p := range st.payouts {
			if p.ID == id && p.Status != models.PayoutSent {
				p.Status = models.PayoutSent
				p.Attempts++
				t := st.now()
				p.SentAt = &t
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (r *payouts) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.s.locked(func(st *state) error {
		for _, p := range st.payouts {
			if p.ID == id && p.Status != models.PayoutSent {
				p.Status = models.PayoutFailed
				p.Attempts++
				p.LastError = &reason
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

type adminUsers struct{ s *Store }

func (r *adminUsers) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var out *models.AdminUser
	err := r.s.locked(func(st *state) error {
		cur, ok := st.adminUsers[email]
		if !ok {
			return repository.ErrNotFound
		}
		c := *cur
		out = &c
		return nil
	})
	return out, err
}

func (r *adminUsers) Create(ctx context.Context, u *models.AdminUser) error {
	return r.s.locked(func(st *state) error {
		st.nextAdminID++
		u.ID = st.nextAdminID
		u.CreatedAt = st.now()
		c := *u
		st.adminUsers[u.Email] = &c
		return nil
	})
}
