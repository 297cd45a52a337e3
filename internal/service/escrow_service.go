package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hemshop/hemshop-api/internal/cache"
	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository"
	"github.com/hemshop/hemshop-api/internal/sse"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// EscrowService owns the purchase flow: payment intake, fee accounting,
// stock movement, escrow credit and delivery confirmation.
type EscrowService struct {
	store    repository.Store
	notifier sse.OrderNotifier
	cache    *cache.CatalogCache
}

// NewEscrowService constructs an EscrowService. notifier and cache may be nil.
func NewEscrowService(store repository.Store, notifier sse.OrderNotifier, catalogCache *cache.CatalogCache) *EscrowService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &EscrowService{store: store, notifier: notifier, cache: catalogCache}
}

// BuyProductInput is a purchase request.
type BuyProductInput struct {
	ProductID       int64                  `json:"productId" binding:"required"`
	ShippingDetails models.ShippingDetails `json:"shippingDetails" binding:"required"`
	SelectedColor   string                 `json:"selectedColor"`
	SelectedSize    string                 `json:"selectedSize"`
	Quantity        int64                  `json:"quantity" binding:"required"`
	PaymentAmount   int64                  `json:"paymentAmount" binding:"required"`
}

// serviceFee computes the platform's cut with integer division, so the
// remainder of the split always lands on the seller's side.
func serviceFee(total, pct int64) int64 {
	return total * pct / 100
}

// BuyProduct executes a purchase atomically: it checks the listing and
// seller, decrements stock, splits payment between the seller's escrow
// balance and the fee pool, snapshots the order, and records a refund
// payout for any overpayment. Either every effect lands or none do.
func (s *EscrowService) BuyProduct(ctx context.Context, principal models.Principal, input *BuyProductInput) (*models.Purchase, error) {
	if input.Quantity <= 0 {
		return nil, utils.ErrInvalidQuantity
	}

	var purchase *models.Purchase
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		product, err := tx.Products().GetForUpdate(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrProductNotFound
			}
			return err
		}
		if product.Deleted {
			return utils.ErrProductNotFound
		}

		seller, err := tx.Sellers().GetForUpdate(ctx, product.Seller)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrSellerNotVerified
			}
			return err
		}
		if seller.Status != models.SellerVerified {
			return utils.ErrSellerNotVerified
		}

		if input.Quantity > product.Stock {
			return utils.ErrInsufficientStock
		}

		total := product.Price * input.Quantity
		if input.PaymentAmount < total {
			return utils.ErrInsufficientPayment
		}

		pct, err := tx.Settings().ServicePct(ctx)
		if err != nil {
			return err
		}
		fee := serviceFee(total, int64(pct))

		newStock := product.Stock - input.Quantity
		if err := tx.Products().SetStock(ctx, product.ID, newStock, newStock == 0); err != nil {
			return err
		}
		if err := tx.Sellers().CreditBalance(ctx, product.Seller, total-fee); err != nil {
			return err
		}
		if err := tx.Settings().AddFeePool(ctx, fee); err != nil {
			return err
		}

		purchase = &models.Purchase{
			ProductID:       product.ID,
			Buyer:           principal.Address,
			Seller:          product.Seller,
			BasePrice:       product.Price,
			TotalAmount:     total,
			ServiceFee:      fee,
			Quantity:        input.Quantity,
			ShippingDetails: input.ShippingDetails,
			OrderDetails: models.OrderDetails{
				Name:          product.Name,
				Images:        product.Images,
				SelectedColor: input.SelectedColor,
				SelectedSize:  input.SelectedSize,
				Quantity:      input.Quantity,
				Price:         product.Price,
			},
		}
		if err := tx.Purchases().Create(ctx, purchase); err != nil {
			return err
		}

		// Overpayment goes back to the buyer through the payout queue.
		if excess := input.PaymentAmount - total; excess > 0 {
			refund := &models.Payout{
				Address:   principal.Address,
				Amount:    excess,
				Kind:      models.PayoutRefund,
				Reference: fmt.Sprintf("refund-%d", purchase.ID),
				Status:    models.PayoutPending,
			}
			if err := tx.Payouts().Create(ctx, refund); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.notifier.NotifyProductPurchased(purchase)
	log.Info().
		Int64("product_id", purchase.ProductID).
		Str("buyer", purchase.Buyer).
		Int64("total", purchase.TotalAmount).
		Int64("fee", purchase.ServiceFee).
		Msg("Product purchased")
	return purchase, nil
}

// MarkPurchaseDelivered marks the oldest undelivered purchase of a
// product by a buyer as delivered. Only the selling party may confirm.
func (s *EscrowService) MarkPurchaseDelivered(ctx context.Context, principal models.Principal, productID int64, buyer string) (*models.Purchase, error) {
	var delivered *models.Purchase
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		purchases, err := tx.Purchases().ListByProductAndBuyer(ctx, productID, buyer)
		if err != nil {
			return err
		}
		if len(purchases) == 0 {
			return utils.ErrPurchaseNotFound
		}
		if purchases[0].Seller != principal.Address {
			return utils.ErrUnauthorized
		}
		for i := range purchases {
			if !purchases[i].IsDelivered {
				at := time.Now().UTC()
				if err := tx.Purchases().MarkDelivered(ctx, purchases[i].ID, at); err != nil {
					return err
				}
				purchases[i].IsDelivered = true
				purchases[i].DeliveredAt = &at
				delivered = &purchases[i]
				return nil
			}
		}
		return utils.ErrAlreadyDelivered
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyDeliveryStatusUpdated(delivered)
	log.Info().Int64("purchase_id", delivered.ID).Int64("product_id", productID).Msg("Purchase marked delivered")
	return delivered, nil
}

// SellerPurchaseHistory returns every sale of the given seller, oldest first.
func (s *EscrowService) SellerPurchaseHistory(ctx context.Context, sellerAddress string) ([]models.Purchase, error) {
	return s.store.Purchases().ListBySeller(ctx, sellerAddress)
}

// BuyerPurchaseHistory returns every purchase by the given buyer, oldest first.
func (s *EscrowService) BuyerPurchaseHistory(ctx context.Context, buyerAddress string) ([]models.Purchase, error) {
	return s.store.Purchases().ListByBuyer(ctx, buyerAddress)
}

// AllOrders returns the full purchase ledger. Admin only.
func (s *EscrowService) AllOrders(ctx context.Context, principal models.Principal) ([]models.Purchase, error) {
	if !principal.Admin {
		return nil, utils.ErrUnauthorized
	}
	return s.store.Purchases().ListAll(ctx)
}

// ServicePct returns the current platform fee percentage.
func (s *EscrowService) ServicePct(ctx context.Context) (int, error) {
	return s.store.Settings().ServicePct(ctx)
}

// ChangeServicePct sets the platform fee percentage. Admin only; the new
// value applies to purchases from this point on, never retroactively.
func (s *EscrowService) ChangeServicePct(ctx context.Context, principal models.Principal, pct int) error {
	if !principal.Admin {
		return utils.ErrUnauthorized
	}
	if pct < 0 || pct > 100 {
		return utils.ErrInvalidServicePct
	}
	if err := s.store.Settings().SetServicePct(ctx, pct); err != nil {
		return err
	}
	log.Info().Int("service_pct", pct).Msg("Service fee percentage changed")
	return nil
}

// FeePool returns the accumulated platform fees. Admin only.
func (s *EscrowService) FeePool(ctx context.Context, principal models.Principal) (int64, error) {
	if !principal.Admin {
		return 0, utils.ErrUnauthorized
	}
	return s.store.Settings().FeePool(ctx)
}
