package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// Transferrer executes a native-currency transfer through the external
// settlement gateway. Implemented by pkg/paygate.
type Transferrer interface {
	Transfer(ctx context.Context, to string, amount int64, reference string) error
}

// SellerService owns the seller verification state machine and the
// pull-payment withdrawal flow.
type SellerService struct {
	store    repository.Store
	transfer Transferrer
	owner    string
}

// NewSellerService constructs a SellerService. transfer may be nil, in
// which case withdrawals are left to the payout worker.
func NewSellerService(store repository.Store, transfer Transferrer, ownerAddress string) *SellerService {
	return &SellerService{store: store, transfer: transfer, owner: ownerAddress}
}

// RegisterSellerInput is the profile submitted with a registration.
type RegisterSellerInput struct {
	BusinessName string `json:"businessName" binding:"required"`
	Description  string `json:"description"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Logo         string `json:"logo"`
}

// RegisterSeller moves the caller to Pending. Unverified and Suspended
// accounts may (re)apply; Pending and Verified ones may not.
func (s *SellerService) RegisterSeller(ctx context.Context, principal models.Principal, input *RegisterSellerInput) (*models.Seller, error) {
	var out *models.Seller
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Sellers().Get(ctx, principal.Address)
		switch {
		case err == nil:
			switch cur.Status {
			case models.SellerPending:
				return utils.ErrAlreadyPending
			case models.SellerVerified:
				return utils.ErrAlreadyVerified
			}
			cur.BusinessName = input.BusinessName
			cur.Description = input.Description
			cur.Email = input.Email
			cur.Phone = input.Phone
			cur.Logo = input.Logo
			cur.TermsAccepted = true
			cur.Status = models.SellerPending
			if err := tx.Sellers().UpdateProfile(ctx, cur); err != nil {
				return err
			}
			out = cur
			return nil
		case errors.Is(err, repository.ErrNotFound):
			seller := &models.Seller{
				Address:       principal.Address,
				BusinessName:  input.BusinessName,
				Description:   input.Description,
				Email:         input.Email,
				Phone:         input.Phone,
				Logo:          input.Logo,
				TermsAccepted: true,
				Status:        models.SellerPending,
			}
			if err := tx.Sellers().Create(ctx, seller); err != nil {
				return err
			}
			out = seller
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("seller", principal.Address).Msg("Seller registration submitted")
	return out, nil
}

// allowedTransitions are the admin-drivable status edges.
var allowedTransitions = map[models.SellerStatus][]models.SellerStatus{
	models.SellerPending:   {models.SellerVerified, models.SellerSuspended},
	models.SellerVerified:  {models.SellerSuspended},
	models.SellerSuspended: {models.SellerVerified, models.SellerPending},
}

func transitionAllowed(from, to models.SellerStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// UpdateSellerStatus transitions a seller along a defined edge. Admin only.
func (s *SellerService) UpdateSellerStatus(ctx context.Context, principal models.Principal, address string, newStatus models.SellerStatus) (*models.Seller, error) {
	if !principal.Admin {
		return nil, utils.ErrUnauthorized
	}
	if !models.ValidSellerStatus(newStatus) {
		return nil, utils.ErrInvalidStatusTransition
	}

	var out *models.Seller
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Sellers().GetForUpdate(ctx, address)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrSellerNotFound
			}
			return err
		}
		if cur.Status == newStatus {
			return utils.ErrNoOpStatusChange
		}
		if !transitionAllowed(cur.Status, newStatus) {
			return utils.ErrInvalidStatusTransition
		}
		if err := tx.Sellers().UpdateStatus(ctx, address, newStatus); err != nil {
			return err
		}
		cur.Status = newStatus
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("seller", address).Str("status", string(out.Status)).Msg("Seller status updated")
	return out, nil
}

// GetSeller returns the seller record for an address. Unknown addresses
// yield a default Unverified record so reads always succeed.
func (s *SellerService) GetSeller(ctx context.Context, address string) (*models.Seller, error) {
	seller, err := s.store.Sellers().Get(ctx, address)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.Seller{Address: address, Status: models.SellerUnverified, ProductIDs: []int64{}}, nil
	}
	if err != nil {
		return nil, err
	}
	ids, err := s.store.Sellers().ProductIDs(ctx, address)
	if err != nil {
		return nil, err
	}
	seller.ProductIDs = ids
	return seller, nil
}

// GetSellerStatus returns the verification status for an address.
func (s *SellerService) GetSellerStatus(ctx context.Context, address string) (models.SellerStatus, error) {
	seller, err := s.GetSeller(ctx, address)
	if err != nil {
		return "", err
	}
	return seller.Status, nil
}

// ListSellers returns every registered seller with product ids attached.
func (s *SellerService) ListSellers(ctx context.Context) ([]models.Seller, error) {
	sellers, err := s.store.Sellers().List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sellers {
		ids, err := s.store.Sellers().ProductIDs(ctx, sellers[i].Address)
		if err != nil {
			return nil, err
		}
		sellers[i].ProductIDs = ids
	}
	return sellers, nil
}

// ListPendingSellers returns the verification queue, oldest first. Admin only.
func (s *SellerService) ListPendingSellers(ctx context.Context, principal models.Principal) ([]models.Seller, error) {
	if !principal.Admin {
		return nil, utils.ErrUnauthorized
	}
	return s.store.Sellers().ListByStatus(ctx, models.SellerPending)
}

// Withdraw moves the caller's entire balance out through the settlement
// gateway. The balance is zeroed in the same transaction that records
// the payout, before any transfer attempt, so a gateway retry can never
// pay twice.
func (s *SellerService) Withdraw(ctx context.Context, principal models.Principal) (*models.Payout, error) {
	var payout *models.Payout
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		seller, err := tx.Sellers().GetForUpdate(ctx, principal.Address)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrZeroBalance
			}
			return err
		}
		if seller.Balance <= 0 {
			return utils.ErrZeroBalance
		}
		if err := tx.Sellers().ZeroBalance(ctx, principal.Address); err != nil {
			return err
		}
		payout = &models.Payout{
			Address:   principal.Address,
			Amount:    seller.Balance,
			Kind:      models.PayoutWithdrawal,
			Reference: fmt.Sprintf("wd-%s", uuid.New().String()[:13]),
			Status:    models.PayoutPending,
		}
		return tx.Payouts().Create(ctx, payout)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("seller", principal.Address).Int64("amount", payout.Amount).Msg("Withdrawal recorded")

	// Best-effort immediate transfer; the payout worker re-drives
	// anything that does not go through here.
	if s.transfer != nil {
		if err := s.transfer.Transfer(ctx, payout.Address, payout.Amount, payout.Reference); err != nil {
			log.Warn().Err(err).Int64("payout_id", payout.ID).Msg("Immediate payout transfer failed, leaving for retry")
			if mErr := s.store.Payouts().MarkFailed(ctx, payout.ID, err.Error()); mErr != nil {
				log.Error().Err(mErr).Int64("payout_id", payout.ID).Msg("Failed to mark payout failed")
			}
		} else if err := s.store.Payouts().MarkSent(ctx, payout.ID); err != nil {
			log.Error().Err(err).Int64("payout_id", payout.ID).Msg("Failed to mark payout sent")
		}
	}
	return payout, nil
}

// GrantOwnerSellerAccess registers the platform owner as a Verified
// seller with a default profile, walking the same state machine as any
// other seller. Admin only.
func (s *SellerService) GrantOwnerSellerAccess(ctx context.Context, principal models.Principal) (*models.Seller, error) {
	if !principal.Admin {
		return nil, utils.ErrUnauthorized
	}

	var out *models.Seller
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Sellers().Get(ctx, s.owner)
		if errors.Is(err, repository.ErrNotFound) {
			cur = &models.Seller{
				Address:       s.owner,
				BusinessName:  "Platform Owner Shop",
				Description:   "Official platform owner shop",
				Email:         "owner@hemshop.io",
				Phone:         "0000000000",
				TermsAccepted: true,
				Status:        models.SellerPending,
			}
			if err := tx.Sellers().Create(ctx, cur); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if cur.Status != models.SellerVerified {
			// Unverified accounts re-enter through Pending first.
			if cur.Status == models.SellerUnverified {
				if err := tx.Sellers().UpdateStatus(ctx, s.owner, models.SellerPending); err != nil {
					return err
				}
				cur.Status = models.SellerPending
			}
			if !transitionAllowed(cur.Status, models.SellerVerified) {
				return utils.ErrInvalidStatusTransition
			}
			if err := tx.Sellers().UpdateStatus(ctx, s.owner, models.SellerVerified); err != nil {
				return err
			}
			cur.Status = models.SellerVerified
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("owner", s.owner).Msg("Owner seller access granted")
	return out, nil
}
