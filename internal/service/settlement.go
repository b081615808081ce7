package service

import (
	"context"
	"strings"
	"time"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/metrics"
	"krishimitra-backend/internal/repository"
	"krishimitra-backend/internal/utils"

	"github.com/shopspring/decimal"
)

type settlementService struct {
	tx repository.Transactor
}

// NewSettlementService returns the settlement engine. Every request runs
// inside one transaction from tx, so a failure at any step leaves no
// partial mutation behind.
func NewSettlementService(tx repository.Transactor) SettlementService {
	return &settlementService{tx: tx}
}

func (s *settlementService) Settle(ctx context.Context, req SettlementRequest) (res *SettlementResult, err error) {
	const method = "Settle"
	start := time.Now()
	logger.EnterMethod(ctx, method,
		"caller_id", req.CallerID,
		"transaction_type", req.TransactionType,
		"resource_type", req.ResourceType,
		"resource_id", req.ResourceID)

	defer func() {
		outcome := string(domain.TransactionStatusCompleted)
		if err != nil {
			code := domain.CodeOf(err)
			outcome = strings.ToLower(string(code))
			logger.ExitMethodWithError(ctx, method, err, code != domain.CodeStorageFailure)
		} else {
			metrics.AddSettledAmount(string(req.TransactionType), res.Transaction.TotalAmount.InexactFloat64())
			logger.ExitMethod(ctx, method, "transaction_id", res.Transaction.ID)
		}
		metrics.ObserveSettlement(string(req.TransactionType), string(req.ResourceType), outcome, time.Since(start))
	}()

	switch req.TransactionType {
	case "":
		return nil, domain.NewError(domain.CodeInvalidRequest, "transaction_type is required (buy or rent)")
	case domain.TransactionTypeBuy:
		if req.ResourceType != domain.ResourceTypeProduct {
			return nil, domain.NewError(domain.CodeInvalidRequest, "Only products can be bought")
		}
		return s.buy(ctx, req)
	case domain.TransactionTypeRent:
		if !req.ResourceType.Rentable() {
			return nil, domain.NewError(domain.CodeInvalidRequest, "Only land and equipment can be rented")
		}
		return s.rent(ctx, req)
	default:
		return nil, domain.NewError(domain.CodeInvalidRequest,
			"Invalid transaction_type (use 'buy' for product or 'rent' for land/equipment)")
	}
}

func (s *settlementService) buy(ctx context.Context, req SettlementRequest) (*SettlementResult, error) {
	quantity := req.Quantity
	if !quantity.IsPositive() {
		return nil, domain.NewError(domain.CodeValidation, "Invalid quantity")
	}
	// Stock and ledger quantities are stored with two fraction digits.
	if !quantity.Equal(domain.RoundMoney(quantity)) {
		return nil, domain.NewError(domain.CodeValidation, "Quantity can have at most 2 decimal places")
	}

	var result *SettlementResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		availability := NewAvailabilityManager(repos.Listings)
		ledger := NewAccountLedger(repos.Accounts)

		product, err := availability.Product(ctx, req.ResourceID)
		if err != nil {
			return err
		}
		if err := CheckReservable(product, quantity); err != nil {
			return err
		}
		if err := checkCounterparty(req.CallerID, product); err != nil {
			return err
		}
		if !product.PricePerKg.IsPositive() {
			return domain.NewError(domain.CodeInvalidPrice, "Invalid price_per_kg for this product")
		}

		total := utils.PurchaseCost(product.PricePerKg, quantity)
		if !total.IsPositive() {
			return domain.NewError(domain.CodeValidation, "Quantity too small: total rounds to 0.00")
		}
		if err := ledger.Transfer(ctx, req.CallerID, product.FarmerID, total); err != nil {
			return err
		}

		updated, err := availability.Reserve(ctx, product.ID, quantity)
		if err != nil {
			return err
		}

		productID := product.ID
		tx := &domain.Transaction{
			BuyerID:       req.CallerID,
			SellerID:      product.FarmerID,
			ProductID:     &productID,
			Quantity:      quantity,
			TotalAmount:   total,
			PaymentMethod: paymentMethod(req.PaymentMethod),
			Status:        domain.TransactionStatusCompleted,
		}
		if err := repos.Ledger.CreateTransaction(ctx, tx); err != nil {
			return err
		}

		remaining := updated.AvailableQuantity
		result = &SettlementResult{Transaction: tx, RemainingQuantity: &remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *settlementService) rent(ctx context.Context, req SettlementRequest) (*SettlementResult, error) {
	if strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		return nil, domain.NewError(domain.CodeValidation, "start_date and end_date are required for rent")
	}
	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, &domain.Error{Code: domain.CodeValidation, Message: "Invalid start_date", Err: err}
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, &domain.Error{Code: domain.CodeValidation, Message: "Invalid end_date", Err: err}
	}
	days := utils.RentalDays(start, end)
	if days <= 0 {
		return nil, domain.NewError(domain.CodeInvalidDateRange, "Invalid rental dates")
	}

	var result *SettlementResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		availability := NewAvailabilityManager(repos.Listings)
		ledger := NewAccountLedger(repos.Accounts)

		rentable, err := availability.Rentable(ctx, req.ResourceType, req.ResourceID)
		if err != nil {
			return err
		}
		if !rentable.Available() {
			return domain.NewError(domain.CodeUnavailable, "%s not available", displayKind(rentable.Kind))
		}
		if err := checkCounterparty(req.CallerID, rentable); err != nil {
			return err
		}
		price, err := rentable.DailyPrice()
		if err != nil {
			return err
		}
		total := utils.RentalCost(price, days)

		// The listing is locked before payment; a failed transfer rolls
		// the lock back with the rest of the transaction.
		if err := availability.Lock(ctx, rentable.Kind, rentable.ID); err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, req.CallerID, rentable.OwnerID, total); err != nil {
			return err
		}

		method := paymentMethod(req.PaymentMethod)
		lease := &domain.Lease{
			RenterID:      req.CallerID,
			OwnerID:       rentable.OwnerID,
			LeaseType:     rentable.Kind,
			ResourceID:    rentable.ID,
			StartDate:     start,
			EndDate:       end,
			TotalDays:     days,
			TotalAmount:   total,
			PaymentMethod: method,
			Status:        domain.LeaseStatusPending,
		}
		if err := repos.Ledger.CreateLease(ctx, lease); err != nil {
			return err
		}

		leaseID := lease.ID
		tx := &domain.Transaction{
			BuyerID:       req.CallerID,
			SellerID:      rentable.OwnerID,
			LeaseID:       &leaseID,
			Quantity:      decimal.NewFromInt(1),
			TotalAmount:   total,
			PaymentMethod: method,
			Status:        domain.TransactionStatusCompleted,
		}
		if err := repos.Ledger.CreateTransaction(ctx, tx); err != nil {
			return err
		}

		result = &SettlementResult{Transaction: tx, Lease: lease}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// checkCounterparty rejects listings without a seller and listings owned
// by the caller.
func checkCounterparty(callerID int32, l domain.Listing) error {
	if l.SellerID() == 0 {
		return domain.NewError(domain.CodeValidation, "%s has no seller", displayKind(l.ListingType()))
	}
	if l.SellerID() != callerID {
		return nil
	}
	verb := "rent"
	if l.ListingType() == domain.ResourceTypeProduct {
		verb = "buy"
	}
	return &domain.Error{
		Code:    domain.CodeSelfTransaction,
		Message: "You cannot " + verb + " your own " + string(l.ListingType()),
	}
}

func paymentMethod(m string) string {
	if m = strings.TrimSpace(m); m != "" {
		return m
	}
	return domain.DefaultPaymentMethod
}
