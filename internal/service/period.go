package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
)

type periodService struct {
	tx    repository.Transactor
	repos repository.Repositories
}

// NewPeriodService wires the generator. repos serves reads outside a
// transaction; writes always go through tx.
func NewPeriodService(tx repository.Transactor, repos repository.Repositories) PeriodService {
	return &periodService{tx: tx, repos: repos}
}

func (s *periodService) GeneratePeriods(ctx context.Context, userID, rentalID int32, defs []domain.PeriodDefinition) ([]domain.RentalPeriod, error) {
	logger.EnterMethod("periodService.GeneratePeriods", "userID", userID, "rentalID", rentalID, "count", len(defs))

	if err := validateBatch(defs); err != nil {
		logger.ExitMethodWithError("periodService.GeneratePeriods", err, "rentalID", rentalID)
		return nil, err
	}

	var created []domain.RentalPeriod
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		created = nil

		rental, err := repos.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if err := checkBondLinks(ctx, repos, rentalID, defs); err != nil {
			return err
		}

		// Lock the aggregate row before touching periods so concurrent
		// batches for the same rental serialize here.
		cfg, err := repos.Configurations.GetForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}

		batchTotal := decimal.Zero
		usesCNAM := false
		gaps := 0
		for _, def := range defs {
			p := def.ToPeriod(rentalID)
			if err := repos.Periods.Create(ctx, &p); err != nil {
				return err
			}
			created = append(created, p)

			batchTotal = batchTotal.Add(p.Amount)
			if p.PaymentMethod == domain.PaymentMethodCNAM {
				usesCNAM = true
			}
			if p.IsGapPeriod {
				gaps++
				if err := repos.Notifications.Create(ctx, gapNotification(userID, rental, p)); err != nil {
					return err
				}
			}
		}

		cfg.TotalPaymentAmount = cfg.TotalPaymentAmount.Add(batchTotal)
		if usesCNAM {
			cfg.CNAMEligible = true
		}
		if err := repos.Configurations.UpdateTotals(ctx, cfg); err != nil {
			return err
		}

		logger.WithRental(rentalID).Info("Period batch persisted",
			"periods", len(created),
			"gaps", gaps,
			"batchTotal", batchTotal.StringFixed(2),
			"newTotal", cfg.TotalPaymentAmount.StringFixed(2),
		)
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("periodService.GeneratePeriods", err, "rentalID", rentalID)
		return nil, err
	}

	logger.ExitMethod("periodService.GeneratePeriods", "rentalID", rentalID, "created", len(created))
	return created, nil
}

func (s *periodService) ListPeriods(ctx context.Context, rentalID int32) ([]domain.RentalPeriod, error) {
	if _, err := s.repos.Rentals.GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	return s.repos.Periods.ListByRental(ctx, rentalID)
}

// validateBatch rejects the whole batch on the first malformed entry.
func validateBatch(defs []domain.PeriodDefinition) error {
	if len(defs) == 0 {
		return &domain.InvalidPeriodError{Reason: "no periods supplied"}
	}
	for i, def := range defs {
		if err := def.Validate(i + 1); err != nil {
			return err
		}
	}
	return nil
}

// checkBondLinks verifies every referenced bond belongs to the rental.
func checkBondLinks(ctx context.Context, repos repository.Repositories, rentalID int32, defs []domain.PeriodDefinition) error {
	linked := false
	for _, def := range defs {
		if def.CNAMBondID != nil {
			linked = true
			break
		}
	}
	if !linked {
		return nil
	}

	bonds, err := repos.Bonds.ListByRental(ctx, rentalID)
	if err != nil {
		return err
	}
	owned := make(map[int32]struct{}, len(bonds))
	for _, b := range bonds {
		owned[b.ID] = struct{}{}
	}
	for _, def := range defs {
		if def.CNAMBondID == nil {
			continue
		}
		if _, ok := owned[*def.CNAMBondID]; !ok {
			return &domain.NotFoundError{Entity: "cnam bond", ID: *def.CNAMBondID}
		}
	}
	return nil
}
