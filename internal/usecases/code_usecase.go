package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/domain/repositories"
	"homeservice.backend/pkg/crypto"
	"homeservice.backend/pkg/logger"
	"homeservice.backend/pkg/metrics"
	"homeservice.backend/pkg/utils"
)

var generateNumericCode = crypto.GenerateNumericCode

// CodeUsecase issues, verifies and consumes one-time verification codes
type CodeUsecase struct {
	codeRepo       repositories.VerificationCodeRepository
	uow            repositories.UnitOfWork
	ttl            time.Duration
	resendInterval time.Duration
	now            func() time.Time
}

// NewCodeUsecase creates a new code usecase. Zero durations fall back to the defaults.
func NewCodeUsecase(
	codeRepo repositories.VerificationCodeRepository,
	uow repositories.UnitOfWork,
	ttl, resendInterval time.Duration,
	now func() time.Time,
) *CodeUsecase {
	if ttl <= 0 {
		ttl = entities.DefaultCodeTTL
	}
	if resendInterval <= 0 {
		resendInterval = entities.DefaultResendInterval
	}
	if now == nil {
		now = time.Now
	}
	return &CodeUsecase{
		codeRepo:       codeRepo,
		uow:            uow,
		ttl:            ttl,
		resendInterval: resendInterval,
		now:            now,
	}
}

// IssueCode generates and stores a fresh code for phone.
// Issues for the same phone are serialized on the throttle row.
func (u *CodeUsecase) IssueCode(ctx context.Context, phone string) (string, error) {
	var code string
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		now := u.now().UTC()

		lastIssued, err := u.codeRepo.LockThrottle(txCtx, phone)
		if err != nil {
			return fmt.Errorf("lock throttle: %w", err)
		}
		if !lastIssued.IsZero() && now.Sub(lastIssued) < u.resendInterval {
			return domainerrors.ErrRateLimited
		}

		purged, err := u.codeRepo.DeleteCreatedBefore(txCtx, now.Add(-u.ttl))
		if err != nil {
			return fmt.Errorf("purge expired codes: %w", err)
		}
		if purged > 0 {
			logger.Debug(txCtx, "Purged expired verification codes", zap.Int64("count", purged))
		}

		code, err = generateNumericCode(entities.VerificationCodeLength)
		if err != nil {
			return err
		}

		if err := u.codeRepo.Create(txCtx, &entities.VerificationCode{
			ID:        utils.GenerateUUIDv7(),
			Phone:     phone,
			Code:      code,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("store code: %w", err)
		}
		return u.codeRepo.TouchThrottle(txCtx, phone, now)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrRateLimited) {
			metrics.RecordCodeIssued("rate_limited")
		} else {
			metrics.RecordCodeIssued("error")
		}
		return "", err
	}

	metrics.RecordCodeIssued("issued")
	return code, nil
}

// VerifyCode reports whether an unused code for phone was issued within the TTL.
func (u *CodeUsecase) VerifyCode(ctx context.Context, phone, code string) (bool, error) {
	_, err := u.codeRepo.FindValid(ctx, phone, code, u.now().UTC().Add(-u.ttl))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ConsumeCode marks a valid code as used. It must run inside the caller's transaction
// so that a later failure restores the code.
func (u *CodeUsecase) ConsumeCode(ctx context.Context, phone, code string) error {
	now := u.now().UTC()
	found, err := u.codeRepo.FindValid(u.uow.WithLock(ctx), phone, code, now.Add(-u.ttl))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrCodeInvalid
		}
		return err
	}

	if err := u.codeRepo.MarkUsed(ctx, found.ID, now); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrCodeInvalid
		}
		return err
	}
	return nil
}
