package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/domain/gateways"
	"homeservice.backend/internal/domain/repositories"
	"homeservice.backend/pkg/crypto"
	"homeservice.backend/pkg/jwt"
	"homeservice.backend/pkg/logger"
	"homeservice.backend/pkg/metrics"
	"homeservice.backend/pkg/utils"
)

var (
	hashPassword        = crypto.HashPassword
	generateRandomToken = crypto.GenerateRandomToken
)

// AuthUsecase handles phone identity, login, registration and password reset
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	userInfoRepo repositories.UserInfoRepository
	codes        *CodeUsecase
	uow          repositories.UnitOfWork
	jwtService   *jwt.JWTService
	sms          gateways.SMSGateway
	profile      PlaceholderProfile
	now          func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	userInfoRepo repositories.UserInfoRepository,
	codes *CodeUsecase,
	uow repositories.UnitOfWork,
	jwtService *jwt.JWTService,
	sms gateways.SMSGateway,
	profile PlaceholderProfile,
	now func() time.Time,
) *AuthUsecase {
	if profile == nil {
		profile = DefaultPlaceholderProfile
	}
	if now == nil {
		now = time.Now
	}
	return &AuthUsecase{
		userRepo:     userRepo,
		userInfoRepo: userInfoRepo,
		codes:        codes,
		uow:          uow,
		jwtService:   jwtService,
		sms:          sms,
		profile:      profile,
		now:          now,
	}
}

// CheckPhoneExists reports whether an account is registered for phone
func (u *AuthUsecase) CheckPhoneExists(ctx context.Context, phone string) (bool, error) {
	if !entities.ValidPhone(phone) {
		return false, domainerrors.ErrInvalidPhone
	}
	return u.userRepo.ExistsByPhone(ctx, phone)
}

// SendCode issues a code and hands it to the SMS gateway.
// A delivery failure leaves the code stored; the caller may resend after the throttle window.
func (u *AuthUsecase) SendCode(ctx context.Context, phone string) error {
	if !entities.ValidPhone(phone) {
		return domainerrors.ErrInvalidPhone
	}

	code, err := u.codes.IssueCode(ctx, phone)
	if err != nil {
		return err
	}

	if err := u.sms.Send(ctx, entities.NormalizeE164(phone), map[string]string{"code": code}); err != nil {
		metrics.RecordSMSDelivery(false)
		logger.Warn(ctx, "SMS delivery failed",
			zap.String("phone", entities.MaskPhone(phone)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", domainerrors.ErrUpstreamUnavailable, err)
	}

	metrics.RecordSMSDelivery(true)
	logger.Info(ctx, "Verification code sent", zap.String("phone", entities.MaskPhone(phone)))
	return nil
}

// Login dispatches on the requested credential type
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	switch input.LoginType {
	case entities.LoginTypePassword:
		return u.LoginWithPassword(ctx, input.Phone, input.Password)
	case entities.LoginTypeCode:
		return u.LoginOrRegisterWithCode(ctx, input.Phone, input.Code)
	default:
		return nil, domainerrors.ErrInvalidInput
	}
}

// LoginWithPassword authenticates with phone and password. Every credential
// failure is reported identically.
func (u *AuthUsecase) LoginWithPassword(ctx context.Context, phone, password string) (*entities.AuthResponse, error) {
	if !entities.ValidPhone(phone) {
		return nil, domainerrors.ErrInvalidPhone
	}
	if len(password) < entities.MinPasswordLength {
		return nil, domainerrors.ErrInvalidCredentials
	}

	user, err := u.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive() || !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return u.issueSession(user, false)
}

// LoginOrRegisterWithCode consumes a code and signs the phone in, creating the
// account and its profile on first use.
func (u *AuthUsecase) LoginOrRegisterWithCode(ctx context.Context, phone, code string) (*entities.AuthResponse, error) {
	if !entities.ValidPhone(phone) {
		return nil, domainerrors.ErrInvalidPhone
	}

	var (
		user       *entities.User
		registered bool
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.codes.ConsumeCode(txCtx, phone, code); err != nil {
			return err
		}

		existing, err := u.userRepo.GetByPhone(txCtx, phone)
		if err == nil {
			if !existing.IsActive() {
				return domainerrors.ErrAccountDisabled
			}
			user = existing
			return nil
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}

		user, err = u.register(txCtx, phone)
		if err != nil {
			return err
		}
		registered = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if registered {
		logger.Info(ctx, "Customer registered",
			zap.String("user_id", user.ID.String()),
			zap.String("phone", entities.MaskPhone(phone)),
		)
	}
	return u.issueSession(user, registered)
}

func (u *AuthUsecase) register(ctx context.Context, phone string) (*entities.User, error) {
	secret, err := generateRandomToken(32)
	if err != nil {
		return nil, err
	}
	passwordHash, err := hashPassword(secret)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Phone:        phone,
		Username:     "user_" + phone[len(phone)-4:],
		PasswordHash: passwordHash,
		Role:         entities.UserRoleCustomer,
		Status:       entities.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.ErrAlreadyRegistered
		}
		return nil, err
	}

	nickname, avatar := u.profile(now.UnixNano())
	if err := u.userInfoRepo.Create(ctx, &entities.UserInfo{
		ID:        utils.GenerateUUIDv7(),
		UserID:    user.ID,
		Nickname:  nickname,
		Gender:    entities.GenderUnknown,
		Avatar:    avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return user, nil
}

// ResetPassword replaces the password after consuming a code. Any failure
// leaves the code unconsumed.
func (u *AuthUsecase) ResetPassword(ctx context.Context, phone, code, newPassword string) error {
	if !entities.ValidPhone(phone) {
		return domainerrors.ErrInvalidPhone
	}
	if len(newPassword) < entities.MinPasswordLength {
		return domainerrors.ErrInvalidPassword
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.codes.ConsumeCode(txCtx, phone, code); err != nil {
			return err
		}

		user, err := u.userRepo.GetByPhone(txCtx, phone)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.ErrUserNotFound
			}
			return err
		}

		passwordHash, err := hashPassword(newPassword)
		if err != nil {
			return err
		}
		return u.userRepo.UpdatePassword(txCtx, user.ID, passwordHash, u.now().UTC())
	})
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateKind(refreshToken, jwt.KindRefresh)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, domainerrors.ErrAccountDisabled
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Phone, string(user.Role))
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// GetProfile returns the customer profile of a user
func (u *AuthUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.UserInfo, error) {
	return u.userInfoRepo.GetByUserID(ctx, userID)
}

// DeleteUser hard-deletes an account. Accounts referenced by orders are kept.
func (u *AuthUsecase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		return u.userRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "User deleted", zap.String("user_id", id.String()))
	return nil
}

// SetUserStatus freezes, closes or reactivates an account
func (u *AuthUsecase) SetUserStatus(ctx context.Context, id uuid.UUID, status entities.UserStatus) error {
	switch status {
	case entities.UserStatusActive, entities.UserStatusFrozen, entities.UserStatusClosed:
	default:
		return domainerrors.ErrInvalidInput
	}
	return u.userRepo.UpdateStatus(ctx, id, status, u.now().UTC())
}

func (u *AuthUsecase) issueSession(user *entities.User, registered bool) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Phone, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
		Registered:   registered,
	}, nil
}
