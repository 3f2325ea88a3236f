package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"employee-admin/internal/auth/config"
	"employee-admin/internal/auth/domain/model"
	"employee-admin/internal/auth/domain/repository"
	apperrors "employee-admin/internal/shared/errors"
	"employee-admin/internal/shared/logger"
	"employee-admin/internal/shared/validation"
)

var (
	ErrUserNameTaken      = errors.New("username or email already exists")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("token is missing")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrAccessDenied       = errors.New("access denied")
)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Login(ctx context.Context, req LoginRequest) (*model.Session, error)
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (*model.Admin, error)
	Logout(ctx context.Context, tokenString string) error
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
	Authenticate(ctx context.Context, tokenString string) (*model.Admin, *repository.Claims, error)
	GetAdminByID(ctx context.Context, adminID string) (*model.Admin, error)
	EnsureBootstrapAdmin(ctx context.Context) error
}

// LoginRequest represents the login request
type LoginRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateAdminRequest represents the admin creation request
type CreateAdminRequest struct {
	UserName    string `json:"userName" validate:"min=3"`
	Password    string `json:"password" validate:"min=6"`
	Email       string `json:"email" validate:"email"`
	Mobile      string `json:"mobile" validate:"mobile"`
	Designation string `json:"designation" validate:"required"`
}

var loginSchema = validation.Schema{
	{Name: "userName", Message: "Username is required"},
	{Name: "password", Message: "Password is required", Sensitive: true},
}

var createAdminSchema = validation.Schema{
	{Name: "userName", Message: "Username must be at least 3 characters long"},
	{Name: "password", Message: "Password must be at least 6 characters long", Sensitive: true},
	{Name: "email", Message: "Invalid email address"},
	{Name: "mobile", Message: "Invalid mobile number"},
	{Name: "designation", Message: "Designation is required"},
}

// fallbackDummyHash is a bcrypt hash of a throwaway password, used when the
// configured hasher cannot produce one at startup.
const fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	repo     repository.AdminRepository
	tokenSvc repository.TokenService
	hasher   repository.PasswordHasher
	denylist repository.TokenDenylist
	config   *config.Config
	log      logger.Logger

	// compared against on unknown usernames so both failure paths cost one bcrypt check
	dummyHash string
}

// NewAuthUsecase creates a new instance of AuthUsecase. denylist may be nil.
func NewAuthUsecase(
	repo repository.AdminRepository,
	tokenSvc repository.TokenService,
	hasher repository.PasswordHasher,
	denylist repository.TokenDenylist,
	cfg *config.Config,
	log logger.Logger,
) *AuthUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil || dummy == "" {
		log.WithError(err).Warn("failed to hash dummy password, using fallback hash")
		dummy = fallbackDummyHash
	}
	return &AuthUsecase{
		repo:      repo,
		tokenSvc:  tokenSvc,
		hasher:    hasher,
		denylist:  denylist,
		config:    cfg,
		log:       log.WithComponent("auth"),
		dummyHash: dummy,
	}
}

// Login checks credentials and issues a session token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.Session, error) {
	validation.TrimSpace(&req.UserName)
	if errs := loginSchema.Validate(&req); errs != nil {
		return nil, errs
	}

	admin, err := uc.repo.GetAdminByUserName(ctx, req.UserName)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			uc.hasher.Verify(req.Password, uc.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if !uc.hasher.Verify(req.Password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := uc.tokenSvc.GenerateToken(ctx, admin.ID.Hex(), admin.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"admin_id": admin.ID.Hex(),
	}).Info("admin logged in")

	return &model.Session{
		Admin:     admin.Public(),
		Token:     token,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// CreateAdmin validates and stores a new admin account.
func (uc *AuthUsecase) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*model.Admin, error) {
	validation.TrimSpace(&req.UserName, &req.Email, &req.Mobile, &req.Designation)
	if errs := createAdminSchema.Validate(&req); errs != nil {
		return nil, errs
	}

	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	admin := &model.Admin{
		UserName:     req.UserName,
		PasswordHash: hash,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Designation:  req.Designation,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.repo.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateAdmin) {
			return nil, ErrUserNameTaken
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"admin_id":  admin.ID.Hex(),
		"user_name": admin.UserName,
	}).Info("admin created")

	return admin.Public(), nil
}

// Logout revokes the token when a denylist is configured. Missing or invalid
// tokens are not an error: the caller clears the cookie either way.
func (uc *AuthUsecase) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" || uc.denylist == nil {
		return nil
	}
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil || claims.ID == "" {
		return nil
	}

	until := time.Now().Add(uc.config.SessionTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := uc.denylist.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// ValidateToken verifies signature and expiry, then consults the denylist.
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if uc.denylist != nil && claims.ID != "" {
		revoked, err := uc.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenInvalid
		}
	}
	return claims, nil
}

// Authenticate resolves a token to a current admin. The stored account is
// authoritative: a token minted with isAdmin=true is rejected once the account
// no longer is one.
func (uc *AuthUsecase) Authenticate(ctx context.Context, tokenString string) (*model.Admin, *repository.Claims, error) {
	claims, err := uc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, nil, err
	}
	if !claims.IsAdmin {
		return nil, nil, ErrAccessDenied
	}

	admin, err := uc.repo.GetAdminByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return nil, nil, ErrAccessDenied
		}
		return nil, nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if !admin.IsAdmin {
		return nil, nil, ErrAccessDenied
	}
	return admin.Public(), claims, nil
}

// GetAdminByID returns an admin without its password hash.
func (uc *AuthUsecase) GetAdminByID(ctx context.Context, adminID string) (*model.Admin, error) {
	admin, err := uc.repo.GetAdminByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin.Public(), nil
}

// EnsureBootstrapAdmin seeds the configured admin when no admin exists yet.
func (uc *AuthUsecase) EnsureBootstrapAdmin(ctx context.Context) error {
	if uc.config == nil || !uc.config.HasBootstrapAdmin() {
		return nil
	}
	count, err := uc.repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin, err := uc.CreateAdmin(ctx, CreateAdminRequest{
		UserName:    uc.config.BootstrapAdminUserName,
		Password:    uc.config.BootstrapAdminPassword,
		Email:       uc.config.BootstrapAdminEmail,
		Mobile:      uc.config.BootstrapAdminMobile,
		Designation: uc.config.BootstrapAdminDesignation,
	})
	if err != nil {
		if errors.Is(err, ErrUserNameTaken) {
			return nil
		}
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}
	uc.log.Infof("seeded bootstrap admin %q", admin.UserName)
	return nil
}

// ToAppError maps usecase errors onto the shared error types rendered by HTTP handlers.
func ToAppError(err error) error {
	var ve *apperrors.ValidationErrors
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve):
		return ve
	case errors.Is(err, ErrInvalidCredentials):
		return apperrors.NewValidationError("Invalid credentials").WithCause(err)
	case errors.Is(err, ErrUserNameTaken):
		return apperrors.NewConflictError("Username or email already exists").WithCause(err)
	case errors.Is(err, ErrTokenMissing):
		return apperrors.NewAuthorizationError("Access denied").WithCause(err)
	case errors.Is(err, ErrTokenInvalid):
		return apperrors.NewAuthenticationError("Invalid token").WithCause(err)
	case errors.Is(err, ErrAccessDenied):
		return apperrors.NewAppError(apperrors.ErrorTypeNotFound, "Access denied", 404).WithCause(err)
	case errors.Is(err, ErrAdminNotFound):
		return apperrors.NewNotFoundError("Admin").WithCause(err)
	default:
		return apperrors.WrapError(err, "Server error")
	}
}
