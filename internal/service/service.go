package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/koliada1973/credit-service/internal/config"
	"github.com/koliada1973/credit-service/internal/models"
	"github.com/koliada1973/credit-service/internal/repository"
	"github.com/koliada1973/credit-service/internal/utils"
)

// Store is the persistence surface the service depends on. Implemented by
// repository.Repository; mocked in tests.
type Store interface {
	CreateUser(ctx context.Context, user *models.User, ipnHMAC string) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateLoan(ctx context.Context, loan *models.Loan) error
	FindLoanByID(ctx context.Context, id int64) (*models.Loan, error)
	ListLoans(ctx context.Context) ([]models.Loan, error)
	ListLoansByUser(ctx context.Context, userID int64) ([]models.Loan, error)
	RecordPayment(ctx context.Context, loanID int64, apply repository.PaymentFunc) (*models.Payment, error)
	ListPaymentsByLoan(ctx context.Context, loanID int64) ([]models.Payment, error)
}

// Cache stores computed schedules. Failures are never fatal: the planner is
// pure and can always recompute.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Only 10-digit tax numbers are accepted.
var ipnRe = regexp.MustCompile(`^\d{10}$`)

// Service handles business logic
type Service struct {
	store         Store
	cache         Cache
	log           *logrus.Logger
	config        *config.Config
	encryptionKey []byte
}

// NewService initializes a new service
func NewService(store Store, cache Cache, log *logrus.Logger, cfg *config.Config) (*Service, error) {
	key, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid ENCRYPTION_KEY: %w", err)
	}
	return &Service{
		store:         store,
		cache:         cache,
		log:           log,
		config:        cfg,
		encryptionKey: key,
	}, nil
}

// Register creates a new client user with hashed password. The tax number is
// stored encrypted, with a deterministic HMAC for the uniqueness constraint.
func (s *Service) Register(ctx context.Context, username, email, password, ipn string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if ipn != "" && !ipnRe.MatchString(ipn) {
		return nil, fmt.Errorf("%w: IPN must be exactly 10 digits", ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Role:         models.RoleClient,
		PasswordHash: string(hashedPassword),
	}

	var ipnHMAC string
	if ipn != "" {
		encrypted, err := utils.Encrypt(ipn, s.encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt IPN: %w", err)
		}
		user.IPN = encrypted
		ipnHMAC = utils.GenerateHMAC(ipn, s.config.HMACSecret)
	}

	if err := s.store.CreateUser(ctx, user, ipnHMAC); err != nil {
		return nil, err
	}
	user.IPN = ipn

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": user.Role,
		"exp":  jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// actorFromContext reads the authenticated user set by the auth middleware.
func actorFromContext(ctx context.Context) (int64, string, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return 0, "", ErrUnauthorized
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid user ID: %w", err)
	}
	role, _ := ctx.Value("role").(string)
	return userID, role, nil
}

func isStaff(role string) bool {
	return role == models.RoleAdmin || role == models.RoleManager
}
