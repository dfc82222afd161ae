package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/middleware"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

var loginCounter metric.Int64Counter

type AuthService struct {
	db           *gorm.DB
	jwtSecret    string
	jwtExpiresIn time.Duration
}

func NewAuthService(db *gorm.DB, jwtSecret string, jwtExpiresIn time.Duration) *AuthService {
	var err error
	loginCounter, err = meter.Int64Counter(
		"auth.login.attempts",
		metric.WithDescription("Total number of operator login attempts"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create login counter")
	}

	return &AuthService{
		db:           db,
		jwtSecret:    jwtSecret,
		jwtExpiresIn: jwtExpiresIn,
	}
}

type CredentialsInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type AuthResponse struct {
	Operator models.OperatorResponse `json:"operator"`
	Token    string                  `json:"token"`
}

func (in CredentialsInput) normalize() CredentialsInput {
	in.Username = strings.TrimSpace(in.Username)
	return in
}

// Register adds an operator account.
func (s *AuthService) Register(ctx context.Context, input CredentialsInput) (*models.Operator, error) {
	ctx, span := tracer.Start(ctx, "operator.register")
	defer span.End()

	input = input.normalize()
	span.SetAttributes(attribute.String("operator.username", input.Username))

	if input.Username == "" {
		return nil, newValidationError("username", "username is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, newValidationError("password", "password must be at least 8 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	operator := models.Operator{
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Operator{}).Where("username = ?", input.Username).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrOperatorExists
		}
		return tx.Create(&operator).Error
	})
	if err != nil {
		if errors.Is(err, ErrOperatorExists) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrOperatorExists
		}
		return nil, infraErr("register operator", err)
	}

	logging.Info(ctx).
		Uint("operator_id", operator.ID).
		Str("username", operator.Username).
		Msg("operator registered")

	return &operator, nil
}

// EnsureOperator creates the bootstrap operator unless the username is taken.
func (s *AuthService) EnsureOperator(ctx context.Context, username, password string) error {
	_, err := s.Register(ctx, CredentialsInput{Username: username, Password: password})
	if errors.Is(err, ErrOperatorExists) {
		return nil
	}
	return err
}

func (s *AuthService) Login(ctx context.Context, input CredentialsInput) (*AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "operator.login")
	defer span.End()

	input = input.normalize()
	span.SetAttributes(attribute.String("operator.username", input.Username))

	var operator models.Operator
	if err := s.db.WithContext(ctx).Where("username = ?", input.Username).First(&operator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordLogin(ctx, false)
			return nil, ErrInvalidCredentials
		}
		return nil, infraErr("login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(input.Password)); err != nil {
		s.recordLogin(ctx, false)
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(&operator)
	if err != nil {
		return nil, err
	}

	s.recordLogin(ctx, true)
	span.SetAttributes(attribute.Int64("operator.id", int64(operator.ID)))

	logging.Info(ctx).
		Uint("operator_id", operator.ID).
		Str("username", operator.Username).
		Msg("operator logged in")

	return &AuthResponse{
		Operator: operator.ToResponse(),
		Token:    token,
	}, nil
}

func (s *AuthService) recordLogin(ctx context.Context, success bool) {
	if loginCounter != nil {
		loginCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
}

func (s *AuthService) generateToken(operator *models.Operator) (string, error) {
	claims := middleware.JWTClaims{
		OperatorID: operator.ID,
		Username:   operator.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
