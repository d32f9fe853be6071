package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"student_portal/internal/model"
	"student_portal/internal/repository"
	"student_portal/internal/utils"

	"go.uber.org/zap"
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, utils.TokenPair, error)
	Login(ctx context.Context, phone, password string) (*model.User, utils.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type authService struct {
	userRepo     repository.UserRepository
	jwtUtil      *utils.JWTUtil
	dekanatPhone string
	log          *zap.Logger
}

// NewAuthService creates a new AuthService. A user registering with
// dekanatPhone is placed into the dekanat group.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, dekanatPhone string, log *zap.Logger) AuthService {
	return &authService{
		userRepo:     userRepo,
		jwtUtil:      jwtUtil,
		dekanatPhone: dekanatPhone,
		log:          log.Named("auth"),
	}
}

// duplicateField maps a violated unique constraint to the request field
func duplicateField(dup *repository.ErrDuplicate) *ValidationError {
	switch dup.Constraint {
	case "users_email_key":
		return NewValidationError("email", "user with this email address already exists.")
	case "users_phone_key":
		return NewValidationError("phone", "user with this phone already exists.")
	}
	return NewValidationError("detail", "user already exists.")
}

// checkUnique verifies that phone and email are not taken by another user.
// selfID is the id of the user being updated, or 0 on registration.
func checkUnique(ctx context.Context, repo repository.UserRepository, phone, email string, selfID int) error {
	fields := map[string]string{}

	if phone != "" {
		existing, err := repo.FindByPhone(ctx, phone)
		if err != nil {
			return fmt.Errorf("failed to check existing phone: %w", err)
		}
		if existing != nil && existing.ID != selfID {
			fields["phone"] = "user with this phone already exists."
		}
	}
	if email != "" {
		existing, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to check existing email: %w", err)
		}
		if existing != nil && existing.ID != selfID {
			fields["email"] = "user with this email address already exists."
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Register creates a new user account and issues a token pair
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, utils.TokenPair, error) {
	if req.Password == "" {
		return nil, utils.TokenPair{}, NewValidationError("detail", MsgPasswordRequired)
	}
	if msg := passwordLengthProblem(req.Password); msg != "" {
		return nil, utils.TokenPair{}, NewValidationError("detail", msg)
	}

	dob, err := time.Parse(model.DateLayout, req.DOB)
	if err != nil {
		return nil, utils.TokenPair{}, NewValidationError("dob", "Date has wrong format. Use YYYY-MM-DD.")
	}

	if err := checkUnique(ctx, s.userRepo, req.Phone, req.Email, 0); err != nil {
		return nil, utils.TokenPair{}, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}

	isDekanat := s.dekanatPhone != "" && req.Phone == s.dekanatPhone

	course := 0
	if req.Course != nil {
		course = *req.Course
	}
	user := &model.User{
		Phone:        req.Phone,
		Email:        req.Email,
		Username:     req.Username,
		LastName:     req.LastName,
		Middlename:   req.Middlename,
		DOB:          dob,
		Gender:       req.Gender,
		Course:       course,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsStaff:      isDekanat,
	}

	var groups []string
	if isDekanat {
		groups = []string{model.GroupDekanat}
	}
	if err := s.userRepo.Create(ctx, user, groups); err != nil {
		var dup *repository.ErrDuplicate
		if errors.As(err, &dup) {
			return nil, utils.TokenPair{}, duplicateField(dup)
		}
		return nil, utils.TokenPair{}, fmt.Errorf("failed to create user in repository: %w", err)
	}

	if isDekanat {
		user.Groups = groups
		s.log.Info("user registered into dekanat group via INITIAL_DEKANAT_PHONE", zap.Int("user_id", user.ID))
	}

	pair, err := s.jwtUtil.GenerateTokenPair(user.ID)
	if err != nil {
		s.log.Error("user created, but failed to generate tokens", zap.Int("user_id", user.ID), zap.Error(err))
		return user, utils.TokenPair{}, fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, pair, nil
}

// Login authenticates a user by phone and password and returns a token pair
func (s *authService) Login(ctx context.Context, phone, password string) (*model.User, utils.TokenPair, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, utils.TokenPair{}, fmt.Errorf("error finding user by phone: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, utils.TokenPair{}, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, utils.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.jwtUtil.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, utils.TokenPair{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtUtil.ValidateToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", fmt.Errorf("error finding user by id: %w", err)
	}
	if user == nil || !user.IsActive {
		return "", ErrInvalidToken
	}

	access, err := s.jwtUtil.GenerateToken(user.ID, utils.TokenTypeAccess)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return access, nil
}
