package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"student_portal/internal/model"
	"student_portal/internal/repository"
	"student_portal/internal/utils"
)

// UsersPerPage is the page size of the admin user listing
const UsersPerPage = 5

// UserService defines operations on the caller's own account and the admin listing
type UserService interface {
	GetProfile(ctx context.Context, userID int) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, callerID, targetID int, req model.ChangePasswordRequest) error
	ListUsers(ctx context.Context, page int) (*model.UserPage, error)
	UserGroups(ctx context.Context, userID int) ([]string, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetProfile(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var phone, email string
	if req.Phone != nil && *req.Phone != user.Phone {
		phone = *req.Phone
	}
	if req.Email != nil && *req.Email != user.Email {
		email = *req.Email
	}
	if err := checkUnique(ctx, s.repo, phone, email, user.ID); err != nil {
		return nil, err
	}

	// Apply updates
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Middlename != nil {
		user.Middlename = *req.Middlename
	}
	if req.DOB != nil {
		dob, err := time.Parse(model.DateLayout, *req.DOB)
		if err != nil {
			return nil, NewValidationError("dob", "Date has wrong format. Use YYYY-MM-DD.")
		}
		user.DOB = dob
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Course != nil {
		user.Course = *req.Course
	}

	if err := s.repo.Update(ctx, user); err != nil {
		var dup *repository.ErrDuplicate
		switch {
		case errors.As(err, &dup):
			return nil, duplicateField(dup)
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user in repo: %w", err)
	}
	return user, nil
}

// ChangePassword sets a new password for targetID. The caller must be the
// target; handlers derive both from the authenticated identity.
func (s *userService) ChangePassword(ctx context.Context, callerID, targetID int, req model.ChangePasswordRequest) error {
	user, err := s.GetProfile(ctx, targetID)
	if err != nil {
		return err
	}

	fields := map[string]string{}
	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		fields["old_password"] = MsgOldPasswordWrong
	}
	if msg := passwordLengthProblem(req.Password); msg != "" {
		fields["password"] = msg
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	if req.Password != req.Password2 {
		return NewValidationError("password", MsgPasswordMismatch)
	}
	if callerID != user.ID {
		return NewValidationError("authorize", MsgNotYourAccount)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password in repo: %w", err)
	}
	return nil
}

// ListUsers returns one page of users ordered by id. Pages outside
// [1, last] are clamped to the last page.
func (s *userService) ListUsers(ctx context.Context, page int) (*model.UserPage, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	numPages := (total + UsersPerPage - 1) / UsersPerPage
	if numPages == 0 {
		numPages = 1 // an empty listing still has one (empty) page
	}
	if page < 1 || page > numPages {
		page = numPages
	}

	users, err := s.repo.List(ctx, UsersPerPage, (page-1)*UsersPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	pageRange := make([]int, numPages)
	for i := range pageRange {
		pageRange[i] = i + 1
	}

	return &model.UserPage{
		TotalUsers: total,
		MaxPerPage: UsersPerPage,
		PageRange:  pageRange,
		Results:    model.ToProfiles(users),
	}, nil
}

func (s *userService) UserGroups(ctx context.Context, userID int) ([]string, error) {
	groups, err := s.repo.GroupNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user groups: %w", err)
	}
	return groups, nil
}
