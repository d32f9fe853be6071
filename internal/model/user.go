package model

import "time"

const (
	GenderMale   = "Erkak"
	GenderFemale = "Ayol"

	GroupDekanat = "dekanat"

	// DateLayout is the wire format of the date of birth
	DateLayout = "2006-01-02"
)

// User represents a student or staff account. Phone is the login identifier.
type User struct {
	ID           int       `json:"id"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Username     string    `json:"username"` // first name, not unique
	LastName     string    `json:"last_name"`
	Middlename   string    `json:"middlename"`
	DOB          time.Time `json:"dob"`
	Gender       string    `json:"gender"`
	Course       int       `json:"course"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	Groups       []string  `json:"groups,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns the display name shown in admin listings
func (u *User) FullName() string {
	return u.Username + " " + u.LastName
}

func (u *User) String() string {
	return u.FullName()
}

// HasGroup reports whether groups contains the required group name
func HasGroup(groups []string, required string) bool {
	for _, g := range groups {
		if g == required {
			return true
		}
	}
	return false
}

// Profile is the public projection of a User
type Profile struct {
	ID         int    `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	LastName   string `json:"last_name"`
	Middlename string `json:"middlename"`
	Course     int    `json:"course"`
	DOB        string `json:"dob"`
	Phone      string `json:"phone"`
	Gender     string `json:"gender"`
}

// ToProfile renders the user without credentials or access flags
func ToProfile(u *User) Profile {
	return Profile{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		LastName:   u.LastName,
		Middlename: u.Middlename,
		Course:     u.Course,
		DOB:        u.DOB.Format(DateLayout),
		Phone:      u.Phone,
		Gender:     u.Gender,
	}
}

// ToProfiles maps a page of users onto their public projection
func ToProfiles(users []User) []Profile {
	profiles := make([]Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, ToProfile(&users[i]))
	}
	return profiles
}

// RegisterRequest is used for creating a new account.
// Password is checked by the service so that a missing or short password
// yields its own message.
type RegisterRequest struct {
	Phone      string `json:"phone" binding:"required,max=12"`
	Email      string `json:"email" binding:"required,email"`
	Username   string `json:"username" binding:"required,max=20"`
	LastName   string `json:"last_name" binding:"required,max=20"`
	Middlename string `json:"middlename" binding:"required,max=20"`
	DOB        string `json:"dob" binding:"required,datetime=2006-01-02"`
	Gender     string `json:"gender" binding:"required,oneof=Erkak Ayol"`
	Course     *int   `json:"course" binding:"required"`
	Password   string `json:"password"`
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// UpdateProfileRequest carries a partial profile; nil fields are left unchanged
type UpdateProfileRequest struct {
	Phone      *string `json:"phone,omitempty" binding:"omitempty,min=1,max=12"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Username   *string `json:"username,omitempty" binding:"omitempty,min=1,max=20"`
	LastName   *string `json:"last_name,omitempty" binding:"omitempty,min=1,max=20"`
	Middlename *string `json:"middlename,omitempty" binding:"omitempty,min=1,max=20"`
	DOB        *string `json:"dob,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Gender     *string `json:"gender,omitempty" binding:"omitempty,oneof=Erkak Ayol"`
	Course     *int    `json:"course,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Password2   string `json:"password2" binding:"required"`
}

// UserPage is one page of the admin user listing
type UserPage struct {
	TotalUsers int       `json:"total_users"`
	MaxPerPage int       `json:"max_per_page"`
	PageRange  []int     `json:"page_range"`
	Results    []Profile `json:"results"`
}
