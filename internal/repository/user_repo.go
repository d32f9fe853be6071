package repository

import (
	"context"
	"errors"
	"fmt"

	"student_portal/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the postgres SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// ErrDuplicate is returned when an insert or update hits a unique constraint.
// Constraint carries the violated constraint name, e.g. "users_phone_key".
type ErrDuplicate struct {
	Constraint string
}

func (e *ErrDuplicate) Error() string {
	return fmt.Sprintf("duplicate value violates %s", e.Constraint)
}

// querier is satisfied by both the pool and a pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is the subset of *pgxpool.Pool used by the repositories
type DB interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User, groups []string) error
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	GroupNames(ctx context.Context, userID int) ([]string, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, phone, email, username, last_name, middlename, dob, gender, course,
            password_hash, is_active, is_staff, is_superuser, created_at, updated_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.ID, &u.Phone, &u.Email, &u.Username, &u.LastName, &u.Middlename, &u.DOB, &u.Gender, &u.Course,
		&u.PasswordHash, &u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt,
	)
}

func asDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &ErrDuplicate{Constraint: pgErr.ConstraintName}
	}
	return nil
}

// Create inserts a new user and, in the same transaction, adds it to groups
func (r *userRepository) Create(ctx context.Context, u *model.User, groups []string) error {
	if len(groups) == 0 {
		return insertUser(ctx, r.db, u)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op after commit

	if err := insertUser(ctx, tx, u); err != nil {
		return err
	}
	for _, group := range groups {
		if err := addToGroup(ctx, tx, u.ID, group); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user creation: %w", err)
	}
	return nil
}

func insertUser(ctx context.Context, q querier, u *model.User) error {
	sql := `INSERT INTO users (phone, email, username, last_name, middlename, dob, gender, course,
                               password_hash, is_active, is_staff, is_superuser)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id, created_at, updated_at`
	err := q.QueryRow(ctx, sql,
		u.Phone, u.Email, u.Username, u.LastName, u.Middlename, u.DOB, u.Gender, u.Course,
		u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if dup := asDuplicate(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) findOne(ctx context.Context, where string, arg any) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = $1`
	if err := scanUser(r.db.QueryRow(ctx, sql, arg), user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by %s: %w", where, err)
	}
	return user, nil
}

// FindByPhone retrieves a user by their phone number
func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.findOne(ctx, "phone", phone)
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email", email)
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	return r.findOne(ctx, "id", id)
}

// Update writes the mutable profile fields and bumps updated_at
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	sql := `UPDATE users
            SET phone = $1, email = $2, username = $3, last_name = $4, middlename = $5,
                dob = $6, gender = $7, course = $8, updated_at = NOW()
            WHERE id = $9 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql,
		u.Phone, u.Email, u.Username, u.LastName, u.Middlename, u.DOB, u.Gender, u.Course, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if dup := asDuplicate(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdatePassword stores a new password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of users
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

// List returns users ordered by ascending id
func (r *userRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// GroupNames returns the names of the groups the user belongs to
func (r *userRepository) GroupNames(ctx context.Context, userID int) ([]string, error) {
	sql := `SELECT g.name FROM groups g
            JOIN user_groups ug ON ug.group_id = g.id
            WHERE ug.user_id = $1 ORDER BY g.name`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return groups, nil
}

// addToGroup puts the user into the named group, creating the group if needed
func addToGroup(ctx context.Context, q querier, userID int, group string) error {
	sql := `WITH g AS (
                INSERT INTO groups (name) VALUES ($1)
                ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
                RETURNING id
            )
            INSERT INTO user_groups (user_id, group_id) SELECT $2, id FROM g
            ON CONFLICT DO NOTHING`
	if _, err := q.Exec(ctx, sql, group, userID); err != nil {
		return fmt.Errorf("failed to add user to group %s: %w", group, err)
	}
	return nil
}
