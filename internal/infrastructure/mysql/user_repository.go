package mysql

import (
	"context"
	"database/sql"
	"errors"

	"gallery-auction/internal/domain"

	mysqldriver "github.com/go-sql-driver/mysql"
)

const mysqlErrDuplicateEntry = 1062

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a user. Email uniqueness is a real UNIQUE index, not a
// lookup-before-insert, so concurrent registrations cannot both pass.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
        INSERT INTO users (id, name, email, password_hash, role, registered_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		string(user.Role), user.RegisteredAt)
	if err != nil {
		var mysqlErr *mysqldriver.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
        SELECT id, name, email, password_hash, role, registered_at
        FROM users WHERE email = ? LIMIT 1
    `
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *MySQLUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
        SELECT id, name, email, password_hash, role, registered_at
        FROM users WHERE id = ?
    `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *MySQLUserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var role string

	err := row.Scan(&user.ID, &user.Name, &user.Email,
		&user.PasswordHash, &role, &user.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	user.Role = domain.Role(role)
	return &user, nil
}

func (r *MySQLUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
        SELECT id, name, email, password_hash, role, registered_at
        FROM users ORDER BY registered_at ASC
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var role string

		err := rows.Scan(&user.ID, &user.Name, &user.Email,
			&user.PasswordHash, &role, &user.RegisteredAt)
		if err != nil {
			return nil, err
		}

		user.Role = domain.Role(role)
		users = append(users, &user)
	}

	return users, rows.Err()
}

func (r *MySQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
        UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?
        WHERE id = ?
    `
	result, err := r.db.ExecContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, string(user.Role), user.ID)
	if err != nil {
		var mysqlErr *mysqldriver.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return domain.ErrEmailTaken
		}
		return err
	}

	return checkFound(result)
}
