package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
)

const userColumns = `id, created_at, updated_at, email, username, encrypted_password, role::text`

const (
	createUserSQL = `INSERT INTO users (email, username, encrypted_password, role)
		VALUES ($1, $2, $3, $4::text::user_role)
		RETURNING ` + userColumns

	findUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	findUserByIDSQL = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	listUsersSQL = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
)

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

func (u *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, createUserSQL, args.Email, args.Username, args.Password, string(args.Role))
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user with email `%s`", args.Email)
	}
	return &user, nil
}

// FindUserByEmail ищет пользователя по email без учета регистра.
func (u *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(u.conn.QueryRow(ctx, findUserByEmailSQL, email))
	if err != nil {
		return nil, convertErr(err, "finding user by email `%s`", email)
	}
	return &user, nil
}

func (u *UserRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(u.conn.QueryRow(ctx, findUserByIDSQL, id))
	if err != nil {
		return nil, convertErr(err, "finding user by id `%d`", id)
	}
	return &user, nil
}

func (u *UserRepository) List(ctx context.Context, page repoargs.Pagination) ([]domain.User, error) {
	limit, offset, err := limitOffset(page)
	if err != nil {
		return nil, convertErr(err, "converting pagination")
	}
	rows, err := u.conn.Query(ctx, listUsersSQL, limit, offset)
	if err != nil {
		return nil, convertErr(err, "listing users")
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, convertErr(err, "listing users")
	}
	return users, nil
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user domain.User
		role string
	)
	err := row.Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
		&user.Email, &user.Username, &user.EncryptedPassword, &role,
	)
	user.Role = domain.UserRole(role)
	return user, err
}
