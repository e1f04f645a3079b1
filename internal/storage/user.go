package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/powermagic/shop/internal/domain/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	ToggleUserActive(ctx context.Context, id int64) (bool, error)
	AddOrderTotalsTx(ctx context.Context, tx *sql.Tx, id int64, amount decimal.Decimal) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

const userColumns = `id, nickname, full_name, email, pass_hash, avatar, is_active, is_admin, registration_date, last_login, total_orders, total_spent`

// scanUser читает одну строку результата в модель пользователя
func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime
	if err := row.Scan(
		&user.ID, &user.Nickname, &user.FullName, &user.Email, &user.PassHash,
		&user.Avatar, &user.IsActive, &user.IsAdmin, &user.RegistrationDate,
		&lastLogin, &user.TotalOrders, &user.TotalSpent,
	); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}
	return user, nil
}

// получение уже существующего пользователя
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (nickname, full_name, email, pass_hash, avatar, is_active, is_admin, registration_date, total_orders, total_spent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), 0, 0) RETURNING id`,
		user.Nickname, user.FullName, user.Email, user.PassHash, user.Avatar, user.IsActive, user.IsAdmin,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET last_login = NOW() WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ToggleUserActive переключает флаг активности и возвращает новое значение
func (r *userRepository) ToggleUserActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := r.db.QueryRowContext(ctx,
		"UPDATE users SET is_active = NOT is_active WHERE id = $1 RETURNING is_active", id,
	).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return active, nil
}

// AddOrderTotalsTx увеличивает счётчики пользователя после оформления заказа:
// количество заказов на 1 и накопленную сумму на стоимость заказа
func (r *userRepository) AddOrderTotalsTx(ctx context.Context, tx *sql.Tx, id int64, amount decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET total_orders = total_orders + 1, total_spent = round(total_spent + $1, 2) WHERE id = $2",
		amount, id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
