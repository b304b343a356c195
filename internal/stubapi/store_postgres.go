package stubapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"atelier/internal/sentinel"
	"atelier/internal/storefront/models"
)

const uniqueViolation = "23505"

// OpenDB opens a pgx-backed database handle and verifies connectivity.
func OpenDB(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// PostgresUserStore persists accounts in postgres.
type PostgresUserStore struct {
	db *sql.DB
}

// NewPostgresUserStore wraps an open database handle.
func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, user *User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, avatar, last_device)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Avatar, user.LastDevice,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("email taken: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, avatar, last_device
		FROM users WHERE email = $1`, email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Avatar, &user.LastDevice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (s *PostgresUserStore) Update(ctx context.Context, user *User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = $2, avatar = $3, last_device = $4
		WHERE id = $1`,
		user.ID, user.Name, user.Avatar, user.LastDevice,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

// PostgresBagStore persists per-user bag id sets in postgres.
type PostgresBagStore struct {
	db *sql.DB
}

// NewPostgresBagStore wraps an open database handle.
func NewPostgresBagStore(db *sql.DB) *PostgresBagStore {
	return &PostgresBagStore{db: db}
}

func (s *PostgresBagStore) Get(ctx context.Context, userID string) ([]string, error) {
	return queryIDs(ctx, s.db, `
		SELECT product_id FROM bag_items
		WHERE user_id = $1 ORDER BY added_at, product_id`, userID)
}

func (s *PostgresBagStore) Add(ctx context.Context, userID, productID string) ([]string, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bag_items (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert bag item: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *PostgresBagStore) Remove(ctx context.Context, userID, productID string) ([]string, error) {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM bag_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("delete bag item: %w", err)
	}
	return s.Get(ctx, userID)
}

// Replace swaps the whole set in one transaction so a failed push never
// leaves a half-written bag.
func (s *PostgresBagStore) Replace(ctx context.Context, userID string, productIDs []string) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace bag: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bag_items WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("clear bag: %w", err)
	}
	for _, productID := range productIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bag_items (user_id, product_id) VALUES ($1, $2)
			ON CONFLICT (user_id, product_id) DO NOTHING`,
			userID, productID,
		); err != nil {
			return nil, fmt.Errorf("insert bag item: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace bag: %w", err)
	}
	return s.Get(ctx, userID)
}

// PostgresFavoriteStore persists per-user favorite id sets in postgres.
type PostgresFavoriteStore struct {
	db *sql.DB
}

// NewPostgresFavoriteStore wraps an open database handle.
func NewPostgresFavoriteStore(db *sql.DB) *PostgresFavoriteStore {
	return &PostgresFavoriteStore{db: db}
}

func (s *PostgresFavoriteStore) Get(ctx context.Context, userID string) ([]string, error) {
	return queryIDs(ctx, s.db, `
		SELECT product_id FROM favorites
		WHERE user_id = $1 ORDER BY added_at, product_id`, userID)
}

func (s *PostgresFavoriteStore) Add(ctx context.Context, userID, productID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (s *PostgresFavoriteStore) Remove(ctx context.Context, userID, productID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// PostgresProductStore persists the catalog in postgres.
type PostgresProductStore struct {
	db *sql.DB
}

// NewPostgresProductStore wraps an open database handle.
func NewPostgresProductStore(db *sql.DB) *PostgresProductStore {
	return &PostgresProductStore{db: db}
}

func (s *PostgresProductStore) Get(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, price, image, gender, category
		FROM products WHERE id = $1`, productID,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Gender, &p.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}

func (s *PostgresProductStore) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, image, gender, category
		FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Gender, &p.Category); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func (s *PostgresProductStore) Put(ctx context.Context, p models.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price, image, gender, category, position)
		VALUES ($1, $2, $3, $4, $5, $6, (SELECT COALESCE(MAX(position), 0) + 1 FROM products))
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price, image = EXCLUDED.image,
		    gender = EXCLUDED.gender, category = EXCLUDED.category`,
		p.ID, p.Name, p.Price, p.Image, p.Gender, p.Category,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

func queryIDs(ctx context.Context, db *sql.DB, query, userID string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return ids, nil
}
