package integration

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ovoronin/bloghub/internal/database"
	"github.com/ovoronin/bloghub/internal/models"
	"github.com/ovoronin/bloghub/internal/repositories"
	pkgauth "github.com/ovoronin/bloghub/pkg/auth"
)

// TestDB manages the PostgreSQL testcontainer and database handles.
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase creates a PostgreSQL testcontainer, runs migrations, and
// returns the connected TestDB.
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("bloghub"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         &database.DB{Pool: pool},
	}, nil
}

// runMigrations executes all goose migrations against the container.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir, err := filepath.Abs("../../migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations path: %w", err)
	}

	goose.SetLogger(log.New(io.Discard, "", 0))

	// Goose needs a database/sql handle; adapt the pgx pool config.
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Teardown stops the container and closes the connection pool.
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation.
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"comments",
		"posts",
		"blogs",
		"request_log",
		"refresh_token_blacklist",
		"device_sessions",
		"user_accounts",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// InitializeRepositories creates all repository instances from the database
// wrapper.
func InitializeRepositories(db *database.DB) (
	*repositories.UserAccountRepository,
	*repositories.SessionRepository,
	*repositories.RequestLogRepository,
	*repositories.BlogRepository,
	*repositories.PostRepository,
	*repositories.CommentRepository,
) {
	return repositories.NewUserAccountRepository(db),
		repositories.NewSessionRepository(db),
		repositories.NewRequestLogRepository(db),
		repositories.NewBlogRepository(db),
		repositories.NewPostRepository(db),
		repositories.NewCommentRepository(db)
}

// SeedUserAccount inserts a user account with a hashed password.
func SeedUserAccount(ctx context.Context, pool *pgxpool.Pool, login, email, password string, confirmed bool) (*models.UserAccount, error) {
	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.UserAccount{
		ID:           uuid.NewString(),
		Login:        login,
		Email:        email,
		PasswordHash: hashedPassword,
		EmailConfirmation: models.EmailConfirmation{
			ConfirmationCode: uuid.NewString(),
			ExpirationDate:   time.Now().Add(1 * time.Hour),
			IsConfirmed:      confirmed,
		},
	}

	query := `
		INSERT INTO user_accounts
			(id, login, email, password_hash, confirmation_code, confirmation_expires_at, is_confirmed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err = pool.QueryRow(ctx, query,
		account.ID, account.Login, account.Email, account.PasswordHash,
		account.EmailConfirmation.ConfirmationCode,
		account.EmailConfirmation.ExpirationDate,
		account.EmailConfirmation.IsConfirmed,
	).Scan(&account.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user account: %w", err)
	}

	return account, nil
}

// SeedBlog inserts a blog row.
func SeedBlog(ctx context.Context, pool *pgxpool.Pool, name, websiteURL string) (*models.Blog, error) {
	blog := &models.Blog{
		ID:         uuid.NewString(),
		Name:       name,
		WebsiteURL: websiteURL,
	}

	query := `
		INSERT INTO blogs (id, name, website_url)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	if err := pool.QueryRow(ctx, query, blog.ID, blog.Name, blog.WebsiteURL).Scan(&blog.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert blog: %w", err)
	}

	return blog, nil
}

// SeedSession inserts an active device session for a user.
func SeedSession(ctx context.Context, pool *pgxpool.Pool, userID, deviceID, ip string) error {
	query := `
		INSERT INTO device_sessions
			(user_id, device_id, ip, user_agent_title, last_active_date, expiration_date)
		VALUES ($1, $2, $3, 'integration-test', NOW(), NOW() + INTERVAL '10 minutes')
	`

	if _, err := pool.Exec(ctx, query, userID, deviceID, ip); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}
