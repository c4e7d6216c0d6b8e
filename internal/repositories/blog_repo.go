package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovoronin/bloghub/internal/database"
	"github.com/ovoronin/bloghub/internal/models"
)

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(db *database.DB) *BlogRepository {
	return &BlogRepository{pool: db.Pool}
}

// blogSortColumn whitelists sortBy values; anything else sorts by created_at.
func blogSortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return "name"
	case "websiteUrl":
		return "website_url"
	default:
		return "created_at"
	}
}

func sortOrder(direction string) string {
	if direction == "asc" {
		return "ASC"
	}
	return "DESC"
}

func scanBlogRows(rows pgx.Rows) ([]models.Blog, error) {
	defer rows.Close()

	blogs := make([]models.Blog, 0)
	for rows.Next() {
		var b models.Blog
		if err := rows.Scan(&b.ID, &b.Name, &b.WebsiteURL, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return blogs, nil
}

// Find returns one page of blogs plus the total count, optionally filtered by
// a case-insensitive name substring.
func (r *BlogRepository) Find(ctx context.Context, q models.PageQuery) ([]models.Blog, int, error) {
	filter := "%" + q.SearchTerm + "%"

	query := fmt.Sprintf(`
		SELECT id, name, website_url, created_at
		FROM blogs WHERE name ILIKE $1
		ORDER BY %s %s LIMIT $2 OFFSET $3
	`, blogSortColumn(q.SortBy), sortOrder(q.SortDirection))

	rows, err := r.pool.Query(ctx, query, filter, q.PageSize, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query blogs: %w", err)
	}

	blogs, err := scanBlogRows(rows)
	if err != nil {
		return nil, 0, err
	}

	var totalCount int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blogs WHERE name ILIKE $1`, filter).Scan(&totalCount)
	if err != nil {
		return nil, 0, database.MapPostgresError(err)
	}

	return blogs, totalCount, nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	query := `SELECT id, name, website_url, created_at FROM blogs WHERE id = $1`

	var b models.Blog
	err := r.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.WebsiteURL, &b.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &b, nil
}

func (r *BlogRepository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	blog.ID = uuid.New().String()
	blog.CreatedAt = time.Now()

	query := `
		INSERT INTO blogs (id, name, website_url, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, blog.ID, blog.Name, blog.WebsiteURL, blog.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return blog, nil
}

func (r *BlogRepository) Update(ctx context.Context, id string, blog *models.Blog) error {
	query := `UPDATE blogs SET name = $1, website_url = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, blog.Name, blog.WebsiteURL, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
