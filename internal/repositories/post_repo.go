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

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(db *database.DB) *PostRepository {
	return &PostRepository{pool: db.Pool}
}

func postSortColumn(sortBy string) string {
	switch sortBy {
	case "title":
		return "title"
	case "shortDescription":
		return "short_description"
	case "content":
		return "content"
	case "blogName":
		return "blog_name"
	default:
		return "created_at"
	}
}

func scanPostRows(rows pgx.Rows) ([]models.Post, error) {
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var p models.Post
		err := rows.Scan(&p.ID, &p.Title, &p.ShortDescription, &p.Content, &p.BlogID, &p.BlogName, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, nil
}

// Find returns one page of posts; an empty blogID means all posts.
func (r *PostRepository) Find(ctx context.Context, q models.PageQuery, blogID string) ([]models.Post, int, error) {
	query := fmt.Sprintf(`
		SELECT id, title, short_description, content, blog_id, blog_name, created_at
		FROM posts WHERE ($1 = '' OR blog_id = $1)
		ORDER BY %s %s LIMIT $2 OFFSET $3
	`, postSortColumn(q.SortBy), sortOrder(q.SortDirection))

	rows, err := r.pool.Query(ctx, query, blogID, q.PageSize, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}

	posts, err := scanPostRows(rows)
	if err != nil {
		return nil, 0, err
	}

	var totalCount int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE ($1 = '' OR blog_id = $1)`, blogID).Scan(&totalCount)
	if err != nil {
		return nil, 0, database.MapPostgresError(err)
	}

	return posts, totalCount, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT id, title, short_description, content, blog_id, blog_name, created_at
		FROM posts WHERE id = $1
	`

	var p models.Post
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.ShortDescription, &p.Content, &p.BlogID, &p.BlogName, &p.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &p, nil
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.ID = uuid.New().String()
	post.CreatedAt = time.Now()

	query := `
		INSERT INTO posts (id, title, short_description, content, blog_id, blog_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID, post.Title, post.ShortDescription, post.Content,
		post.BlogID, post.BlogName, post.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return post, nil
}

func (r *PostRepository) Update(ctx context.Context, id string, post *models.Post) error {
	query := `
		UPDATE posts SET title = $1, short_description = $2, content = $3, blog_id = $4, blog_name = $5
		WHERE id = $6
	`

	result, err := r.pool.Exec(ctx, query,
		post.Title, post.ShortDescription, post.Content, post.BlogID, post.BlogName, id,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
