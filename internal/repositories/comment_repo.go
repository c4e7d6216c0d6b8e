package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovoronin/bloghub/internal/database"
	"github.com/ovoronin/bloghub/internal/models"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{pool: db.Pool}
}

func commentSortColumn(sortBy string) string {
	switch sortBy {
	case "content":
		return "content"
	case "userLogin":
		return "user_login"
	default:
		return "created_at"
	}
}

// FindByPostID returns one page of a post's comments plus the total count.
func (r *CommentRepository) FindByPostID(ctx context.Context, q models.PageQuery, postID string) ([]models.Comment, int, error) {
	query := fmt.Sprintf(`
		SELECT id, content, user_id, user_login, post_id, created_at
		FROM comments WHERE post_id = $1
		ORDER BY %s %s LIMIT $2 OFFSET $3
	`, commentSortColumn(q.SortBy), sortOrder(q.SortDirection))

	rows, err := r.pool.Query(ctx, query, postID, q.PageSize, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.UserID, &c.UserLogin, &c.PostID, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	var totalCount int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&totalCount)
	if err != nil {
		return nil, 0, database.MapPostgresError(err)
	}

	return comments, totalCount, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT id, content, user_id, user_login, post_id, created_at
		FROM comments WHERE id = $1
	`

	var c models.Comment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Content, &c.UserID, &c.UserLogin, &c.PostID, &c.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &c, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	comment.ID = uuid.New().String()
	comment.CreatedAt = time.Now()

	query := `
		INSERT INTO comments (id, content, user_id, user_login, post_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		comment.ID, comment.Content, comment.UserID, comment.UserLogin, comment.PostID, comment.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return comment, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id, content string) error {
	result, err := r.pool.Exec(ctx, `UPDATE comments SET content = $1 WHERE id = $2`, content, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
