package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ovoronin/bloghub/internal/models"
)

// PostRepository defines the interface for post storage operations
type PostRepository interface {
	Find(ctx context.Context, q models.PageQuery, blogID string) ([]models.Post, int, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Update(ctx context.Context, id string, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// PostService handles post business logic. Every write checks the owning
// blog synchronously so a post can never reference a missing blog.
type PostService struct {
	repo     PostRepository
	blogRepo BlogRepository
	logger   *slog.Logger
}

func NewPostService(repo PostRepository, blogRepo BlogRepository, logger *slog.Logger) *PostService {
	return &PostService{repo: repo, blogRepo: blogRepo, logger: logger}
}

func (s *PostService) FindPosts(ctx context.Context, q models.PageQuery) (*models.Page[models.Post], error) {
	posts, totalCount, err := s.repo.Find(ctx, q, "")
	if err != nil {
		s.logger.Error("failed to list posts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return models.NewPage(q, totalCount, posts), nil
}

// FindPostsByBlogID lists a blog's posts; a missing blog reports not found.
func (s *PostService) FindPostsByBlogID(ctx context.Context, q models.PageQuery, blogID string) (*models.Page[models.Post], error) {
	if _, err := s.blogRepo.GetByID(ctx, blogID); err != nil {
		return nil, err
	}

	posts, totalCount, err := s.repo.Find(ctx, q, blogID)
	if err != nil {
		s.logger.Error("failed to list posts by blog", slog.String("blog_id", blogID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return models.NewPage(q, totalCount, posts), nil
}

func (s *PostService) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PostService) CreatePost(ctx context.Context, title, shortDescription, content, blogID string) (*models.Post, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.Create(ctx, &models.Post{
		Title:            title,
		ShortDescription: shortDescription,
		Content:          content,
		BlogID:           blog.ID,
		BlogName:         blog.Name,
	})
	if err != nil {
		s.logger.Error("failed to create post", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("post created", slog.String("post_id", post.ID), slog.String("blog_id", blog.ID))
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id, title, shortDescription, content, blogID string) error {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		return err
	}

	return s.repo.Update(ctx, id, &models.Post{
		Title:            title,
		ShortDescription: shortDescription,
		Content:          content,
		BlogID:           blog.ID,
		BlogName:         blog.Name,
	})
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
