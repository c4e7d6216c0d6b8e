package services

import (
	"context"
	"log/slog"

	"github.com/ovoronin/bloghub/internal/models"
)

// BlogRepository defines the interface for blog storage operations
type BlogRepository interface {
	Find(ctx context.Context, q models.PageQuery) ([]models.Blog, int, error)
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	Create(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	Update(ctx context.Context, id string, blog *models.Blog) error
	Delete(ctx context.Context, id string) error
}

// BlogService handles blog business logic
type BlogService struct {
	repo   BlogRepository
	logger *slog.Logger
}

func NewBlogService(repo BlogRepository, logger *slog.Logger) *BlogService {
	return &BlogService{repo: repo, logger: logger}
}

func (s *BlogService) FindBlogs(ctx context.Context, q models.PageQuery) (*models.Page[models.Blog], error) {
	blogs, totalCount, err := s.repo.Find(ctx, q)
	if err != nil {
		s.logger.Error("failed to list blogs", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return models.NewPage(q, totalCount, blogs), nil
}

func (s *BlogService) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BlogService) CreateBlog(ctx context.Context, name, websiteURL string) (*models.Blog, error) {
	blog, err := s.repo.Create(ctx, &models.Blog{Name: name, WebsiteURL: websiteURL})
	if err != nil {
		s.logger.Error("failed to create blog", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("blog created", slog.String("blog_id", blog.ID))
	return blog, nil
}

func (s *BlogService) UpdateBlog(ctx context.Context, id, name, websiteURL string) error {
	return s.repo.Update(ctx, id, &models.Blog{Name: name, WebsiteURL: websiteURL})
}

func (s *BlogService) DeleteBlog(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
