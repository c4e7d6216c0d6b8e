package services

import (
	"context"
	"log/slog"

	"github.com/ovoronin/bloghub/internal/models"
)

// CommentRepository defines the interface for comment storage operations
type CommentRepository interface {
	FindByPostID(ctx context.Context, q models.PageQuery, postID string) ([]models.Comment, int, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// CommentService handles comment business logic. Writes on an existing
// comment are allowed only for its author.
type CommentService struct {
	repo     CommentRepository
	postRepo PostRepository
	userRepo UserAccountRepository
	logger   *slog.Logger
}

func NewCommentService(repo CommentRepository, postRepo PostRepository, userRepo UserAccountRepository, logger *slog.Logger) *CommentService {
	return &CommentService{repo: repo, postRepo: postRepo, userRepo: userRepo, logger: logger}
}

// FindCommentsByPostID lists a post's comments; a missing post reports not found.
func (s *CommentService) FindCommentsByPostID(ctx context.Context, q models.PageQuery, postID string) (*models.Page[models.Comment], error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, totalCount, err := s.repo.FindByPostID(ctx, q, postID)
	if err != nil {
		s.logger.Error("failed to list comments", slog.String("post_id", postID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return models.NewPage(q, totalCount, comments), nil
}

func (s *CommentService) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateComment attaches a comment with the caller's identity to an existing
// post. The commentator login is denormalized at write time.
func (s *CommentService) CreateComment(ctx context.Context, postID, content, userID string) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to resolve comment author", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}

	comment, err := s.repo.Create(ctx, &models.Comment{
		Content:   content,
		UserID:    userID,
		UserLogin: author.Login,
		PostID:    postID,
	})
	if err != nil {
		s.logger.Error("failed to create comment", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("comment created", slog.String("comment_id", comment.ID), slog.String("post_id", postID))
	return comment, nil
}

// UpdateComment rewrites the content; only the author may do so.
func (s *CommentService) UpdateComment(ctx context.Context, id, content, callerID string) error {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if comment.UserID != callerID {
		return models.ErrForbidden
	}

	return s.repo.UpdateContent(ctx, id, content)
}

// DeleteComment removes the comment; only the author may do so.
func (s *CommentService) DeleteComment(ctx context.Context, id, callerID string) error {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if comment.UserID != callerID {
		return models.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}
