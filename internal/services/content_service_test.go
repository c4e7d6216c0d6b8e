package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/ovoronin/bloghub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogService_FindBlogs_PageMath(t *testing.T) {
	repo := &MockBlogRepository{
		FindFunc: func(ctx context.Context, q models.PageQuery) ([]models.Blog, int, error) {
			return []models.Blog{{ID: "b1"}, {ID: "b2"}}, 12, nil
		},
	}

	svc := NewBlogService(repo, slog.Default())

	page, err := svc.FindBlogs(context.Background(), models.PageQuery{PageNumber: 2, PageSize: 5})

	require.NoError(t, err)
	assert.Equal(t, 3, page.PagesCount)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, 12, page.TotalCount)
	assert.Len(t, page.Items, 2)
}

func TestPostService_CreatePost_DenormalizesBlogName(t *testing.T) {
	blogRepo := &MockBlogRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Blog, error) {
			return &models.Blog{ID: id, Name: "Travel Blog"}, nil
		},
	}

	var created *models.Post
	postRepo := &MockPostRepository{
		CreateFunc: func(ctx context.Context, post *models.Post) (*models.Post, error) {
			created = post
			return post, nil
		},
	}

	svc := NewPostService(postRepo, blogRepo, slog.Default())

	post, err := svc.CreatePost(context.Background(), "Title", "Short", "Content", "blog-1")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Travel Blog", post.BlogName)
	assert.Equal(t, "blog-1", post.BlogID)
}

func TestPostService_CreatePost_MissingBlog(t *testing.T) {
	svc := NewPostService(&MockPostRepository{}, &MockBlogRepository{}, slog.Default())

	post, err := svc.CreatePost(context.Background(), "Title", "Short", "Content", "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, post)
}

func TestPostService_FindPostsByBlogID_MissingBlog(t *testing.T) {
	svc := NewPostService(&MockPostRepository{}, &MockBlogRepository{}, slog.Default())

	page, err := svc.FindPostsByBlogID(context.Background(), models.PageQuery{PageNumber: 1, PageSize: 10}, "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, page)
}

func TestCommentService_CreateComment_DenormalizesAuthorLogin(t *testing.T) {
	postRepo := &MockPostRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
	}
	userRepo := &MockUserAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.UserAccount, error) {
			return &models.UserAccount{ID: id, Login: "alice"}, nil
		},
	}
	commentRepo := &MockCommentRepository{
		CreateFunc: func(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
			comment.ID = "c1"
			return comment, nil
		},
	}

	svc := NewCommentService(commentRepo, postRepo, userRepo, slog.Default())

	comment, err := svc.CreateComment(context.Background(), "post-1", "a perfectly valid comment body", "user-1")

	require.NoError(t, err)
	assert.Equal(t, "alice", comment.UserLogin)
	assert.Equal(t, "user-1", comment.UserID)
}

func TestCommentService_UpdateComment_OwnerOnly(t *testing.T) {
	commentRepo := &MockCommentRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: "owner"}, nil
		},
	}

	svc := NewCommentService(commentRepo, &MockPostRepository{}, &MockUserAccountRepository{}, slog.Default())

	err := svc.UpdateComment(context.Background(), "c1", "replacement content that is long enough", "intruder")
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = svc.UpdateComment(context.Background(), "c1", "replacement content that is long enough", "owner")
	assert.NoError(t, err)
}

func TestCommentService_DeleteComment_OwnerOnly(t *testing.T) {
	commentRepo := &MockCommentRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: "owner"}, nil
		},
	}

	svc := NewCommentService(commentRepo, &MockPostRepository{}, &MockUserAccountRepository{}, slog.Default())

	err := svc.DeleteComment(context.Background(), "c1", "intruder")
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = svc.DeleteComment(context.Background(), "c1", "owner")
	assert.NoError(t, err)
}

func TestUserService_CreateUser_BornConfirmed(t *testing.T) {
	var created *models.UserAccount
	repo := &MockUserAccountRepository{
		CreateFunc: func(ctx context.Context, account *models.UserAccount) (*models.UserAccount, error) {
			account.ID = "user-9"
			created = account
			return account, nil
		},
	}

	svc := NewUserService(repo, slog.Default())

	view, err := svc.CreateUser(context.Background(), "admin2", "admin2@example.com", "secret123")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.EmailConfirmation.IsConfirmed)
	assert.Equal(t, "user-9", view.ID)
	assert.Equal(t, "admin2", view.Login)
}

func TestUserService_CreateUser_DuplicateLogin(t *testing.T) {
	repo := &MockUserAccountRepository{
		GetByLoginFunc: func(ctx context.Context, login string) (*models.UserAccount, error) {
			return &models.UserAccount{ID: "existing"}, nil
		},
	}

	svc := NewUserService(repo, slog.Default())

	view, err := svc.CreateUser(context.Background(), "taken", "new@example.com", "secret123")

	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Nil(t, view)
}
