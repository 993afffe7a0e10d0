package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, communityID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPostsByCommunity(ctx context.Context, viewerID uuid.UUID, communityID uuid.UUID) ([]dto.PostResponse, error)
	GetPostByID(ctx context.Context, viewerID uuid.UUID, postID uuid.UUID) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID, req dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error

	ToggleLike(ctx context.Context, userID uuid.UUID, postID uuid.UUID) (*dto.LikeResponse, error)

	CreateComment(ctx context.Context, userID uuid.UUID, postID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) error
}

type postService struct {
	postRepo      repository.PostRepository
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	activitySvc   ActivityService
	searchSvc     SearchService
	redisClient   *redis.Client
	postCooldown  time.Duration
}

func NewPostService(postRepo repository.PostRepository, communityRepo repository.CommunityRepository, userRepo repository.UserRepository, activitySvc ActivityService, searchSvc SearchService, redisClient *redis.Client, postCooldown time.Duration) PostService {
	if postCooldown <= 0 {
		postCooldown = 15 * time.Second
	}
	return &postService{
		postRepo:      postRepo,
		communityRepo: communityRepo,
		userRepo:      userRepo,
		activitySvc:   activitySvc,
		searchSvc:     searchSvc,
		redisClient:   redisClient,
		postCooldown:  postCooldown,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, communityID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "post", s.postCooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "post")
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you are posting too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ClearRateLimit(ctx, s.redisClient, userID, "post")
		}
	}()

	if _, err := s.communityRepo.FindByID(ctx, communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "community not found")
		}
		return nil, err
	}

	isMember, err := s.communityRepo.IsMember(ctx, userID, communityID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperror.Wrap(apperror.ErrForbidden, "you must be a member of the community to create posts")
	}

	post := &model.Post{
		Title:       req.Title,
		Content:     req.Content,
		Tags:        req.Tags,
		AuthorID:    userID,
		CommunityID: communityID,
		Published:   true,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	creationFailed = false

	if s.searchSvc != nil {
		if err := s.searchSvc.IndexPost(post); err != nil {
			log.Printf("Failed to index post %s: %v", post.ID, err)
		}
	}

	// Activity logging after the primary write. Failure loses the feed
	// entry but never the post.
	author, authorErr := s.userRepo.FindByID(ctx, userID)
	name := "Someone"
	if authorErr == nil {
		name = author.Name
	}
	if err := s.activitySvc.Record(ctx, RecordActivityParams{
		Type:        model.ActivityPostCreated,
		Content:     fmt.Sprintf("%s created a new post: %s", name, post.Title),
		UserID:      &userID,
		CommunityID: &communityID,
		PostID:      &post.ID,
	}); err != nil {
		log.Printf("Failed to record post_created activity for post %s: %v", post.ID, err)
	}

	if author != nil {
		post.Author = *author
	}
	resp := dto.NewPostResponse(post, 0, 0, false)
	return &resp, nil
}

func (s *postService) GetPostsByCommunity(ctx context.Context, viewerID uuid.UUID, communityID uuid.UUID) ([]dto.PostResponse, error) {
	posts, err := s.postRepo.FindByCommunityID(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	postIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	likeCounts, err := s.postRepo.CountLikesByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	commentCounts, err := s.postRepo.CountCommentsByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	likedByViewer := map[uuid.UUID]bool{}
	if viewerID != uuid.Nil {
		likedByViewer, err = s.postRepo.FindLikedPostIDs(ctx, viewerID, postIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch posts: %w", err)
		}
	}

	resp := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, dto.NewPostResponse(p, likeCounts[p.ID], commentCounts[p.ID], likedByViewer[p.ID]))
	}
	return resp, nil
}

func (s *postService) GetPostByID(ctx context.Context, viewerID uuid.UUID, postID uuid.UUID) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "post not found")
		}
		return nil, err
	}

	likeCount, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.postRepo.FindCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	likedByMe := false
	if viewerID != uuid.Nil {
		likedByMe, err = s.postRepo.IsLiked(ctx, viewerID, postID)
		if err != nil {
			return nil, err
		}
	}

	resp := dto.NewPostResponse(post, likeCount, int64(len(comments)), likedByMe)
	resp.Comments = make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp.Comments = append(resp.Comments, dto.NewCommentResponse(c))
	}
	return &resp, nil
}

func (s *postService) UpdatePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "post not found")
		}
		return nil, err
	}

	if post.AuthorID != userID {
		return nil, apperror.Wrap(apperror.ErrForbidden, "you can only edit your own posts")
	}

	post.Title = req.Title
	post.Content = req.Content
	if req.Tags != nil {
		post.Tags = req.Tags
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if s.searchSvc != nil {
		if err := s.searchSvc.IndexPost(post); err != nil {
			log.Printf("Failed to reindex post %s: %v", post.ID, err)
		}
	}

	return s.GetPostByID(ctx, userID, postID)
}

func (s *postService) DeletePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Wrap(apperror.ErrNotFound, "post not found")
		}
		return err
	}

	if post.AuthorID != userID {
		isAdmin, err := s.communityRepo.IsAdmin(ctx, userID, post.CommunityID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return apperror.Wrap(apperror.ErrForbidden, "you don't have permission to delete this post")
		}
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if s.searchSvc != nil {
		if err := s.searchSvc.DeletePost(postID.String()); err != nil {
			log.Printf("Failed to remove post %s from search index: %v", postID, err)
		}
	}

	return nil
}

// ToggleLike flips the viewer's like on a post. The unique (user, post)
// index resolves the concurrent double-like race: the losing writer's
// duplicate-key error is treated as "already liked".
func (s *postService) ToggleLike(ctx context.Context, userID uuid.UUID, postID uuid.UUID) (*dto.LikeResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "post not found")
		}
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.postRepo.DeleteLike(ctx, userID, postID); err != nil {
			return nil, fmt.Errorf("failed to unlike post: %w", err)
		}
		// Unlike never records an activity.
		return &dto.LikeResponse{Liked: false}, nil
	}

	if err := s.postRepo.CreateLike(ctx, &model.Like{UserID: userID, PostID: postID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &dto.LikeResponse{Liked: true}, nil
		}
		return nil, fmt.Errorf("failed to like post: %w", err)
	}

	// No notification when the author likes their own post.
	if post.AuthorID != userID {
		user, userErr := s.userRepo.FindByID(ctx, userID)
		name := "Someone"
		if userErr == nil {
			name = user.Name
		}
		if err := s.activitySvc.Record(ctx, RecordActivityParams{
			Type:        model.ActivityPostLiked,
			Content:     fmt.Sprintf("%s liked your post: %s", name, post.Title),
			UserID:      &userID,
			CommunityID: &post.CommunityID,
			PostID:      &postID,
			RecipientID: &post.AuthorID,
		}); err != nil {
			log.Printf("Failed to record post_liked activity for post %s: %v", postID, err)
		}
	}

	return &dto.LikeResponse{Liked: true}, nil
}

func (s *postService) CreateComment(ctx context.Context, userID uuid.UUID, postID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "comment cannot be empty")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "post not found")
		}
		return nil, err
	}

	comment := &model.Comment{
		Content:  req.Content,
		AuthorID: userID,
		PostID:   postID,
	}
	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	// No notification when the author comments on their own post.
	if post.AuthorID != userID {
		user, userErr := s.userRepo.FindByID(ctx, userID)
		name := "Someone"
		if userErr == nil {
			name = user.Name
		}
		if err := s.activitySvc.Record(ctx, RecordActivityParams{
			Type:        model.ActivityPostCommented,
			Content:     fmt.Sprintf("%s commented on your post: %s", name, post.Title),
			UserID:      &userID,
			CommunityID: &post.CommunityID,
			PostID:      &postID,
			RecipientID: &post.AuthorID,
		}); err != nil {
			log.Printf("Failed to record post_commented activity for post %s: %v", postID, err)
		}
	}

	created, err := s.postRepo.FindCommentByID(ctx, comment.ID)
	if err != nil {
		resp := dto.NewCommentResponse(comment)
		return &resp, nil
	}
	resp := dto.NewCommentResponse(created)
	return &resp, nil
}

func (s *postService) UpdateComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.postRepo.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "comment not found")
		}
		return nil, err
	}

	if comment.AuthorID != userID {
		return nil, apperror.Wrap(apperror.ErrForbidden, "you can only edit your own comments")
	}

	comment.Content = req.Content
	if err := s.postRepo.UpdateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	resp := dto.NewCommentResponse(comment)
	return &resp, nil
}

func (s *postService) DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) error {
	comment, err := s.postRepo.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Wrap(apperror.ErrNotFound, "comment not found")
		}
		return err
	}

	if comment.AuthorID != userID {
		isAdmin, err := s.communityRepo.IsAdmin(ctx, userID, comment.Post.CommunityID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return apperror.Wrap(apperror.ErrForbidden, "you don't have permission to delete this comment")
		}
	}

	if err := s.postRepo.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
