package service

import (
	"context"
	"errors"
	"strings"

	"multiuser_blog/internal/logger"
	"multiuser_blog/internal/models"
	"multiuser_blog/internal/repository"
)

type PostService struct {
	posts repository.PostRepo
	feed  FeedPublisher
	audit auditor
	log   *logger.Logger
}

func NewPostService(posts repository.PostRepo, feed FeedPublisher, events repository.EventRepo, log *logger.Logger) *PostService {
	if feed == nil {
		feed = nopPublisher{}
	}
	return &PostService{
		posts: posts,
		feed:  feed,
		audit: auditor{events: events, log: log},
		log:   log,
	}
}

func (s *PostService) Create(ctx context.Context, id models.Identity, title, body string) (int, error) {
	if !id.Authenticated {
		return 0, models.ErrNotAuthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, models.ErrEmptyTitle
	}

	postID, err := s.posts.Create(ctx, id.UserID, title, body)
	if err != nil {
		return 0, err
	}
	s.audit.record(ctx, id.UserID, models.EventPostCreate, "post created", map[string]any{"post_id": postID})
	s.publish(ctx, models.FeedPostCreated, postID)
	return postID, nil
}

func (s *PostService) Get(ctx context.Context, postID int) (models.Post, error) {
	return s.posts.GetByID(ctx, postID)
}

// List is the public feed, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.posts.ListAll(ctx)
}

func (s *PostService) Update(ctx context.Context, id models.Identity, postID int, title, body string) (models.Post, error) {
	if err := s.authorize(ctx, id, postID, "update"); err != nil {
		return models.Post{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Post{}, models.ErrEmptyTitle
	}

	if err := s.posts.Update(ctx, postID, id.UserID, title, body); err != nil {
		s.denied(ctx, id, postID, "update", err)
		return models.Post{}, err
	}
	s.audit.record(ctx, id.UserID, models.EventPostUpdate, "post updated", map[string]any{"post_id": postID})

	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.Post{}, err
	}
	s.feed.Publish(models.FeedEvent{Type: models.FeedPostUpdated, PostID: postID, Post: &p})
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id models.Identity, postID int) error {
	if err := s.authorize(ctx, id, postID, "delete"); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID, id.UserID); err != nil {
		s.denied(ctx, id, postID, "delete", err)
		return err
	}
	s.audit.record(ctx, id.UserID, models.EventPostDelete, "post deleted", map[string]any{"post_id": postID})
	s.feed.Publish(models.FeedEvent{Type: models.FeedPostDeleted, PostID: postID})
	return nil
}

// authorize runs the guard against the stored owner. Anonymous requesters
// are rejected before the lookup so they never learn whether a post exists.
func (s *PostService) authorize(ctx context.Context, id models.Identity, postID int, op string) error {
	if !id.Authenticated {
		return models.ErrNotAuthenticated
	}
	current, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := AuthorizeMutation(id, current.AuthorID); err != nil {
		s.denied(ctx, id, postID, op, err)
		return err
	}
	return nil
}

func (s *PostService) denied(ctx context.Context, id models.Identity, postID int, op string, err error) {
	if !errors.Is(err, models.ErrNotOwner) {
		return
	}
	s.log.Infow("post_"+op+"_denied", "post_id", postID, "user_id", id.UserID)
	s.audit.record(ctx, id.UserID, models.EventMutationDenied, "mutation denied",
		map[string]any{"post_id": postID, "op": op})
}

func (s *PostService) publish(ctx context.Context, typ string, postID int) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		s.log.Warnw("feed_publish_skipped", "post_id", postID, "error", err)
		return
	}
	s.feed.Publish(models.FeedEvent{Type: typ, PostID: postID, Post: &p})
}
