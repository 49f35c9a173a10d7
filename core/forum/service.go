package forum

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrTopicNotFound   = errors.New("topic not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAuthor       = errors.New("only the author can modify this")
)

type (
	Repository interface {
		CreateTopic(ctx context.Context, topic Topic) (Topic, error)
		QueryAllTopics(ctx context.Context) ([]Topic, error)
		GetTopicByID(ctx context.Context, id int) (Topic, error)
		DeleteTopicsByID(ctx context.Context, ids ...int) error

		CreateComment(ctx context.Context, comment Comment) (Comment, error)
		GetCommentByID(ctx context.Context, id int) (Comment, error)
		QueryCommentsByTopic(ctx context.Context, topicID int) ([]Comment, error)
		UpdateComment(ctx context.Context, comment Comment) (Comment, error)
		// DeleteComment removes the comment and its whole reply subtree.
		DeleteComment(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateTopic(ctx context.Context, authorID string, nt NewTopic) (Topic, error) {
	now := time.Now().UTC()
	return svc.repo.CreateTopic(ctx, Topic{
		Title:     nt.Title,
		Body:      nt.Body,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryTopics(ctx context.Context) ([]Topic, error) {
	return svc.repo.QueryAllTopics(ctx)
}

// GetTopic returns the topic with its full reply tree. The tree is always
// rebuilt from the stored comments so callers see the server-confirmed
// state after every mutation.
func (svc *Service) GetTopic(ctx context.Context, id int) (Topic, error) {
	topic, err := svc.repo.GetTopicByID(ctx, id)
	if err != nil {
		return Topic{}, err
	}
	comments, err := svc.repo.QueryCommentsByTopic(ctx, id)
	if err != nil {
		return Topic{}, err
	}
	topic.Comments = BuildTree(comments)
	return topic, nil
}

func (svc *Service) DeleteTopic(ctx context.Context, authorID string, isAdmin bool, id int) error {
	topic, err := svc.repo.GetTopicByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && topic.AuthorID != authorID {
		return ErrNotAuthor
	}
	return svc.repo.DeleteTopicsByID(ctx, id)
}

// AddComment appends a comment (or a reply when ParentID is set) and returns
// the topic's refreshed tree.
func (svc *Service) AddComment(ctx context.Context, topicID int, authorID string, nc NewComment) (Topic, error) {
	if _, err := svc.repo.GetTopicByID(ctx, topicID); err != nil {
		return Topic{}, err
	}
	if nc.ParentID != 0 {
		parent, err := svc.repo.GetCommentByID(ctx, nc.ParentID)
		if err != nil {
			return Topic{}, err
		}
		if parent.TopicID != topicID {
			return Topic{}, ErrCommentNotFound
		}
	}

	now := time.Now().UTC()
	_, err := svc.repo.CreateComment(ctx, Comment{
		TopicID:   topicID,
		ParentID:  nc.ParentID,
		AuthorID:  authorID,
		Body:      nc.Body,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Topic{}, err
	}
	return svc.GetTopic(ctx, topicID)
}

// EditComment updates a comment's body and returns the refreshed tree.
func (svc *Service) EditComment(ctx context.Context, commentID int, authorID string, isAdmin bool, uc UpdateComment) (Topic, error) {
	comment, err := svc.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return Topic{}, err
	}
	if !isAdmin && comment.AuthorID != authorID {
		return Topic{}, ErrNotAuthor
	}

	comment.Body = uc.Body
	comment.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateComment(ctx, comment); err != nil {
		return Topic{}, err
	}
	return svc.GetTopic(ctx, comment.TopicID)
}

// DeleteComment removes a comment and its reply subtree and returns the
// refreshed tree.
func (svc *Service) DeleteComment(ctx context.Context, commentID int, authorID string, isAdmin bool) (Topic, error) {
	comment, err := svc.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return Topic{}, err
	}
	if !isAdmin && comment.AuthorID != authorID {
		return Topic{}, ErrNotAuthor
	}
	if err = svc.repo.DeleteComment(ctx, commentID); err != nil {
		return Topic{}, err
	}
	return svc.GetTopic(ctx, comment.TopicID)
}
