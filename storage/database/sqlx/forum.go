package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/nafasihq/nafasi/core/forum"
)

type topicRow struct {
	ID        int       `db:"id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	AuthorID  string    `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r topicRow) unmarshal() forum.Topic {
	return forum.Topic{
		ID:        r.ID,
		Title:     r.Title,
		Body:      r.Body,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type commentRow struct {
	ID        int       `db:"id"`
	TopicID   int       `db:"topic_id"`
	ParentID  int       `db:"parent_id"`
	AuthorID  string    `db:"author_id"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r commentRow) unmarshal() forum.Comment {
	return forum.Comment{
		ID:        r.ID,
		TopicID:   r.TopicID,
		ParentID:  r.ParentID,
		AuthorID:  r.AuthorID,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type forumRepository struct {
	db *sqlx.DB
}

var _ forum.Repository = (*forumRepository)(nil)

func NewForumRepository(db *sqlx.DB) *forumRepository {
	return &forumRepository{db: db}
}

func (repo *forumRepository) CreateTopic(ctx context.Context, topic forum.Topic) (forum.Topic, error) {
	query := `
		INSERT INTO topic (title, body, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`
	var row topicRow
	err := repo.db.GetContext(
		ctx, &row, query,
		topic.Title, topic.Body, topic.AuthorID,
		topic.CreatedAt.UTC(), topic.UpdatedAt.UTC(),
	)
	if err != nil {
		return forum.Topic{}, errors.Wrap(err, "creating topic")
	}
	return row.unmarshal(), nil
}

func (repo *forumRepository) QueryAllTopics(ctx context.Context) ([]forum.Topic, error) {
	var rows []topicRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM topic ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying topics")
	}
	topics := make([]forum.Topic, 0, len(rows))
	for _, row := range rows {
		topics = append(topics, row.unmarshal())
	}
	return topics, nil
}

func (repo *forumRepository) GetTopicByID(ctx context.Context, id int) (forum.Topic, error) {
	var row topicRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM topic WHERE id = $1`, id); err != nil {
		return forum.Topic{}, trapNoRowsErr(err, forum.ErrTopicNotFound, "getting topic")
	}
	return row.unmarshal(), nil
}

func (repo *forumRepository) DeleteTopicsByID(ctx context.Context, ids ...int) error {
	// comments cascade at the schema level
	_, err := repo.db.ExecContext(ctx, `DELETE FROM topic WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting topics")
}

func (repo *forumRepository) CreateComment(ctx context.Context, comment forum.Comment) (forum.Comment, error) {
	query := `
		INSERT INTO comment (topic_id, parent_id, author_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *`
	var row commentRow
	err := repo.db.GetContext(
		ctx, &row, query,
		comment.TopicID, comment.ParentID, comment.AuthorID, comment.Body,
		comment.CreatedAt.UTC(), comment.UpdatedAt.UTC(),
	)
	if err != nil {
		return forum.Comment{}, errors.Wrap(err, "creating comment")
	}
	return row.unmarshal(), nil
}

func (repo *forumRepository) GetCommentByID(ctx context.Context, id int) (forum.Comment, error) {
	var row commentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM comment WHERE id = $1`, id); err != nil {
		return forum.Comment{}, trapNoRowsErr(err, forum.ErrCommentNotFound, "getting comment")
	}
	return row.unmarshal(), nil
}

func (repo *forumRepository) QueryCommentsByTopic(ctx context.Context, topicID int) ([]forum.Comment, error) {
	var rows []commentRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM comment WHERE topic_id = $1 ORDER BY created_at`, topicID)
	if err != nil {
		return nil, errors.Wrap(err, "querying comments")
	}
	comments := make([]forum.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.unmarshal())
	}
	return comments, nil
}

func (repo *forumRepository) UpdateComment(ctx context.Context, comment forum.Comment) (forum.Comment, error) {
	query := `
		UPDATE comment SET body = $1, updated_at = $2
		WHERE id = $3
		RETURNING *`
	var row commentRow
	if err := repo.db.GetContext(ctx, &row, query, comment.Body, comment.UpdatedAt.UTC(), comment.ID); err != nil {
		return forum.Comment{}, trapNoRowsErr(err, forum.ErrCommentNotFound, "updating comment")
	}
	return row.unmarshal(), nil
}

func (repo *forumRepository) DeleteComment(ctx context.Context, id int) error {
	// walk the reply subtree and remove it with the comment
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM comment WHERE id = $1
			UNION ALL
			SELECT c.id FROM comment c JOIN subtree s ON c.parent_id = s.id
		)
		DELETE FROM comment WHERE id IN (SELECT id FROM subtree)`
	_, err := repo.db.ExecContext(ctx, query, id)
	return errors.Wrap(err, "deleting comment subtree")
}
