package inmemdb

import (
	"context"
	"sort"

	"github.com/nafasihq/nafasi/core/forum"
)

type forumRepository struct {
	db *forumTable
}

var _ forum.Repository = (*forumRepository)(nil)

func NewForumRepository(db *DB) *forumRepository {
	return &forumRepository{db: db.frm}
}

func (repo *forumRepository) CreateTopic(_ context.Context, topic forum.Topic) (forum.Topic, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.topicSeq++
	topic.ID = repo.db.topicSeq
	repo.db.topics[topic.ID] = &topic
	return topic, nil
}

func (repo *forumRepository) QueryAllTopics(_ context.Context) ([]forum.Topic, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	topics := make([]forum.Topic, 0, len(repo.db.topics))
	for _, t := range repo.db.topics {
		topics = append(topics, *t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].CreatedAt.After(topics[j].CreatedAt) })
	return topics, nil
}

func (repo *forumRepository) GetTopicByID(_ context.Context, id int) (forum.Topic, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if topic, ok := repo.db.topics[id]; ok {
		return *topic, nil
	}
	return forum.Topic{}, forum.ErrTopicNotFound
}

func (repo *forumRepository) DeleteTopicsByID(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.topics, id)
		for cid, c := range repo.db.comments {
			if c.TopicID == id {
				delete(repo.db.comments, cid)
			}
		}
	}
	return nil
}

func (repo *forumRepository) CreateComment(_ context.Context, comment forum.Comment) (forum.Comment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.commentSeq++
	comment.ID = repo.db.commentSeq
	repo.db.comments[comment.ID] = &comment
	return comment, nil
}

func (repo *forumRepository) GetCommentByID(_ context.Context, id int) (forum.Comment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if comment, ok := repo.db.comments[id]; ok {
		return *comment, nil
	}
	return forum.Comment{}, forum.ErrCommentNotFound
}

func (repo *forumRepository) QueryCommentsByTopic(_ context.Context, topicID int) ([]forum.Comment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	comments := make([]forum.Comment, 0)
	for _, c := range repo.db.comments {
		if c.TopicID == topicID {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (repo *forumRepository) UpdateComment(_ context.Context, comment forum.Comment) (forum.Comment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.comments[comment.ID]
	if !ok {
		return forum.Comment{}, forum.ErrCommentNotFound
	}
	orig.Body = comment.Body
	orig.UpdatedAt = comment.UpdatedAt
	return *orig, nil
}

func (repo *forumRepository) DeleteComment(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.comments[id]; !ok {
		return forum.ErrCommentNotFound
	}
	repo.deleteSubtree(id)
	return nil
}

// deleteSubtree removes a comment and, recursively, all of its replies.
func (repo *forumRepository) deleteSubtree(id int) {
	delete(repo.db.comments, id)
	for cid, c := range repo.db.comments {
		if c.ParentID == id {
			repo.deleteSubtree(cid)
		}
	}
}
