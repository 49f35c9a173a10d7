package forum

import (
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nafasihq/nafasi/core"
)

type (
	// Topic is a discussion thread.
	Topic struct {
		ID        int       `json:"id"`
		Title     string    `json:"title"`
		AuthorID  string    `json:"author_id"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC

		// Comments is the nested reply tree, only populated on detail reads.
		Comments []Comment `json:"comments,omitempty"`
	}

	// Comment is one node of a topic's reply tree. Top-level comments have
	// ParentID 0.
	Comment struct {
		ID        int       `json:"id"`
		TopicID   int       `json:"topic_id"`
		ParentID  int       `json:"parent_id"`
		AuthorID  string    `json:"author_id"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC

		Replies []Comment `json:"replies,omitempty"`
	}
)

type NewTopic struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

func (nt *NewTopic) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Body = core.CleanString(nt.Body)
	return validate.Struct(nt)
}

type NewComment struct {
	ParentID int    `json:"parent_id"`
	Body     string `json:"body" validate:"required"`
}

func (nc *NewComment) Validate(validate *validator.Validate) error {
	nc.Body = core.CleanString(nc.Body)
	return validate.Struct(nc)
}

type UpdateComment struct {
	Body string `json:"body" validate:"required"`
}

func (uc *UpdateComment) Validate(validate *validator.Validate) error {
	uc.Body = core.CleanString(uc.Body)
	return validate.Struct(uc)
}

// BuildTree nests a flat comment list into a reply tree, ordered by
// creation time at every level. The input is not mutated.
func BuildTree(comments []Comment) []Comment {
	children := make(map[int][]Comment, len(comments))
	for _, c := range comments {
		c.Replies = nil
		children[c.ParentID] = append(children[c.ParentID], c)
	}

	var build func(parentID int) []Comment
	build = func(parentID int) []Comment {
		nodes := children[parentID]
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].CreatedAt.Before(nodes[j].CreatedAt) })
		out := make([]Comment, 0, len(nodes))
		for _, node := range nodes {
			node.Replies = build(node.ID)
			out = append(out, node)
		}
		return out
	}
	return build(0)
}
