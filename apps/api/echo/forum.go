package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nafasihq/nafasi/core/forum"
)

type forumApi struct {
	svc      *forum.Service
	validate *validator.Validate
}

func registerForumAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := forumApi{
		svc:      opts.ForumSvc,
		validate: opts.Validate,
	}

	// every authenticated user can participate
	fg := g.Group("/forum", jwt)
	fg.GET("/topics", api.queryTopics)
	fg.POST("/topics", api.createTopic)
	fg.GET("/topics/:id", api.retrieveTopic)
	fg.DELETE("/topics/:id", api.destroyTopic)
	fg.POST("/topics/:id/comments", api.addComment)
	fg.PUT("/comments/:id", api.editComment)
	fg.DELETE("/comments/:id", api.destroyComment)
}

func (api *forumApi) queryTopics(ctx echo.Context) error {
	topics, err := api.svc.QueryTopics(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying topics")
	}
	if topics == nil {
		topics = []forum.Topic{}
	}
	return ctx.JSON(http.StatusOK, topics)
}

func (api *forumApi) createTopic(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data forum.NewTopic
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTopic")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	topic, err := api.svc.CreateTopic(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating topic")
	}
	return ctx.JSON(http.StatusCreated, topic)
}

// retrieveTopic returns the topic with its full server-side reply tree.
func (api *forumApi) retrieveTopic(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	topic, err := api.svc.GetTopic(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == forum.ErrTopicNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting topic")
	}
	return ctx.JSON(http.StatusOK, topic)
}

func (api *forumApi) destroyTopic(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	if err := api.svc.DeleteTopic(ctx.Request().Context(), claims.Subject, claims.IsAdmin, id); err != nil {
		switch errors.Cause(err) {
		case forum.ErrTopicNotFound:
			return errHttpNotFound
		case forum.ErrNotAuthor:
			return errHttpForbidden
		}
		return errors.Wrap(err, "deleting topic")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *forumApi) addComment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	topicID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data forum.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	topic, err := api.svc.AddComment(ctx.Request().Context(), topicID, claims.Subject, data)
	if err != nil {
		switch errors.Cause(err) {
		case forum.ErrTopicNotFound, forum.ErrCommentNotFound:
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding comment")
	}
	return ctx.JSON(http.StatusCreated, topic)
}

func (api *forumApi) editComment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data forum.UpdateComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateComment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	topic, err := api.svc.EditComment(ctx.Request().Context(), id, claims.Subject, claims.IsAdmin, data)
	if err != nil {
		switch errors.Cause(err) {
		case forum.ErrCommentNotFound:
			return errHttpNotFound
		case forum.ErrNotAuthor:
			return errHttpForbidden
		}
		return errors.Wrap(err, "editing comment")
	}
	return ctx.JSON(http.StatusOK, topic)
}

func (api *forumApi) destroyComment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	topic, err := api.svc.DeleteComment(ctx.Request().Context(), id, claims.Subject, claims.IsAdmin)
	if err != nil {
		switch errors.Cause(err) {
		case forum.ErrCommentNotFound:
			return errHttpNotFound
		case forum.ErrNotAuthor:
			return errHttpForbidden
		}
		return errors.Wrap(err, "deleting comment")
	}
	return ctx.JSON(http.StatusOK, topic)
}
