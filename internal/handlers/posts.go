package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type postInput struct {
	Title string `form:"title" json:"title"`
	Body  string `form:"body" json:"body"`
}

const (
	statusDeleted = "deleted"

	errInvalidPostID = "invalid post id"
)

// postID parses the :id path parameter and writes a 400 when it is not a positive integer.
func postID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidPostID})
		return 0, false
	}
	return id, true
}

// @Summary      Public feed
// @Description  All posts, newest first.
// @Tags         posts
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, posts"
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.services.Posts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "posts_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(posts),
		"posts": posts,
	})
}

// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "post id"
// @Success      200  {object}  models.Post
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *Handler) getPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	p, err := h.services.Posts.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "posts_get_failed", "post_id", id)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Create post
// @Tags         posts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        input  body  postInput  true  "title and body"
// @Success      201  {object}  map[string]int  "id"
// @Failure      303  "not logged in"
// @Failure      400  {object}  map[string]string
// @Router       /posts [post]
// @Security     SessionCookie
func (h *Handler) createPost(c *gin.Context) {
	var input postInput
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}
	id, err := h.services.Posts.Create(c.Request.Context(), identityFrom(c), input.Title, input.Body)
	if err != nil {
		h.respondError(c, err, "posts_create_failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// @Summary      Update post
// @Description  Only the author may update a post.
// @Tags         posts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id     path  int        true  "post id"
// @Param        input  body  postInput  true  "title and body"
// @Success      200  {object}  models.Post
// @Failure      303  "not logged in"
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [put]
// @Security     SessionCookie
func (h *Handler) updatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	var input postInput
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}
	p, err := h.services.Posts.Update(c.Request.Context(), identityFrom(c), id, input.Title, input.Body)
	if err != nil {
		h.respondError(c, err, "posts_update_failed", "post_id", id)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete post
// @Description  Only the author may delete a post.
// @Tags         posts
// @Produce      json
// @Param        id   path  int  true  "post id"
// @Success      200  {object}  map[string]string
// @Failure      303  "not logged in"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
// @Security     SessionCookie
func (h *Handler) deletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	if err := h.services.Posts.Delete(c.Request.Context(), identityFrom(c), id); err != nil {
		h.respondError(c, err, "posts_delete_failed", "post_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted, "id": id})
}
