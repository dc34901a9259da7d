package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name" form:"name" binding:"required"`
	Type string `json:"type" form:"type" binding:"required"` // income | expense
}

// idParam parses the :id path segment; writes a 400 and returns false on garbage.
func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// @Summary      List the user's categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, categories"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/categories [get]
// @Security     BearerAuth
func (h *Handler) listCategories(c *gin.Context) {
	userID := currentUserID(c)
	categories, err := h.services.Categories.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "categories_list_failed", "userId", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":      len(categories),
		"categories": categories,
	})
}

// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  categoryRequest  true  "Category"
// @Success      200  {object}  map[string]int  "id"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/categories [post]
// @Security     BearerAuth
func (h *Handler) createCategory(c *gin.Context) {
	var input categoryRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	userID := currentUserID(c)
	id, err := h.services.Categories.Create(c.Request.Context(), userID, input.Name, input.Type)
	if err != nil {
		h.respondError(c, err, "category_create_failed", "userId", userID, "name", input.Name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Rename or retype a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id    path  int              true  "Category ID"
// @Param        body  body  categoryRequest  true  "New fields"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/categories/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input categoryRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	userID := currentUserID(c)
	if err := h.services.Categories.Update(c.Request.Context(), userID, id, input.Name, input.Type); err != nil {
		h.respondError(c, err, "category_update_failed", "userId", userID, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// @Summary      Delete a category
// @Description  Blocked with 409 while transactions still reference it.
// @Tags         categories
// @Produce      json
// @Param        id  path  int  true  "Category ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/categories/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	userID := currentUserID(c)
	if err := h.services.Categories.Delete(c.Request.Context(), userID, id); err != nil {
		h.respondError(c, err, "category_delete_failed", "userId", userID, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
