package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type signUpRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type signInRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  signUpRequest  true  "Credentials"
// @Success      200  {object}  map[string]int  "id"
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_sign_up_failed", "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Sign in and receive a session token
// @Description  The token is also set as a session cookie for the page routes.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  signInRequest  true  "Credentials"
// @Success      200  {object}  map[string]string  "token"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.SignIn(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_sign_in_failed", "username", input.Username)
		return
	}

	h.setSessionCookie(c, token, 0)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Sign out
// @Description  Invalidates the session behind the presented token.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/sign-out [post]
func (h *Handler) signOut(c *gin.Context) {
	token := extractToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
		return
	}

	if err := h.services.SignOut(c.Request.Context(), token); err != nil {
		h.respondError(c, err, "auth_sign_out_failed")
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}

// @Summary      Delete the account and everything it owns
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/account [delete]
// @Security     BearerAuth
func (h *Handler) deleteAccount(c *gin.Context) {
	userID := currentUserID(c)
	if err := h.services.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.respondError(c, err, "account_delete_failed", "userId", userID)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "account_deleted"})
}
