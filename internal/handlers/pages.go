package handlers

import (
	"net/http"
	"net/url"

	"budget_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Server-rendered pages. Same services as the JSON API; domain errors come
// back as flash messages instead of status bodies, and anonymous visitors
// are redirected to /login by pageIdentity.

func (h *Handler) homePage(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{})
}

func (h *Handler) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Error": c.Query("err"), "Username": "", "Email": ""})
}

func (h *Handler) registerSubmit(c *gin.Context) {
	var input signUpRequest
	if err := c.ShouldBind(&input); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "all fields are required", "Username": "", "Email": ""})
		return
	}

	_, err := h.services.SignUp(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		code, msg := domainStatus(err)
		c.HTML(code, "register.html", gin.H{"Error": msg, "Username": input.Username, "Email": input.Email})
		return
	}

	c.Redirect(http.StatusFound, "/login?msg="+url.QueryEscape("account created, sign in"))
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Message": c.Query("msg"), "Username": ""})
}

func (h *Handler) loginSubmit(c *gin.Context) {
	var input signInRequest
	if err := c.ShouldBind(&input); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": "username and password are required", "Username": ""})
		return
	}

	token, err := h.services.SignIn(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		code, msg := domainStatus(err)
		c.HTML(code, "login.html", gin.H{"Error": msg, "Username": input.Username})
		return
	}

	h.setSessionCookie(c, token, 0)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) logoutSubmit(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil && token != "" {
		if err := h.services.SignOut(c.Request.Context(), token); err != nil && h.log != nil {
			h.log.Infow("page_sign_out_failed", "err", err)
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) dashboardPage(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	user, err := h.services.GetUser(ctx, userID)
	if err != nil {
		h.renderDashboardError(c, err, "dashboard_user_failed", userID)
		return
	}
	categories, err := h.services.Categories.List(ctx, userID)
	if err != nil {
		h.renderDashboardError(c, err, "dashboard_categories_failed", userID)
		return
	}
	transactions, totals, err := h.services.Transactions.List(ctx, userID, service.TxFilter{})
	if err != nil {
		h.renderDashboardError(c, err, "dashboard_transactions_failed", userID)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Username":     user.Username,
		"Categories":   categories,
		"Transactions": transactions,
		"Totals":       totals,
		"Error":        c.Query("err"),
		"Message":      c.Query("msg"),
	})
}

func (h *Handler) dashboardCreateCategory(c *gin.Context) {
	var input categoryRequest
	if err := c.ShouldBind(&input); err != nil {
		h.redirectDashboard(c, "name and type are required", "")
		return
	}

	userID := currentUserID(c)
	if _, err := h.services.Categories.Create(c.Request.Context(), userID, input.Name, input.Type); err != nil {
		_, msg := domainStatus(err)
		h.redirectDashboard(c, msg, "")
		return
	}
	h.redirectDashboard(c, "", "category created")
}

func (h *Handler) dashboardCreateTransaction(c *gin.Context) {
	var input transactionRequest
	if err := c.ShouldBind(&input); err != nil {
		h.redirectDashboard(c, "category and amount are required", "")
		return
	}
	p, err := input.params()
	if err != nil {
		h.redirectDashboard(c, "invalid date", "")
		return
	}

	userID := currentUserID(c)
	if _, err := h.services.Transactions.Create(c.Request.Context(), userID, p); err != nil {
		_, msg := domainStatus(err)
		h.redirectDashboard(c, msg, "")
		return
	}
	h.redirectDashboard(c, "", "transaction recorded")
}

func (h *Handler) renderDashboardError(c *gin.Context, err error, logKey string, userID int) {
	if h.log != nil {
		h.log.Errorw(logKey, "err", err, "userId", userID)
	}
	c.HTML(http.StatusInternalServerError, "dashboard.html", gin.H{"Error": errStorage})
}

func (h *Handler) redirectDashboard(c *gin.Context, errMsg, msg string) {
	target := "/dashboard"
	switch {
	case errMsg != "":
		target += "?err=" + url.QueryEscape(errMsg)
	case msg != "":
		target += "?msg=" + url.QueryEscape(msg)
	}
	c.Redirect(http.StatusFound, target)
}
