package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adiwidodo/member-portal/internal/application"
	"github.com/adiwidodo/member-portal/internal/domain/entity"
	"github.com/adiwidodo/member-portal/pkg/render"
	"github.com/adiwidodo/member-portal/pkg/validation"
)

type UserTypeHandler struct {
	Svc    *application.UserTypeService
	Logger *logrus.Logger
}

func NewUserTypeHandler(svc *application.UserTypeService, logger *logrus.Logger) *UserTypeHandler {
	return &UserTypeHandler{Svc: svc, Logger: logger}
}

type userTypeForm struct {
	Name string `form:"name" binding:"required,max=20"`
}

func (h *UserTypeHandler) List(c *gin.Context) {
	types, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list user types failed")
		render.HTML(c, http.StatusInternalServerError, "500.html", nil)
		return
	}
	render.HTML(c, http.StatusOK, "user_types.html", gin.H{"Title": "User Types", "UserTypes": types})
}

func (h *UserTypeHandler) NewForm(c *gin.Context) {
	render.HTML(c, http.StatusOK, "user_type_form.html", gin.H{
		"Title":  "New User Type",
		"Legend": "New User Type",
		"Action": "/user_type/new",
	})
}

func (h *UserTypeHandler) Create(c *gin.Context) {
	var f userTypeForm
	if err := c.ShouldBind(&f); err != nil {
		render.HTML(c, http.StatusOK, "user_type_form.html", gin.H{
			"Title":  "New User Type",
			"Legend": "New User Type",
			"Action": "/user_type/new",
			"Form":   gin.H{"name": f.Name},
			"Errors": validation.ToFieldErrors(err),
		})
		return
	}

	if _, err := h.Svc.Create(c.Request.Context(), f.Name); err != nil {
		h.Logger.WithError(err).Error("create user type failed")
		render.HTML(c, http.StatusInternalServerError, "500.html", nil)
		return
	}

	render.AddFlash(c, "success", "A new user type has been added!")
	c.Redirect(http.StatusFound, "/user_types")
}

func (h *UserTypeHandler) EditForm(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}
	render.HTML(c, http.StatusOK, "user_type_form.html", gin.H{
		"Title":  "Update User Type",
		"Legend": "Update User Type",
		"Action": "/user_type/" + strconv.FormatInt(t.ID, 10) + "/update",
		"Form":   gin.H{"name": t.Name},
	})
}

func (h *UserTypeHandler) Update(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}
	id := t.ID

	var f userTypeForm
	if err := c.ShouldBind(&f); err != nil {
		render.HTML(c, http.StatusOK, "user_type_form.html", gin.H{
			"Title":  "Update User Type",
			"Legend": "Update User Type",
			"Action": "/user_type/" + strconv.FormatInt(id, 10) + "/update",
			"Form":   gin.H{"name": f.Name},
			"Errors": validation.ToFieldErrors(err),
		})
		return
	}

	if _, err := h.Svc.Rename(c.Request.Context(), id, f.Name); err != nil {
		h.notFoundOr500(c, err)
		return
	}

	render.AddFlash(c, "success", "Your user type has been updated!")
	c.Redirect(http.StatusFound, "/user_types")
}

func (h *UserTypeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		render.HTML(c, http.StatusNotFound, "404.html", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.notFoundOr500(c, err)
		return
	}

	render.AddFlash(c, "success", "The user type has been deleted!")
	c.Redirect(http.StatusFound, "/user_types")
}

// lookup parses the id parameter and loads the record, rendering the 404
// page on either failure.
func (h *UserTypeHandler) lookup(c *gin.Context) (*entity.UserType, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		render.HTML(c, http.StatusNotFound, "404.html", nil)
		return nil, false
	}
	t, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, err)
		return nil, false
	}
	return t, true
}

func (h *UserTypeHandler) notFoundOr500(c *gin.Context, err error) {
	if errors.Is(err, application.ErrUserTypeNotFound) {
		render.HTML(c, http.StatusNotFound, "404.html", nil)
		return
	}
	h.Logger.WithError(err).Error("user type operation failed")
	render.HTML(c, http.StatusInternalServerError, "500.html", nil)
}
