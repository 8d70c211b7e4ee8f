package controllers

import (
	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/services"
	"github.com/projectdesk/projectdesk/pkg/ctx"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (h *UserController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	user, err := h.users.Register(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(user)
}

func (h *UserController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := h.users.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(res)
}

func (h *UserController) Index(c *ctx.Context) {
	list(c, h.users.All)
}

func (h *UserController) Workers(c *ctx.Context) {
	list(c, h.users.Workers)
}

func (h *UserController) Admins(c *ctx.Context) {
	list(c, h.users.Admins)
}

func (h *UserController) Staff(c *ctx.Context) {
	list(c, h.users.Staff)
}

func (h *UserController) Show(c *ctx.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(user)
}

// Update lets users edit themselves. Only admins may edit others or change
// a role.
func (h *UserController) Update(c *ctx.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var in services.UpdateUserInput
	fields, ok := c.BindFields(&in)
	if !ok {
		return
	}

	who := c.Identity()
	if who.Role != models.RoleAdmin {
		if _, changesRole := fields["role"]; changesRole || who.UserID != id {
			c.Forbidden()
			return
		}
	}

	user, err := h.users.Update(c.Context(), id, fields)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(user)
}

func (h *UserController) Destroy(c *ctx.Context) {
	destroy(c, "id", "User deleted", h.users.Delete)
}

// userID reads the {id} segment, where "me" and "my" stand for the caller.
func userID(c *ctx.Context) (int64, bool) {
	switch c.Param("id") {
	case "me", "my":
		return c.Identity().UserID, true
	}
	return c.ParamInt("id")
}
