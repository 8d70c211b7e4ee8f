package controllers

import (
	"github.com/projectdesk/projectdesk/app/services"
	"github.com/projectdesk/projectdesk/pkg/ctx"
)

type ClientController struct {
	clients *services.ClientService
}

func NewClientController(clients *services.ClientService) *ClientController {
	return &ClientController{clients: clients}
}

func (h *ClientController) Register(c *ctx.Context) {
	var in services.RegisterClientInput
	if !c.BindJSON(&in) {
		return
	}
	out, err := h.clients.Register(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(out)
}

func (h *ClientController) Index(c *ctx.Context) {
	list(c, h.clients.List)
}

func (h *ClientController) Show(c *ctx.Context) {
	show(c, "id", h.clients.Get)
}

func (h *ClientController) Store(c *ctx.Context) {
	var in services.CreateClientInput
	if !c.BindJSON(&in) {
		return
	}
	client, err := h.clients.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(client)
}

func (h *ClientController) Update(c *ctx.Context) {
	update(c, &services.UpdateClientInput{}, h.clients.Update)
}

func (h *ClientController) Destroy(c *ctx.Context) {
	destroy(c, "id", "Client deleted", h.clients.Delete)
}
