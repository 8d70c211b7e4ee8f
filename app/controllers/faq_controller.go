package controllers

import (
	"net/http"
	"net/url"

	"github.com/projectdesk/projectdesk/app/services"
	"github.com/projectdesk/projectdesk/pkg/ctx"
)

type FAQController struct {
	faqs *services.FAQService
}

func NewFAQController(faqs *services.FAQService) *FAQController {
	return &FAQController{faqs: faqs}
}

func (h *FAQController) Index(c *ctx.Context) {
	list(c, h.faqs.List)
}

func (h *FAQController) Show(c *ctx.Context) {
	show(c, "id", h.faqs.Get)
}

func (h *FAQController) Search(c *ctx.Context) {
	term, err := url.PathUnescape(c.Param("term"))
	if err != nil {
		c.Error(http.StatusBadRequest, "Invalid term")
		return
	}
	recs, err := h.faqs.Search(c.Context(), term)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

func (h *FAQController) Store(c *ctx.Context) {
	var in services.FAQInput
	if !c.BindJSON(&in) {
		return
	}
	faq, err := h.faqs.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(faq)
}

func (h *FAQController) Update(c *ctx.Context) {
	update(c, &services.UpdateFAQInput{}, h.faqs.Update)
}

func (h *FAQController) Destroy(c *ctx.Context) {
	destroy(c, "id", "FAQ deleted", h.faqs.Delete)
}
