package controller

import (
	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/service"
)

type ContactController struct {
	contact *service.ContactService
}

func NewContactController(contact *service.ContactService) *ContactController {
	return &ContactController{contact: contact}
}

func (ctl *ContactController) Register(group *seoblog.ControllerGroup) {
	group.POST("/contact", ctl.Contact)
	group.POST("/contact-blog-author", ctl.ContactAuthor)
}

func (ctl *ContactController) Contact(c *seoblog.Context, req service.ContactRequest) (service.SuccessResponse, error) {
	return ctl.contact.Contact(c.Request.Context(), req)
}

func (ctl *ContactController) ContactAuthor(c *seoblog.Context, req service.ContactAuthorRequest) (service.SuccessResponse, error) {
	return ctl.contact.ContactAuthor(c.Request.Context(), req)
}
