package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/middleware"
	"github.com/klass-lk/seoblog/internal/model"
	"github.com/klass-lk/seoblog/internal/service"
)

type BlogController struct {
	blogs *service.BlogService
	guard *middleware.Guard
	cache Cache
}

func NewBlogController(blogs *service.BlogService, guard *middleware.Guard, cache Cache) *BlogController {
	if cache == nil {
		cache = NoCache
	}
	return &BlogController{blogs: blogs, guard: guard, cache: cache}
}

func (ctl *BlogController) Register(group *seoblog.ControllerGroup) {
	cached := ctl.cache(blogListingTags...)
	owner := middleware.Owner(ctl.ownerOf)

	group.GET("/blogs", ctl.List, cached)
	group.POST("/blogs-categories-tags", ctl.ListWithTaxonomies)
	group.GET("/blog/:slug", ctl.Read, cached)
	group.GET("/blog/photo/:slug", ctl.Photo)
	group.GET("/blogs/search", ctl.Search, cached)
	group.POST("/blogs/related", ctl.Related)
	group.GET("/user/:username/blogs", ctl.ListByUser, cached)

	group.POST("/blog", ctl.Create, ctl.guard.Require(middleware.Admin)...)
	group.PUT("/blog/:slug", ctl.Update, ctl.guard.Require(middleware.Admin)...)
	group.DELETE("/blog/:slug", ctl.Delete, ctl.guard.Require(middleware.Admin)...)

	group.POST("/user/blog", ctl.Create, ctl.guard.Require(middleware.Any)...)
	group.PUT("/user/blog/:slug", ctl.Update, ctl.guard.Require(owner, middleware.Admin)...)
	group.DELETE("/user/blog/:slug", ctl.Delete, ctl.guard.Require(owner, middleware.Admin)...)
}

func (ctl *BlogController) ownerOf(c *gin.Context) (string, error) {
	return ctl.blogs.OwnerOf(c.Request.Context(), c.Param("slug"))
}

func (ctl *BlogController) Create(c *seoblog.Context) (model.Blog, error) {
	auth, err := c.GetAuthContext()
	if err != nil {
		return model.Blog{}, err
	}
	input, err := blogInput(c.Context)
	if err != nil {
		return model.Blog{}, err
	}
	return ctl.blogs.Create(c.Request.Context(), auth, input)
}

func (ctl *BlogController) Update(c *seoblog.Context) (model.Blog, error) {
	input, err := blogInput(c.Context)
	if err != nil {
		return model.Blog{}, err
	}
	return ctl.blogs.Update(c.Request.Context(), c.Param("slug"), input)
}

func (ctl *BlogController) Delete(c *seoblog.Context) (service.MessageResponse, error) {
	return ctl.blogs.Delete(c.Request.Context(), c.Param("slug"))
}

func (ctl *BlogController) List(c *seoblog.Context) ([]model.BlogView, error) {
	return ctl.blogs.List(c.Request.Context())
}

func (ctl *BlogController) ListWithTaxonomies(c *seoblog.Context, req service.ListingRequest) (service.ListingResponse, error) {
	return ctl.blogs.ListWithTaxonomies(c.Request.Context(), req)
}

func (ctl *BlogController) Read(c *seoblog.Context) (model.BlogView, error) {
	return ctl.blogs.Read(c.Request.Context(), c.Param("slug"))
}

func (ctl *BlogController) Photo(c *seoblog.Context) error {
	data, contentType, err := ctl.blogs.Photo(c.Request.Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	c.SendBinary(contentType, data)
	return nil
}

func (ctl *BlogController) Search(c *seoblog.Context, req service.SearchRequest) ([]model.BlogView, error) {
	return ctl.blogs.Search(c.Request.Context(), req.Search)
}

func (ctl *BlogController) Related(c *seoblog.Context, req service.RelatedRequest) ([]model.BlogView, error) {
	return ctl.blogs.Related(c.Request.Context(), req)
}

func (ctl *BlogController) ListByUser(c *seoblog.Context) ([]model.BlogView, error) {
	return ctl.blogs.ListByUser(c.Request.Context(), c.Param("username"))
}
