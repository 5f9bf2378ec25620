package controller

import (
	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/middleware"
	"github.com/klass-lk/seoblog/internal/model"
	"github.com/klass-lk/seoblog/internal/service"
)

// TermController serves categories or tags under /<singular> and
// /<plural>.
type TermController[T model.Term] struct {
	terms    *service.TermService[T]
	guard    *middleware.Guard
	cache    Cache
	singular string
	plural   string
}

func NewTermController[T model.Term](terms *service.TermService[T], guard *middleware.Guard, cache Cache, singular, plural string) *TermController[T] {
	if cache == nil {
		cache = NoCache
	}
	return &TermController[T]{terms: terms, guard: guard, cache: cache, singular: singular, plural: plural}
}

func (ctl *TermController[T]) Register(group *seoblog.ControllerGroup) {
	tag := ctl.terms.Kind().CacheTag

	group.GET("/"+ctl.plural, ctl.List, ctl.cache(tag))
	group.GET("/"+ctl.singular+"/:slug", ctl.Read, ctl.cache(append([]string{tag}, blogListingTags...)...))
	group.POST("/"+ctl.singular, ctl.Create, ctl.guard.Require(middleware.Admin)...)
	group.DELETE("/"+ctl.singular+"/:slug", ctl.Delete, ctl.guard.Require(middleware.Admin)...)
}

func (ctl *TermController[T]) Create(c *seoblog.Context, req service.TermRequest) (T, error) {
	return ctl.terms.Create(c.Request.Context(), req)
}

func (ctl *TermController[T]) List(c *seoblog.Context) ([]T, error) {
	return ctl.terms.List(c.Request.Context())
}

func (ctl *TermController[T]) Read(c *seoblog.Context) (map[string]interface{}, error) {
	return ctl.terms.Read(c.Request.Context(), c.Param("slug"))
}

func (ctl *TermController[T]) Delete(c *seoblog.Context) (service.MessageResponse, error) {
	return ctl.terms.Delete(c.Request.Context(), c.Param("slug"))
}
