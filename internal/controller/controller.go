// Package controller maps the JSON API onto the services.
package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/klass-lk/seoblog/internal/service"
)

// Cache returns a response cache middleware for entries carrying tags.
type Cache func(tags ...string) gin.HandlerFunc

// NoCache passes every request through.
func NoCache(...string) gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}

var blogListingTags = []string{service.CacheTagBlogs, service.CacheTagCategories, service.CacheTagTags}
