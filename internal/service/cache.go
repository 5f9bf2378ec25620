package service

// Cache tags attached to public listings. A write to a collection drops
// every entry carrying its tag.
const (
	CacheTagBlogs      = "blogs"
	CacheTagCategories = "categories"
	CacheTagTags       = "tags"
)
