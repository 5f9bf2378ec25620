package seoblog

// Document is anything stored in its own Mongo collection.
type Document interface {
	GetCollectionName() string
}
