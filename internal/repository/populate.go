package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Field sets selected by the blog listings.
var (
	ListFields    = []string{"title", "slug", "excerpt", "categories", "tags", "postedBy", "createdAt", "updatedAt"}
	ReadFields    = []string{"title", "body", "slug", "mtitle", "mdesc", "categories", "tags", "postedBy", "createdAt", "updatedAt"}
	RelatedFields = []string{"title", "slug", "excerpt", "postedBy", "createdAt", "updatedAt"}
	SearchFields  = []string{"title", "slug", "excerpt", "mtitle", "mdesc", "categories", "tags", "postedBy", "createdAt", "updatedAt"}
)

// BlogQuery describes a projected, populated blog listing. Limit 0 means
// no limit.
type BlogQuery struct {
	Filter bson.M
	Fields []string
	Skip   int64
	Limit  int64
}

// Pipeline builds the aggregation for q. References missing from the
// target collection drop out of the expanded arrays; the stored ids stay
// untouched.
func (q BlogQuery) Pipeline() mongo.Pipeline {
	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	if q.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: q.Skip}})
	}
	if q.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: q.Limit}})
	}

	fields := q.Fields
	if len(fields) == 0 {
		fields = ListFields
	}
	projection := bson.D{{Key: "_id", Value: 1}}
	selected := make(map[string]bool, len(fields))
	for _, f := range fields {
		projection = append(projection, bson.E{Key: f, Value: 1})
		selected[f] = true
	}
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: projection}})

	if selected["categories"] {
		pipeline = append(pipeline, lookupRefs("categories", "categories"))
	}
	if selected["tags"] {
		pipeline = append(pipeline, lookupRefs("tags", "tags"))
	}
	if selected["postedBy"] {
		pipeline = append(pipeline, lookupAuthor()...)
	}
	return pipeline
}

func lookupRefs(from, field string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "let", Value: bson.D{{Key: "ids", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}}}},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$in", Value: bson.A{"$_id", "$$ids"}}}}}}},
			bson.D{{Key: "$project", Value: bson.D{{Key: "_id", Value: 1}, {Key: "name", Value: 1}, {Key: "slug", Value: 1}}}},
		}},
		{Key: "as", Value: field},
	}}}
}

func lookupAuthor() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "let", Value: bson.D{{Key: "uid", Value: "$postedBy"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$uid"}}}}}}},
				bson.D{{Key: "$project", Value: bson.D{{Key: "_id", Value: 1}, {Key: "name", Value: 1}, {Key: "username", Value: 1}, {Key: "profile", Value: 1}}}},
			}},
			{Key: "as", Value: "postedBy"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$postedBy"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}
