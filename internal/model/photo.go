package model

// Photo is an uploaded image. Inline photos keep their bytes in Data;
// photos kept in object storage only carry the Key.
type Photo struct {
	Data        []byte `bson:"data,omitempty" json:"-"`
	ContentType string `bson:"contentType,omitempty" json:"contentType,omitempty"`
	Key         string `bson:"key,omitempty" json:"-"`
}

func (p *Photo) IsEmpty() bool {
	return p == nil || (len(p.Data) == 0 && p.Key == "")
}
