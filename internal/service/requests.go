package service

import (
	"bytes"
	"encoding/json"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PreSignupRequest struct {
	Name     string `json:"name" binding:"required" msg:"Name is required"`
	Email    string `json:"email" binding:"required,email" msg:"Must be a valid email address"`
	Password string `json:"password" binding:"required,min=6" msg:"Password must be at least 6 characters long"`
}

type SignupRequest struct {
	Token string `json:"token" binding:"required" msg:"Expired link. Signup again"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email" msg:"Must be a valid email address"`
	Password string `json:"password" binding:"required,min=6" msg:"Password must be at least 6 characters long"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" msg:"Must be a valid email address"`
}

type ResetPasswordRequest struct {
	ResetPasswordLink string `json:"resetPasswordLink" binding:"required" msg:"Expired link. Try again"`
	NewPassword       string `json:"newPassword" binding:"required,min=6" msg:"Password must be at least 6 characters long"`
}

type TermRequest struct {
	Name string `json:"name" binding:"required" msg:"Name is required"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required" msg:"Name is required"`
	Email   string `json:"email" binding:"required,email" msg:"Must be a valid email address"`
	Message string `json:"message" binding:"required,min=20" msg:"Message must be at least 20 characters long"`
}

type ContactAuthorRequest struct {
	AuthorEmail string `json:"authorEmail" binding:"required,email" msg:"Must be a valid email address"`
	Name        string `json:"name" binding:"required" msg:"Name is required"`
	Email       string `json:"email" binding:"required,email" msg:"Must be a valid email address"`
	Message     string `json:"message" binding:"required,min=20" msg:"Message must be at least 20 characters long"`
}

type ListingRequest struct {
	Limit *int `json:"limit" form:"limit"`
	Skip  *int `json:"skip" form:"skip"`
}

type RelatedBlog struct {
	ID         primitive.ObjectID `json:"_id" binding:"required" msg:"Blog is required"`
	Categories RefIDs             `json:"categories"`
}

type RelatedRequest struct {
	Blog  RelatedBlog `json:"blog"`
	Limit *int        `json:"limit"`
}

type SearchRequest struct {
	Search string `form:"search"`
}

// Upload is a file received in a multipart form.
type Upload struct {
	Data        []byte
	ContentType string
	Size        int64
}

// BlogInput carries the multipart blog fields. Nil means the field was
// not sent.
type BlogInput struct {
	Title      *string
	Body       *string
	Categories *string
	Tags       *string
	Photo      *Upload
}

type ProfileInput struct {
	Name     *string
	Username *string
	Email    *string
	About    *string
	Password *string
	Photo    *Upload
}

// RefIDs decodes a list of references given either as id strings or as
// populated objects carrying an _id.
type RefIDs []primitive.ObjectID

func (r *RefIDs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, item := range raw {
		var hex string
		if err := json.Unmarshal(item, &hex); err != nil {
			var ref struct {
				ID string `json:"_id"`
			}
			if err := json.Unmarshal(item, &ref); err != nil {
				return err
			}
			hex = ref.ID
		}
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	*r = ids
	return nil
}
