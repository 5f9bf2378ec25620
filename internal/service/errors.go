package service

import "github.com/klass-lk/seoblog"

var (
	ErrEmailTaken        = seoblog.ErrBadRequest.WithMessage("Email is taken")
	ErrUsernameTaken     = seoblog.ErrBadRequest.WithMessage("Username is taken")
	ErrNoSuchSigninEmail = seoblog.ErrBadRequest.WithMessage("User with that email does not exist. Please signup.")
	ErrNoSuchResetEmail  = seoblog.ErrBadRequest.WithMessage("User with that email does not exist")
	ErrPasswordMismatch  = seoblog.ErrBadRequest.WithMessage("Email and password do not match.")
	ErrUserNotFound      = seoblog.ErrBadRequest.WithMessage("User not found")
	ErrActivationExpired = seoblog.ErrUnauthorized.WithMessage("Expired link. Signup again")
	ErrResetExpired      = seoblog.ErrUnauthorized.WithMessage("Expired link. Try again")
	ErrPasswordTooShort  = seoblog.ErrBadRequest.WithMessage("Password should be min 6 characters long")

	ErrTitleRequired     = seoblog.ErrBadRequest.WithMessage("Title is required")
	ErrTitleLength       = seoblog.ErrBadRequest.WithMessage("Title must be between 3 and 160 characters")
	ErrContentTooShort   = seoblog.ErrBadRequest.WithMessage("Content is too short")
	ErrContentTooLong    = seoblog.ErrBadRequest.WithMessage("Content is too long")
	ErrCategoryRequired  = seoblog.ErrBadRequest.WithMessage("At least one category is required")
	ErrTagRequired       = seoblog.ErrBadRequest.WithMessage("At least one tag is required")
	ErrInvalidReference  = seoblog.ErrBadRequest.WithMessage("Invalid category or tag id")
	ErrBlogPhotoTooLarge = seoblog.ErrBadRequest.WithMessage("Image should be less then 1mb in size")
	ErrUserPhotoTooLarge = seoblog.ErrBadRequest.WithMessage("Image should be less than 1mb")
	ErrPhotoUnreadable   = seoblog.ErrBadRequest.WithMessage("Image could not upload")
	ErrPhotoNotFound     = seoblog.ErrNotFound.New("Photo")
	ErrBlogNotFound      = seoblog.ErrNotFound.New("Blog")
	ErrSlugTaken         = seoblog.ErrAlreadyExists.New("Slug")
	ErrNameRequired      = seoblog.ErrValidation.WithMessage("Name is required")
	ErrNameTooLong       = seoblog.ErrValidation.WithMessage("Name must be at most 32 characters long")
	ErrSlugEmpty         = seoblog.ErrValidation.WithMessage("Name must contain letters or digits")
	ErrNoContactAddress  = seoblog.ErrUnavailable.WithMessage("Contact form is not configured")
)
