package service

import (
	"context"

	"github.com/klass-lk/seoblog/internal/mailer"
)

type ContactConfig struct {
	AppName   string
	ClientURL string
	EmailFrom string
	EmailTo   string
}

type ContactService struct {
	mail mailer.Mailer
	cfg  ContactConfig
}

func NewContactService(mail mailer.Mailer, cfg ContactConfig) *ContactService {
	return &ContactService{mail: mail, cfg: cfg}
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// Contact relays the form to the site owner.
func (s *ContactService) Contact(ctx context.Context, req ContactRequest) (SuccessResponse, error) {
	return s.send(ctx, "", mailer.ContactDetails{Name: req.Name, Email: req.Email, Message: req.Message})
}

// ContactAuthor relays the form to a blog author with the owner in copy.
func (s *ContactService) ContactAuthor(ctx context.Context, req ContactAuthorRequest) (SuccessResponse, error) {
	return s.send(ctx, req.AuthorEmail, mailer.ContactDetails{Name: req.Name, Email: req.Email, Message: req.Message})
}

func (s *ContactService) send(ctx context.Context, authorEmail string, details mailer.ContactDetails) (SuccessResponse, error) {
	if authorEmail == "" && s.cfg.EmailTo == "" {
		return SuccessResponse{}, ErrNoContactAddress
	}
	msg, err := mailer.ContactEmail(s.cfg.EmailFrom, s.cfg.EmailTo, authorEmail, s.cfg.AppName, s.cfg.ClientURL, details)
	if err != nil {
		return SuccessResponse{}, err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return SuccessResponse{}, err
	}
	return SuccessResponse{Success: true}, nil
}
