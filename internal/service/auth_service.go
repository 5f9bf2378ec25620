package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/mailer"
	"github.com/klass-lk/seoblog/internal/model"
	"github.com/klass-lk/seoblog/internal/repository"
	"github.com/klass-lk/seoblog/security"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuthConfig struct {
	AppName          string
	ClientURL        string
	EmailFrom        string
	SessionSecret    string
	ActivationSecret string
	ResetSecret      string
	SessionTTL       time.Duration
	ActivationTTL    time.Duration
	ResetTTL         time.Duration
}

type AuthService struct {
	users   *repository.UserRepository
	encoder security.PasswordEncoder
	mail    mailer.Mailer
	cfg     AuthConfig
}

func NewAuthService(users *repository.UserRepository, encoder security.PasswordEncoder, mail mailer.Mailer, cfg AuthConfig) *AuthService {
	return &AuthService{users: users, encoder: encoder, mail: mail, cfg: cfg}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SigninResponse struct {
	Token string            `json:"token"`
	User  model.SessionUser `json:"user"`
}

// PreSignup e-mails an activation link carrying the applicant's name,
// e-mail and password hash. Nothing is stored until the link is used.
func (s *AuthService) PreSignup(ctx context.Context, req PreSignupRequest) (MessageResponse, error) {
	name, err := validName(req.Name)
	if err != nil {
		return MessageResponse{}, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return MessageResponse{}, err
	}
	if taken {
		return MessageResponse{}, ErrEmailTaken
	}

	hash, err := s.encoder.GetPasswordHash(req.Password)
	if err != nil {
		return MessageResponse{}, err
	}
	token, err := seoblog.GenerateToken(seoblog.ActivationClaims{
		Name:             name,
		Email:            email,
		HashedPassword:   hash,
		RegisteredClaims: seoblog.NewRegisteredClaims(email, s.cfg.ActivationTTL),
	}, s.cfg.ActivationSecret)
	if err != nil {
		return MessageResponse{}, err
	}

	msg, err := mailer.ActivationEmail(s.cfg.EmailFrom, email, s.cfg.ClientURL, s.cfg.ClientURL+"/auth/account/activate/"+token)
	if err != nil {
		return MessageResponse{}, err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return MessageResponse{}, err
	}
	return MessageResponse{
		Message: fmt.Sprintf("Email has been sent to %s. Follow the instructions to activate your account.", email),
	}, nil
}

// Signup creates the account described by a valid activation token.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (MessageResponse, error) {
	var claims seoblog.ActivationClaims
	if err := seoblog.ParseToken(req.Token, s.cfg.ActivationSecret, &claims); err != nil {
		return MessageResponse{}, ErrActivationExpired
	}

	taken, err := s.users.EmailTaken(ctx, claims.Email)
	if err != nil {
		return MessageResponse{}, err
	}
	if taken {
		return MessageResponse{}, ErrEmailTaken
	}

	username, err := s.newUsername(ctx)
	if err != nil {
		return MessageResponse{}, err
	}
	now := time.Now()
	user := model.User{
		ID:             primitive.NewObjectID(),
		Username:       username,
		Name:           claims.Name,
		Email:          claims.Email,
		Profile:        s.cfg.ClientURL + "/profile/" + username,
		HashedPassword: claims.HashedPassword,
		Role:           seoblog.RoleAuthor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Save(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return MessageResponse{}, ErrEmailTaken
		}
		return MessageResponse{}, err
	}
	log.Info().Str("user_id", user.ID.Hex()).Str("username", username).Msg("user signed up")
	return MessageResponse{Message: "Signup success! Please signin."}, nil
}

func (s *AuthService) newUsername(ctx context.Context) (string, error) {
	for i := 0; i < 3; i++ {
		candidate := strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
		taken, err := s.users.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errors.New("could not generate a unique username")
}

func (s *AuthService) Signin(ctx context.Context, req SigninRequest) (SigninResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return SigninResponse{}, ErrNoSuchSigninEmail
	}
	if err != nil {
		return SigninResponse{}, err
	}
	if !s.encoder.IsMatching(user.HashedPassword, req.Password) {
		return SigninResponse{}, ErrPasswordMismatch
	}

	token, err := seoblog.GenerateToken(seoblog.SessionClaims{
		UserID:           user.ID.Hex(),
		Role:             user.Role,
		RegisteredClaims: seoblog.NewRegisteredClaims(user.ID.Hex(), s.cfg.SessionTTL),
	}, s.cfg.SessionSecret)
	if err != nil {
		return SigninResponse{}, err
	}
	return SigninResponse{Token: token, User: user.Session()}, nil
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.cfg.SessionTTL
}

// Authenticate resolves a session token to the current subject. The role
// is read from storage, not from the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (seoblog.AuthContext, error) {
	var claims seoblog.SessionClaims
	if err := seoblog.ParseToken(token, s.cfg.SessionSecret, &claims); err != nil {
		return seoblog.AuthContext{}, seoblog.ErrUnauthorized.New("Invalid or expired token")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return seoblog.AuthContext{}, seoblog.ErrUnauthorized.New("Invalid or expired token")
	}
	user, err := s.users.FindById(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return seoblog.AuthContext{}, ErrUserNotFound
	}
	if err != nil {
		return seoblog.AuthContext{}, err
	}
	return seoblog.AuthContext{UserID: user.ID.Hex(), Username: user.Username, Role: user.Role}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (MessageResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return MessageResponse{}, ErrNoSuchResetEmail
	}
	if err != nil {
		return MessageResponse{}, err
	}

	claims := seoblog.ResetClaims{
		UserID:           user.ID.Hex(),
		RegisteredClaims: seoblog.NewRegisteredClaims(user.ID.Hex(), s.cfg.ResetTTL),
	}
	token, err := seoblog.GenerateToken(claims, s.cfg.ResetSecret)
	if err != nil {
		return MessageResponse{}, err
	}
	if err := s.users.SetResetLink(ctx, user.ID, token, claims.ExpiresAt.Time); err != nil {
		return MessageResponse{}, err
	}

	msg, err := mailer.ResetPasswordEmail(s.cfg.EmailFrom, user.Email, s.cfg.ClientURL, s.cfg.ClientURL+"/auth/password/reset/"+token)
	if err != nil {
		return MessageResponse{}, err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return MessageResponse{}, err
	}
	return MessageResponse{
		Message: fmt.Sprintf("Email has been sent to %s. Follow the instructions to reset your password. Link expires in 10min.", user.Email),
	}, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) (MessageResponse, error) {
	var claims seoblog.ResetClaims
	if err := seoblog.ParseToken(req.ResetPasswordLink, s.cfg.ResetSecret, &claims); err != nil {
		return MessageResponse{}, ErrResetExpired
	}
	user, err := s.users.FindByResetLink(ctx, req.ResetPasswordLink)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return MessageResponse{}, ErrResetExpired
	}
	if err != nil {
		return MessageResponse{}, err
	}

	hash, err := s.encoder.GetPasswordHash(req.NewPassword)
	if err != nil {
		return MessageResponse{}, err
	}
	user.HashedPassword = hash
	user.ResetPasswordLink = ""
	user.ResetPasswordExpires = nil
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return MessageResponse{}, err
	}
	return MessageResponse{Message: "Great! Now you can login with your new password"}, nil
}

// Promote grants the administrator role to the user with email.
func (s *AuthService) Promote(ctx context.Context, email string) error {
	err := s.users.SetRole(ctx, email, seoblog.RoleAdmin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoSuchResetEmail
	}
	return err
}
