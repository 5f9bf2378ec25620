package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/service"
)

type AuthController struct {
	auth    *service.AuthService
	limiter gin.HandlerFunc
}

// NewAuthController wires the auth routes. limiter guards sign-in and may
// be nil.
func NewAuthController(auth *service.AuthService, limiter gin.HandlerFunc) *AuthController {
	return &AuthController{auth: auth, limiter: limiter}
}

func (ctl *AuthController) Register(group *seoblog.ControllerGroup) {
	group.POST("/pre-signup", ctl.PreSignup)
	group.POST("/signup", ctl.Signup)
	if ctl.limiter != nil {
		group.POST("/signin", ctl.Signin, ctl.limiter)
	} else {
		group.POST("/signin", ctl.Signin)
	}
	group.GET("/signout", ctl.Signout)
	group.POST("/signout", ctl.Signout)
	group.PUT("/forgot-password", ctl.ForgotPassword)
	group.PUT("/reset-password", ctl.ResetPassword)
}

func (ctl *AuthController) PreSignup(c *seoblog.Context, req service.PreSignupRequest) (service.MessageResponse, error) {
	return ctl.auth.PreSignup(c.Request.Context(), req)
}

func (ctl *AuthController) Signup(c *seoblog.Context, req service.SignupRequest) (service.MessageResponse, error) {
	return ctl.auth.Signup(c.Request.Context(), req)
}

func (ctl *AuthController) Signin(c *seoblog.Context, req service.SigninRequest) (service.SigninResponse, error) {
	res, err := ctl.auth.Signin(c.Request.Context(), req)
	if err != nil {
		return res, err
	}
	c.SetTokenCookie(res.Token, ctl.auth.SessionTTL())
	return res, nil
}

func (ctl *AuthController) Signout(c *seoblog.Context) (service.MessageResponse, error) {
	c.ClearTokenCookie()
	return service.MessageResponse{Message: "Signout success"}, nil
}

func (ctl *AuthController) ForgotPassword(c *seoblog.Context, req service.ForgotPasswordRequest) (service.MessageResponse, error) {
	return ctl.auth.ForgotPassword(c.Request.Context(), req)
}

func (ctl *AuthController) ResetPassword(c *seoblog.Context, req service.ResetPasswordRequest) (service.MessageResponse, error) {
	return ctl.auth.ResetPassword(c.Request.Context(), req)
}
