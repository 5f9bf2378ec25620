package controller

import (
	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/middleware"
	"github.com/klass-lk/seoblog/internal/model"
	"github.com/klass-lk/seoblog/internal/service"
)

type UserController struct {
	users *service.UserService
	guard *middleware.Guard
	cache Cache
}

func NewUserController(users *service.UserService, guard *middleware.Guard, cache Cache) *UserController {
	if cache == nil {
		cache = NoCache
	}
	return &UserController{users: users, guard: guard, cache: cache}
}

func (ctl *UserController) Register(group *seoblog.ControllerGroup) {
	group.GET("/user/profile", ctl.Profile, ctl.guard.Require(middleware.Any)...)
	group.PUT("/user/update", ctl.Update, ctl.guard.Require(middleware.Any)...)
	group.GET("/user/photo/:username", ctl.Photo)
	group.GET("/user/:username", ctl.PublicProfile, ctl.cache(blogListingTags...))
}

func (ctl *UserController) Profile(c *seoblog.Context) (model.User, error) {
	auth, err := c.GetAuthContext()
	if err != nil {
		return model.User{}, err
	}
	return ctl.users.Profile(c.Request.Context(), auth)
}

func (ctl *UserController) PublicProfile(c *seoblog.Context) (service.PublicProfileResponse, error) {
	return ctl.users.PublicProfile(c.Request.Context(), c.Param("username"))
}

func (ctl *UserController) Update(c *seoblog.Context) (model.User, error) {
	auth, err := c.GetAuthContext()
	if err != nil {
		return model.User{}, err
	}
	input, err := profileInput(c.Context)
	if err != nil {
		return model.User{}, err
	}
	return ctl.users.Update(c.Request.Context(), auth, input)
}

func (ctl *UserController) Photo(c *seoblog.Context) error {
	data, contentType, err := ctl.users.Photo(c.Request.Context(), c.Param("username"))
	if err != nil {
		return err
	}
	c.SendBinary(contentType, data)
	return nil
}
