package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/klass-lk/seoblog"
)

var (
	errAdminOnly     = seoblog.ErrForbidden.New("Access denied!")
	errNotAuthorized = seoblog.ErrForbidden.New("You are not authorized")
)

// OwnerResolver returns the id of the user owning the resource the request
// targets.
type OwnerResolver func(c *gin.Context) (string, error)

// Capability is one way a subject may be granted access to a route.
type Capability struct {
	name  string
	check func(c *gin.Context, auth seoblog.AuthContext) (bool, error)
}

func (c Capability) String() string {
	return c.name
}

var (
	// Any holds for every authenticated subject.
	Any = Capability{name: "any", check: func(*gin.Context, seoblog.AuthContext) (bool, error) {
		return true, nil
	}}
	// Admin holds for administrators.
	Admin = Capability{name: "admin", check: func(_ *gin.Context, auth seoblog.AuthContext) (bool, error) {
		return auth.IsAdmin(), nil
	}}
)

// Owner holds when resolve names the subject as the resource owner.
func Owner(resolve OwnerResolver) Capability {
	return Capability{name: "owner", check: func(c *gin.Context, auth seoblog.AuthContext) (bool, error) {
		owner, err := resolve(c)
		if err != nil {
			return false, err
		}
		return owner == auth.UserID, nil
	}}
}

// Policy grants access when any capability holds. Capabilities are checked
// in order and evaluation stops at the first one that holds.
func Policy(caps ...Capability) gin.HandlerFunc {
	denied := errNotAuthorized
	if adminOnly(caps) {
		denied = errAdminOnly
	}
	return func(c *gin.Context) {
		auth, err := seoblog.GetAuthContext(c)
		if err != nil {
			seoblog.SendError(c, err)
			return
		}
		for _, capability := range caps {
			ok, err := capability.check(c, auth)
			if err != nil {
				seoblog.SendError(c, err)
				return
			}
			if ok {
				c.Next()
				return
			}
		}
		seoblog.SendError(c, denied)
	}
}

func adminOnly(caps []Capability) bool {
	if len(caps) == 0 {
		return false
	}
	for _, c := range caps {
		if c.name != Admin.name {
			return false
		}
	}
	return true
}

// Guard pairs authentication with a capability policy for route
// declarations.
type Guard struct {
	authenticate gin.HandlerFunc
}

func NewGuard(auth Authenticator) *Guard {
	return &Guard{authenticate: Authenticate(auth)}
}

// Require returns the handler chain that authenticates the request and
// then evaluates caps.
func (g *Guard) Require(caps ...Capability) []gin.HandlerFunc {
	if len(caps) == 0 {
		caps = []Capability{Any}
	}
	return []gin.HandlerFunc{g.authenticate, Policy(caps...)}
}
