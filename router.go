package seoblog

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	Register(group *ControllerGroup)
}

type ControllerGroup struct {
	group *gin.RouterGroup
}

var (
	contextType = reflect.TypeOf(&Context{})
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

func (g *ControllerGroup) Use(middleware ...gin.HandlerFunc) {
	g.group.Use(middleware...)
}

func (g *ControllerGroup) Group(path string, middleware ...gin.HandlerFunc) *ControllerGroup {
	return &ControllerGroup{group: g.group.Group(path, middleware...)}
}

func (g *ControllerGroup) BasePath() string {
	return g.group.BasePath()
}

func (g *ControllerGroup) GET(path string, handler interface{}, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodGet, path, handler, middleware)
}

func (g *ControllerGroup) POST(path string, handler interface{}, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodPost, path, handler, middleware)
}

func (g *ControllerGroup) PUT(path string, handler interface{}, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodPut, path, handler, middleware)
}

func (g *ControllerGroup) PATCH(path string, handler interface{}, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodPatch, path, handler, middleware)
}

func (g *ControllerGroup) DELETE(path string, handler interface{}, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodDelete, path, handler, middleware)
}

func (g *ControllerGroup) OPTIONS(path string, handler interface{}, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodOptions, path, handler, middleware)
}

func (g *ControllerGroup) HEAD(path string, handler interface{}, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodHead, path, handler, middleware)
}

func (g *ControllerGroup) handle(method, path string, handler interface{}, middleware []gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(middleware)+1)
	handlers = append(handlers, middleware...)
	handlers = append(handlers, wrapHandler(handler))
	g.group.Handle(method, path, handlers...)
}

// wrapHandler adapts a plain function into a gin handler. Accepted shapes
// take any of (), (*Context), (Req) or (*Context, Req) and return (),
// (error) or (Resp, error). Handlers returning nothing write their own
// response.
func wrapHandler(handler interface{}) gin.HandlerFunc {
	if h, ok := handler.(gin.HandlerFunc); ok {
		return h
	}
	if h, ok := handler.(func(*gin.Context)); ok {
		return h
	}

	handlerValue := reflect.ValueOf(handler)
	handlerType := handlerValue.Type()
	if handlerType.Kind() != reflect.Func {
		panic(fmt.Sprintf("handler must be a function, got %s", handlerType))
	}
	validateHandler(handlerType)

	return func(c *gin.Context) {
		ctx := NewContext(c)
		args := make([]reflect.Value, handlerType.NumIn())
		for i := 0; i < handlerType.NumIn(); i++ {
			paramType := handlerType.In(i)
			if paramType == contextType {
				args[i] = reflect.ValueOf(ctx)
				continue
			}
			request := reflect.New(paramType)
			if err := ctx.GetRequest(request.Interface()); err != nil {
				SendError(c, err)
				return
			}
			args[i] = request.Elem()
		}

		results := handlerValue.Call(args)
		switch len(results) {
		case 0:
			return
		case 1:
			if err, _ := results[0].Interface().(error); err != nil {
				SendError(c, err)
				return
			}
			if !c.Writer.Written() {
				c.Status(http.StatusNoContent)
			}
			return
		}

		if err, _ := results[1].Interface().(error); err != nil {
			SendError(c, err)
			return
		}
		if c.Writer.Written() {
			return
		}
		response := results[0].Interface()
		if s, ok := response.(string); ok {
			c.String(http.StatusOK, s)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

func validateHandler(t reflect.Type) {
	if t.NumIn() > 2 {
		panic("handler accepts at most a *Context and a request")
	}
	if t.NumIn() == 2 && t.In(0) != contextType {
		panic("the first of two handler parameters must be *Context")
	}
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) != errorType {
			panic("a single handler result must be error")
		}
	case 2:
		if t.Out(1) != errorType {
			panic("the second handler result must be error")
		}
	default:
		panic("handler returns at most (response, error)")
	}
}
