package seoblog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetRequest struct {
	Name string `json:"name" binding:"required" msg:"Name is required"`
}

type nestedRequest struct {
	Blog struct {
		ID string `json:"_id" binding:"required" msg:"Blog is required"`
	} `json:"blog"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func serve(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	server.engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandlerShapes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		handler      interface{}
		method       string
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name: "no arguments",
			handler: func() (messageResponse, error) {
				return messageResponse{Message: "Signout success"}, nil
			},
			method:       http.MethodGet,
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Signout success"}`,
		},
		{
			name: "string result",
			handler: func() (string, error) {
				return "plain", nil
			},
			method:       http.MethodGet,
			expectedCode: http.StatusOK,
			expectedBody: "plain",
		},
		{
			name: "context only",
			handler: func(c *Context) (messageResponse, error) {
				return messageResponse{Message: c.Query("q")}, nil
			},
			method:       http.MethodGet,
			expectedCode: http.StatusOK,
			expectedBody: `{"message":""}`,
		},
		{
			name: "request only",
			handler: func(req greetRequest) (messageResponse, error) {
				return messageResponse{Message: "Hello " + req.Name}, nil
			},
			method:       http.MethodPost,
			body:         `{"name":"Alice"}`,
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Hello Alice"}`,
		},
		{
			name: "context and request",
			handler: func(c *Context, req greetRequest) (messageResponse, error) {
				return messageResponse{Message: c.Request.Method + " " + req.Name}, nil
			},
			method:       http.MethodPost,
			body:         `{"name":"Bob"}`,
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"POST Bob"}`,
		},
		{
			name: "error only without a response",
			handler: func(c *Context) error {
				return nil
			},
			method:       http.MethodDelete,
			expectedCode: http.StatusNoContent,
		},
		{
			name: "error only writing its own response",
			handler: func(c *Context) error {
				c.SendBinary("image/png", []byte{1, 2, 3})
				return nil
			},
			method:       http.MethodGet,
			expectedCode: http.StatusOK,
		},
		{
			name: "api error",
			handler: func() (messageResponse, error) {
				return messageResponse{}, ErrNotFound.New("Blog")
			},
			method:       http.MethodGet,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error_code":"NOT_FOUND","error":"Blog not found"}`,
		},
		{
			name: "plain error",
			handler: func() (messageResponse, error) {
				return messageResponse{}, errors.New("connection reset")
			},
			method:       http.MethodGet,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error_code":"INTERNAL_ERROR","error":"Something went wrong"}`,
		},
		{
			name: "malformed body",
			handler: func(req greetRequest) (messageResponse, error) {
				return messageResponse{}, nil
			},
			method:       http.MethodPost,
			body:         `not json`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error_code":"BAD_REQUEST","error":"Invalid request body"}`,
		},
		{
			name: "failed binding uses the msg tag",
			handler: func(req greetRequest) (messageResponse, error) {
				return messageResponse{}, nil
			},
			method:       http.MethodPost,
			body:         `{}`,
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"error_code":"VALIDATION_FAILED","error":"Name is required"}`,
		},
		{
			name: "nested msg tag",
			handler: func(req nestedRequest) (messageResponse, error) {
				return messageResponse{}, nil
			},
			method:       http.MethodPost,
			body:         `{"blog":{}}`,
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"error_code":"VALIDATION_FAILED","error":"Blog is required"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := &Server{engine: gin.New()}
			group := server.Group("/test")
			switch tt.method {
			case http.MethodGet:
				group.GET("", tt.handler)
			case http.MethodPost:
				group.POST("", tt.handler)
			case http.MethodDelete:
				group.DELETE("", tt.handler)
			}

			w := serve(t, server, tt.method, "/test", tt.body)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody == "" {
				return
			}
			if strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
				assert.Equal(t, tt.expectedBody, w.Body.String())
				return
			}
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestHandlerValidationPanics(t *testing.T) {
	assert.Panics(t, func() { wrapHandler("not a function") })
	assert.Panics(t, func() { wrapHandler(func(a, b greetRequest) error { return nil }) })
	assert.Panics(t, func() { wrapHandler(func() (string, string) { return "", "" }) })
	assert.Panics(t, func() { wrapHandler(func() (int, string, error) { return 0, "", nil }) })
	assert.NotPanics(t, func() { wrapHandler(func(c *gin.Context) {}) })
}

func TestGroups(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("base path and nesting", func(t *testing.T) {
		server := &Server{engine: gin.New(), basePath: "/api"}
		user := server.Group("/user").Group("/blogs")
		assert.Equal(t, "/api/user/blogs", user.BasePath())

		user.GET("", func() (messageResponse, error) {
			return messageResponse{Message: "nested"}, nil
		})
		w := serve(t, server, http.MethodGet, "/api/user/blogs", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"nested"}`, w.Body.String())
	})

	t.Run("every verb", func(t *testing.T) {
		server := &Server{engine: gin.New()}
		group := server.Group("")
		register := map[string]func(string, interface{}, ...gin.HandlerFunc){
			http.MethodGet:     group.GET,
			http.MethodPost:    group.POST,
			http.MethodPut:     group.PUT,
			http.MethodPatch:   group.PATCH,
			http.MethodDelete:  group.DELETE,
			http.MethodOptions: group.OPTIONS,
			http.MethodHead:    group.HEAD,
		}
		for method, add := range register {
			method := method // per-iteration copy; go.mod targets go 1.21
			add("/verb", func() (messageResponse, error) {
				return messageResponse{Message: method}, nil
			})
		}
		for method := range register {
			w := serve(t, server, method, "/verb", "")
			assert.Equal(t, http.StatusOK, w.Code, method)
			if method != http.MethodHead {
				assert.JSONEq(t, `{"message":"`+method+`"}`, w.Body.String(), method)
			}
		}
	})

	t.Run("middleware runs before the handler and can abort", func(t *testing.T) {
		server := &Server{engine: gin.New()}
		group := server.Group("/blog")
		var order []string
		group.Use(func(c *gin.Context) {
			order = append(order, "group")
			c.Next()
		})
		guard := func(c *gin.Context) {
			order = append(order, "guard")
			if c.GetHeader("Authorization") == "" {
				SendError(c, ErrUnauthorized.New("No authorization token was found"))
				return
			}
			c.Next()
		}
		group.DELETE("/:slug", func(c *Context) (messageResponse, error) {
			order = append(order, "handler")
			return messageResponse{Message: c.Param("slug")}, nil
		}, guard)

		w := serve(t, server, http.MethodDelete, "/blog/hello", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "No authorization token was found", decodeError(t, w).Message)
		assert.Equal(t, []string{"group", "guard"}, order)
	})

	t.Run("controller registration", func(t *testing.T) {
		server := &Server{engine: gin.New(), basePath: "/api"}
		ctl := &recordingController{}
		server.RegisterController("/tags", ctl)
		assert.Equal(t, "/api/tags", ctl.basePath)
	})
}

type recordingController struct {
	basePath string
}

func (r *recordingController) Register(group *ControllerGroup) {
	r.basePath = group.BasePath()
}
