package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/pkg/apperror"
	"anoa.com/assignmenthub/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuth struct {
	users map[string]*entity.User
}

func (s stubAuth) Authenticate(_ context.Context, raw string) (*entity.User, error) {
	if u, ok := s.users[raw]; ok {
		return u, nil
	}
	return nil, apperror.ErrUnauthorized
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := NewAuthMiddleware(stubAuth{users: map[string]*entity.User{
		"lecturer-token": {ID: 1, Email: "l@x.com", Role: entity.RoleLecturer},
		"student-token":  {ID: 2, Email: "s@x.com", Role: entity.RoleStudent},
	}})

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		user, _ := response.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	r.GET("/lecturers", auth.RequireAuth(), auth.RequireRole(entity.RoleLecturer), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name       string
		header     string
		query      string
		upgrade    bool
		wantStatus int
		wantBody   string
	}{
		{name: "missing", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"could not validate credentials"}`},
		{name: "wrong scheme", header: "Basic lecturer-token", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"could not validate credentials"}`},
		{name: "invalid token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"could not validate credentials"}`},
		{name: "valid header", header: "Bearer student-token", wantStatus: http.StatusOK, wantBody: `{"email":"s@x.com"}`},
		{name: "lowercase scheme", header: "bearer student-token", wantStatus: http.StatusOK, wantBody: `{"email":"s@x.com"}`},
		{name: "query token on websocket upgrade", query: "?token=lecturer-token", upgrade: true, wantStatus: http.StatusOK, wantBody: `{"email":"l@x.com"}`},
		{name: "query token on plain request", query: "?token=lecturer-token", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"could not validate credentials"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter()

	for token, want := range map[string]int{
		"lecturer-token": http.StatusNoContent,
		"student-token":  http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/lecturers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
	}
}
