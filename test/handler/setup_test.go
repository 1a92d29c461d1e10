package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/coursekit/coursekit/internal/config"
	"github.com/coursekit/coursekit/internal/filestore"
	"github.com/coursekit/coursekit/internal/handler"
	"github.com/coursekit/coursekit/internal/middleware"
	"github.com/coursekit/coursekit/internal/registry"
	"github.com/coursekit/coursekit/internal/render"
	"github.com/coursekit/coursekit/internal/repo"
	"github.com/coursekit/coursekit/internal/service"
	"github.com/coursekit/coursekit/test/testutil"
)

func setupRouter(t *testing.T) (http.Handler, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cleanup := testutil.OpenTestDB(t)
	userRepo := repo.NewUserRepo(db)
	pageRepo := repo.NewPageRepo(db)
	metaRepo := repo.NewMetaRepo(db)
	revisionRepo := repo.NewRevisionRepo(db)
	termRepo := repo.NewTermRepo(db)
	pageTermRepo := repo.NewPageTermRepo(db)
	templateRepo := repo.NewTemplateRepo(db)

	jwtSecret := []byte("test-secret")
	reg := registry.New()
	renderer := render.New(reg)
	authService := service.NewAuthService(userRepo, jwtSecret, time.Hour)
	pageService := service.NewPageService(pageRepo, metaRepo, pageTermRepo)
	termService := service.NewTermService(termRepo, pageTermRepo, pageRepo)
	templateService := service.NewTemplateService(templateRepo, reg)
	require.NoError(t, templateService.SeedBuiltins(context.Background()))
	builderService := service.NewBuilderService(pageRepo, metaRepo, revisionRepo, reg, renderer, render.NewCache(16, time.Minute), 10)

	tmpDir, err := os.MkdirTemp("", "coursekit-upload-*")
	require.NoError(t, err)

	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{
			"dir": tmpDir,
		},
	})
	require.NoError(t, err)

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Pages:     handler.NewPageHandler(pageService, termService),
		Builder:   handler.NewBuilderHandler(builderService, templateService, reg),
		Revisions: handler.NewRevisionHandler(builderService),
		Terms:     handler.NewTermHandler(termService),
		Templates: handler.NewTemplateHandler(templateService),
		Assets:    handler.NewAssetHandler(store),
		Render:    handler.NewRenderHandler(builderService),
		JWTSecret: jwtSecret,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	return engine, func() {
		cleanup()
		_ = os.RemoveAll(tmpDir)
	}
}

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *apiResponse {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, "unexpected status for %s %s: %s", method, path, resp.Body.String())

	var out apiResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return &out
}

func registerUser(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret-password",
	})
	require.Zero(t, resp.Code, "register failed: %s", resp.Msg)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func createPage(t *testing.T, router http.Handler, token, pageType, title string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/pages", token, map[string]string{
		"type":  pageType,
		"title": title,
	})
	require.Zero(t, resp.Code, "create page failed: %s", resp.Msg)

	var page struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	require.NotEmpty(t, page.ID)
	return page.ID
}
