package controllers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"automarket-backend/controllers"
	"automarket-backend/models"
	"automarket-backend/routes"
	"automarket-backend/services"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AdminUser{}, &models.Vehicle{}))

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.AdminUser{Username: "admin", PasswordHash: string(hash)}).Error)

	vehicleService := services.NewVehicleService(db)
	uploadDir := t.TempDir()
	router := routes.SetupRouter(
		controllers.NewCatalogController(vehicleService),
		controllers.NewAdminController(vehicleService, services.NewUploadService(uploadDir)),
		controllers.NewAuthController(services.NewAuthService(db)),
		uploadDir,
	)
	return router, db
}

func login(t *testing.T, router *gin.Engine) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "admin123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := rec.Header().Get("Set-Cookie")
	require.NotEmpty(t, cookie)
	return strings.Split(cookie, ";")[0]
}

func vehicleFormBody(t *testing.T, fields map[string]string, fileNames []string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for _, name := range fileNames {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func validVehicleFields() map[string]string {
	return map[string]string{
		"title":         "2020 Honda Civic LX",
		"category":      "Cars",
		"make":          "Honda",
		"model":         "Civic",
		"year":          "2020",
		"price":         "18500",
		"mileage":       "45000",
		"description":   "Excellent condition, one owner.",
		"contact_name":  "Auto Dealership",
		"contact_phone": "(555) 123-4567",
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func countVehicles(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Vehicle{}).Count(&n).Error)
	return n
}

func TestAdminRoutesRefuseAnonymousCallers(t *testing.T) {
	router, db := setupRouter(t)

	body, contentType := vehicleFormBody(t, validVehicleFields(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/vehicles", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.EqualValues(t, 0, countVehicles(t, db), "gate must refuse before any side effect")

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/vehicles"},
		{http.MethodDelete, "/api/admin/vehicles/some-id"},
		{http.MethodPost, "/api/admin/vehicles/some-id/toggle-status"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := setupRouter(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", decodeBody(t, rec)["error"])
}

func TestSessionLifecycle(t *testing.T) {
	router, _ := setupRouter(t)
	cookie := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Cookie", cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, true, data["logged_in"])
	assert.Equal(t, "admin", data["username"])

	// Logout clears the session; the old cookie no longer opens the gate.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Cookie", cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	expired := strings.Split(rec.Header().Get("Set-Cookie"), ";")[0]
	req = httptest.NewRequest(http.MethodGet, "/api/admin/vehicles", nil)
	req.Header.Set("Cookie", expired)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateVehicleThroughAdminAPI(t *testing.T) {
	router, db := setupRouter(t)
	cookie := login(t, router)

	fields := validVehicleFields()
	fields["status"] = "sold" // must be ignored on create
	body, contentType := vehicleFormBody(t, fields, []string{"front.jpg", "malware.exe"})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/vehicles", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cookie", cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	vehicle := decodeBody(t, rec)["data"].(map[string]any)["vehicle"].(map[string]any)
	assert.Equal(t, "available", vehicle["status"])
	assert.Equal(t, "2020 Honda Civic LX", vehicle["title"])

	images := vehicle["images"].([]any)
	require.Len(t, images, 1, "only the jpg upload is accepted")
	assert.True(t, strings.HasSuffix(images[0].(string), "_front.jpg"))

	assert.EqualValues(t, 1, countVehicles(t, db))
}

func TestCreateVehicleValidationErrors(t *testing.T) {
	router, db := setupRouter(t)
	cookie := login(t, router)

	fields := validVehicleFields()
	fields["title"] = "abc"
	fields["year"] = "1200"
	body, contentType := vehicleFormBody(t, fields, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/vehicles", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cookie", cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	parsed := decodeBody(t, rec)
	assert.Equal(t, "Validation failed", parsed["error"])
	errs := parsed["errors"].(map[string]any)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "year")

	assert.EqualValues(t, 0, countVehicles(t, db))
}

func TestToggleAndDeleteThroughAdminAPI(t *testing.T) {
	router, db := setupRouter(t)
	cookie := login(t, router)

	svc := services.NewVehicleService(db)
	created, err := svc.Create(services.VehicleInput{
		Title: "2019 Ford F-150 XLT", Category: "Trucks", Make: "Ford", Model: "F-150",
		Year: 2019, Price: 32900, Mileage: 68000,
		ContactName: "Auto Dealership", ContactPhone: "(555) 123-4567",
	}, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/vehicles/"+created.ID+"/toggle-status", nil)
	req.Header.Set("Cookie", cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "sold", data["new_status"])

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/vehicles/"+created.ID, nil)
	req.Header.Set("Cookie", cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, countVehicles(t, db))

	// Second delete of the same id is a 404.
	req = httptest.NewRequest(http.MethodDelete, "/api/admin/vehicles/"+created.ID, nil)
	req.Header.Set("Cookie", cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
