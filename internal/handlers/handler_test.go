package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/taxgeniuspro/linktrack/internal/config"
	"github.com/taxgeniuspro/linktrack/internal/models"
	"github.com/taxgeniuspro/linktrack/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const (
	testAPIKey        = "11111111-2222-3333-4444-555555555555"
	testWebhookSecret = "webhook-test-secret"
)

func setupTestHandler(t *testing.T) (*Handler, *gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:h_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	if err := db.AutoMigrate(&models.Creator{}, &models.Link{}, &models.Click{}, &models.FunnelStepStat{}, &models.AuditLog{}); err != nil {
		panic("failed to migrate database: " + err.Error())
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{
		SessionSecret: "test-session-secret",
		WebhookSecret: testWebhookSecret,
		FallbackURL:   "https://taxgeniuspro.tax",
		BaseURL:       "https://go.taxgeniuspro.tax",
	}

	auditService := services.NewAuditService(db, logger)
	geoIPService := services.NewGeoIPService(config.Config{}, logger)
	trackerService := services.NewTrackerService(db, logger, geoIPService, auditService)
	linkService := services.NewLinkService(db, auditService)
	reportService := services.NewReportService(db, logger)
	funnelService := services.NewFunnelService(db, logger)

	h := NewHandler(cfg, logger, db, nil, linkService, trackerService, reportService, funnelService, auditService)
	return h, h.SetupRouter(nil), db
}

func seedCreator(t *testing.T, db *gorm.DB) models.Creator {
	creator := models.Creator{
		FirstName: "Maria",
		LastName:  "Lopez",
		Email:     fmt.Sprintf("maria+%s@example.com", strings.ReplaceAll(t.Name(), "/", "_")),
		APIKey:    testAPIKey,
	}
	assert.NoError(t, db.Create(&creator).Error)
	return creator
}

func doRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}

func webhookToken(t *testing.T) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "intake-service",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testWebhookSecret))
	assert.NoError(t, err)
	return signed
}
