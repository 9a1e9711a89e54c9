package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/documents"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/logger"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/metrics"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/middleware"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/notify"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/numbering"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/repository"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/risk"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/services"
)

// testEnv carries a fully wired router over the in-memory store, plus the
// services for test arrangement and a default acting user.
type testEnv struct {
	router     *gin.Engine
	userID     uuid.UUID
	landlords  services.LandlordService
	properties services.PropertyService
	tenants    services.TenantService
	policies   services.PolicyService
	claims     services.ClaimService
}

// setupTestRouter builds the API surface the way the server does, backed by
// the in-memory store.
func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	log := logger.New("test")
	store := repository.NewMemory()
	m := metrics.New(prometheus.NewRegistry())
	numbers := numbering.NewGenerator()
	scorer := risk.NewHeuristicScorer()
	renderer := documents.NewTextRenderer()
	sender := notify.NewLogSender(log)

	landlordService := services.NewLandlordService(store, log)
	propertyService := services.NewPropertyService(store, log)
	tenantService := services.NewTenantService(store, log)
	policyService := services.NewPolicyService(store, numbers, scorer, renderer, sender, m, log)
	claimService := services.NewClaimService(store, numbers, sender, m, log)

	landlordHandler := NewLandlordHandler(landlordService)
	propertyHandler := NewPropertyHandler(propertyService)
	tenantHandler := NewTenantHandler(tenantService)
	policyHandler := NewPolicyHandler(policyService)
	claimHandler := NewClaimHandler(claimService)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())
	{
		landlords := v1.Group("/landlords")
		{
			landlords.POST("", landlordHandler.Create)
			landlords.GET("", landlordHandler.List)
			landlords.GET("/:id", landlordHandler.Get)
			landlords.PATCH("/:id", landlordHandler.Update)
			landlords.DELETE("/:id", landlordHandler.Delete)
			landlords.GET("/:id/properties", propertyHandler.ListByLandlord)
			landlords.GET("/:id/policies", policyHandler.ListByLandlord)
		}

		properties := v1.Group("/properties")
		{
			properties.POST("", propertyHandler.Create)
			properties.GET("", propertyHandler.List)
			properties.GET("/:id", propertyHandler.Get)
			properties.PATCH("/:id", propertyHandler.Update)
			properties.DELETE("/:id", propertyHandler.Delete)
			properties.GET("/:id/tenants", tenantHandler.ListByProperty)
		}

		tenants := v1.Group("/tenants")
		{
			tenants.POST("", tenantHandler.Create)
			tenants.GET("", tenantHandler.List)
			tenants.GET("/:id", tenantHandler.Get)
			tenants.PATCH("/:id", tenantHandler.Update)
			tenants.DELETE("/:id", tenantHandler.Delete)
		}

		policies := v1.Group("/policies")
		{
			policies.POST("", policyHandler.Create)
			policies.GET("", policyHandler.List)
			policies.GET("/:id", policyHandler.Get)
			policies.PATCH("/:id/status", policyHandler.UpdateStatus)
			policies.DELETE("/:id", policyHandler.Delete)
			policies.GET("/:id/document", policyHandler.Document)
			policies.GET("/:id/claims", claimHandler.ListByPolicy)
		}

		claims := v1.Group("/claims")
		{
			claims.POST("", claimHandler.Create)
			claims.GET("", claimHandler.List)
			claims.GET("/:id", claimHandler.Get)
			claims.PATCH("/:id", claimHandler.Update)
			claims.DELETE("/:id", claimHandler.Delete)
		}
	}

	return &testEnv{
		router:     router,
		userID:     uuid.New(),
		landlords:  landlordService,
		properties: propertyService,
		tenants:    tenantService,
		policies:   policyService,
		claims:     claimService,
	}
}

// do performs a request as the environment's default user.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doAs(t, e.userID.String(), method, path, body)
}

// doAs performs a request with an explicit X-User-ID header value; an empty
// value omits the header entirely.
func (e *testEnv) doAs(t *testing.T, userID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decodeData unwraps the data envelope into out.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data, "response must carry a data envelope")
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

// decodeError unwraps the error envelope and returns its code and message.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Error.Code, "response must carry an error envelope")
	return envelope.Error.Code, envelope.Error.Message
}

func (e *testEnv) seedLandlord(t *testing.T) *models.Landlord {
	t.Helper()
	landlord, err := e.landlords.Create(context.Background(), e.userID, services.CreateLandlordInput{
		FullName: "Marie Dupont",
		Email:    "marie.dupont@example.com",
		Phone:    "+33612345678",
	})
	require.NoError(t, err)
	return landlord
}

func (e *testEnv) seedProperty(t *testing.T, landlordID uuid.UUID) *models.Property {
	t.Helper()
	property, err := e.properties.Create(context.Background(), e.userID, services.CreatePropertyInput{
		LandlordID: landlordID,
		Address:    "12 Rue de la République, Lyon",
		RentAmount: 1000,
		Type:       models.PropertyTypeApartment,
		MaxTenants: 4,
	})
	require.NoError(t, err)
	return property
}

func (e *testEnv) seedTenant(t *testing.T, propertyID uuid.UUID) *models.Tenant {
	t.Helper()
	tenant, err := e.tenants.Create(context.Background(), e.userID, services.CreateTenantInput{
		PropertyID:    propertyID,
		FullName:      "Lucas Moreau",
		Email:         "lucas.moreau@example.com",
		Phone:         "+33698765432",
		RentAmount:    1000,
		PaymentStatus: models.PaymentStatusPaid,
		LeaseStart:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LeaseEnd:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return tenant
}

func (e *testEnv) seedChain(t *testing.T) (*models.Landlord, *models.Property, *models.Tenant) {
	t.Helper()
	landlord := e.seedLandlord(t)
	property := e.seedProperty(t, landlord.ID)
	tenant := e.seedTenant(t, property.ID)
	return landlord, property, tenant
}

func (e *testEnv) seedPolicy(t *testing.T, landlordID, propertyID, tenantID uuid.UUID) *models.Policy {
	t.Helper()
	policy, err := e.policies.Create(context.Background(), e.userID, services.CreatePolicyInput{
		LandlordID:     landlordID,
		PropertyID:     propertyID,
		TenantID:       tenantID,
		CoverageMonths: 12,
		StartDate:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return policy
}

func (e *testEnv) seedClaim(t *testing.T, policyID uuid.UUID) *models.Claim {
	t.Helper()
	claim, err := e.claims.Create(context.Background(), e.userID, services.CreateClaimInput{
		PolicyID:           policyID,
		AmountRequested:    2000,
		MonthsOfUnpaidRent: 2,
		EvidenceURLs:       []string{"https://docs.example.com/notice.pdf"},
		Notes:              "two months unpaid",
	})
	require.NoError(t, err)
	return claim
}
