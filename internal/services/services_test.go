package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/documents"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/logger"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/metrics"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/notify"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/repository"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/risk"
)

// seqGenerator is a numbering.Generator for tests: scripted candidates are
// handed out first (to force collisions), then a process-unique sequence.
// Safe for concurrent use.
type seqGenerator struct {
	mu       sync.Mutex
	policies []string
	claims   []string
	seq      int64
}

func (g *seqGenerator) PolicyNumber() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.policies) > 0 {
		n := g.policies[0]
		g.policies = g.policies[1:]
		return n
	}
	g.seq++
	return fmt.Sprintf("POL-%08d", g.seq)
}

func (g *seqGenerator) ClaimNumber() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.claims) > 0 {
		n := g.claims[0]
		g.claims = g.claims[1:]
		return n
	}
	g.seq++
	return fmt.Sprintf("CLM-%08d", g.seq)
}

func (g *seqGenerator) scriptPolicyNumbers(numbers ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.policies = append(g.policies, numbers...)
}

func (g *seqGenerator) scriptClaimNumbers(numbers ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.claims = append(g.claims, numbers...)
}

// stubScorer is a risk.Scorer returning a canned evaluation.
type stubScorer struct {
	eval risk.Evaluation
	err  error
}

func (s *stubScorer) Evaluate(context.Context, risk.QuoteInput) (risk.Evaluation, error) {
	return s.eval, s.err
}

// sentNotification is one delivery captured by recordingSender.
type sentNotification struct {
	Recipient string
	Kind      notify.Kind
	Payload   map[string]any
}

// recordingSender is a notify.Sender that captures deliveries for assertion.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (s *recordingSender) Send(_ context.Context, recipient string, kind notify.Kind, payload map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentNotification{Recipient: recipient, Kind: kind, Payload: payload})
	return nil
}

func (s *recordingSender) kinds() []notify.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]notify.Kind, len(s.sent))
	for i, n := range s.sent {
		kinds[i] = n.Kind
	}
	return kinds
}

func (s *recordingSender) last(t *testing.T) sentNotification {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.sent, "expected at least one notification")
	return s.sent[len(s.sent)-1]
}

// fixture wires every service onto a single in-memory store with recording
// collaborators, mirroring how main wires them onto Postgres.
type fixture struct {
	store      repository.Store
	metrics    *metrics.Metrics
	sender     *recordingSender
	numbers    *seqGenerator
	landlords  LandlordService
	properties PropertyService
	tenants    TenantService
	policies   PolicyService
	claims     ClaimService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithScorer(t, risk.NewHeuristicScorer())
}

func newFixtureWithScorer(t *testing.T, scorer risk.Scorer) *fixture {
	t.Helper()

	log := logger.New("test")
	store := repository.NewMemory()
	m := metrics.New(prometheus.NewRegistry())
	sender := &recordingSender{}
	numbers := &seqGenerator{}

	return &fixture{
		store:      store,
		metrics:    m,
		sender:     sender,
		numbers:    numbers,
		landlords:  NewLandlordService(store, log),
		properties: NewPropertyService(store, log),
		tenants:    NewTenantService(store, log),
		policies:   NewPolicyService(store, numbers, scorer, documents.NewTextRenderer(), sender, m, log),
		claims:     NewClaimService(store, numbers, sender, m, log),
	}
}

func (f *fixture) seedLandlord(t *testing.T, userID uuid.UUID) *models.Landlord {
	t.Helper()
	landlord, err := f.landlords.Create(context.Background(), userID, CreateLandlordInput{
		FullName: "Claire Fontaine",
		Email:    "claire.fontaine@example.com",
		Phone:    "+33611223344",
	})
	require.NoError(t, err)
	return landlord
}

func (f *fixture) seedProperty(t *testing.T, userID, landlordID uuid.UUID) *models.Property {
	t.Helper()
	property, err := f.properties.Create(context.Background(), userID, CreatePropertyInput{
		LandlordID: landlordID,
		Address:    "3 Place Bellecour, Lyon",
		RentAmount: 1000,
		Type:       models.PropertyTypeApartment,
		MaxTenants: 4,
	})
	require.NoError(t, err)
	return property
}

// seedTenant creates a clean payer on a 12-month lease: the heuristic scores
// the tenancy 90, accepted outright.
func (f *fixture) seedTenant(t *testing.T, userID, propertyID uuid.UUID) *models.Tenant {
	t.Helper()
	tenant, err := f.tenants.Create(context.Background(), userID, CreateTenantInput{
		PropertyID:    propertyID,
		FullName:      "Nadia Benali",
		Email:         "nadia.benali@example.com",
		Phone:         "+33655667788",
		RentAmount:    1000,
		PaymentStatus: models.PaymentStatusPaid,
		LeaseStart:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LeaseEnd:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return tenant
}

func (f *fixture) seedChain(t *testing.T, userID uuid.UUID) (*models.Landlord, *models.Property, *models.Tenant) {
	t.Helper()
	landlord := f.seedLandlord(t, userID)
	property := f.seedProperty(t, userID, landlord.ID)
	tenant := f.seedTenant(t, userID, property.ID)
	return landlord, property, tenant
}

func (f *fixture) seedPolicy(t *testing.T, userID, landlordID, propertyID, tenantID uuid.UUID) *models.Policy {
	t.Helper()
	policy, err := f.policies.Create(context.Background(), userID, CreatePolicyInput{
		LandlordID:     landlordID,
		PropertyID:     propertyID,
		TenantID:       tenantID,
		CoverageMonths: 12,
		StartDate:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return policy
}

func (f *fixture) seedClaim(t *testing.T, userID, policyID uuid.UUID) *models.Claim {
	t.Helper()
	claim, err := f.claims.Create(context.Background(), userID, CreateClaimInput{
		PolicyID:           policyID,
		AmountRequested:    2000,
		MonthsOfUnpaidRent: 2,
		EvidenceURLs:       []string{"https://docs.example.com/notice.pdf"},
		Notes:              "two months unpaid",
	})
	require.NoError(t, err)
	return claim
}
