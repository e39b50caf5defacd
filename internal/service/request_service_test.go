package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"airtecs/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRequestService(requests *requestRepoStub, progress *progressRepoStub, catalog *catalogRepoStub, profiles *profileRepoStub) *RequestService {
	return NewRequestService(requests, progress, catalog, profiles, testRelay())
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}

func validCreateInput() CreateRequestInput {
	return CreateRequestInput{
		CustomerID:     3,
		ServiceTypeID:  1,
		ApplianceBrand: "Mabe",
		ApplianceType:  "Refrigerator",
		Description:    "Not cooling",
		Address:        "Av. Reforma 100",
		ScheduledDate:  "2030-05-20",
		ScheduledTime:  "10:00",
	}
}

func TestRequestServiceCreate(t *testing.T) {
	requests := noopRequestRepo()
	var inserted *models.ServiceRequest
	requests.insertFn = func(_ context.Context, req *models.ServiceRequest) error {
		inserted = req
		return nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	fixed := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	req, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.NotNil(t, inserted)

	assert.Equal(t, models.RequestStatusPending, req.Status)
	assert.Equal(t, uint(3), req.CustomerID)
	assert.Equal(t, 850.0, req.Amount)
	assert.Equal(t, "Refrigerator repair", req.ServiceName)
	assert.Equal(t, fixed.Add(PendingTTL), req.ExpiresAt)
}

func TestRequestServiceCreateMissingFields(t *testing.T) {
	svc := newRequestService(noopRequestRepo(), noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())

	in := validCreateInput()
	in.Address = "  "
	_, err := svc.Create(context.Background(), in)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestRequestServiceCreatePastDate(t *testing.T) {
	svc := newRequestService(noopRequestRepo(), noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	svc.now = func() time.Time { return time.Date(2030, 5, 21, 8, 0, 0, 0, time.UTC) }

	_, err := svc.Create(context.Background(), validCreateInput())
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestRequestServiceCreateBadTime(t *testing.T) {
	svc := newRequestService(noopRequestRepo(), noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())

	in := validCreateInput()
	in.ScheduledTime = "25:00"
	_, err := svc.Create(context.Background(), in)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestRequestServiceCreateSecondActive(t *testing.T) {
	requests := noopRequestRepo()
	requests.findActiveByCustomerFn = func(context.Context, uint) (*models.ServiceRequest, error) {
		return &models.ServiceRequest{ID: "existing", Status: models.RequestStatusAssigned}, nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	_, err := svc.Create(context.Background(), validCreateInput())
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestRequestServiceCreateUnknownServiceType(t *testing.T) {
	catalog := noopCatalogRepo()
	catalog.getByIDFn = func(context.Context, uint) (*models.ServiceType, error) { return nil, nil }

	svc := newRequestService(noopRequestRepo(), noopProgressRepo(), catalog, noopProfileRepo())
	_, err := svc.Create(context.Background(), validCreateInput())
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func pendingRequest(id string, customerID uint) *models.ServiceRequest {
	return &models.ServiceRequest{
		ID:         id,
		CustomerID: customerID,
		Status:     models.RequestStatusPending,
	}
}

func TestRequestServiceAssign(t *testing.T) {
	requests := noopRequestRepo()
	requests.getByIDFn = func(_ context.Context, id string) (*models.ServiceRequest, error) {
		return pendingRequest(id, 3), nil
	}
	var casFields map[string]interface{}
	requests.updateStatusFn = func(_ context.Context, _ string, expected, next models.RequestStatus, fields map[string]interface{}) (bool, error) {
		assert.Equal(t, models.RequestStatusPending, expected)
		assert.Equal(t, models.RequestStatusAssigned, next)
		casFields = fields
		return true, nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	req, err := svc.Assign(context.Background(), "req-1", 7)
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusAssigned, req.Status)
	require.NotNil(t, req.TechnicianID)
	assert.Equal(t, uint(7), *req.TechnicianID)

	code, ok := casFields["confirmation_code"].(string)
	require.True(t, ok)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{6}$`), code)
	assert.Equal(t, code, req.ConfirmationCode)
}

func TestRequestServiceAssignIncompleteProfile(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByTechnicianFn = func(context.Context, uint) (*models.TechnicianProfile, error) {
		return &models.TechnicianProfile{TechnicianID: 7, FullName: "Ana Torres"}, nil
	}

	svc := newRequestService(noopRequestRepo(), noopProgressRepo(), noopCatalogRepo(), profiles)
	_, err := svc.Assign(context.Background(), "req-1", 7)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestRequestServiceAssignNoProfile(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByTechnicianFn = func(context.Context, uint) (*models.TechnicianProfile, error) {
		return nil, nil
	}

	svc := newRequestService(noopRequestRepo(), noopProgressRepo(), noopCatalogRepo(), profiles)
	_, err := svc.Assign(context.Background(), "req-1", 7)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestRequestServiceAssignBusyTechnician(t *testing.T) {
	requests := noopRequestRepo()
	requests.findWorkingByTechnicianFn = func(context.Context, uint) (*models.ServiceRequest, error) {
		return &models.ServiceRequest{ID: "other", Status: models.RequestStatusEnRoute}, nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	_, err := svc.Assign(context.Background(), "req-1", 7)
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestRequestServiceAssignNotPending(t *testing.T) {
	requests := noopRequestRepo()
	requests.getByIDFn = func(_ context.Context, id string) (*models.ServiceRequest, error) {
		req := pendingRequest(id, 3)
		req.Status = models.RequestStatusAssigned
		return req, nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	_, err := svc.Assign(context.Background(), "req-1", 7)
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestRequestServiceAssignLostRace(t *testing.T) {
	requests := noopRequestRepo()
	requests.getByIDFn = func(_ context.Context, id string) (*models.ServiceRequest, error) {
		return pendingRequest(id, 3), nil
	}
	requests.updateStatusFn = func(context.Context, string, models.RequestStatus, models.RequestStatus, map[string]interface{}) (bool, error) {
		// Another technician accepted between the read and the write.
		return false, nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	_, err := svc.Assign(context.Background(), "req-1", 7)
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestRequestServiceAssignMissingRequest(t *testing.T) {
	requests := noopRequestRepo()
	requests.getByIDFn = func(context.Context, string) (*models.ServiceRequest, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	_, err := svc.Assign(context.Background(), "req-1", 7)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestRequestServiceCancelByOwner(t *testing.T) {
	technicianID := uint(7)
	requests := noopRequestRepo()
	requests.getByIDFn = func(_ context.Context, id string) (*models.ServiceRequest, error) {
		req := pendingRequest(id, 3)
		req.Status = models.RequestStatusAssigned
		req.TechnicianID = &technicianID
		return req, nil
	}
	var deleteStatuses []models.RequestStatus
	requests.conditionalDeleteFn = func(_ context.Context, _ string, statuses []models.RequestStatus) (bool, error) {
		deleteStatuses = statuses
		return true, nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	err := svc.Cancel(context.Background(), "req-1", 3, RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, []models.RequestStatus{models.RequestStatusPending, models.RequestStatusAssigned}, deleteStatuses)
}

func TestRequestServiceCancelNotOwner(t *testing.T) {
	requests := noopRequestRepo()
	requests.getByIDFn = func(_ context.Context, id string) (*models.ServiceRequest, error) {
		return pendingRequest(id, 3), nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	err := svc.Cancel(context.Background(), "req-1", 4, RoleCustomer)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestRequestServiceCancelTechnicianNotAssigned(t *testing.T) {
	other := uint(8)
	requests := noopRequestRepo()
	requests.getByIDFn = func(_ context.Context, id string) (*models.ServiceRequest, error) {
		req := pendingRequest(id, 3)
		req.Status = models.RequestStatusAssigned
		req.TechnicianID = &other
		return req, nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	err := svc.Cancel(context.Background(), "req-1", 7, RoleTechnician)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestRequestServiceCancelAfterProgress(t *testing.T) {
	technicianID := uint(7)
	requests := noopRequestRepo()
	requests.getByIDFn = func(_ context.Context, id string) (*models.ServiceRequest, error) {
		req := pendingRequest(id, 3)
		req.Status = models.RequestStatusAssigned
		req.TechnicianID = &technicianID
		return req, nil
	}
	progress := noopProgressRepo()
	progress.countByRequestFn = func(context.Context, string) (int64, error) { return 1, nil }

	svc := newRequestService(requests, progress, noopCatalogRepo(), noopProfileRepo())
	err := svc.Cancel(context.Background(), "req-1", 3, RoleCustomer)
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestRequestServiceCancelTerminalStatus(t *testing.T) {
	requests := noopRequestRepo()
	requests.getByIDFn = func(_ context.Context, id string) (*models.ServiceRequest, error) {
		req := pendingRequest(id, 3)
		req.Status = models.RequestStatusCompleted
		return req, nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	err := svc.Cancel(context.Background(), "req-1", 3, RoleCustomer)
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestRequestServiceCancelLostRace(t *testing.T) {
	requests := noopRequestRepo()
	requests.getByIDFn = func(_ context.Context, id string) (*models.ServiceRequest, error) {
		return pendingRequest(id, 3), nil
	}
	requests.conditionalDeleteFn = func(context.Context, string, []models.RequestStatus) (bool, error) {
		return false, nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	err := svc.Cancel(context.Background(), "req-1", 3, RoleCustomer)
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestRequestServiceExpireSweep(t *testing.T) {
	requests := noopRequestRepo()
	requests.findPendingExpiredFn = func(context.Context, time.Time) ([]models.ServiceRequest, error) {
		return []models.ServiceRequest{
			{ID: "stale-1", CustomerID: 3, Status: models.RequestStatusPending},
			{ID: "stale-2", CustomerID: 4, Status: models.RequestStatusPending},
		}, nil
	}
	requests.conditionalDeleteFn = func(_ context.Context, id string, statuses []models.RequestStatus) (bool, error) {
		assert.Equal(t, []models.RequestStatus{models.RequestStatusPending}, statuses)
		// stale-2 was accepted after the sweep query ran.
		return id == "stale-1", nil
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	deleted, err := svc.ExpireSweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}

func TestRequestServiceActiveForCustomerNone(t *testing.T) {
	svc := newRequestService(noopRequestRepo(), noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	_, err := svc.ActiveForCustomer(context.Background(), 3)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestRequestServiceGetMissing(t *testing.T) {
	requests := noopRequestRepo()
	requests.getByIDFn = func(context.Context, string) (*models.ServiceRequest, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	_, err := svc.Get(context.Background(), "req-1")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestRequestServiceGetStoreDown(t *testing.T) {
	requests := noopRequestRepo()
	requests.getByIDFn = func(context.Context, string) (*models.ServiceRequest, error) {
		return nil, errors.New("connection refused")
	}

	svc := newRequestService(requests, noopProgressRepo(), noopCatalogRepo(), noopProfileRepo())
	_, err := svc.Get(context.Background(), "req-1")
	assertAppErrorCode(t, err, models.CodeUnavailable)
}
