package service

import (
	"context"
	"time"

	"airtecs/internal/models"
	"airtecs/internal/notifications"
)

type requestRepoStub struct {
	insertFn                  func(context.Context, *models.ServiceRequest) error
	getByIDFn                 func(context.Context, string) (*models.ServiceRequest, error)
	findActiveByCustomerFn    func(context.Context, uint) (*models.ServiceRequest, error)
	findWorkingByTechnicianFn func(context.Context, uint) (*models.ServiceRequest, error)
	listByStatusFn            func(context.Context, models.RequestStatus, int, int) ([]models.ServiceRequest, error)
	listByTechnicianFn        func(context.Context, uint, []models.RequestStatus) ([]models.ServiceRequest, error)
	findPendingExpiredFn      func(context.Context, time.Time) ([]models.ServiceRequest, error)
	updateStatusFn            func(context.Context, string, models.RequestStatus, models.RequestStatus, map[string]interface{}) (bool, error)
	conditionalDeleteFn       func(context.Context, string, []models.RequestStatus) (bool, error)
	deleteFn                  func(context.Context, string) error
}

func (s *requestRepoStub) Insert(ctx context.Context, req *models.ServiceRequest) error {
	return s.insertFn(ctx, req)
}
func (s *requestRepoStub) GetByID(ctx context.Context, id string) (*models.ServiceRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *requestRepoStub) FindActiveByCustomer(ctx context.Context, customerID uint) (*models.ServiceRequest, error) {
	return s.findActiveByCustomerFn(ctx, customerID)
}
func (s *requestRepoStub) FindWorkingByTechnician(ctx context.Context, technicianID uint) (*models.ServiceRequest, error) {
	return s.findWorkingByTechnicianFn(ctx, technicianID)
}
func (s *requestRepoStub) ListByStatus(ctx context.Context, status models.RequestStatus, limit, offset int) ([]models.ServiceRequest, error) {
	return s.listByStatusFn(ctx, status, limit, offset)
}
func (s *requestRepoStub) ListByTechnician(ctx context.Context, technicianID uint, statuses []models.RequestStatus) ([]models.ServiceRequest, error) {
	return s.listByTechnicianFn(ctx, technicianID, statuses)
}
func (s *requestRepoStub) FindPendingExpired(ctx context.Context, now time.Time) ([]models.ServiceRequest, error) {
	return s.findPendingExpiredFn(ctx, now)
}
func (s *requestRepoStub) UpdateStatus(ctx context.Context, id string, expected, next models.RequestStatus, fields map[string]interface{}) (bool, error) {
	return s.updateStatusFn(ctx, id, expected, next, fields)
}
func (s *requestRepoStub) ConditionalDelete(ctx context.Context, id string, statuses []models.RequestStatus) (bool, error) {
	return s.conditionalDeleteFn(ctx, id, statuses)
}
func (s *requestRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type progressRepoStub struct {
	appendFn         func(context.Context, *models.ProgressEntry) error
	listByRequestFn  func(context.Context, string) ([]models.ProgressEntry, error)
	lastStageFn      func(context.Context, string) (models.Stage, bool, error)
	countByRequestFn func(context.Context, string) (int64, error)
}

func (s *progressRepoStub) Append(ctx context.Context, entry *models.ProgressEntry) error {
	return s.appendFn(ctx, entry)
}
func (s *progressRepoStub) ListByRequest(ctx context.Context, requestID string) ([]models.ProgressEntry, error) {
	return s.listByRequestFn(ctx, requestID)
}
func (s *progressRepoStub) LastStage(ctx context.Context, requestID string) (models.Stage, bool, error) {
	return s.lastStageFn(ctx, requestID)
}
func (s *progressRepoStub) CountByRequest(ctx context.Context, requestID string) (int64, error) {
	return s.countByRequestFn(ctx, requestID)
}

type paymentRepoStub struct {
	createFn                    func(context.Context, *models.Payment) error
	getByRequestIDFn            func(context.Context, string) (*models.Payment, error)
	updateStatusFn              func(context.Context, string, models.PaymentStatus, models.PaymentStatus, string, *time.Time) (bool, error)
	listConfirmedByTechnicianFn func(context.Context, uint) ([]models.Payment, error)
}

func (s *paymentRepoStub) Create(ctx context.Context, payment *models.Payment) error {
	return s.createFn(ctx, payment)
}
func (s *paymentRepoStub) GetByRequestID(ctx context.Context, requestID string) (*models.Payment, error) {
	return s.getByRequestIDFn(ctx, requestID)
}
func (s *paymentRepoStub) UpdateStatus(ctx context.Context, id string, expected, next models.PaymentStatus, reference string, paidAt *time.Time) (bool, error) {
	return s.updateStatusFn(ctx, id, expected, next, reference, paidAt)
}
func (s *paymentRepoStub) ListConfirmedByTechnician(ctx context.Context, technicianID uint) ([]models.Payment, error) {
	return s.listConfirmedByTechnicianFn(ctx, technicianID)
}

type catalogRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.ServiceType, error)
	listFn    func(context.Context) ([]models.ServiceType, error)
	createFn  func(context.Context, *models.ServiceType) error
}

func (s *catalogRepoStub) GetByID(ctx context.Context, id uint) (*models.ServiceType, error) {
	return s.getByIDFn(ctx, id)
}
func (s *catalogRepoStub) List(ctx context.Context) ([]models.ServiceType, error) {
	return s.listFn(ctx)
}
func (s *catalogRepoStub) Create(ctx context.Context, st *models.ServiceType) error {
	return s.createFn(ctx, st)
}

type profileRepoStub struct {
	getByTechnicianFn func(context.Context, uint) (*models.TechnicianProfile, error)
	upsertFn          func(context.Context, *models.TechnicianProfile) error
}

func (s *profileRepoStub) GetByTechnician(ctx context.Context, technicianID uint) (*models.TechnicianProfile, error) {
	return s.getByTechnicianFn(ctx, technicianID)
}
func (s *profileRepoStub) Upsert(ctx context.Context, profile *models.TechnicianProfile) error {
	return s.upsertFn(ctx, profile)
}

type notificationRepoStub struct {
	createFn        func(context.Context, *models.Notification) error
	listByUserFn    func(context.Context, uint) ([]models.Notification, error)
	markReadFn      func(context.Context, uint, []uint) (int64, error)
	deleteExpiredFn func(context.Context, time.Time) (int64, error)
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, userID uint, ids []uint) (int64, error) {
	return s.markReadFn(ctx, userID, ids)
}
func (s *notificationRepoStub) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.deleteExpiredFn(ctx, now)
}

func noopRequestRepo() *requestRepoStub {
	return &requestRepoStub{
		insertFn:  func(context.Context, *models.ServiceRequest) error { return nil },
		getByIDFn: func(context.Context, string) (*models.ServiceRequest, error) { return &models.ServiceRequest{}, nil },
		findActiveByCustomerFn: func(context.Context, uint) (*models.ServiceRequest, error) {
			return nil, nil
		},
		findWorkingByTechnicianFn: func(context.Context, uint) (*models.ServiceRequest, error) {
			return nil, nil
		},
		listByStatusFn: func(context.Context, models.RequestStatus, int, int) ([]models.ServiceRequest, error) {
			return nil, nil
		},
		listByTechnicianFn: func(context.Context, uint, []models.RequestStatus) ([]models.ServiceRequest, error) {
			return nil, nil
		},
		findPendingExpiredFn: func(context.Context, time.Time) ([]models.ServiceRequest, error) {
			return nil, nil
		},
		updateStatusFn: func(context.Context, string, models.RequestStatus, models.RequestStatus, map[string]interface{}) (bool, error) {
			return true, nil
		},
		conditionalDeleteFn: func(context.Context, string, []models.RequestStatus) (bool, error) {
			return true, nil
		},
		deleteFn: func(context.Context, string) error { return nil },
	}
}

func noopProgressRepo() *progressRepoStub {
	return &progressRepoStub{
		appendFn:        func(context.Context, *models.ProgressEntry) error { return nil },
		listByRequestFn: func(context.Context, string) ([]models.ProgressEntry, error) { return nil, nil },
		lastStageFn:     func(context.Context, string) (models.Stage, bool, error) { return "", false, nil },
		countByRequestFn: func(context.Context, string) (int64, error) {
			return 0, nil
		},
	}
}

func noopPaymentRepo() *paymentRepoStub {
	return &paymentRepoStub{
		createFn:         func(context.Context, *models.Payment) error { return nil },
		getByRequestIDFn: func(context.Context, string) (*models.Payment, error) { return nil, nil },
		updateStatusFn: func(context.Context, string, models.PaymentStatus, models.PaymentStatus, string, *time.Time) (bool, error) {
			return true, nil
		},
		listConfirmedByTechnicianFn: func(context.Context, uint) ([]models.Payment, error) { return nil, nil },
	}
}

func noopCatalogRepo() *catalogRepoStub {
	return &catalogRepoStub{
		getByIDFn: func(context.Context, uint) (*models.ServiceType, error) {
			return &models.ServiceType{ID: 1, Name: "Refrigerator repair", Amount: 850}, nil
		},
		listFn:   func(context.Context) ([]models.ServiceType, error) { return nil, nil },
		createFn: func(context.Context, *models.ServiceType) error { return nil },
	}
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByTechnicianFn: func(context.Context, uint) (*models.TechnicianProfile, error) {
			return &models.TechnicianProfile{TechnicianID: 7, FullName: "Ana Torres", Phone: "5512345678", Specialty: "Refrigeration"}, nil
		},
		upsertFn: func(context.Context, *models.TechnicianProfile) error { return nil },
	}
}

func testRelay() *notifications.Relay {
	return notifications.NewRelay(nil, nil)
}

type reportRepoStub struct {
	createFn        func(context.Context, *models.Report) error
	listByRequestFn func(context.Context, string) ([]models.Report, error)
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) error {
	return s.createFn(ctx, report)
}
func (s *reportRepoStub) ListByRequest(ctx context.Context, requestID string) ([]models.Report, error) {
	return s.listByRequestFn(ctx, requestID)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn:        func(context.Context, *models.Report) error { return nil },
		listByRequestFn: func(context.Context, string) ([]models.Report, error) { return nil, nil },
	}
}
