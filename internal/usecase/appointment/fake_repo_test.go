package appointment

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/models"
)

type fakeRepo struct {
	mu sync.Mutex

	business     models.Business
	service      models.Service
	appointments map[uint]models.Appointment

	updates []models.Appointment
	deletes []uint
	created []models.Appointment

	conflictErr error
	failUpdate  map[uint]error
}

func newFakeRepo(apps ...models.Appointment) *fakeRepo {
	r := &fakeRepo{
		business:     models.Business{ID: 1, Timezone: "America/Sao_Paulo"},
		service:      models.Service{ID: 1, BusinessID: 1, Name: "Corte", DurationMin: 45},
		appointments: map[uint]models.Appointment{},
		failUpdate:   map[uint]error{},
	}
	for _, ap := range apps {
		r.appointments[ap.ID] = ap
	}
	return r
}

func (r *fakeRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates) + len(r.deletes)
}

func (r *fakeRepo) GetBusinessByID(_ context.Context, id uint) (*models.Business, error) {
	if id != r.business.ID {
		return nil, gorm.ErrRecordNotFound
	}
	b := r.business
	return &b, nil
}

func (r *fakeRepo) GetService(_ context.Context, businessID, serviceID uint) (*models.Service, error) {
	if serviceID != r.service.ID || businessID != r.service.BusinessID {
		return nil, gorm.ErrRecordNotFound
	}
	s := r.service
	return &s, nil
}

func (r *fakeRepo) GetOrCreateClient(_ context.Context, businessID uint, name, phone, email string) (*models.Client, error) {
	return &models.Client{ID: 77, BusinessID: businessID, Name: name, Phone: phone, Email: email}, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap.ID = uint(len(r.created) + 100)
	r.created = append(r.created, *ap)
	return nil
}

func (r *fakeRepo) AssertNoTimeConflict(context.Context, uint, time.Time, time.Time) error {
	return r.conflictErr
}

func (r *fakeRepo) GetAppointment(_ context.Context, businessID, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok || ap.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	return &ap, nil
}

func (r *fakeRepo) ListAppointmentsByIDs(_ context.Context, businessID uint, ids []uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, id := range ids {
		if ap, ok := r.appointments[id]; ok && ap.BusinessID == businessID {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateAppointmentStatus(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failUpdate[ap.ID]; err != nil {
		return err
	}
	r.updates = append(r.updates, *ap)
	return nil
}

func (r *fakeRepo) DeleteAppointment(_ context.Context, _ uint, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, id)
	return nil
}

func (r *fakeRepo) ListAppointmentsForPeriod(_ context.Context, businessID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.BusinessID == businessID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, ap)
		}
	}
	return out, nil
}

type fakeAwarder struct {
	mu      sync.Mutex
	awarded []uint
}

func (f *fakeAwarder) AwardForAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.awarded = append(f.awarded, ap.ID)
	return nil
}
