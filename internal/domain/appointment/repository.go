package appointment

import (
	"context"
	"time"

	"github.com/plushify/plushify-api/internal/models"
)

type Repository interface {
	// -------- Business --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		businessID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	AssertNoTimeConflict(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	ListAppointmentsByIDs(
		ctx context.Context,
		businessID uint,
		ids []uint,
	) ([]models.Appointment, error)

	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) error

	// -------- Listing --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		businessID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
