package repository

import (
	"context"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/domain"

	"gorm.io/gorm"
)

// AppointmentRepository defines the data operations for appointments.
// Every read and write is limited to rows visible to userID.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	FindByID(ctx context.Context, id, userID uint) (*domain.Appointment, error)
	FindByIDs(ctx context.Context, ids []uint, userID uint) ([]domain.Appointment, error)
	FindByDate(ctx context.Context, date time.Time, userID uint) ([]domain.Appointment, error)
	FindUpcoming(ctx context.Context, from time.Time, userID uint, assignment domain.Assignment, search string) ([]domain.Appointment, error)
	FindDated(ctx context.Context, userID uint) ([]domain.Appointment, error)
	Update(ctx context.Context, appointment *domain.Appointment) error
	UpdateDate(ctx context.Context, ids []uint, date *time.Time, userID uint) (int64, error)
	Delete(ctx context.Context, id, userID uint) (int64, error)
	DeleteMany(ctx context.Context, ids []uint, userID uint) (int64, error)
}

type gormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GORM appointment repository
func NewGormAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &gormAppointmentRepository{db: db}
}

func (r *gormAppointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *gormAppointmentRepository) FindByID(ctx context.Context, id, userID uint) (*domain.Appointment, error) {
	var appointment domain.Appointment
	result := r.db.WithContext(ctx).Scopes(visibleTo(userID)).First(&appointment, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &appointment, nil
}

func (r *gormAppointmentRepository) FindByIDs(ctx context.Context, ids []uint, userID uint) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	if len(ids) == 0 {
		return appointments, nil
	}
	result := r.db.WithContext(ctx).Scopes(visibleTo(userID)).Where("id IN ?", ids).Order("id ASC").Find(&appointments)
	if result.Error != nil {
		return nil, result.Error
	}
	return appointments, nil
}

// FindByDate returns one day's appointments ordered by time.
func (r *gormAppointmentRepository) FindByDate(ctx context.Context, date time.Time, userID uint) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	result := r.db.WithContext(ctx).
		Scopes(visibleTo(userID)).
		Where(`"date" = ?`, date).
		Order(`"time" ASC`).
		Order("id ASC").
		Find(&appointments)
	if result.Error != nil {
		return nil, result.Error
	}
	return appointments, nil
}

// FindUpcoming returns undated appointments and those on or after from.
func (r *gormAppointmentRepository) FindUpcoming(ctx context.Context, from time.Time, userID uint, assignment domain.Assignment, search string) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	result := r.db.WithContext(ctx).
		Scopes(undatedOrFrom(from), assignedTo(userID, assignment), nameContains(search)).
		Order(`"date" ASC`).
		Order(`"time" ASC`).
		Find(&appointments)
	if result.Error != nil {
		return nil, result.Error
	}
	return appointments, nil
}

func (r *gormAppointmentRepository) FindDated(ctx context.Context, userID uint) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	result := r.db.WithContext(ctx).
		Scopes(visibleTo(userID)).
		Where(`"date" IS NOT NULL`).
		Order(`"date" ASC`).
		Order(`"time" ASC`).
		Find(&appointments)
	if result.Error != nil {
		return nil, result.Error
	}
	return appointments, nil
}

func (r *gormAppointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

// UpdateDate moves all listed appointments to date (nil clears it).
func (r *gormAppointmentRepository) UpdateDate(ctx context.Context, ids []uint, date *time.Time, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Scopes(visibleTo(userID)).
		Where("id IN ?", ids).
		Update("date", date)
	return result.RowsAffected, result.Error
}

func (r *gormAppointmentRepository) Delete(ctx context.Context, id, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Scopes(visibleTo(userID)).Delete(&domain.Appointment{}, id)
	return result.RowsAffected, result.Error
}

func (r *gormAppointmentRepository) DeleteMany(ctx context.Context, ids []uint, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Scopes(visibleTo(userID)).Where("id IN ?", ids).Delete(&domain.Appointment{})
	return result.RowsAffected, result.Error
}
