package services

import (
	"context"

	"github.com/ececomak/Dental-Appointment/models"
	"github.com/ececomak/Dental-Appointment/repositories"
)

type DentistService struct {
	repository *repositories.DentistRepository
}

func NewDentistService(repository *repositories.DentistRepository) *DentistService {
	return &DentistService{repository: repository}
}

func (s *DentistService) GetAll(ctx context.Context) ([]models.Dentist, error) {
	return s.repository.GetAll(ctx)
}

type TreatmentService struct {
	repository *repositories.TreatmentRepository
}

func NewTreatmentService(repository *repositories.TreatmentRepository) *TreatmentService {
	return &TreatmentService{repository: repository}
}

func (s *TreatmentService) GetAllActive(ctx context.Context) ([]models.Treatment, error) {
	return s.repository.GetAllActive(ctx)
}
