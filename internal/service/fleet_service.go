package service

import (
	"errors"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"gorm.io/gorm"
)

// BusRequest carries bus fields from the API boundary.
type BusRequest struct {
	Name     string `json:"name"`
	Plate    string `json:"plate"`
	Capacity int    `json:"capacity"`
	IsActive *bool  `json:"is_active"`
}

// FleetService manages the bus fleet. Authorization (application admin only)
// is enforced by middleware, not here.
type FleetService struct {
	db *gorm.DB
}

func NewFleetService(db *gorm.DB) *FleetService {
	return &FleetService{db: db}
}

func (s *FleetService) Create(req BusRequest) (*model.Bus, error) {
	if req.Name == "" || req.Plate == "" {
		return nil, Invalid("name and plate are required")
	}
	var count int64
	s.db.Model(&model.Bus{}).Where("plate = ?", req.Plate).Count(&count)
	if count > 0 {
		return nil, Conflict("a bus with plate %s already exists", req.Plate)
	}

	bus := model.Bus{
		Name:     req.Name,
		Plate:    req.Plate,
		Capacity: req.Capacity,
		IsActive: true,
	}
	if err := s.db.Create(&bus).Error; err != nil {
		return nil, err
	}
	return &bus, nil
}

func (s *FleetService) Update(busID uint, req BusRequest) (*model.Bus, error) {
	bus, err := s.get(busID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		bus.Name = req.Name
	}
	if req.Plate != "" && req.Plate != bus.Plate {
		var count int64
		s.db.Model(&model.Bus{}).Where("plate = ? AND id <> ?", req.Plate, busID).Count(&count)
		if count > 0 {
			return nil, Conflict("a bus with plate %s already exists", req.Plate)
		}
		bus.Plate = req.Plate
	}
	if req.Capacity > 0 {
		bus.Capacity = req.Capacity
	}
	if req.IsActive != nil {
		bus.IsActive = *req.IsActive
	}
	if err := s.db.Save(bus).Error; err != nil {
		return nil, err
	}
	return bus, nil
}

func (s *FleetService) Get(busID uint) (*model.Bus, error) {
	return s.get(busID)
}

func (s *FleetService) List() ([]model.Bus, error) {
	var buses []model.Bus
	if err := s.db.Order("name").Find(&buses).Error; err != nil {
		return nil, err
	}
	return buses, nil
}

func (s *FleetService) SoftDelete(busID uint) error {
	bus, err := s.get(busID)
	if err != nil {
		return err
	}
	return s.db.Delete(bus).Error
}

func (s *FleetService) get(busID uint) (*model.Bus, error) {
	var bus model.Bus
	if err := s.db.First(&bus, busID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("bus %d not found", busID)
		}
		return nil, err
	}
	return &bus, nil
}
