package materials

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalidMaterial is returned when a new material fails validation.
var ErrInvalidMaterial = errors.New("invalid material")

// ErrConfirmationRequired is returned when a delete was not confirmed.
var ErrConfirmationRequired = errors.New("delete must be confirmed")

// CreateInput carries the fields of the add-material form.
type CreateInput struct {
	Kind    Kind   `json:"kind" validate:"omitempty,oneof=text image"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Service manages the user's material list.
type Service struct {
	storage   Storage
	logger    *zap.Logger
	validator *validator.Validate
	lastID    atomic.Int64
}

// NewService creates a new Service. IDs of created materials continue after
// the highest ID already in storage.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	s := &Service{
		storage:   storage,
		logger:    logger,
		validator: validator.New(),
	}
	if existing, err := storage.GetAll(); err == nil {
		for _, m := range existing {
			if m.ID > s.lastID.Load() {
				s.lastID.Store(m.ID)
			}
		}
	}
	return s
}

// List returns the materials, newest first.
func (s *Service) List() ([]*Material, error) {
	return s.storage.GetAll()
}

// Get returns one material, e.g. for copying its content.
func (s *Service) Get(id int64) (*Material, error) {
	return s.storage.Read(id)
}

// Create validates in and adds it at the top of the list.
func (s *Service) Create(in CreateInput) (*Material, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Kind == "" {
		in.Kind = KindText
	}

	if err := s.validator.Struct(in); err != nil {
		var fields []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
		}
		s.logger.Warn("rejected material", zap.Strings("fields", fields))
		return nil, fmt.Errorf("%w: %s", ErrInvalidMaterial, strings.Join(fields, ", "))
	}

	m := &Material{
		ID:      s.lastID.Add(1),
		Kind:    in.Kind,
		Title:   in.Title,
		Content: in.Content,
	}
	if err := s.storage.Prepend(m); err != nil {
		s.logger.Error("failed to save material", zap.Int64("material_id", m.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save material: %w", err)
	}

	s.logger.Info("material created", zap.Int64("material_id", m.ID), zap.String("kind", string(m.Kind)))
	return m, nil
}

// Delete removes a material. confirmed reflects the user's answer to the
// confirmation prompt; nothing is removed without it.
func (s *Service) Delete(id int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.storage.Delete(id); err != nil {
		return err
	}

	s.logger.Info("material deleted", zap.Int64("material_id", id))
	return nil
}
