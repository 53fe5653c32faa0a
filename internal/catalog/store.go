package catalog

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/screen"
)

const resourceMedicines = "catalog:medicines"

var (
	ErrFormClosed      = screen.Reject("Medicine form is not open")
	ErrUnknownMedicine = screen.Reject("Medicine not found")
)

// Source is the gateway surface of the medicine catalog.
type Source interface {
	Medicines(ctx context.Context) ([]domain.Medicine, error)
	CreateMedicine(ctx context.Context, form domain.MedicineForm) (domain.Medicine, error)
	UpdateMedicine(ctx context.Context, id string, form domain.MedicineForm) (domain.Medicine, error)
	DeleteMedicine(ctx context.Context, id string) error
}

// Form is the shared create/update form. A non-empty EditingID turns a
// submit into an update of that medicine.
type Form struct {
	Open      bool                `json:"open"`
	EditingID string              `json:"editing_id,omitempty"`
	Values    domain.MedicineForm `json:"values"`
}

type View struct {
	Medicines []domain.Medicine `json:"medicines"`
	Form      Form              `json:"form"`
}

// Store is the medicine catalog screen. Every mutation is followed by a
// full refetch of the list.
type Store struct {
	src     Source
	scope   *screen.Scope
	notices *screen.Notices

	mu        sync.Mutex
	medicines []domain.Medicine
	form      Form
}

func NewStore(src Source, scope *screen.Scope, notices *screen.Notices) *Store {
	return &Store{src: src, scope: scope, notices: notices}
}

func (s *Store) Name() string {
	return "medicines"
}

func (s *Store) Close() {
	s.scope.Close()
}

// Refresh refetches the medicine list. A failure keeps the previous list.
func (s *Store) Refresh() error {
	ctx, ticket := s.scope.Begin(resourceMedicines)
	meds, err := s.src.Medicines(ctx)
	if err != nil {
		if s.scope.Latest(ticket) {
			s.notices.Fail(err, "Failed to fetch medicines")
		}
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scope.Latest(ticket) {
		s.medicines = meds
	}
	return nil
}

func (s *Store) Medicines() []domain.Medicine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Medicine{}, s.medicines...)
}

func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{Medicines: append([]domain.Medicine{}, s.medicines...), Form: s.form}
}

// BeginCreate opens an empty form.
func (s *Store) BeginCreate() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = Form{Open: true}
	return s.form
}

// BeginEdit opens the form pre-filled with the medicine's current values.
func (s *Store) BeginEdit(id string) (Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.medicines {
		if m.ID == id {
			s.form = Form{Open: true, EditingID: id, Values: domain.FormOf(m)}
			return s.form, nil
		}
	}
	s.notices.Fail(ErrUnknownMedicine, "")
	return Form{}, ErrUnknownMedicine
}

func (s *Store) CancelForm() {
	s.mu.Lock()
	s.form = Form{}
	s.mu.Unlock()
}

// Submit validates values and issues a create or an update depending on
// the form's editing target. On failure the form stays open.
func (s *Store) Submit(values domain.MedicineForm) error {
	values.Name = strings.TrimSpace(values.Name)
	values.Manufacturer = strings.TrimSpace(values.Manufacturer)

	s.mu.Lock()
	form := s.form
	s.mu.Unlock()
	if !form.Open {
		s.notices.Fail(ErrFormClosed, "")
		return ErrFormClosed
	}
	if err := checkForm(values); err != nil {
		s.notices.Fail(err, "")
		return err
	}

	ctx := s.scope.Context()
	var err error
	if form.EditingID != "" {
		_, err = s.src.UpdateMedicine(ctx, form.EditingID, values)
	} else {
		_, err = s.src.CreateMedicine(ctx, values)
	}
	if err != nil {
		s.mu.Lock()
		s.form.Values = values
		s.mu.Unlock()
		s.notices.Fail(err, "Failed to save medicine")
		return err
	}

	s.mu.Lock()
	if s.form.EditingID == form.EditingID {
		s.form = Form{}
	}
	s.mu.Unlock()
	if form.EditingID != "" {
		s.notices.Success("Medicine updated")
	} else {
		s.notices.Success("Medicine added")
	}
	zap.L().Info("medicine saved",
		zap.String("namespace", "catalog"),
		zap.String("name", values.Name),
		zap.Bool("update", form.EditingID != ""))
	_ = s.Refresh()
	return nil
}

// Delete removes a medicine and refetches the list.
func (s *Store) Delete(id string) error {
	if err := s.src.DeleteMedicine(s.scope.Context(), id); err != nil {
		s.notices.Fail(err, "Failed to delete medicine")
		return err
	}
	s.notices.Success("Medicine deleted")
	_ = s.Refresh()
	return nil
}

func checkForm(values domain.MedicineForm) error {
	if err := screen.Validate(values); err != nil {
		return err
	}
	if values.Price == nil {
		return screen.Invalid("price", "price is required")
	}
	if values.Price.IsNegative() {
		return screen.Invalid("price", "price must be at least 0")
	}
	return nil
}
