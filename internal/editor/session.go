package editor

import (
	"sync"

	"github.com/kmorrow/shopkeep/internal/catalog"
)

// NewProductDraft is the in-progress new-product form. It exists for the
// whole session and only resets after a successful create.
type NewProductDraft struct {
	Name       string `validate:"required"`
	CategoryID string `validate:"required"`
}

// EditDraft is a full mutable copy of the one product currently in edit
// mode. The ID is preserved; name and category are free to change until the
// operator saves or cancels.
type EditDraft struct {
	ID         string `validate:"required"`
	Name       string `validate:"required"`
	CategoryID string `validate:"required"`
}

// Session coordinates the transient editing state: the new-product draft and
// at most one edit draft. Starting an edit while another is active discards
// the older draft wholesale (last-start-wins, no merge).
type Session struct {
	mu       sync.Mutex
	newDraft NewProductDraft
	edit     *EditDraft
}

// NewDraft returns a copy of the current new-product draft.
func (s *Session) NewDraft() NewProductDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newDraft
}

// SetNewName updates the name field of the new-product draft.
func (s *Session) SetNewName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newDraft.Name = name
}

// SetNewCategory updates the category selection of the new-product draft.
func (s *Session) SetNewCategory(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newDraft.CategoryID = categoryID
}

// ResetNewDraft clears the new-product draft to its empty default. Called by
// the mutation coordinator after a successful create.
func (s *Session) ResetNewDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newDraft = NewProductDraft{}
}

// StartEdit snapshots the product's current server values into the edit
// draft, discarding any draft already active.
func (s *Session) StartEdit(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = &EditDraft{
		ID:         p.ID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
	}
}

// Editing returns the active edit draft, if any.
func (s *Session) Editing() (EditDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return EditDraft{}, false
	}
	return *s.edit, true
}

// IsEditing reports whether the given product is the one in edit mode.
func (s *Session) IsEditing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edit != nil && s.edit.ID == id
}

// SetEditName updates the name field of the active edit draft. No-op when
// nothing is being edited.
func (s *Session) SetEditName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit != nil {
		s.edit.Name = name
	}
}

// SetEditCategory updates the category of the active edit draft.
func (s *Session) SetEditCategory(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit != nil {
		s.edit.CategoryID = categoryID
	}
}

// CancelEdit discards the active edit draft without any network call.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = nil
}

// FinishEdit exits edit mode. Called by the mutation coordinator only after
// a save succeeds; a failed save leaves the draft in place.
func (s *Session) FinishEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = nil
}
