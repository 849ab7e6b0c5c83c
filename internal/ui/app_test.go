package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmorrow/shopkeep/internal/cache"
	"github.com/kmorrow/shopkeep/internal/catalog"
	"github.com/kmorrow/shopkeep/internal/editor"
	"github.com/kmorrow/shopkeep/internal/mutate"
)

type stubAPI struct {
	products   []catalog.Product
	categories []catalog.Category
	err        error
}

func (s *stubAPI) ListProducts(_ context.Context, _ int) ([]catalog.Product, error) {
	return s.products, s.err
}

func (s *stubAPI) ListCategories(_ context.Context) ([]catalog.Category, error) {
	return s.categories, s.err
}

func (s *stubAPI) CreateProduct(_ context.Context, name, categoryID string) (catalog.Product, error) {
	if s.err != nil {
		return catalog.Product{}, s.err
	}
	return catalog.Product{ID: "new", Name: name, CategoryID: categoryID}, nil
}

func (s *stubAPI) UpdateProduct(_ context.Context, p catalog.Product) (catalog.Product, error) {
	if s.err != nil {
		return catalog.Product{}, s.err
	}
	return p, nil
}

func (s *stubAPI) DeleteProduct(_ context.Context, _ string) error {
	return s.err
}

func newTestModel(t *testing.T) Model {
	t.Helper()

	api := &stubAPI{
		categories: []catalog.Category{
			{ID: "1", Name: "Tools"},
			{ID: "2", Name: "Paint"},
		},
	}
	store := cache.New(api, cache.Options{})
	session := &editor.Session{}

	m := New(Options{
		Store:       store,
		Session:     session,
		Coordinator: mutate.NewCoordinator(api, store, session, nil),
		PrefsPath:   t.TempDir() + "/prefs.toml",
	})
	m.ready = true
	m.width = 100
	m.height = 40

	m.products = []catalog.Product{
		{ID: "p1", Name: "Hammer", CategoryID: "1", Category: &catalog.Category{ID: "1", Name: "Tools"}},
		{ID: "p2", Name: "Roller", CategoryID: "2", Category: &catalog.Category{ID: "2", Name: "Paint"}},
	}
	m.productsStatus = cache.Status{HasValue: true}
	m.categories = api.categories
	m.categoriesStatus = cache.Status{HasValue: true}
	return m
}

func press(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out, cmd
}

func TestStaleProductsMsgIgnored(t *testing.T) {
	m := newTestModel(t)
	m.page = 2

	m, _ = update(t, m, productsMsg{
		page:     1,
		products: []catalog.Product{{ID: "old", Name: "Old"}},
		status:   cache.Status{HasValue: true},
	})

	if len(m.products) != 2 || m.products[0].ID != "p1" {
		t.Fatalf("stale page result applied: %+v", m.products)
	}
}

func TestNextPageAlwaysAdvances(t *testing.T) {
	m := newTestModel(t)
	m.selectedRow = 1

	m, cmd := update(t, m, press(']'))
	if m.page != 2 {
		t.Fatalf("page = %d, want 2", m.page)
	}
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", m.selectedRow)
	}
	if cmd == nil {
		t.Fatal("expected a load command for the new page")
	}
}

func TestPrevPageStopsAtFirst(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, press('['))
	if m.page != 1 {
		t.Fatalf("page = %d, want 1", m.page)
	}
	if cmd != nil {
		t.Fatal("no load should fire on the first page")
	}
}

func TestAddFormRestoresDraft(t *testing.T) {
	m := newTestModel(t)
	m.session.SetNewName("Chisel")
	m.session.SetNewCategory("2")

	m, _ = update(t, m, press('a'))

	if !m.adding {
		t.Fatal("add form did not open")
	}
	if got := m.nameInput.Value(); got != "Chisel" {
		t.Fatalf("name input = %q, want Chisel", got)
	}
	if m.newCatIdx != 1 {
		t.Fatalf("newCatIdx = %d, want 1", m.newCatIdx)
	}
}

func TestClosingAddFormKeepsDraft(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, press('a'))
	m, _ = update(t, m, press('X'))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.adding {
		t.Fatal("form still open after esc")
	}
	if got := m.session.NewDraft().Name; got != "X" {
		t.Fatalf("draft name = %q, want X", got)
	}
}

func TestEditKeySnapshotsSelectedProduct(t *testing.T) {
	m := newTestModel(t)
	m.selectedRow = 1

	m, _ = update(t, m, press('e'))

	if !m.editing {
		t.Fatal("edit mode did not start")
	}
	if !m.session.IsEditing("p2") {
		t.Fatal("session is not editing p2")
	}
	if got := m.editInput.Value(); got != "Roller" {
		t.Fatalf("edit input = %q, want Roller", got)
	}
	if m.editCatIdx != 1 {
		t.Fatalf("editCatIdx = %d, want 1", m.editCatIdx)
	}
}

func TestEscapeCancelsEdit(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, press('e'))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.editing {
		t.Fatal("edit mode still active")
	}
	if _, ok := m.session.Editing(); ok {
		t.Fatal("session still holds an edit draft")
	}
}

func TestTypingInEditUpdatesDraft(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, press('e'))
	m, _ = update(t, m, press('s'))

	draft, ok := m.session.Editing()
	if !ok {
		t.Fatal("no active edit draft")
	}
	if draft.Name != "Hammers" {
		t.Fatalf("draft name = %q, want Hammers", draft.Name)
	}
}

func TestCategoryChoiceCycling(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, press('a'))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.session.NewDraft().CategoryID; got != "1" {
		t.Fatalf("category = %q, want 1", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.session.NewDraft().CategoryID; got != "2" {
		t.Fatalf("category = %q, want 2", got)
	}

	// Right at the end stays on the last category.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.session.NewDraft().CategoryID; got != "2" {
		t.Fatalf("category = %q, want 2", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.session.NewDraft().CategoryID; got != "" {
		t.Fatalf("category = %q, want unselected", got)
	}
}

func TestValidationFailureShowsFormMessage(t *testing.T) {
	m := newTestModel(t)
	m.adding = true

	verr := &mutate.ValidationError{Op: mutate.OpCreate, Reason: errors.New("missing fields")}
	m, _ = update(t, m, mutationMsg{op: mutate.OpCreate, err: verr})

	if m.formError != "Product name and category are required." {
		t.Fatalf("formError = %q", m.formError)
	}
	if !m.adding {
		t.Fatal("form closed on a validation failure")
	}
}

func TestUnknownCategoryMessage(t *testing.T) {
	m := newTestModel(t)
	m.adding = true

	verr := &mutate.ValidationError{Op: mutate.OpCreate, Reason: mutate.ErrUnknownCategory}
	m, _ = update(t, m, mutationMsg{op: mutate.OpCreate, err: verr})

	if m.formError != "Selected category does not exist." {
		t.Fatalf("formError = %q", m.formError)
	}
}

func TestCreateSuccessClosesForm(t *testing.T) {
	m := newTestModel(t)
	m.adding = true
	m.nameInput.SetValue("Chisel")
	m.newCatIdx = 0

	m, cmd := update(t, m, mutationMsg{op: mutate.OpCreate})

	if m.adding {
		t.Fatal("form still open after a successful create")
	}
	if got := m.nameInput.Value(); got != "" {
		t.Fatalf("name input = %q, want empty", got)
	}
	if m.newCatIdx != -1 {
		t.Fatalf("newCatIdx = %d, want -1", m.newCatIdx)
	}
	if cmd == nil {
		t.Fatal("expected a reload command after create")
	}
}

func TestMutationFailureSetsNotice(t *testing.T) {
	m := newTestModel(t)

	merr := &mutate.MutationError{Op: mutate.OpDelete, Err: errors.New("boom")}
	m, _ = update(t, m, mutationMsg{op: mutate.OpDelete, err: merr})

	if m.notice == "" {
		t.Fatal("notice not set for a network failure")
	}
	if m.formError != "" {
		t.Fatalf("formError = %q, want empty", m.formError)
	}
}

func TestSelectionClampsWhenListShrinks(t *testing.T) {
	m := newTestModel(t)
	m.selectedRow = 1

	m, _ = update(t, m, productsMsg{
		page:     1,
		products: []catalog.Product{{ID: "p1", Name: "Hammer"}},
		status:   cache.Status{HasValue: true},
	})

	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", m.selectedRow)
	}
}

func TestViewSwitching(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, press('c'))
	if m.currentView != ViewCategories {
		t.Fatal("c did not switch to categories")
	}

	m, _ = update(t, m, press('p'))
	if m.currentView != ViewProducts {
		t.Fatal("p did not switch back to products")
	}
}

func TestHelpOverlayTogglesAndCloses(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, press('?'))
	if !m.showHelp {
		t.Fatal("help did not open")
	}

	m, _ = update(t, m, press('j'))
	if m.showHelp {
		t.Fatal("help did not close on key press")
	}
	if m.selectedRow != 0 {
		t.Fatal("dismissal key leaked into navigation")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Hammer", 10); got != "Hammer" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("Hammer", 4); got != "Ham…" {
		t.Fatalf("truncate long = %q", got)
	}
	if got := truncate("Hammer", 0); got != "" {
		t.Fatalf("truncate zero = %q", got)
	}
}

func TestNextThemeCycles(t *testing.T) {
	seen := map[string]bool{}
	name := "Slate"
	for i := 0; i < len(themeOrder); i++ {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != "Slate" {
		t.Fatalf("cycle did not return to Slate, got %q", name)
	}
	if len(seen) != len(themeOrder) {
		t.Fatalf("visited %d themes, want %d", len(seen), len(themeOrder))
	}
}
