package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/kmorrow/shopkeep/internal/cache"
	"github.com/kmorrow/shopkeep/internal/catalog"
	"github.com/kmorrow/shopkeep/internal/editor"
	"github.com/kmorrow/shopkeep/internal/mutate"
	"github.com/kmorrow/shopkeep/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewProducts View = iota
	ViewCategories
)

// formField identifies which form field has focus.
type formField int

const (
	fieldName formField = iota
	fieldCategory
)

const defaultRefreshEvery = 30 * time.Second

// Options configures the UI.
type Options struct {
	Context      context.Context
	Store        *cache.Store
	Session      *editor.Session
	Coordinator  *mutate.Coordinator
	RefreshEvery time.Duration
	ThemeName    string
	PrefsPath    string
	Logger       logrus.FieldLogger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	store        *cache.Store
	session      *editor.Session
	coord        *mutate.Coordinator
	log          logrus.FieldLogger
	prefsPath    string
	refreshEvery time.Duration

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	page             int
	products         []catalog.Product
	productsStatus   cache.Status
	categories       []catalog.Category
	categoriesStatus cache.Status
	lastUpdated      time.Time

	// Selection
	selectedRow int

	// New-product form state
	adding     bool
	nameInput  textinput.Model
	newCatIdx  int // index into categories; -1 = unselected
	focusField formField

	// Inline edit state
	editing    bool
	editInput  textinput.Model
	editCatIdx int

	// Transient feedback
	formError string // validation rejection, rendered by the form
	notice    string // mutation failure, rendered in the header
	mutating  bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	refreshEvery := opts.RefreshEvery
	if refreshEvery <= 0 {
		refreshEvery = defaultRefreshEvery
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Slate"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	nameInput := textinput.New()
	nameInput.Placeholder = "Product name"
	nameInput.CharLimit = 120

	editInput := textinput.New()
	editInput.CharLimit = 120

	return Model{
		ctx:          ctx,
		store:        opts.Store,
		session:      opts.Session,
		coord:        opts.Coordinator,
		log:          log,
		prefsPath:    prefsPath,
		refreshEvery: refreshEvery,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(themeName),
		currentView:  ViewProducts,
		page:         1,
		nameInput:    nameInput,
		editInput:    editInput,
		newCatIdx:    -1,
		editCatIdx:   -1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.loadProductsCmd(m.page),
		m.loadCategoriesCmd(),
		tickCmd(m.refreshEvery),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.nameInput.Width = clampWidth(msg.Width/2, 20, 60)
		m.editInput.Width = clampWidth(msg.Width/3, 16, 48)
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case productsMsg:
		// A page change may have raced this load; only the active cursor's
		// result is applied.
		if msg.page != m.page {
			return m, nil
		}
		m.products = msg.products
		m.productsStatus = msg.status
		m.lastUpdated = time.Now()
		m.clampSelection()
		return m, nil

	case categoriesMsg:
		m.categories = msg.categories
		m.categoriesStatus = msg.status
		m.clampCategoryChoices()
		return m, nil

	case mutationMsg:
		return m.handleMutationResult(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help.
		m.showHelp = false
		return m, nil
	}

	// Input modes swallow most keys before the global bindings.
	if m.adding {
		return m.handleAddFormKey(msg)
	}
	if m.editing {
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewProducts), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewProducts
		return m, nil

	case key.Matches(msg, m.keys.ViewCategories):
		m.currentView = ViewCategories
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.store.Invalidate(cache.ProductsPrefix)
		m.store.Invalidate(cache.CategoriesKey)
		return m, tea.Batch(m.loadProductsCmd(m.page), m.loadCategoriesCmd())
	}

	switch m.currentView {
	case ViewProducts:
		return m.handleProductsKey(msg)
	case ViewCategories:
		return m.handleCategoriesKey(msg)
	}

	return m, nil
}

// handleProductsKey processes keys for the products view outside any input
// mode.
func (m Model) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.products)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		if len(m.products) > 0 {
			m.selectedRow = len(m.products) - 1
		}

	case key.Matches(msg, m.keys.PrevPage):
		// Floor at page 1; the control renders disabled there.
		if m.page > 1 {
			return m.gotoPage(m.page - 1)
		}
	case key.Matches(msg, m.keys.NextPage):
		// Always enabled: the endpoint gives no has-more signal.
		return m.gotoPage(m.page + 1)

	case key.Matches(msg, m.keys.Add):
		return m.startAdding()

	case key.Matches(msg, m.keys.Edit):
		return m.startEditing()

	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.selectedProduct(); ok {
			m.mutating = true
			m.notice = ""
			return m, m.deleteCmd(p.ID)
		}
	}
	return m, nil
}

// handleCategoriesKey processes keys for the read-only categories view.
func (m Model) handleCategoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.categories)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	}
	return m, nil
}

// gotoPage moves the page cursor and reads the new page through the cache.
// Cached pages render immediately; the load command refreshes in the
// background when stale.
func (m Model) gotoPage(page int) (tea.Model, tea.Cmd) {
	m.page = page
	m.selectedRow = 0
	m.products, m.productsStatus = m.store.ProductsSnapshot(page)
	return m, m.loadProductsCmd(page)
}

// startAdding enters the add-product form, restoring whatever draft is in
// progress.
func (m Model) startAdding() (tea.Model, tea.Cmd) {
	draft := m.session.NewDraft()
	m.adding = true
	m.focusField = fieldName
	m.formError = ""
	m.nameInput.SetValue(draft.Name)
	m.newCatIdx = categoryIndex(m.categories, draft.CategoryID)
	return m, m.nameInput.Focus()
}

// startEditing snapshots the selected product into the edit draft. Starting
// over an active edit discards the older draft (last start wins).
func (m Model) startEditing() (tea.Model, tea.Cmd) {
	p, ok := m.selectedProduct()
	if !ok {
		return m, nil
	}
	m.session.StartEdit(p)
	m.editing = true
	m.focusField = fieldName
	m.formError = ""
	m.editInput.SetValue(p.Name)
	m.editCatIdx = categoryIndex(m.categories, p.CategoryID)
	return m, m.editInput.Focus()
}

// handleAddFormKey processes keys while the add-product form is focused.
func (m Model) handleAddFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		// Leave the form; the draft persists until a successful create.
		m.adding = false
		m.formError = ""
		m.nameInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		if m.focusField == fieldName {
			m.focusField = fieldCategory
			m.nameInput.Blur()
			return m, nil
		}
		m.focusField = fieldName
		return m, m.nameInput.Focus()

	case key.Matches(msg, m.keys.Confirm):
		m.mutating = true
		m.formError = ""
		m.notice = ""
		return m, m.createCmd()
	}

	if m.focusField == fieldCategory {
		switch {
		case key.Matches(msg, m.keys.PrevChoice):
			m.newCatIdx = prevChoice(m.newCatIdx)
			m.session.SetNewCategory(categoryID(m.categories, m.newCatIdx))
			return m, nil
		case key.Matches(msg, m.keys.NextChoice):
			m.newCatIdx = nextChoice(m.newCatIdx, len(m.categories))
			m.session.SetNewCategory(categoryID(m.categories, m.newCatIdx))
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	m.session.SetNewName(m.nameInput.Value())
	return m, cmd
}

// handleEditKey processes keys while a product row is in edit mode.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		// Cancel: discard the draft, no network call.
		m.session.CancelEdit()
		m.editing = false
		m.formError = ""
		m.editInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		if m.focusField == fieldName {
			m.focusField = fieldCategory
			m.editInput.Blur()
			return m, nil
		}
		m.focusField = fieldName
		return m, m.editInput.Focus()

	case key.Matches(msg, m.keys.Confirm):
		m.mutating = true
		m.formError = ""
		m.notice = ""
		return m, m.updateCmd()
	}

	if m.focusField == fieldCategory {
		switch {
		case key.Matches(msg, m.keys.PrevChoice):
			m.editCatIdx = prevChoice(m.editCatIdx)
			m.session.SetEditCategory(categoryID(m.categories, m.editCatIdx))
			return m, nil
		case key.Matches(msg, m.keys.NextChoice):
			m.editCatIdx = nextChoice(m.editCatIdx, len(m.categories))
			m.session.SetEditCategory(categoryID(m.categories, m.editCatIdx))
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.session.SetEditName(m.editInput.Value())
	return m, cmd
}

// handleTick revalidates the active page and categories; within the
// freshness window the cache serves without network, so the tick is cheap.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	return m, tea.Batch(
		m.loadProductsCmd(m.page),
		m.loadCategoriesCmd(),
		tickCmd(m.refreshEvery),
	)
}

// handleMutationResult applies the outcome of a create/update/delete.
// Failures leave drafts in place; only success moves state forward.
func (m Model) handleMutationResult(msg mutationMsg) (tea.Model, tea.Cmd) {
	m.mutating = false

	if msg.err != nil {
		if mutate.IsValidation(msg.err) {
			m.formError = validationMessage(msg.err)
			return m, nil
		}
		m.notice = truncate(msg.err.Error(), 80)
		return m, nil
	}

	switch msg.op {
	case mutate.OpCreate:
		// Draft was reset by the coordinator; mirror it in the inputs.
		m.adding = false
		m.nameInput.SetValue("")
		m.nameInput.Blur()
		m.newCatIdx = -1
	case mutate.OpUpdate:
		m.editing = false
		m.editInput.Blur()
	}

	// The coordinator already invalidated the products prefix; this read
	// refetches the active page.
	return m, m.loadProductsCmd(m.page)
}

func (m *Model) clampSelection() {
	if m.selectedRow >= len(m.products) {
		m.selectedRow = len(m.products) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m *Model) clampCategoryChoices() {
	if m.newCatIdx >= len(m.categories) {
		m.newCatIdx = len(m.categories) - 1
	}
	if m.editCatIdx >= len(m.categories) {
		m.editCatIdx = len(m.categories) - 1
	}
}

func (m Model) selectedProduct() (catalog.Product, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.products) {
		return catalog.Product{}, false
	}
	return m.products[m.selectedRow], true
}

// Messages

type tickMsg time.Time

type productsMsg struct {
	page     int
	products []catalog.Product
	status   cache.Status
}

type categoriesMsg struct {
	categories []catalog.Category
	status     cache.Status
}

type mutationMsg struct {
	op  mutate.Op
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadProductsCmd(page int) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		// Errors surface through the snapshot's flag; a stale value keeps
		// rendering underneath.
		_, _ = store.Products(ctx, page)
		products, status := store.ProductsSnapshot(page)
		return productsMsg{page: page, products: products, status: status}
	}
}

func (m Model) loadCategoriesCmd() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		_, _ = store.Categories(ctx)
		categories, status := store.CategoriesSnapshot()
		return categoriesMsg{categories: categories, status: status}
	}
}

func (m Model) createCmd() tea.Cmd {
	ctx, coord := m.ctx, m.coord
	return func() tea.Msg {
		_, err := coord.Create(ctx)
		return mutationMsg{op: mutate.OpCreate, err: err}
	}
}

func (m Model) updateCmd() tea.Cmd {
	ctx, coord := m.ctx, m.coord
	return func() tea.Msg {
		_, err := coord.Update(ctx)
		return mutationMsg{op: mutate.OpUpdate, err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	ctx, coord := m.ctx, m.coord
	return func() tea.Msg {
		return mutationMsg{op: mutate.OpDelete, err: coord.Delete(ctx, id)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
