package mutate

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/shopkeep/internal/cache"
	"github.com/kmorrow/shopkeep/internal/catalog"
	"github.com/kmorrow/shopkeep/internal/editor"
)

// fakeAPI records calls and simulates a tiny catalog server.
type fakeAPI struct {
	categories []catalog.Category
	products   []catalog.Product

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	failCreate error
	failUpdate error
	failDelete error
}

func (f *fakeAPI) ListProducts(ctx context.Context, page int) ([]catalog.Product, error) {
	f.listCalls++
	return f.products, nil
}

func (f *fakeAPI) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return f.categories, nil
}

func (f *fakeAPI) CreateProduct(ctx context.Context, name, categoryID string) (catalog.Product, error) {
	f.createCalls++
	if f.failCreate != nil {
		return catalog.Product{}, f.failCreate
	}
	var snapshot *catalog.Category
	for _, c := range f.categories {
		if c.ID == categoryID {
			cc := c
			snapshot = &cc
		}
	}
	created := catalog.Product{ID: "p1", Name: name, CategoryID: categoryID, Category: snapshot}
	f.products = append(f.products, created)
	return created, nil
}

func (f *fakeAPI) UpdateProduct(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	f.updateCalls++
	if f.failUpdate != nil {
		return catalog.Product{}, f.failUpdate
	}
	for i := range f.products {
		if f.products[i].ID == product.ID {
			f.products[i].Name = product.Name
			f.products[i].CategoryID = product.CategoryID
			return f.products[i], nil
		}
	}
	return product, nil
}

func (f *fakeAPI) DeleteProduct(ctx context.Context, id string) error {
	f.deleteCalls++
	return f.failDelete
}

var _ catalog.API = (*fakeAPI)(nil)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newFixture builds a coordinator over a seeded cache (categories already
// fetched, as they would be before any submission).
func newFixture(t *testing.T, api *fakeAPI) (*Coordinator, *cache.Store, *editor.Session) {
	t.Helper()
	store := cache.New(api, cache.Options{Logger: quietLogger()})
	if len(api.categories) > 0 {
		_, err := store.Categories(context.Background())
		require.NoError(t, err)
	}
	session := &editor.Session{}
	return NewCoordinator(api, store, session, quietLogger()), store, session
}

func TestCreate_ValidationGateBlocksNetwork(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{categories: []catalog.Category{{ID: "5", Name: "Tools"}}}
	coord, _, session := newFixture(t, api)
	ctx := context.Background()

	// Missing name.
	session.SetNewCategory("5")
	_, err := coord.Create(ctx)
	assert.True(t, IsValidation(err), "err = %v, want ValidationError", err)

	// Missing category.
	session.ResetNewDraft()
	session.SetNewName("Widget")
	_, err = coord.Create(ctx)
	assert.True(t, IsValidation(err), "err = %v, want ValidationError", err)

	assert.Zero(t, api.createCalls, "validation failures must not reach the network")
}

func TestCreate_RejectsCategoryOutsideFetchedSet(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{categories: []catalog.Category{{ID: "1", Name: "Tools"}}}
	coord, _, session := newFixture(t, api)

	session.SetNewName("Widget")
	session.SetNewCategory("999")

	_, err := coord.Create(context.Background())
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.True(t, IsValidation(err))
	assert.Zero(t, api.createCalls)
}

func TestCreate_SuccessInvalidatesAndResetsDraft(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{categories: []catalog.Category{{ID: "1", Name: "Tools"}}}
	coord, store, session := newFixture(t, api)
	ctx := context.Background()

	// Warm the products page so invalidation is observable.
	_, err := store.Products(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, api.listCalls)

	session.SetNewName("Hammer")
	session.SetNewCategory("1")

	created, err := coord.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", created.Name)

	// Draft reset to empty default.
	assert.Equal(t, editor.NewProductDraft{}, session.NewDraft())

	// Next read must refetch despite the freshness window, and reflect the
	// created product with its denormalized category.
	products, err := store.Products(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, api.listCalls, "read after create must hit the network")
	require.Len(t, products, 1)
	assert.Equal(t, "Hammer", products[0].Name)
	assert.Equal(t, "Tools", products[0].CategoryName())
}

func TestCreate_FailurePreservesDraftAndCache(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		categories: []catalog.Category{{ID: "1", Name: "Tools"}},
		failCreate: errors.New("server exploded"),
	}
	coord, store, session := newFixture(t, api)
	ctx := context.Background()

	_, err := store.Products(ctx, 1)
	require.NoError(t, err)

	session.SetNewName("Hammer")
	session.SetNewCategory("1")

	_, err = coord.Create(ctx)
	var me *MutationError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, OpCreate, me.Op)

	// Draft untouched, cache not invalidated.
	assert.Equal(t, editor.NewProductDraft{Name: "Hammer", CategoryID: "1"}, session.NewDraft())
	_, err = store.Products(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, api.listCalls, "failed create must not invalidate the cache")
}

func TestUpdate_SuccessExitsEditMode(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		categories: []catalog.Category{{ID: "1", Name: "Tools"}, {ID: "2", Name: "Garden"}},
		products:   []catalog.Product{{ID: "p1", Name: "Hammer", CategoryID: "1"}},
	}
	coord, store, session := newFixture(t, api)
	ctx := context.Background()

	_, err := store.Products(ctx, 1)
	require.NoError(t, err)

	session.StartEdit(api.products[0])
	session.SetEditName("Sledge")
	session.SetEditCategory("2")

	updated, err := coord.Update(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sledge", updated.Name)

	_, editing := session.Editing()
	assert.False(t, editing, "successful save must exit edit mode")

	_, err = store.Products(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, api.listCalls, "read after update must hit the network")
}

func TestUpdate_FailureKeepsEditing(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		categories: []catalog.Category{{ID: "1", Name: "Tools"}},
		products:   []catalog.Product{{ID: "p1", Name: "Hammer", CategoryID: "1"}},
		failUpdate: errors.New("boom"),
	}
	coord, _, session := newFixture(t, api)

	session.StartEdit(api.products[0])
	session.SetEditName("Sledge")

	_, err := coord.Update(context.Background())
	var me *MutationError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, OpUpdate, me.Op)

	draft, editing := session.Editing()
	assert.True(t, editing, "failed save must remain in edit mode")
	assert.Equal(t, "Sledge", draft.Name, "draft must survive the failure unchanged")
}

func TestUpdate_RequiresActiveEdit(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{categories: []catalog.Category{{ID: "1", Name: "Tools"}}}
	coord, _, _ := newFixture(t, api)

	_, err := coord.Update(context.Background())
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.Zero(t, api.updateCalls)
}

func TestDelete_SuccessInvalidates(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		categories: []catalog.Category{{ID: "1", Name: "Tools"}},
		products:   []catalog.Product{{ID: "p1", Name: "Hammer", CategoryID: "1"}},
	}
	coord, store, _ := newFixture(t, api)
	ctx := context.Background()

	_, err := store.Products(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, coord.Delete(ctx, "p1"))

	_, err = store.Products(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, api.listCalls, "read after delete must hit the network")
}

func TestDelete_FailureReportsMutationError(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{failDelete: errors.New("boom")}
	coord, _, _ := newFixture(t, api)

	err := coord.Delete(context.Background(), "p1")
	var me *MutationError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, OpDelete, me.Op)
	assert.EqualError(t, me.Err, "boom")
}
