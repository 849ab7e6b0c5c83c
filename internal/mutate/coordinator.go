// Package mutate wraps the catalog's write operations. Each mutation
// validates locally, calls the server, and only on success invalidates the
// products cache and resets the affected draft. Failures leave both cache
// and drafts exactly as they were; there is no automatic retry.
package mutate

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/kmorrow/shopkeep/internal/cache"
	"github.com/kmorrow/shopkeep/internal/catalog"
	"github.com/kmorrow/shopkeep/internal/editor"
)

// Coordinator runs the mutation lifecycle against the catalog API.
type Coordinator struct {
	api      catalog.API
	store    *cache.Store
	session  *editor.Session
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewCoordinator wires the coordinator to the client, cache, and editing
// session it keeps consistent.
func NewCoordinator(api catalog.API, store *cache.Store, session *editor.Session, log logrus.FieldLogger) *Coordinator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Coordinator{
		api:      api,
		store:    store,
		session:  session,
		validate: validator.New(),
		log:      log,
	}
}

// Create submits the new-product draft. On success every cached products
// page is invalidated and the draft resets to its empty default.
func (c *Coordinator) Create(ctx context.Context) (catalog.Product, error) {
	draft := c.session.NewDraft()
	if err := c.checkDraft(OpCreate, draft, draft.CategoryID); err != nil {
		return catalog.Product{}, err
	}

	created, err := c.api.CreateProduct(ctx, draft.Name, draft.CategoryID)
	if err != nil {
		c.log.WithError(err).Warn("create product failed")
		return catalog.Product{}, &MutationError{Op: OpCreate, Err: err}
	}

	c.store.Invalidate(cache.ProductsPrefix)
	c.session.ResetNewDraft()
	c.log.WithField("id", created.ID).Info("product created")
	return created, nil
}

// Update submits the active edit draft. On success the products cache is
// invalidated and edit mode ends; on failure the draft stays active so the
// operator can retry or cancel.
func (c *Coordinator) Update(ctx context.Context) (catalog.Product, error) {
	draft, ok := c.session.Editing()
	if !ok {
		return catalog.Product{}, &ValidationError{Op: OpUpdate, Reason: ErrNotEditing}
	}
	if err := c.checkDraft(OpUpdate, draft, draft.CategoryID); err != nil {
		return catalog.Product{}, err
	}

	updated, err := c.api.UpdateProduct(ctx, catalog.Product{
		ID:         draft.ID,
		Name:       draft.Name,
		CategoryID: draft.CategoryID,
	})
	if err != nil {
		c.log.WithError(err).WithField("id", draft.ID).Warn("update product failed")
		return catalog.Product{}, &MutationError{Op: OpUpdate, Err: err}
	}

	c.store.Invalidate(cache.ProductsPrefix)
	c.session.FinishEdit()
	c.log.WithField("id", draft.ID).Info("product updated")
	return updated, nil
}

// Delete removes a product by id. No client-side validation and no
// optimistic removal, so a failure needs no rollback.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteProduct(ctx, id); err != nil {
		c.log.WithError(err).WithField("id", id).Warn("delete product failed")
		return &MutationError{Op: OpDelete, Err: err}
	}

	c.store.Invalidate(cache.ProductsPrefix)
	c.log.WithField("id", id).Info("product deleted")
	return nil
}

// checkDraft gates a mutation before any network call: struct tags cover the
// presence checks, then the category id must exist in the last fetched
// category set.
func (c *Coordinator) checkDraft(op Op, draft any, categoryID string) error {
	if err := c.validate.Struct(draft); err != nil {
		return &ValidationError{Op: op, Reason: err}
	}
	categories, _ := c.store.CategoriesSnapshot()
	for _, cat := range categories {
		if cat.ID == categoryID {
			return nil
		}
	}
	return &ValidationError{Op: op, Reason: ErrUnknownCategory}
}
