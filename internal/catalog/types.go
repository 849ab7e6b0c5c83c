package catalog

// Product describes a catalog entry as returned by the API. The embedded
// Category is a denormalized snapshot taken by the server at read time; it is
// what the console displays, independent of the separately fetched category
// list.
type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"categoryId"`
	Category   *Category `json:"Category,omitempty"`
}

// CategoryName returns the embedded category name, or a placeholder when the
// product is uncategorized.
func (p Product) CategoryName() string {
	if p.Category == nil || p.Category.Name == "" {
		return "No Category"
	}
	return p.Category.Name
}

// Category is read-only on the client; this console never mutates categories.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// productListResponse mirrors GET /api/products?page={n}.
type productListResponse struct {
	Data []Product `json:"data"`
}

// categoryListResponse mirrors GET /api/categories.
type categoryListResponse struct {
	Categories []Category `json:"categories"`
}

// productPayload is the body sent on create and update.
type productPayload struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
}
