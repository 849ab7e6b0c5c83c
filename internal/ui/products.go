package ui

import (
	"fmt"
	"strings"
)

// renderProducts draws the product list, the add form when open, and the
// pagination footer.
func (m Model) renderProducts() string {
	s := m.theme.Styles()

	// Both resources gate the first render; after that, stale data keeps
	// rendering under a warning.
	if !m.productsStatus.HasValue || !m.categoriesStatus.HasValue {
		if (m.productsStatus.Errored && !m.productsStatus.HasValue) ||
			(m.categoriesStatus.Errored && !m.categoriesStatus.HasValue) {
			return "  " + s.DangerText.Render("Error loading data.")
		}
		return "  " + s.MutedText.Render("Loading products…")
	}

	var b strings.Builder

	if m.productsStatus.Errored || m.categoriesStatus.Errored {
		b.WriteString("  " + s.WarningText.Render("Server unreachable, showing cached data") + "\n\n")
	}

	b.WriteString(m.renderAddForm())
	b.WriteString("\n")

	if len(m.products) == 0 {
		b.WriteString("  " + s.MutedText.Render("No products available") + "\n")
	}

	nameWidth := clampWidth(m.width/2, 16, 48)
	for i, p := range m.products {
		if m.editing && m.session.IsEditing(p.ID) {
			b.WriteString(m.renderEditRow())
			b.WriteString("\n")
			continue
		}

		cursor := "  "
		if i == m.selectedRow {
			cursor = s.AccentText.Render("> ")
		}

		name := truncate(p.Name, nameWidth)
		category := p.CategoryName()

		line := fmt.Sprintf("%-*s  %s", nameWidth, name, s.MutedText.Render(category))
		if i == m.selectedRow && !m.adding {
			line = s.Selected.Render(fmt.Sprintf("%-*s", nameWidth, name)) + "  " + s.MutedText.Render(category)
		}

		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderPagination())

	return b.String()
}

// renderAddForm draws the new-product form sitting above the list. Unfocused
// it shows the pending draft; pressing a moves the cursor into it.
func (m Model) renderAddForm() string {
	s := m.theme.Styles()

	var b strings.Builder

	if !m.adding {
		draft := m.session.NewDraft()
		name := draft.Name
		if name == "" {
			name = "Product name"
		}
		catIdx := categoryIndex(m.categories, draft.CategoryID)
		b.WriteString("  " + s.MutedText.Render("New product") + s.FaintText.Render("  (a to fill in)") + "\n")
		b.WriteString("  " + s.FaintText.Render("Name:") + "     " + s.FaintText.Render(name) + "\n")
		b.WriteString("  " + s.FaintText.Render("Category:") + " " + m.renderCategoryChoice(catIdx) + "\n")
		return b.String()
	}

	b.WriteString("  " + s.AccentText.Render("New product") + "\n")

	nameLabel := "  Name:     "
	if m.focusField == fieldName {
		nameLabel = "  " + s.AccentText.Render("Name:") + "     "
	}
	b.WriteString(nameLabel + m.nameInput.View() + "\n")

	catLabel := "  Category: "
	if m.focusField == fieldCategory {
		catLabel = "  " + s.AccentText.Render("Category:") + " "
	}
	b.WriteString(catLabel + m.renderCategoryChoice(m.newCatIdx) + "\n")

	if m.formError != "" {
		b.WriteString("  " + s.DangerText.Render(m.formError) + "\n")
	}

	return b.String()
}

// renderEditRow draws the inline editor in place of the product's row.
func (m Model) renderEditRow() string {
	s := m.theme.Styles()

	var b strings.Builder
	b.WriteString("  " + s.AccentText.Render("✎ ") + m.editInput.View())
	b.WriteString("  " + m.renderCategoryChoice(m.editCatIdx))
	if m.formError != "" {
		b.WriteString("\n  " + s.DangerText.Render(m.formError))
	}
	return b.String()
}

// renderCategoryChoice draws the left/right category selector.
func (m Model) renderCategoryChoice(idx int) string {
	s := m.theme.Styles()

	label := "Select Category"
	if idx >= 0 && idx < len(m.categories) {
		label = m.categories[idx].Name
	} else if !m.categoriesStatus.HasValue && m.categoriesStatus.Errored {
		label = "Categories unavailable"
	}

	return s.FaintText.Render("‹ ") + s.Text.Render(label) + s.FaintText.Render(" ›")
}

// renderPagination draws the page footer. Prev is disabled on the first
// page; Next stays enabled since the listing gives no total count.
func (m Model) renderPagination() string {
	s := m.theme.Styles()

	prev := s.FaintText.Render("‹ prev")
	if m.page > 1 {
		prev = s.AccentText.Render("‹ prev")
	}
	next := s.AccentText.Render("next ›")

	return fmt.Sprintf("  %s  %s  %s", prev, s.MutedText.Render(fmt.Sprintf("page %d", m.page)), next)
}
