// Package ui implements the shopkeep terminal interface with Bubble Tea.
//
// The Model reads catalog data through the cache store and applies edits
// through the mutation coordinator; it never talks to the API directly.
package ui
