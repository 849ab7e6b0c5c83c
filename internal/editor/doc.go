// Package editor tracks the client-local drafting state: the always-present
// new-product form and the single product (at most) in inline edit mode.
// Drafts never touch the network; the mutation coordinator reads them at
// submission time and resets them only on success.
package editor
