// Package app is the composition root for shopkeep.
//
// Run loads configuration and preferences, opens the log file, builds the
// catalog client, cache store, editing session, and mutation coordinator,
// then hands everything to the UI. Business logic lives in the domain
// packages; this package only connects them.
package app
