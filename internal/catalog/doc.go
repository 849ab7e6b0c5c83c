// Package catalog provides the HTTP client and payload types for the product
// catalog API.
//
// The client covers the five operations the console uses: paged product
// listing, the category listing, and product create/update/delete. Every
// request carries basic authentication; credentials are supplied at
// construction rather than read from the environment so tests can inject
// their own.
//
// Read endpoints treat any non-2xx status as a failure. The mutation
// endpoints follow the server's looser contract: whatever body comes back is
// decoded as the result, and delete ignores the body entirely.
package catalog
