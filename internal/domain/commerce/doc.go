// Package commerce contains the storefront's view of the hosted commerce
// platform: catalog, cart, content and customer types, and the ports the
// infrastructure layer implements to reach the platform.
//
// Key concepts:
//   - Storefront: port for catalog, cart and content reads and cart mutations
//   - CustomerAccounts: port for customer access tokens and account data
//   - Handle: human-readable slug identifying products, collections, pages and articles
//
// The platform owns all commerce data. Types here mirror its schema after
// connection wrappers (edges/node) have been flattened.
package commerce
