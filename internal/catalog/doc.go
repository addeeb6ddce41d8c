// Package catalog defines the storefront entities shared by the state store,
// the backend client and the command-line front end.
//
// The package also owns the derived-filter algorithm. Apply is a pure
// function of (products, query, criteria):
//
//  1. start from the full catalog
//  2. keep products whose name or description contains the query
//     (case-insensitive), when the query is non-empty
//  3. keep products whose category is in the category set, when the set is
//     non-empty; an unset category counts as "Other"
//  4. keep products with Min <= price <= Max
//  5. stable-sort by the sort key, when one is set
//
// The input slice is never modified.
package catalog
