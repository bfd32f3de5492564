// Package api serves the role and privilege catalog, tracked accounts and
// their assignments over REST under /api/v1.
package api
