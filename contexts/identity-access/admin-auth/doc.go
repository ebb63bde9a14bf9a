// Package adminauth owns the administrator account used to guard the
// management endpoints: bcrypt password storage, HS256 bearer tokens, the
// bootstrap admin seed and password changes.
package adminauth
