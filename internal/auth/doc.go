// Package auth implements the authentication stack: bcrypt password
// hashing, HS256 access/refresh token issuance and verification, the
// login/refresh/change-password flows, and the Gin middleware that guards
// protected endpoints.
//
// Access and refresh tokens are signed with separate secrets. There is no
// revocation list; tokens stay valid until they expire.
package auth
