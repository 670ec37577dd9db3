// Package user manages the people who sign in to the CRM.
//
// Every user is bound to exactly one role, and email and username are each unique. Passwords
// are checked against the configured complexity policy and stored as bcrypt hashes; the hash
// never appears in any output.
//
// The package also serves GET /me, which returns the authenticated caller's own user and role.
// The caller's id is taken from the verified token, not from the request.
package user
