// Package password hashes user passwords with bcrypt and checks new passwords against
// the configured complexity policy.
package password
