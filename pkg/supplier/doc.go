// Package supplier manages vendor records.
package supplier
