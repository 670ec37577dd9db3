// Package client manages customer records.
package client
