// Package domain holds the error values shared by the document locator and
// the HTTP layer.
package domain
