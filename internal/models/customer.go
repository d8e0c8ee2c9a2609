// Package models defines the domain types shared across tabnav packages.
package models

import "strconv"

// Customer is the record shown by the Tab1 detail screen.
type Customer struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	HTMLURL   string `json:"html_url"`
	AvatarURL string `json:"avatar_url"`
}

// StableID returns the identifier used when a customer has to be persisted
// or put into a URL.
func (c Customer) StableID() string {
	return strconv.Itoa(c.ID)
}
