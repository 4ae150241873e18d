// ABOUTME: Subject is the root of the study hierarchy
// ABOUTME: Owns zero or more chapters
package models

// Subject represents a top-level area of study.
type Subject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	CreatedAt int64  `json:"createdAt"`
}
