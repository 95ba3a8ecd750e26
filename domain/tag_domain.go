package domain

import (
	"fmt"
)

var (
	MessageSuccessGetTags = "success get tags"
	MessageFailedGetTags  = "failed to get tags"

	ErrTagNotFound = fmt.Errorf("tag %w", ErrNotFound)
)

type TagResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}
