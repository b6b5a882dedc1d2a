package models

import "strings"

// ProviderDescriptor describes a tile endpoint. Descriptors are immutable
// after process start; their position in the catalog defines fallback
// priority.
type ProviderDescriptor struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	URLTemplate string `json:"url_template" yaml:"url_template" validate:"required"`
	Attribution string `json:"attribution" yaml:"attribution"`
	MaxZoom     int    `json:"max_zoom" yaml:"max_zoom" validate:"gte=1,lte=22"`
}

// HasTilePlaceholders reports whether the URL template contains the {z},
// {x} and {y} placeholders required to address a tile. Placeholder order is
// provider-specific (some endpoints use {z}/{y}/{x}).
func (d ProviderDescriptor) HasTilePlaceholders() bool {
	return strings.Contains(d.URLTemplate, "{z}") &&
		strings.Contains(d.URLTemplate, "{x}") &&
		strings.Contains(d.URLTemplate, "{y}")
}
