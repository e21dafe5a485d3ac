package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"keyword-audit", true},
		{"seo", true},
		{"link-building-2", true},
		{"", false},
		{"Keyword-Audit", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--dash", false},
		{"with space", false},
		{"with_underscore", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateSlug(tt.slug))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+14155550100", true},
		{"4155550100", true},
		{"+44 20 7946 0958", true},
		{"(415) 555-0100", true},
		{"", false},
		{"abc", false},
		{"+0123", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidatePhone(tt.phone))
		})
	}
}
