package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestTotalPagesWithCountHeader(t *testing.T) {
	assert.Equal(t, 5, TotalPages(intp(47), 10, 1, 10))
	assert.Equal(t, 5, TotalPages(intp(50), 10, 1, 10))
	assert.Equal(t, 1, TotalPages(intp(0), 10, 1, 0))
	assert.Equal(t, 1, TotalPages(intp(3), 10, 1, 3))
}

func TestTotalPagesInferredFromPageSize(t *testing.T) {
	// A full page suggests at least one more.
	assert.Equal(t, 3, TotalPages(nil, 10, 2, 10))
	// A short page is the last page.
	assert.Equal(t, 2, TotalPages(nil, 10, 2, 3))
	// An empty first page still reports one page.
	assert.Equal(t, 1, TotalPages(nil, 10, 1, 0))
	assert.Equal(t, 1, TotalPages(nil, 0, 1, 0))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 5, ClampLimit(5))
	assert.Equal(t, 10, ClampLimit(10))
	assert.Equal(t, 10, ClampLimit(25))
	assert.Equal(t, 10, ClampLimit(0))
	assert.Equal(t, 10, ClampLimit(-1))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0))
	assert.Equal(t, 1, ClampPage(-3))
	assert.Equal(t, 7, ClampPage(7))
}
