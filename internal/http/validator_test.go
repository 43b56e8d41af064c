package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateISBN(t *testing.T) {
	type req struct {
		ISBN string `validate:"isbn"`
	}

	valid := []string{
		"978-0547928227",
		"9780451524935",
		"0-306-40615-2",
		"030640615X",
	}
	for _, isbn := range valid {
		assert.Nil(t, ValidateStruct(req{ISBN: isbn}), "expected %q to be valid", isbn)
	}

	invalid := []string{
		"",
		"not-an-isbn",
		"12345",
		"97805479282279", // 14 digits
		"978054792822X",  // X only allowed in ISBN-10
	}
	for _, isbn := range invalid {
		assert.NotNil(t, ValidateStruct(req{ISBN: isbn}), "expected %q to be invalid", isbn)
	}
}

func TestValidateStruct_RequiredFields(t *testing.T) {
	details := ValidateStruct(createBookReq{Author: "Anon"})
	assert.Len(t, details, 1)
	assert.Equal(t, "title", details[0].Field)

	details = ValidateStruct(createBookReq{Title: "T", Author: "A"})
	assert.Nil(t, details)
}
