package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string   `json:"name" validate:"required,max=5"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Rating  int      `json:"rating" validate:"gte=1,lte=10"`
	Careers []string `json:"careers" validate:"dive,oneof=a b"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sample{Name: "ok", Rating: 3, Careers: []string{"a"}}))

	err := ValidateStruct(sample{Name: "toolong", Email: "nope", Rating: 11, Careers: []string{"c"}})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be at most 5", verr.Fields["name"])
	assert.Equal(t, "must be a valid email", verr.Fields["email"])
	assert.Equal(t, "must be <= 10", verr.Fields["rating"])
	assert.Equal(t, "must be one of [a b]", verr.Fields["careers[0]"])
}
