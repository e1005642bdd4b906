package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staffForm struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,strong_password"`
	Status   string `json:"status" validate:"exhibit_status"`
}

func TestValidateStructReportsJSONNames(t *testing.T) {
	err := ValidateStruct(&staffForm{Username: "a", Password: "password", Status: "lost"})
	require.Error(t, err)

	byField := map[string]string{}
	for _, ve := range GetValidationErrors(err) {
		byField[ve.Field] = ve.Tag
	}
	assert.Equal(t, map[string]string{
		"username": "username",
		"password": "strong_password",
		"status":   "exhibit_status",
	}, byField)

	assert.NoError(t, ValidateStruct(&staffForm{Username: "curator.one", Password: "Curator#2024"}))
}

func TestGenerateRandomString(t *testing.T) {
	first, err := GenerateRandomString(16)
	require.NoError(t, err)
	second, err := GenerateRandomString(16)
	require.NoError(t, err)

	assert.Len(t, first, 16)
	assert.NotEqual(t, first, second)
}
