package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryInput struct {
	Query string `query:"q" validate:"omitempty,notblank"`
	Page  int    `query:"page" validate:"omitempty,min=1"`
	Mode  string `json:"mode" validate:"omitempty,oneof=quick advanced"`
}

type nestedConfig struct {
	Upstream struct {
		BaseURL string `mapstructure:"base_url" validate:"required,url"`
	} `mapstructure:"upstream"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	err := v.Validate(&queryInput{Query: "dune", Page: 2, Mode: "quick"})
	assert.NoError(t, err)
}

func TestValidate_FieldNamesFromTags(t *testing.T) {
	v := New()

	err := v.Validate(&queryInput{Page: -1, Mode: "fuzzy"})
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)

	assert.Equal(t, "page", errs[0].Field)
	assert.Equal(t, "min", errs[0].Tag)
	assert.Equal(t, "page must be at least 1", errs[0].Message)

	assert.Equal(t, "mode", errs[1].Field)
	assert.Equal(t, "mode must be one of: quick advanced", errs[1].Message)
}

func TestValidate_NotBlank(t *testing.T) {
	v := New()

	err := v.Validate(&queryInput{Query: "   "})
	require.Error(t, err)
	assert.Equal(t, "q is required", err.Error())
}

func TestValidate_NestedNamespace(t *testing.T) {
	v := New()

	err := v.Validate(&nestedConfig{})
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "upstream.base_url", errs[0].Field)
	assert.Equal(t, "upstream.base_url is required", errs[0].Message)
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Message: "a is required"},
		{Message: "b must be at least 1"},
	}

	assert.Equal(t, "a is required; b must be at least 1", errs.Error())
	assert.Equal(t, "", ValidationErrors{}.Error())
}
