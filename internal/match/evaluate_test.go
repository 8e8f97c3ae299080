package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradlift/scholar-cli/internal/model"
)

func TestEvaluate_Equals(t *testing.T) {
	profile := model.Profile{"field_of_study": "Engineering"}
	evaluated := Evaluate(profile, []model.Criterion{
		{Key: "c1", Label: "STEM major", Attribute: "field_of_study", Operator: model.OpEquals, Value: "engineering"},
	})
	require.Len(t, evaluated, 1)
	assert.True(t, evaluated[0].Matched)
}

func TestEvaluate_OneOf(t *testing.T) {
	profile := model.Profile{"field_of_study": "Physics"}
	criteria := []model.Criterion{
		{Attribute: "field_of_study", Operator: model.OpOneOf, Value: "Engineering|Physics|Mathematics"},
	}
	assert.True(t, Evaluate(profile, criteria)[0].Matched)

	profile["field_of_study"] = "History"
	assert.False(t, Evaluate(profile, criteria)[0].Matched)
}

func TestEvaluate_MinMax(t *testing.T) {
	profile := model.Profile{"gpa": "3.6"}

	minC := []model.Criterion{{Attribute: "gpa", Operator: model.OpMin, Value: "3.5"}}
	assert.True(t, Evaluate(profile, minC)[0].Matched)

	maxC := []model.Criterion{{Attribute: "gpa", Operator: model.OpMax, Value: "3.5"}}
	assert.False(t, Evaluate(profile, maxC)[0].Matched)
}

func TestEvaluate_Flag(t *testing.T) {
	profile := model.Profile{"financial_need": "true"}
	criteria := []model.Criterion{{Attribute: "financial_need", Operator: model.OpFlag}}
	assert.True(t, Evaluate(profile, criteria)[0].Matched)

	profile["financial_need"] = "false"
	assert.False(t, Evaluate(profile, criteria)[0].Matched)
}

func TestEvaluate_MissingAttributeFailsClosed(t *testing.T) {
	criteria := []model.Criterion{
		{Attribute: "citizenship", Operator: model.OpEquals, Value: "US"},
		{Attribute: "gpa", Operator: model.OpMin, Value: "3.0"},
		{Attribute: "financial_need", Operator: model.OpFlag},
	}
	for _, ec := range Evaluate(model.Profile{}, criteria) {
		assert.False(t, ec.Matched)
	}
}

func TestEvaluate_UnreadableAttributeFailsClosed(t *testing.T) {
	profile := model.Profile{"gpa": "three point five", "financial_need": "maybe"}
	criteria := []model.Criterion{
		{Attribute: "gpa", Operator: model.OpMin, Value: "3.0"},
		{Attribute: "financial_need", Operator: model.OpFlag},
	}
	evaluated := Evaluate(profile, criteria)
	assert.False(t, evaluated[0].Matched)
	assert.False(t, evaluated[1].Matched)
}

func TestEvaluate_OrderAndLengthPreserved(t *testing.T) {
	profile := model.Profile{"a": "1"}
	criteria := []model.Criterion{
		{Key: "k1", Attribute: "a", Operator: model.OpMin, Value: "0"},
		{Key: "k2", Attribute: "b", Operator: model.OpFlag},
		{Key: "k3", Attribute: "a", Operator: model.OpMax, Value: "5"},
	}
	evaluated := Evaluate(profile, criteria)
	require.Len(t, evaluated, 3)
	assert.Equal(t, "k1", evaluated[0].Criterion.Key)
	assert.Equal(t, "k2", evaluated[1].Criterion.Key)
	assert.Equal(t, "k3", evaluated[2].Criterion.Key)
}

func TestEvaluate_ReferentiallyTransparent(t *testing.T) {
	profile := model.Profile{"gpa": "3.8", "state": "OR"}
	criteria := []model.Criterion{
		{Attribute: "gpa", Operator: model.OpMin, Value: "3.5"},
		{Attribute: "state", Operator: model.OpOneOf, Value: "OR|WA"},
	}
	first := Evaluate(profile, criteria)
	second := Evaluate(profile, criteria)
	assert.Equal(t, first, second)
}

func TestValidateCriteria(t *testing.T) {
	err := ValidateCriteria([]model.Criterion{{Key: "bad", Attribute: "x", Operator: "between"}})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)

	err = ValidateCriteria([]model.Criterion{{Key: "bad", Operator: model.OpFlag}})
	require.ErrorAs(t, err, &ve)

	assert.NoError(t, ValidateCriteria([]model.Criterion{
		{Key: "ok", Attribute: "gpa", Operator: model.OpMin, Value: "2.0"},
	}))
	assert.NoError(t, ValidateCriteria(nil))
}
