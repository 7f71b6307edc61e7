package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequencyPolicyValidate(t *testing.T) {
	assert.NoError(t, FrequencyPolicy{Type: FrequencyDaily}.Validate())
	assert.NoError(t, FrequencyPolicy{Type: FrequencyWeekly, Target: 1}.Validate())
	assert.NoError(t, FrequencyPolicy{Type: FrequencyWeekly, Target: 7}.Validate())
	assert.NoError(t, FrequencyPolicy{Type: FrequencyCustom, Days: []int{0, 6}}.Validate())

	for _, p := range []FrequencyPolicy{
		{Type: FrequencyWeekly},
		{Type: FrequencyWeekly, Target: 8},
		{Type: FrequencyWeekly, Target: -1},
		{Type: FrequencyCustom},
		{Type: FrequencyCustom, Days: []int{7}},
		{Type: FrequencyCustom, Days: []int{-1}},
		{Type: FrequencyCustom, Days: []int{2, 2}},
		{Type: "MONTHLY"},
		{},
	} {
		assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy, "policy %+v", p)
	}
}
