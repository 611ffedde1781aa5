package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecker_AllPresent(t *testing.T) {
	var check Checker
	check.Require("user_id", true)
	check.Require("appointment_date", true)

	assert.NoError(t, check.Err())
}

func TestChecker_CollectsMissingInOrder(t *testing.T) {
	var check Checker
	check.Require("transaction_type_id", true)
	check.Require("user_id", false)
	check.Require("appointment_date", false)
	check.Require("time_frame", true)

	err := check.Err()
	require.Error(t, err)

	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"user_id", "appointment_date"}, missing.Fields)
	assert.Equal(t, "missing required fields: user_id, appointment_date", err.Error())
}

func TestNewMissingFields_EmptyIsNil(t *testing.T) {
	assert.NoError(t, NewMissingFields(nil))
	assert.NoError(t, NewMissingFields([]string{}))
}
