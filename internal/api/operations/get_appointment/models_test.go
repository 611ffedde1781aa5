package get_appointment

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *int64
		wantErr bool
	}{
		{name: "number", raw: `7`, want: int64Ptr(7)},
		{name: "numeric string", raw: `"7"`, want: int64Ptr(7)},
		{name: "empty string is wildcard", raw: `""`, want: nil},
		{name: "null is wildcard", raw: `null`, want: nil},
		{name: "garbage", raw: `"seven"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.raw), &id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.Value)
		})
	}
}

func TestRequest_Validate_AllKeysRequired(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"appointment_id": "", "user_id": "21-A-01720"}`), &req))

	err := req.Validate()
	require.Error(t, err)

	var missing *validate.MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t,
		[]string{"appointment_status", "transaction_type_id", "appointment_date", "school_year", "semester"},
		missing.Fields)
}

func TestRequest_ToServiceRequest_Wildcards(t *testing.T) {
	payload := `{
		"appointment_id": "",
		"appointment_status": "Pending",
		"transaction_type_id": 2,
		"user_id": "",
		"appointment_date": "2024-11-01",
		"school_year": "",
		"semester": ""
	}`
	var req Request
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	require.NoError(t, req.Validate())

	svcReq, err := req.ToServiceRequest()
	require.NoError(t, err)

	assert.Nil(t, svcReq.AppointmentID)
	assert.Nil(t, svcReq.UserID)
	assert.Nil(t, svcReq.SchoolYear)
	assert.Nil(t, svcReq.Semester)
	require.NotNil(t, svcReq.Status)
	assert.Equal(t, "Pending", *svcReq.Status)
	require.NotNil(t, svcReq.TransactionTypeID)
	assert.Equal(t, int64(2), *svcReq.TransactionTypeID)
	require.NotNil(t, svcReq.AppointmentDate)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), *svcReq.AppointmentDate)
}

func TestRequest_ToServiceRequest_BadDate(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{
		"appointment_id": "",
		"appointment_status": "",
		"transaction_type_id": "",
		"user_id": "",
		"appointment_date": "11/01/2024",
		"school_year": "",
		"semester": ""
	}`), &req))

	_, err := req.ToServiceRequest()
	assert.Error(t, err)
}

func int64Ptr(v int64) *int64 {
	return &v
}
