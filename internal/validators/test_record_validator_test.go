package validators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTestRecordCreate(t *testing.T) {
	// A fixed reference time in the past proves the check runs against the
	// supplied now rather than the wall clock.
	now := time.Date(2020, time.June, 15, 12, 0, 0, 0, time.UTC)

	base := func() *TestRecordCreateRequest {
		return &TestRecordCreateRequest{
			VehicleID:  "64f1c0ffee0000000000abcd",
			TestDate:   now.AddDate(0, 0, -1),
			TestResult: "PASS",
		}
	}

	t.Run("accepts a past test date", func(t *testing.T) {
		require.NoError(t, ValidateTestRecordCreate(base(), now))
	})

	t.Run("accepts a date within the day of slack", func(t *testing.T) {
		req := base()
		req.TestDate = now.Add(23 * time.Hour)
		require.NoError(t, ValidateTestRecordCreate(req, now))
	})

	t.Run("rejects a future test date against the supplied now", func(t *testing.T) {
		req := base()
		req.TestDate = now.AddDate(0, 0, 2)
		err := ValidateTestRecordCreate(req, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "test_date cannot be in the future")
	})

	t.Run("rejects an unknown result", func(t *testing.T) {
		req := base()
		req.TestResult = "MAYBE"
		assert.Error(t, ValidateTestRecordCreate(req, now))
	})
}
