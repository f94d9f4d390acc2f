package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/catalog/", "200"))

	RecordAPIRequest("GET", "/catalog/", 200, 15*time.Millisecond)
	RecordAPIRequest("GET", "/catalog/", 200, 30*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/catalog/", "200"))
	assert.Equal(t, before+2, after)
}

func TestRecordCheckout(t *testing.T) {
	beforePaid := testutil.ToFloat64(CheckoutsTotal.WithLabelValues("paid"))
	beforePayments := testutil.ToFloat64(PaymentsCreated)

	RecordCheckout("paid", 3)

	assert.Equal(t, beforePaid+1, testutil.ToFloat64(CheckoutsTotal.WithLabelValues("paid")))
	assert.Equal(t, beforePayments+3, testutil.ToFloat64(PaymentsCreated))
}

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(LoginAttempts.WithLabelValues("rate_limited"))
	RecordLogin("rate_limited")
	assert.Equal(t, before+1, testutil.ToFloat64(LoginAttempts.WithLabelValues("rate_limited")))
}
