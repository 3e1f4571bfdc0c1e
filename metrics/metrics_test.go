package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("count", "ok"))

	RecordUpstream("count", "ok", 20*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("count", "ok")))
}

func TestRecordHTTP(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("page", "500"))

	RecordHTTP("page", "500", time.Millisecond)
	RecordHTTP("page", "500", time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("page", "500")))
}
