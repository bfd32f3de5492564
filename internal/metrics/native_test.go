package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveNativeStatement(t *testing.T) {
	before := testutil.ToFloat64(nativeStatementsTotal.WithLabelValues("GRANT", OutcomeOK))

	ObserveNativeStatement("GRANT", OutcomeOK)
	ObserveNativeStatement("GRANT", OutcomeOK)

	after := testutil.ToFloat64(nativeStatementsTotal.WithLabelValues("GRANT", OutcomeOK))
	assert.Equal(t, before+2, after)
}
