package directclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    15,
		BaseDelay:      2 * time.Second,
		MaxDelay:       60 * time.Second,
		MinServerDelay: 1 * time.Second,
		MaxServerDelay: 60 * time.Second,
	}
}

func TestRetryPolicy_Delay(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name      string
		attempt   int
		suggested time.Duration
		expected  time.Duration
	}{
		{name: "primeira tentativa usa o delay base", attempt: 1, expected: 2 * time.Second},
		{name: "segunda tentativa dobra", attempt: 2, expected: 4 * time.Second},
		{name: "terceira tentativa dobra de novo", attempt: 3, expected: 8 * time.Second},
		{name: "backoff limitado ao teto", attempt: 10, expected: 60 * time.Second},
		{name: "sugestão do servidor tem prioridade", attempt: 1, suggested: 30 * time.Second, expected: 30 * time.Second},
		{name: "sugestão abaixo do mínimo é elevada", attempt: 5, suggested: 100 * time.Millisecond, expected: 1 * time.Second},
		{name: "sugestão acima do máximo é reduzida", attempt: 1, suggested: 10 * time.Minute, expected: 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.Delay(tt.attempt, tt.suggested))
		})
	}
}

func TestRetryPolicy_DelaysNeverDecrease(t *testing.T) {
	policy := testPolicy()

	previous := time.Duration(0)
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		delay := policy.Delay(attempt, 0)
		assert.GreaterOrEqual(t, delay, previous)
		assert.LessOrEqual(t, delay, policy.MaxDelay)
		previous = delay
	}
}

func TestRetryPolicy_WaitCancelled(t *testing.T) {
	policy := testPolicy()
	policy.Sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	err := policy.Wait(context.Background(), 1, 0)
	assert.True(t, directdomain.IsKind(err, directdomain.KindCancelled))
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		apiErr   *directdomain.APIErrorBody
		expected directdomain.ErrorKind
	}{
		{name: "401 é erro de credencial", status: 401, expected: directdomain.KindAuth},
		{name: "403 é erro de credencial", status: 403, expected: directdomain.KindAuth},
		{name: "429 é limite de requisições", status: 429, expected: directdomain.KindRateLimited},
		{name: "500 é sobrecarga do servidor", status: 500, expected: directdomain.KindServerOverload},
		{name: "502 é sobrecarga do servidor", status: 502, expected: directdomain.KindServerOverload},
		{name: "400 genérico é definição rejeitada", status: 400, expected: directdomain.KindReportDefinition},
		{
			name:     "400 com código de token inválido é erro de credencial",
			status:   400,
			apiErr:   &directdomain.APIErrorBody{ErrorCode: 53},
			expected: directdomain.KindAuth,
		},
		{
			name:     "400 com código de limite de pontos é retryable",
			status:   400,
			apiErr:   &directdomain.APIErrorBody{ErrorCode: 152},
			expected: directdomain.KindRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ClassifyStatus(tt.status, tt.apiErr)
			assert.Equal(t, tt.expected, de.Kind)
			assert.Equal(t, tt.status, de.StatusCode)
		})
	}
}

func TestErrorKind_Retryable(t *testing.T) {
	assert.True(t, directdomain.KindTransientNetwork.Retryable())
	assert.True(t, directdomain.KindRateLimited.Retryable())
	assert.True(t, directdomain.KindServerOverload.Retryable())

	assert.False(t, directdomain.KindAuth.Retryable())
	assert.False(t, directdomain.KindReportDefinition.Retryable())
	assert.False(t, directdomain.KindReportTimeout.Retryable())
	assert.False(t, directdomain.KindParsing.Retryable())
	assert.False(t, directdomain.KindCancelled.Retryable())
}
