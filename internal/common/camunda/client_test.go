// internal/common/camunda/client_test.go
package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "knowledge-engine/internal/common/errors"
)

func newTestClient() *Client {
	return &Client{
		config: &ClientConfig{
			RetryConfig: &RetryConfig{
				MaxRetries: 3,
				BaseDelay:  time.Millisecond,
				MaxDelay:   5 * time.Millisecond,
			},
		},
	}
}

func TestExecuteWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	client := newTestClient()

	attempts := 0
	result, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return "ok", nil
	}, "deploy")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetry_NonRetryableFailsImmediately(t *testing.T) {
	client := newTestClient()

	attempts := 0
	_, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, errors.New("invalid argument")
	}, "deploy")

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetry_ExhaustsRetries(t *testing.T) {
	client := newTestClient()

	attempts := 0
	_, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, errors.New("deadline exceeded")
	}, "topology")

	require.Error(t, err)
	assert.Equal(t, 4, attempts)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeWorkflowEngineFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestExecuteWithRetry_ContextCancellation(t *testing.T) {
	client := newTestClient()
	client.config.RetryConfig.BaseDelay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("unavailable")
	}, "topology")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(errors.New("rpc error: UNAVAILABLE")))
	assert.True(t, isRetryableZeebeError(errors.New("dial tcp: connection refused")))
	assert.True(t, isRetryableZeebeError(errors.New("context deadline exceeded")))
	assert.False(t, isRetryableZeebeError(errors.New("invalid BPMN resource")))
}

func TestMapZeebeError_TransientBecomesStandardError(t *testing.T) {
	err := mapZeebeError(errors.New("broker unreachable"), "deploy", 2)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeWorkflowEngineFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "deploy")
}
