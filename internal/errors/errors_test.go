package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	t.Parallel()
	sentinels := []error{
		ErrSourceUnavailable,
		ErrSourceMalformed,
		ErrNotFound,
		ErrNoMatch,
		ErrInvalidAttribute,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				assert.True(t, Is(a, b))
				continue
			}
			assert.False(t, Is(a, b), "%v must not match %v", a, b)
		}
	}
}

func TestIsUnwrapsFmtWrapping(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("fetch sheet: %w", ErrSourceUnavailable)
	assert.True(t, Is(err, ErrSourceUnavailable))
	assert.False(t, Is(err, ErrNotFound))
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()
	w := NewWrapper("catalog", "refresh")

	err := w.Wrap(ErrSourceUnavailable, "Hệ thống đang bận")
	require.Error(t, err)
	assert.True(t, Is(err, ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "catalog:refresh")
	assert.Equal(t, "Hệ thống đang bận", GetUserMessage(err))
}

func TestWrapNil(t *testing.T) {
	t.Parallel()
	w := NewWrapper("catalog", "refresh")
	assert.NoError(t, w.Wrap(nil, "ignored"))
	assert.NoError(t, w.Wrapf(nil, "ignored %d", 1))
}

func TestGetUserMessageFallsBackToError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", GetUserMessage(nil))
	assert.Equal(t, "plain", GetUserMessage(stderrors.New("plain")))
}

func TestWrapfFormats(t *testing.T) {
	t.Parallel()
	w := NewWrapper("dialog", "turn")
	err := w.Wrapf(ErrNotFound, "Không tìm thấy thủ tục %q", "BXD-001")
	assert.Equal(t, `Không tìm thấy thủ tục "BXD-001"`, GetUserMessage(err))
}
