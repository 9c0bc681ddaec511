//go:build unit

package errs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codedError struct{ code string }

func (e *codedError) Error() string { return "coded: " + e.code }

func TestAs(t *testing.T) {
	base := &codedError{code: "40001"}
	err := Mark(Wrap(base, "update booking"), ErrDatabaseOperationFailed)

	var target *codedError
	require.True(t, As(err, &target))
	assert.Equal(t, "40001", target.code)
	assert.True(t, Is(err, ErrDatabaseOperationFailed))
}

func TestExtractStackLines(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, ExtractStackLines(nil, 5))
	})

	t.Run("limits the detail and keeps the message first", func(t *testing.T) {
		err := Wrap(New("pool closed"), "load booking")

		lines := ExtractStackLines(err, 3)

		require.Len(t, lines, 3)
		assert.True(t, strings.Contains(lines[0], "load booking"), "first line: %q", lines[0])
	})

	t.Run("zero limit keeps everything", func(t *testing.T) {
		err := Wrap(New("pool closed"), "load booking")

		assert.Greater(t, len(ExtractStackLines(err, 0)), 3)
	})
}
