package codegen

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^EVT-\d{5}$`)
	for i := 0; i < 1000; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		require.Regexp(t, pattern, code)

		n, err := strconv.Atoi(strings.TrimPrefix(code, Prefix))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 10000)
		assert.LessOrEqual(t, n, 99999)
	}
}
