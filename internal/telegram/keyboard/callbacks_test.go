package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	data, err := ParseCallback("pick:iron-and-steel")
	require.NoError(t, err)
	assert.Equal(t, &CallbackData{Action: ActionPick, Value: "iron-and-steel"}, data)

	data, err = ParseCallback(EncodeOption(2, 0))
	require.NoError(t, err)
	assert.Equal(t, ActionOption, data.Action)

	control, option, err := ParseOption(data.Value)
	require.NoError(t, err)
	assert.Equal(t, 2, control)
	assert.Equal(t, 0, option)

	for _, bad := range []string{"", "nav", ":x"} {
		_, err := ParseCallback(bad)
		assert.Error(t, err, bad)
	}

	for _, bad := range []string{"1", "a:1", "1:b", "1:2:3"} {
		_, _, err := ParseOption(bad)
		assert.Error(t, err, bad)
	}
}
