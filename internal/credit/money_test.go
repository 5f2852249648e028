package credit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]Cents{
		"1000.00": 100000,
		"1000":    100000,
		"0.01":    1,
		"12.5":    1250,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "10.001"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestCentsJSON(t *testing.T) {
	out, err := json.Marshal(Cents(104500))
	require.NoError(t, err)
	assert.Equal(t, `"1045.00"`, string(out))

	var c Cents
	require.NoError(t, json.Unmarshal([]byte(`"1200.50"`), &c))
	assert.Equal(t, Cents(120050), c)

	require.NoError(t, json.Unmarshal([]byte(`75`), &c))
	assert.Equal(t, Cents(7500), c)
}

func TestCentsString(t *testing.T) {
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "1000.45", Cents(100045).String())
	assert.Equal(t, "-12.30", Cents(-1230).String())
}
