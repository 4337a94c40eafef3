package fiscalyear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FromBS(t *testing.T) {
	pair, err := Normalize("2078/79")
	require.NoError(t, err)
	assert.Equal(t, "2078/79", pair.BS)
	assert.Equal(t, "2021/22", pair.AD)
	assert.Equal(t, CalendarBS, pair.Input)
}

func TestNormalize_FromAD(t *testing.T) {
	pair, err := Normalize("2021/22")
	require.NoError(t, err)
	assert.Equal(t, "2078/79", pair.BS)
	assert.Equal(t, "2021/22", pair.AD)
	assert.Equal(t, CalendarAD, pair.Input)
}

func TestNormalize_CrossCalendarEquivalence(t *testing.T) {
	fromBS, err := Normalize("2078/79")
	require.NoError(t, err)
	fromAD, err := Normalize("2021/22")
	require.NoError(t, err)

	assert.Equal(t, fromBS.BS, fromAD.BS)
	assert.Equal(t, fromBS.AD, fromAD.AD)
}

func TestNormalize_RoundTrip(t *testing.T) {
	inputs := []string{
		"2000/01", "2015/16", "2021/22", "2029/30",
		"2057/58", "2078/79", "2080/81", "2086/87",
		"2078/2079", "2021/2022",
	}
	for _, in := range inputs {
		pair, err := Normalize(in)
		require.NoError(t, err, "input %s", in)
		assert.Contains(t, pair.Variants(), in, "input %s survives normalization", in)

		// Normalizing either representation reproduces the same pair.
		fromBS, err := Normalize(pair.BS)
		require.NoError(t, err)
		fromAD, err := Normalize(pair.AD)
		require.NoError(t, err)
		assert.Equal(t, pair.BS, fromBS.BS)
		assert.Equal(t, pair.AD, fromBS.AD)
		assert.Equal(t, pair.BS, fromAD.BS)
		assert.Equal(t, pair.AD, fromAD.AD)
	}
}

func TestNormalize_NonContiguousYears(t *testing.T) {
	for _, in := range []string{"2078/80", "2021/23", "2078/78", "2078/2080"} {
		_, err := Normalize(in)
		require.Error(t, err, "input %s", in)

		var malformed *MalformedError
		assert.ErrorAs(t, err, &malformed)
	}
}

func TestNormalize_Malformed(t *testing.T) {
	for _, in := range []string{"", "2078", "2078-79", "78/79", "annual", "2078/7a"} {
		_, err := Normalize(in)
		require.Error(t, err, "input %q", in)

		var malformed *MalformedError
		assert.ErrorAs(t, err, &malformed)
	}
}

func TestNormalize_UnknownCalendar(t *testing.T) {
	for _, in := range []string{"1999/00", "2030/31", "2056/57", "2087/88", "3000/01"} {
		_, err := Normalize(in)
		require.Error(t, err, "input %s", in)

		var unknown *UnknownCalendarError
		assert.ErrorAs(t, err, &unknown)
	}
}

func TestNormalize_WideSecondComponent(t *testing.T) {
	pair, err := Normalize("2078/2079")
	require.NoError(t, err)
	assert.Equal(t, "2078/2079", pair.BS)
	assert.Equal(t, "2021/2022", pair.AD)
}

func TestNormalize_TrimsWhitespace(t *testing.T) {
	pair, err := Normalize("  2080/81 ")
	require.NoError(t, err)
	assert.Equal(t, "2080/81", pair.BS)
	assert.Equal(t, "2023/24", pair.AD)
}

func TestPair_Matches(t *testing.T) {
	pair, err := Normalize("2080/81")
	require.NoError(t, err)

	assert.True(t, pair.Matches("2080/81"))
	assert.True(t, pair.Matches("2023/24"))
	assert.True(t, pair.Matches(" 2023/24 "))
	assert.False(t, pair.Matches("2079/80"))
	assert.False(t, pair.Matches(""))
}

func TestPair_VariantsOrder(t *testing.T) {
	pair, err := Normalize("2022/23")
	require.NoError(t, err)

	// BS representation is probed first.
	assert.Equal(t, []string{"2079/80", "2022/23"}, pair.Variants())
}
