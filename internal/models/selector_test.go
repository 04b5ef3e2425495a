package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestParseTokenAliases(t *testing.T) {
	cases := map[string]Token{
		"7days":        TokenWeek,
		"1W":           TokenWeek,
		"last_7_days":  TokenWeek,
		"1M":           TokenMonth,
		"30days":       TokenMonth,
		"quarter":      TokenQuarter,
		"3M":           TokenQuarter,
		"6m":           TokenHalfYear,
		"1Y":           TokenYear,
		"ALL":          TokenAll,
		"Custom":       TokenCustom,
		"":             DefaultToken,
		" 1w ":         TokenWeek,
	}
	for in, want := range cases {
		got, err := ParseToken(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseTokenUnknown(t *testing.T) {
	_, err := ParseToken("fortnight")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownToken))
}

func TestFixedTokenPoints(t *testing.T) {
	want := []int{7, 30, 90, 180, 365, 730}
	for i, tok := range FixedTokens() {
		assert.Equal(t, want[i], tok.Points(), tok)
		assert.Equal(t, want[i], Preset(tok).Days(), tok)
	}
	assert.Zero(t, TokenCustom.Points())
}

func TestCustomDays(t *testing.T) {
	start := date(t, "2025-03-01")

	same := CustomDates(start, start)
	assert.True(t, same.Valid())
	assert.Equal(t, 1, same.Days())
	assert.Equal(t, 0, same.SpanDays())

	week := CustomDates(start, date(t, "2025-03-07"))
	assert.Equal(t, 7, week.Days())
	assert.Equal(t, 6, week.SpanDays())

	inverted := CustomDates(date(t, "2025-03-07"), start)
	assert.False(t, inverted.Valid())
	assert.Zero(t, inverted.Days())

	missing := Custom(&start, nil)
	assert.False(t, missing.Valid())
	assert.Zero(t, missing.Days())

	centuries, err := ParseSelector("custom", "1700-01-01", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 118705, centuries.Days())
	assert.Equal(t, 118704, DiffDays(date(t, "1700-01-01"), date(t, "2025-01-01")))
}

func TestCustomDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	start := time.Date(2025, time.March, 8, 0, 0, 0, 0, loc)
	end := time.Date(2025, time.March, 10, 0, 0, 0, 0, loc)
	assert.Equal(t, 3, CustomDates(start, end).Days())
}

func TestParseSelector(t *testing.T) {
	sel, err := ParseSelector("quarter", "2025-01-01", "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, TokenQuarter, sel.Token)
	assert.Nil(t, sel.Start)

	sel, err = ParseSelector("", "2025-01-01", "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, TokenCustom, sel.Token)
	assert.Equal(t, 10, sel.Days())

	sel, err = ParseSelector("2025-02-01 to 2025-02-03", "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, sel.Days())
	assert.Equal(t, "2025-02-01 to 2025-02-03", sel.String())

	sel, err = ParseSelector("custom", "2025-02-03", "2025-02-01")
	require.NoError(t, err, "inverted bounds are not a parse error")
	assert.False(t, sel.Valid())

	sel, err = ParseSelector("custom", "", "")
	require.NoError(t, err)
	assert.False(t, sel.Valid())
	assert.Equal(t, "? to ?", sel.String())

	_, err = ParseSelector("custom", "02/01/2025", "")
	assert.Error(t, err)
	_, err = ParseSelector("decade", "", "")
	assert.Error(t, err)
}

func TestWindowAndPrevious(t *testing.T) {
	now := time.Date(2025, time.May, 15, 13, 45, 0, 0, time.UTC)

	from, to, ok := Preset(TokenWeek).Window(now)
	require.True(t, ok)
	assert.Equal(t, date(t, "2025-05-08"), from)
	assert.Equal(t, date(t, "2025-05-14"), to)

	prev := Preset(TokenWeek).Previous(now)
	assert.Equal(t, 7, prev.Days())
	assert.Equal(t, date(t, "2025-05-01"), *prev.Start)
	assert.Equal(t, date(t, "2025-05-07"), *prev.End)

	_, _, ok = Custom(nil, nil).Window(now)
	assert.False(t, ok)
	assert.False(t, Custom(nil, nil).Previous(now).Valid())
}
