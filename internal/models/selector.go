package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Token string

const (
	TokenWeek     Token = "7days"
	TokenMonth    Token = "30days"
	TokenQuarter  Token = "quarter"
	TokenHalfYear Token = "6M"
	TokenYear     Token = "1Y"
	TokenAll      Token = "ALL"
	TokenCustom   Token = "custom"

	DefaultToken = TokenMonth
)

var ErrUnknownToken = errors.New("unknown range token")

var tokenPoints = map[Token]int{
	TokenWeek:     7,
	TokenMonth:    30,
	TokenQuarter:  90,
	TokenHalfYear: 180,
	TokenYear:     365,
	TokenAll:      730,
}

// aliases are matched case-insensitively.
var tokenAliases = map[string]Token{
	"7days":        TokenWeek,
	"1w":           TokenWeek,
	"week":         TokenWeek,
	"last_7_days":  TokenWeek,
	"30days":       TokenMonth,
	"1m":           TokenMonth,
	"month":        TokenMonth,
	"last_30_days": TokenMonth,
	"quarter":      TokenQuarter,
	"3m":           TokenQuarter,
	"90days":       TokenQuarter,
	"6m":           TokenHalfYear,
	"180days":      TokenHalfYear,
	"half_year":    TokenHalfYear,
	"1y":           TokenYear,
	"365days":      TokenYear,
	"year":         TokenYear,
	"all":          TokenAll,
	"custom":       TokenCustom,
}

func FixedTokens() []Token {
	return []Token{TokenWeek, TokenMonth, TokenQuarter, TokenHalfYear, TokenYear, TokenAll}
}

func ParseToken(s string) (Token, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return DefaultToken, nil
	}
	if t, ok := tokenAliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownToken, s)
}

// Points is the fixed sample count of the token; zero for custom.
func (t Token) Points() int { return tokenPoints[t] }

func (t Token) Custom() bool { return t == TokenCustom }

type RangeSelector struct {
	Token Token      `json:"token"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

func Preset(t Token) RangeSelector { return RangeSelector{Token: t} }

// Custom builds a custom selector. Nil bounds are allowed and produce an
// invalid selector, which generates empty series.
func Custom(start, end *time.Time) RangeSelector {
	sel := RangeSelector{Token: TokenCustom}
	if start != nil {
		d := Day(*start)
		sel.Start = &d
	}
	if end != nil {
		d := Day(*end)
		sel.End = &d
	}
	return sel
}

func CustomDates(start, end time.Time) RangeSelector { return Custom(&start, &end) }

// ParseSelector reads the selector from its query form. An empty token with
// bounds means custom; "YYYY-MM-DD to YYYY-MM-DD" is accepted as the token.
// Inverted or missing custom bounds are not errors.
func ParseSelector(token, start, end string) (RangeSelector, error) {
	token = strings.TrimSpace(token)
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	if strings.Contains(token, " to ") {
		parts := strings.SplitN(token, " to ", 2)
		token, start, end = string(TokenCustom), strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	if token == "" && (start != "" || end != "") {
		token = string(TokenCustom)
	}

	t, err := ParseToken(token)
	if err != nil {
		return RangeSelector{}, err
	}
	if !t.Custom() {
		return Preset(t), nil
	}

	var s, e *time.Time
	if start != "" {
		d, err := time.Parse(DateLayout, start)
		if err != nil {
			return RangeSelector{}, fmt.Errorf("start must be in YYYY-MM-DD format")
		}
		s = &d
	}
	if end != "" {
		d, err := time.Parse(DateLayout, end)
		if err != nil {
			return RangeSelector{}, fmt.Errorf("end must be in YYYY-MM-DD format")
		}
		e = &d
	}
	return Custom(s, e), nil
}

// Valid reports whether the selector describes a non-empty window.
func (r RangeSelector) Valid() bool {
	if !r.Token.Custom() {
		_, ok := tokenPoints[r.Token]
		return ok
	}
	if r.Start == nil || r.End == nil {
		return false
	}
	return !r.End.Before(*r.Start)
}

// Days is the number of daily points the selector covers: the token's count
// for presets, the inclusive day span for custom ranges, 0 when invalid.
func (r RangeSelector) Days() int {
	if !r.Valid() {
		return 0
	}
	if !r.Token.Custom() {
		return r.Token.Points()
	}
	return DiffDays(*r.Start, *r.End) + 1
}

// SpanDays is the exclusive distance between the bounds of a valid custom
// range, and the point count minus one for presets.
func (r RangeSelector) SpanDays() int {
	n := r.Days()
	if n == 0 {
		return 0
	}
	return n - 1
}

// Window returns the first and last day covered. Presets end the day before
// now's day.
func (r RangeSelector) Window(now time.Time) (time.Time, time.Time, bool) {
	if !r.Valid() {
		return time.Time{}, time.Time{}, false
	}
	if r.Token.Custom() {
		return *r.Start, *r.End, true
	}
	today := Day(now)
	n := r.Token.Points()
	return today.AddDate(0, 0, -n), today.AddDate(0, 0, -1), true
}

// Previous returns the custom window of equal length right before this one.
func (r RangeSelector) Previous(now time.Time) RangeSelector {
	from, _, ok := r.Window(now)
	if !ok {
		return Custom(nil, nil)
	}
	n := r.Days()
	return CustomDates(from.AddDate(0, 0, -n), from.AddDate(0, 0, -1))
}

func (r RangeSelector) String() string {
	if !r.Token.Custom() {
		return string(r.Token)
	}
	s, e := "?", "?"
	if r.Start != nil {
		s = r.Start.Format(DateLayout)
	}
	if r.End != nil {
		e = r.End.Format(DateLayout)
	}
	return s + " to " + e
}

func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DiffDays counts calendar days from a to b, ignoring zones and DST.
func DiffDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	// Unix seconds, not Sub: a Duration saturates after ~292 years
	return int((ub.Unix() - ua.Unix()) / 86400)
}
