package usersfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/userfinder/internal/models"
)

func sampleUsers() []models.User {
	return []models.User{
		models.NewUser("John Doe", "john@example.com", "123 Main St", "Boston"),
		models.NewUser("Alice Smith", "alice@example.com", "456 Oak Ave", "Chicago"),
	}
}

func names(t *testing.T, users []models.User) []string {
	t.Helper()
	result := make([]string, 0, len(users))
	for _, u := range users {
		name, ok := u.NameValue()
		require.True(t, ok)
		result = append(result, name)
	}
	return result
}

func TestFilterPatterns(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{pattern: "^J", want: []string{"John Doe"}},
		{pattern: "Smith$", want: []string{"Alice Smith"}},
		{pattern: ".*o.*", want: []string{"John Doe"}},
		{pattern: "", want: []string{"John Doe", "Alice Smith"}},
		{pattern: "[JA].*", want: []string{"John Doe", "Alice Smith"}},
		{pattern: "^a", want: []string{"Alice Smith"}},
		{pattern: `Doe\b`, want: []string{"John Doe"}},
		{pattern: `\bDoe\b`, want: []string{}},
		{pattern: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := Filter(sampleUsers(), tt.pattern)
			assert.Equal(t, tt.want, names(t, got))
		})
	}
}

func TestFilterBlankPatternIsIdentity(t *testing.T) {
	users := sampleUsers()
	for _, pattern := range []string{"", " ", "\t", "  \n "} {
		result := Apply(users, pattern)
		assert.Equal(t, users, result.Users)
		assert.Equal(t, StrategyAll, result.Strategy)
	}
}

func TestFilterEmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil, "^J"))
	assert.NotNil(t, Filter(nil, "^J"))
	assert.Empty(t, Filter([]models.User{}, ""))
}

func TestFilterPreservesOrder(t *testing.T) {
	users := []models.User{
		models.NewUser("Zed Ames", "z@example.com", "1 A St", "X"),
		models.NewUser("Bob Brown", "b@example.com", "2 B St", "Y"),
		models.NewUser("Ann Zed", "a@example.com", "3 C St", "Z"),
		models.NewUser("Cy Zoo", "c@example.com", "4 D St", "W"),
	}

	got := Filter(users, "z")
	assert.Equal(t, []string{"Zed Ames", "Ann Zed", "Cy Zoo"}, names(t, got))
}

func TestCompileStrategies(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		strategy Strategy
		expr     string
		badRegex bool
	}{
		{name: "blank", pattern: "   ", strategy: StrategyAll},
		{name: "regex", pattern: "^J.*", strategy: StrategyRegex, expr: "^J.*"},
		{name: "forced literal", pattern: `\.json`, strategy: StrategyForcedLiteral, expr: `\.json`},
		{name: "forced literal strips one char", pattern: `\\d`, strategy: StrategyForcedLiteral, expr: `\\d`},
		{name: "unbalanced bracket", pattern: "[A", strategy: StrategyFallbackLiteral, expr: `\[A`, badRegex: true},
		{name: "unsupported lookahead", pattern: "(?=x)", strategy: StrategyFallbackLiteral, expr: `\(\?=x\)`, badRegex: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compile(tt.pattern)
			assert.Equal(t, tt.strategy, m.Strategy)
			assert.Equal(t, tt.expr, m.Expr)
			assert.Equal(t, tt.pattern, m.Pattern)
			if tt.badRegex {
				assert.Error(t, m.CompileErr)
			} else {
				assert.NoError(t, m.CompileErr)
			}
		})
	}
}

func TestFilterInvalidRegexFallsBackToLiteral(t *testing.T) {
	users := append(sampleUsers(), models.NewUser("[Admin] Root", "root@example.com", "1 Root St", "Nowhere"))

	var result Result
	assert.NotPanics(t, func() {
		result = Apply(users, "[a")
	})

	assert.Equal(t, StrategyFallbackLiteral, result.Strategy)
	assert.Equal(t, []string{"[Admin] Root"}, names(t, result.Users))
}

func TestFilterInvalidRegexWithoutMatches(t *testing.T) {
	got := Filter(sampleUsers(), "[A")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterLeadingBackslashMatchesLiterally(t *testing.T) {
	users := []models.User{
		models.NewUser("config.json", "a@example.com", "1 A St", "X"),
		models.NewUser("configXjson", "b@example.com", "2 B St", "Y"),
	}

	assert.Equal(t, []string{"config.json", "configXjson"}, names(t, Filter(users, ".json")))
	assert.Equal(t, []string{"config.json"}, names(t, Filter(users, `\.json`)))
}

func TestFilterLeadingBackslashStripsOneCharacter(t *testing.T) {
	users := []models.User{
		models.NewUser("John Doe", "john@example.com", "123 Main St", "Boston"),
		models.NewUser(`xbDoe\b`, "x@example.com", "1 A St", "X"),
	}

	result := Apply(users, `\bDoe\b`)

	assert.Equal(t, StrategyForcedLiteral, result.Strategy)
	assert.Equal(t, `bDoe\\b`, result.Matcher.Expr)
	assert.Equal(t, []string{`xbDoe\b`}, names(t, result.Users))
}

func TestFilterMissingNameFallsBackToSubstring(t *testing.T) {
	users := []models.User{
		models.NewUser("John Doe", "john@example.com", "123 Main St", "Boston"),
		{Email: models.NewUser("", "nameless@example.com", "", "").Email},
		models.NewUser("Johanna Roe", "jo@example.com", "7 Elm St", "Denver"),
	}

	result := Apply(users, "JOH")

	assert.Equal(t, StrategySubstring, result.Strategy)
	assert.True(t, IsMissingName(result.MatchErr))
	assert.Equal(t, []string{"John Doe", "Johanna Roe"}, names(t, result.Users))
}

func TestSubstringFallbackUsesRawPattern(t *testing.T) {
	users := []models.User{
		{},
		models.NewUser("a.b", "x@example.com", "1 A St", "X"),
		models.NewUser("axb", "y@example.com", "2 B St", "Y"),
	}

	result := Apply(users, "A.B")

	assert.Equal(t, StrategySubstring, result.Strategy)
	assert.Equal(t, []string{"a.b"}, names(t, result.Users))
}

func TestSubstringFallbackDropsNamelessRecords(t *testing.T) {
	users := []models.User{
		models.NewUser("Ann Lee", "a@example.com", "1 A St", "X"),
		{},
		models.NewUser("Lee Park", "l@example.com", "2 B St", "Y"),
		{},
	}

	result := Apply(users, "lee")

	assert.Equal(t, StrategySubstring, result.Strategy)
	assert.Equal(t, []string{"Ann Lee", "Lee Park"}, names(t, result.Users))
}

func TestMatchMissingName(t *testing.T) {
	ok, err := Compile("x").Match(models.User{})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "regex", StrategyRegex.String())
	assert.Equal(t, "substring", StrategySubstring.String())
	assert.Equal(t, "Strategy(42)", Strategy(42).String())
}
