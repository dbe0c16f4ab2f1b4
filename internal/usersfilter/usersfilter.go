// Package usersfilter selects users whose name matches an operator-supplied pattern.
//
// A pattern is compiled by an ordered strategy:
//
//  1. a leading backslash is stripped and the rest is matched literally;
//  2. otherwise the pattern is compiled as a case-insensitive regular expression;
//  3. if it does not compile, the whole pattern is matched literally.
//
// Matches are searched anywhere in the name. If matching itself fails,
// filtering degrades to a case-insensitive substring check on the raw pattern.
// Filtering never fails: every error path widens the match policy instead.
package usersfilter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/userfinder/internal/logger"
	"github.com/patric-chuzhbe/userfinder/internal/models"
)

// Strategy identifies how a pattern was applied.
type Strategy int

const (
	// StrategyAll keeps every record; used for empty or whitespace patterns.
	StrategyAll Strategy = iota
	// StrategyForcedLiteral matches the text after a leading backslash literally.
	StrategyForcedLiteral
	// StrategyRegex matches the pattern as a case-insensitive regular expression.
	StrategyRegex
	// StrategyFallbackLiteral matches an invalid regular expression literally.
	StrategyFallbackLiteral
	// StrategySubstring is a plain case-insensitive containment check.
	StrategySubstring
)

func (s Strategy) String() string {
	switch s {
	case StrategyAll:
		return "all"
	case StrategyForcedLiteral:
		return "forced literal"
	case StrategyRegex:
		return "regex"
	case StrategyFallbackLiteral:
		return "fallback literal"
	case StrategySubstring:
		return "substring"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// LiteralPrefix forces literal matching of the rest of the pattern.
const LiteralPrefix = `\`

const caseInsensitive = "(?i)"

// ErrMissingName is reported when a record has no name to match against.
var ErrMissingName = &models.MissingFieldError{Field: "name"}

// Matcher is a compiled pattern.
type Matcher struct {
	// Pattern is the text as supplied by the operator.
	Pattern string
	// Expr is the expression actually compiled, without the case-insensitive flag.
	Expr     string
	Strategy Strategy
	// CompileErr holds the regular expression error that caused StrategyFallbackLiteral.
	CompileErr error

	re *regexp.Regexp
}

// Compile turns pattern into a Matcher following the ordered strategy.
// It never fails.
func Compile(pattern string) Matcher {
	if strings.TrimSpace(pattern) == "" {
		return Matcher{Pattern: pattern, Strategy: StrategyAll}
	}

	if strings.HasPrefix(pattern, LiteralPrefix) {
		expr := regexp.QuoteMeta(pattern[len(LiteralPrefix):])
		return Matcher{
			Pattern:  pattern,
			Expr:     expr,
			Strategy: StrategyForcedLiteral,
			re:       regexp.MustCompile(caseInsensitive + expr),
		}
	}

	re, err := regexp.Compile(caseInsensitive + pattern)
	if err == nil {
		return Matcher{
			Pattern:  pattern,
			Expr:     pattern,
			Strategy: StrategyRegex,
			re:       re,
		}
	}

	expr := regexp.QuoteMeta(pattern)
	return Matcher{
		Pattern:    pattern,
		Expr:       expr,
		Strategy:   StrategyFallbackLiteral,
		CompileErr: err,
		re:         regexp.MustCompile(caseInsensitive + expr),
	}
}

// Match reports whether the user's name contains a match.
// Records without a name yield ErrMissingName; a panic while matching is returned as an error.
func (m Matcher) Match(u models.User) (matched bool, err error) {
	if m.Strategy == StrategyAll {
		return true, nil
	}

	name, ok := u.NameValue()
	if !ok {
		return false, ErrMissingName
	}

	defer func() {
		if r := recover(); r != nil {
			matched = false
			err = fmt.Errorf("matching %q: %v", name, r)
		}
	}()

	if m.Strategy == StrategySubstring || m.re == nil {
		return containsFold(name, m.Pattern), nil
	}

	return m.re.MatchString(name), nil
}

func containsFold(name, pattern string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(pattern))
}

// Result describes one filtering pass.
type Result struct {
	Users   []models.User
	Matcher Matcher
	// Strategy is the policy that produced Users. It differs from
	// Matcher.Strategy only when matching fell back to StrategySubstring.
	Strategy Strategy
	// MatchErr is the error that triggered the substring fallback.
	MatchErr error
}

// Apply filters users by pattern and reports how the pattern was applied.
// Users keeps the source order.
func Apply(users []models.User, pattern string) Result {
	matcher := Compile(pattern)
	result := Result{
		Matcher:  matcher,
		Strategy: matcher.Strategy,
	}

	if len(users) == 0 {
		result.Users = []models.User{}
		return result
	}

	if matcher.Strategy == StrategyAll {
		logger.Log.Infoln("empty search term, returning all users")
		result.Users = users
		return result
	}

	if matcher.CompileErr != nil {
		logger.Log.Infow("invalid regular expression, matching literally",
			"pattern", pattern,
			"error", matcher.CompileErr,
		)
	}

	matched, err := matchAll(matcher, users)
	if err != nil {
		logger.Log.Warnw("pattern matching failed, falling back to substring search",
			"pattern", pattern,
			"error", err,
		)
		result.Strategy = StrategySubstring
		result.MatchErr = err
		result.Users = substring(users, pattern)
		return result
	}

	result.Users = matched
	return result
}

// Filter returns the users whose name matches pattern, in source order.
func Filter(users []models.User, pattern string) []models.User {
	return Apply(users, pattern).Users
}

func matchAll(matcher Matcher, users []models.User) ([]models.User, error) {
	var matchErr error
	matched := funk.Filter(users, func(u models.User) bool {
		if matchErr != nil {
			return false
		}
		ok, err := matcher.Match(u)
		if err != nil {
			matchErr = err
			return false
		}
		logger.Log.Debugw("matching name", "name", *u.Name, "matched", ok)
		return ok
	}).([]models.User)

	if matchErr != nil {
		return nil, matchErr
	}
	return matched, nil
}

// substring keeps named records containing pattern. Records without a name
// are dropped rather than widening the result to every user.
func substring(users []models.User, pattern string) []models.User {
	fallback := Matcher{Pattern: pattern, Strategy: StrategySubstring}
	return funk.Filter(users, func(u models.User) bool {
		ok, err := fallback.Match(u)
		return err == nil && ok
	}).([]models.User)
}

// IsMissingName reports whether err was caused by a record without a name.
func IsMissingName(err error) bool {
	var missing *models.MissingFieldError
	return errors.As(err, &missing) && missing.Field == "name"
}
