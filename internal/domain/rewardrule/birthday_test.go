package rewardrule

import (
	"context"
	"testing"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/stretchr/testify/require"
)

func Test_birthdayRule_Evaluate(t *testing.T) {
	ctx := context.Background()
	rule := &birthdayRule{}

	ec := NewEvalContext(entity.User{
		Base:       entity.Base{ID: "user-birthday"},
		Attributes: entity.Map{"birthday": "1990-06-15"},
	}, nil)

	matched, err := rule.Evaluate(ctx, ec, NewEnvironment(
		time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.True(t, matched)

	matched, err = rule.Evaluate(ctx, ec, NewEnvironment(
		time.Date(2024, time.June, 16, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.False(t, matched)
}

func Test_birthdayRule_leapDay(t *testing.T) {
	ctx := context.Background()
	rule := &birthdayRule{}

	// Month-day form with no year still accepts February 29th.
	month, day, ok := parseMonthDay("02-29")
	require.True(t, ok)
	require.Equal(t, time.February, month)
	require.Equal(t, 29, day)

	ec := NewEvalContext(entity.User{
		Base:       entity.Base{ID: "user-leap"},
		Attributes: entity.Map{"birthday": "02-29"},
	}, nil)

	matched, err := rule.Evaluate(ctx, ec, NewEnvironment(
		time.Date(2024, time.February, 29, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.True(t, matched)

	// No match on the 28th, leap birthdays only fire on the real day.
	matched, err = rule.Evaluate(ctx, ec, NewEnvironment(
		time.Date(2024, time.February, 28, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.False(t, matched)
}
