package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryShopping      Category = "shopping"
	CategoryFood          Category = "food"
	CategoryEntertainment Category = "entertainment"
	CategoryTransport     Category = "transport"
	CategoryBills         Category = "bills"
	CategoryOther         Category = "other"
)

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
)

type (
	Category string

	GoalStatus string

	Money struct {
		Cents int64
	}

	User struct {
		ID        string
		CreatedAt time.Time
	}

	// Goal is a single savings objective. Consumers assume at most one
	// active goal per user; SetGoal replaces any previous active goal.
	Goal struct {
		ID          string
		UserID      string
		Title       string
		Target      Money
		Current     Money
		Deadline    *time.Time
		MonthBudget *Money // monthly non-essential budget, unset when nil
		Status      GoalStatus
		CreatedAt   time.Time
	}

	// Transaction is a single spending event. Immutable once created.
	Transaction struct {
		ID        string
		UserID    string
		Amount    Money
		Merchant  string
		Category  Category
		Timestamp time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyTitle      = errors.New("empty goal title")
	ErrEmptyMerchant   = errors.New("empty merchant")
	ErrEmptyUserID     = errors.New("empty user id")
	ErrTitleTooLong    = errors.New("goal title too long (max 200 characters)")
	ErrMerchantTooLong = errors.New("merchant too long (max 200 characters)")
)

// nonEssential is the fixed policy subset that counts toward the monthly
// budget comparison. Not user-configurable.
var nonEssential = map[Category]bool{
	CategoryShopping:      true,
	CategoryFood:          true,
	CategoryEntertainment: true,
}

// NonEssential reports whether spending in this category counts toward
// the monthly non-essential budget.
func (c Category) NonEssential() bool {
	return nonEssential[c]
}

// ParseCategory maps a free-form string onto the closed category set.
// Unknown strings fail soft to CategoryOther, never an error.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryShopping:
		return CategoryShopping
	case CategoryFood:
		return CategoryFood
	case CategoryEntertainment:
		return CategoryEntertainment
	case CategoryTransport:
		return CategoryTransport
	case CategoryBills:
		return CategoryBills
	default:
		return CategoryOther
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ProgressPercentage is current/target expressed as a percentage.
// A zero target yields 0, not a division error.
func (g Goal) ProgressPercentage() float64 {
	if g.Target.Cents == 0 {
		return 0
	}
	return float64(g.Current.Cents) / float64(g.Target.Cents) * 100
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return ErrEmptyUserID
	}
	if len(strings.TrimSpace(g.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(g.Title) > 200 {
		return ErrTitleTooLong
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	// A configured budget of zero is legal; a negative one is not.
	if g.MonthBudget != nil && g.MonthBudget.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUserID
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Merchant)) == 0 {
		return ErrEmptyMerchant
	}
	if len(t.Merchant) > 200 {
		return ErrMerchantTooLong
	}
	return nil
}
