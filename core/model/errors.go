package model

import "errors"

// ErrInvalidBudget is returned for negative or non-finite budgets.
var ErrInvalidBudget = errors.New("budget must be a finite, non-negative amount")
