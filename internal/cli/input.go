package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/iliyamo/movie-catalog-browser/internal/browse"
	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

// yesNo asks until the answer is yes or no. An empty answer means no.
func (a *App) yesNo(ctx context.Context, label string) (bool, error) {
	for {
		raw, err := a.console.Prompt(ctx, label)
		if err != nil {
			return false, err
		}
		switch browse.NormalizeCommand(raw) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		a.console.Println("  Please answer y or n.")
	}
}

// chooseIndex asks for a 1-based index into a list of n items. An empty
// answer returns ok == false.
func (a *App) chooseIndex(ctx context.Context, label string, n int) (idx int, ok bool, err error) {
	for {
		raw, err := a.console.Prompt(ctx, label)
		if err != nil {
			return 0, false, err
		}
		if raw == "" {
			return 0, false, nil
		}
		v, convErr := strconv.Atoi(raw)
		if convErr != nil {
			a.console.Println("  Expected a number.")
			continue
		}
		if v < 1 || v > n {
			a.console.Printf("  Invalid number: enter a value from 1 to %d.\n", n)
			continue
		}
		return v, true, nil
	}
}

// ParseYear checks that s is a four-digit year inside bounds.
func ParseYear(s string, bounds model.YearRange) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil || len(s) != 4 || y < 0 {
		return 0, &model.ValidationError{Field: "year", Message: "must be a four-digit positive number"}
	}
	if y < bounds.Min || y > bounds.Max {
		return 0, &model.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("must be between %d and %d", bounds.Min, bounds.Max),
		}
	}
	return y, nil
}

// yearInput asks for a year until it is valid. An empty answer returns nil.
func (a *App) yearInput(ctx context.Context, label string, bounds model.YearRange) (*int, error) {
	for {
		raw, err := a.console.Prompt(ctx, label)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			return nil, nil
		}
		y, verr := ParseYear(raw, bounds)
		if verr != nil {
			a.console.Printf("  Year %v. Try again.\n", trimField(verr))
			continue
		}
		return &y, nil
	}
}

func trimField(err error) string {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
