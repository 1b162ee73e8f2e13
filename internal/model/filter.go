package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SearchType tags a logged search with the flow that produced it.
type SearchType string

const (
	SearchKeyword   SearchType = "keyword"
	SearchGenreYear SearchType = "genre_year"
)

// YearRange is an inclusive release-year range. A search without a year
// filter carries a nil *YearRange, so both bounds are always present together.
type YearRange struct {
	Min int `validate:"gte=0"`
	Max int `validate:"gte=0,gtefield=Min"`
}

// KeywordFilters are the filters of a keyword search. The title match is
// always applied; an empty Keyword matches every title.
type KeywordFilters struct {
	Keyword string     `validate:"max=255"`
	GenreID *int       `validate:"omitempty,gt=0"`
	Years   *YearRange `validate:"omitempty"`
	Rating  string     `validate:"omitempty,max=16"`
}

// GenreYearFilters are the filters of a genre/year search. At least one of
// GenreID or Years must be set.
type GenreYearFilters struct {
	GenreID *int       `validate:"omitempty,gt=0"`
	Years   *YearRange `validate:"omitempty"`
	Rating  string     `validate:"omitempty,max=16"`
}

// ValidationError reports a single invalid filter or input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = validator.New()

// Validate checks the filter values.
func (f KeywordFilters) Validate() error {
	return structError(validate.Struct(f))
}

// Validate checks the filter values and that the search is constrained by
// a genre or a year range.
func (f GenreYearFilters) Validate() error {
	if err := structError(validate.Struct(f)); err != nil {
		return err
	}
	if f.GenreID == nil && f.Years == nil {
		return &ValidationError{Message: "a genre or a year range is required"}
	}
	return nil
}

// Params returns the analytics representation of the filters.
func (f KeywordFilters) Params() map[string]any {
	p := map[string]any{"keyword": f.Keyword}
	addCommonParams(p, f.GenreID, f.Years, f.Rating)
	return p
}

// Params returns the analytics representation of the filters.
func (f GenreYearFilters) Params() map[string]any {
	p := map[string]any{}
	addCommonParams(p, f.GenreID, f.Years, f.Rating)
	return p
}

func addCommonParams(p map[string]any, genreID *int, years *YearRange, rating string) {
	if genreID != nil {
		p["genre_id"] = *genreID
	}
	if years != nil {
		p["year_min"] = years.Min
		p["year_max"] = years.Max
	}
	if rating != "" {
		p["rating"] = rating
	}
}

func structError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "gtefield":
		return &ValidationError{Field: "years", Message: "lower year is greater than upper year"}
	case "gt", "gte":
		return &ValidationError{Field: field, Message: "must be positive"}
	case "max":
		return &ValidationError{Field: field, Message: "is too long"}
	}
	return &ValidationError{Field: field, Message: "is invalid"}
}
