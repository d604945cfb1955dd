package factory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/random"
	"github.com/Rana718/knockoff/internal/types"
)

// FakerMethod produces one fake value. Args carry optional bounds such as
// min/max for numeric methods.
type FakerMethod func(f *gofakeit.Faker, args types.Params) (any, error)

func noArgs[T any](fn func(f *gofakeit.Faker) T) FakerMethod {
	return func(f *gofakeit.Faker, _ types.Params) (any, error) { return fn(f), nil }
}

var (
	defaultMinDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	defaultMaxDate = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
)

var fakerMethods = map[string]FakerMethod{
	"name":          noArgs((*gofakeit.Faker).Name),
	"first_name":    noArgs((*gofakeit.Faker).FirstName),
	"last_name":     noArgs((*gofakeit.Faker).LastName),
	"email":         noArgs((*gofakeit.Faker).Email),
	"username":      noArgs((*gofakeit.Faker).Username),
	"phone":         noArgs((*gofakeit.Faker).Phone),
	"company":       noArgs((*gofakeit.Faker).Company),
	"job_title":     noArgs((*gofakeit.Faker).JobTitle),
	"city":          noArgs((*gofakeit.Faker).City),
	"state":         noArgs((*gofakeit.Faker).State),
	"country":       noArgs((*gofakeit.Faker).Country),
	"street":        noArgs((*gofakeit.Faker).Street),
	"zip":           noArgs((*gofakeit.Faker).Zip),
	"url":           noArgs((*gofakeit.Faker).URL),
	"word":          noArgs((*gofakeit.Faker).Word),
	"color":         noArgs((*gofakeit.Faker).Color),
	"product_name":  noArgs((*gofakeit.Faker).ProductName),
	"uuid":          noArgs((*gofakeit.Faker).UUID),
	"bool":          noArgs((*gofakeit.Faker).Bool),
	"ipv4":          noArgs((*gofakeit.Faker).IPv4Address),
	"currency_code": noArgs((*gofakeit.Faker).CurrencyShort),
	"int": func(f *gofakeit.Faker, args types.Params) (any, error) {
		lo, err := args.Int("min", 0)
		if err != nil {
			return nil, err
		}
		hi, err := args.Int("max", 9999)
		if err != nil {
			return nil, err
		}
		return f.IntRange(lo, hi), nil
	},
	"float": func(f *gofakeit.Faker, args types.Params) (any, error) {
		lo, err := args.Float("min", 0)
		if err != nil {
			return nil, err
		}
		hi, err := args.Float("max", 10000)
		if err != nil {
			return nil, err
		}
		return f.Float64Range(lo, hi), nil
	},
	"price": func(f *gofakeit.Faker, args types.Params) (any, error) {
		lo, err := args.Float("min", 1)
		if err != nil {
			return nil, err
		}
		hi, err := args.Float("max", 1000)
		if err != nil {
			return nil, err
		}
		return f.Price(lo, hi), nil
	},
	"letters": func(f *gofakeit.Faker, args types.Params) (any, error) {
		n, err := args.Int("length", 10)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: letters length must not be negative", errs.ErrConfiguration)
		}
		return f.LetterN(uint(n)), nil
	},
	"date": func(f *gofakeit.Faker, args types.Params) (any, error) {
		start, end, err := dateBounds(args)
		if err != nil {
			return nil, err
		}
		d := f.DateRange(start, end).UTC()
		format := args.String("format", "2006-01-02")
		return d.Format(format), nil
	},
	"datetime": func(f *gofakeit.Faker, args types.Params) (any, error) {
		start, end, err := dateBounds(args)
		if err != nil {
			return nil, err
		}
		return f.DateRange(start, end).UTC(), nil
	},
}

func dateBounds(args types.Params) (time.Time, time.Time, error) {
	start, end := defaultMinDate, defaultMaxDate
	if s := args.String("start", ""); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, fmt.Errorf("%w: invalid start date %q", errs.ErrConfiguration, s)
		}
		start = t
	}
	if s := args.String("end", ""); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, fmt.Errorf("%w: invalid end date %q", errs.ErrConfiguration, s)
		}
		end = t
	}
	return start, end, nil
}

// LookupFaker returns the named method or a not-found error naming it.
func LookupFaker(method string) (FakerMethod, error) {
	fn, ok := fakerMethods[method]
	if !ok {
		return nil, errs.NewResourceNotFound("faker", method)
	}
	return fn, nil
}

// FakerMethods lists the registered method names in sorted order.
func FakerMethods() []string {
	names := make([]string, 0, len(fakerMethods))
	for name := range fakerMethods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Faker returns a stream calling method against the source's faker.
func Faker(src *random.Source, method string, args types.Params) (Stream, error) {
	fn, err := LookupFaker(method)
	if err != nil {
		return nil, err
	}
	return func() (any, error) { return fn(src.Faker(), args) }, nil
}

// GuessMethod picks a faker method from a column name, or "" when the name
// carries no hint.
func GuessMethod(column string) string {
	col := strings.ToLower(column)
	switch {
	case strings.Contains(col, "email"):
		return "email"
	case strings.Contains(col, "first_name") || strings.Contains(col, "firstname"):
		return "first_name"
	case strings.Contains(col, "last_name") || strings.Contains(col, "lastname"):
		return "last_name"
	case strings.Contains(col, "username"):
		return "username"
	case strings.Contains(col, "company"):
		return "company"
	case strings.Contains(col, "name") && !strings.Contains(col, "file"):
		return "name"
	case strings.Contains(col, "title"):
		return "job_title"
	case strings.Contains(col, "url") || strings.Contains(col, "link"):
		return "url"
	case strings.Contains(col, "phone"):
		return "phone"
	case strings.Contains(col, "address") || strings.Contains(col, "street"):
		return "street"
	case strings.Contains(col, "city"):
		return "city"
	case strings.Contains(col, "country"):
		return "country"
	case strings.Contains(col, "zip") || strings.Contains(col, "postal"):
		return "zip"
	case strings.Contains(col, "color") || strings.Contains(col, "colour"):
		return "color"
	}
	return ""
}
