package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidOption = errors.New("invalid filter option")

const dateLayout = "2006-01-02"

// Query is the subset of url.Values / gin.Context used to read options.
type Query interface {
	Query(key string) string
}

// ParseOptions reads date_from, date_to, status, q, amount_min, amount_max,
// category and payment_method. List values are comma separated.
func ParseOptions(q Query, loc *time.Location) (Options, error) {
	var opts Options

	if loc == nil {
		loc = time.UTC
	}

	var err error
	if opts.DateFrom, err = parseDate(q.Query("date_from"), loc); err != nil {
		return Options{}, fmt.Errorf("%w: date_from: %v", ErrInvalidOption, err)
	}
	if opts.DateTo, err = parseDate(q.Query("date_to"), loc); err != nil {
		return Options{}, fmt.Errorf("%w: date_to: %v", ErrInvalidOption, err)
	}
	if opts.AmountMin, err = parseAmount(q.Query("amount_min")); err != nil {
		return Options{}, fmt.Errorf("%w: amount_min: %v", ErrInvalidOption, err)
	}
	if opts.AmountMax, err = parseAmount(q.Query("amount_max")); err != nil {
		return Options{}, fmt.Errorf("%w: amount_max: %v", ErrInvalidOption, err)
	}

	opts.Statuses = splitList(q.Query("status"))
	opts.Categories = splitList(q.Query("category"))
	opts.PaymentMethods = splitList(q.Query("payment_method"))
	opts.Text = strings.TrimSpace(q.Query("q"))

	return opts, nil
}

func parseDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseAmount(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	// aceita vírgula decimal ("150,50")
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
