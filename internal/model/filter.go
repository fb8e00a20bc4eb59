package model

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeFilter selects the date window for list and summary reads.
type TimeFilter string

const (
	CurrentMonth TimeFilter = "current-month"
	LastMonth    TimeFilter = "last-month"
	ThisYear     TimeFilter = "this-year"
	Custom       TimeFilter = "custom"
)

// TimeFilters lists the selectable filters in display order.
var TimeFilters = []TimeFilter{CurrentMonth, LastMonth, ThisYear, Custom}

// Label returns a human-readable name for the filter.
func (tf TimeFilter) Label() string {
	switch tf {
	case CurrentMonth:
		return "This Month"
	case LastMonth:
		return "Last Month"
	case ThisYear:
		return "This Year"
	case Custom:
		return "Custom"
	default:
		return string(tf)
	}
}

// Next cycles to the following time filter, wrapping around. Custom is
// skipped because it needs explicit dates.
func (tf TimeFilter) Next() TimeFilter {
	switch tf {
	case CurrentMonth:
		return LastMonth
	case LastMonth:
		return ThisYear
	default:
		return CurrentMonth
	}
}

// FilterOptions drives the expenses and summary reads. It is pure client
// state; its canonical serialization is the cache key argument.
type FilterOptions struct {
	TimeFilter  TimeFilter
	StartDate   time.Time // custom range only; zero means unset
	EndDate     time.Time
	Categories  []string // category filter values; treated as a set
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	SearchQuery string
}

// DefaultFilter is the out-of-the-box view.
func DefaultFilter() FilterOptions {
	return FilterOptions{TimeFilter: CurrentMonth}
}

// QueryValues encodes the filter as API query parameters. Unset fields are
// omitted; categories repeat as multiple values.
func (f FilterOptions) QueryValues() url.Values {
	v := url.Values{}
	tf := f.TimeFilter
	if tf == "" {
		tf = CurrentMonth
	}
	v.Set("timeFilter", string(tf))
	if tf == Custom {
		if !f.StartDate.IsZero() {
			v.Set("startDate", f.StartDate.Format(DateLayout))
		}
		if !f.EndDate.IsZero() {
			v.Set("endDate", f.EndDate.Format(DateLayout))
		}
	}
	for _, c := range f.Categories {
		v.Add("categories", c)
	}
	if f.MinAmount != nil {
		v.Set("minAmount", f.MinAmount.String())
	}
	if f.MaxAmount != nil {
		v.Set("maxAmount", f.MaxAmount.String())
	}
	if q := strings.TrimSpace(f.SearchQuery); q != "" {
		v.Set("searchQuery", q)
	}
	return v
}

// CacheArgs returns the canonical serialization used in cache keys.
// Categories are sorted so that set-equal filters produce equal keys, and
// every field has a fixed position so equal parameters can never collide
// with a different filter the way ad hoc string concatenation can.
func (f FilterOptions) CacheArgs() string {
	cats := append([]string(nil), f.Categories...)
	sort.Strings(cats)

	var b strings.Builder
	tf := f.TimeFilter
	if tf == "" {
		tf = CurrentMonth
	}
	b.WriteString("tf=")
	b.WriteString(string(tf))
	b.WriteString(";start=")
	if !f.StartDate.IsZero() {
		b.WriteString(f.StartDate.Format(DateLayout))
	}
	b.WriteString(";end=")
	if !f.EndDate.IsZero() {
		b.WriteString(f.EndDate.Format(DateLayout))
	}
	b.WriteString(";cats=")
	b.WriteString(strings.Join(cats, ","))
	b.WriteString(";min=")
	if f.MinAmount != nil {
		b.WriteString(f.MinAmount.String())
	}
	b.WriteString(";max=")
	if f.MaxAmount != nil {
		b.WriteString(f.MaxAmount.String())
	}
	b.WriteString(";q=")
	b.WriteString(strings.TrimSpace(f.SearchQuery))
	return b.String()
}

// SummaryArgs is CacheArgs restricted to the fields the summary endpoint
// accepts (time window only).
func (f FilterOptions) SummaryArgs() string {
	return FilterOptions{
		TimeFilter: f.TimeFilter,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
	}.CacheArgs()
}
