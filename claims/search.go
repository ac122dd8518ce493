package claims

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/amirrezaask/claimcache/errors"
	"github.com/cespare/xxhash/v2"
)

type SortField string

const (
	SortUniqueFileNumber    SortField = "uniqueFileNumber"
	SortCaseReferenceNumber SortField = "caseReferenceNumber"
	SortClientSurname       SortField = "client.clientSurname"
	SortSubmissionPeriod    SortField = "submission.submissionPeriod"
	SortScheduleReference   SortField = "scheduleReference"
	SortCategoryOfLaw       SortField = "calculatedFeeDetail.categoryOfLaw"
)

var sortFields = map[SortField]struct{}{
	SortUniqueFileNumber:    {},
	SortCaseReferenceNumber: {},
	SortClientSurname:       {},
	SortSubmissionPeriod:    {},
	SortScheduleReference:   {},
	SortCategoryOfLaw:       {},
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
	NoSort     SortDirection = "none"
)

func ParseSortDirection(s string) SortDirection {
	switch s {
	case "asc":
		return Ascending
	case "desc":
		return Descending
	default:
		return NoSort
	}
}

func (d SortDirection) Toggle() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

type Sort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

func DefaultSort() Sort {
	return Sort{Field: SortUniqueFileNumber, Direction: Ascending}
}

// ParseSort reads "field,direction". An empty string yields DefaultSort.
func ParseSort(s string) (Sort, error) {
	if s == "" {
		return DefaultSort(), nil
	}
	field, direction, found := strings.Cut(s, ",")
	if !found || field == "" || direction == "" || strings.Contains(direction, ",") {
		return Sort{}, errors.InvalidArgument("could not parse sort string: %s", s)
	}
	if _, ok := sortFields[SortField(field)]; !ok {
		return Sort{}, errors.InvalidArgument("unknown sort field: %s", field)
	}
	return Sort{Field: SortField(field), Direction: ParseSortDirection(direction)}, nil
}

func (s Sort) String() string {
	return fmt.Sprintf("%s,%s", s.Field, s.Direction)
}

type SearchQuery struct {
	Page                  int    `json:"page"`
	Sort                  Sort   `json:"sort"`
	ProviderAccountNumber string `json:"providerAccountNumber,omitempty"`
	SubmissionDateMonth   string `json:"submissionDateMonth,omitempty"`
	SubmissionDateYear    string `json:"submissionDateYear,omitempty"`
	UniqueFileNumber      string `json:"uniqueFileNumber,omitempty"`
	CaseReferenceNumber   string `json:"caseReferenceNumber,omitempty"`
}

func (q SearchQuery) normalised() SearchQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Sort.Field == "" {
		q.Sort = DefaultSort()
	}
	q.ProviderAccountNumber = strings.ToUpper(strings.TrimSpace(q.ProviderAccountNumber))
	q.SubmissionDateMonth = strings.TrimSpace(q.SubmissionDateMonth)
	q.SubmissionDateYear = strings.TrimSpace(q.SubmissionDateYear)
	q.UniqueFileNumber = strings.TrimSpace(q.UniqueFileNumber)
	q.CaseReferenceNumber = strings.TrimSpace(q.CaseReferenceNumber)
	return q
}

func (q SearchQuery) values() url.Values {
	v := url.Values{}
	add := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	add("providerAccountNumber", q.ProviderAccountNumber)
	add("submissionDateMonth", q.SubmissionDateMonth)
	add("submissionDateYear", q.SubmissionDateYear)
	add("uniqueFileNumber", q.UniqueFileNumber)
	add("caseReferenceNumber", q.CaseReferenceNumber)
	add("page", strconv.Itoa(q.Page))
	add("sort", q.Sort.String())
	return v
}

// RedirectURL is the search page url that reproduces q.
func (q SearchQuery) RedirectURL() string {
	return "/?" + q.normalised().values().Encode()
}

// WithSort returns q sorted by s, back on the first page.
func (q SearchQuery) WithSort(s Sort) SearchQuery {
	q.Sort = s
	q.Page = 1
	return q
}

// SearchKey fingerprints q. Queries equal after normalisation share a key.
func SearchKey(q SearchQuery) string {
	return fmt.Sprintf("search:%016x", xxhash.Sum64String(q.normalised().values().Encode()))
}

type SearchResult struct {
	Query        SearchQuery `json:"query"`
	Claims       []Claim     `json:"claims"`
	TotalResults int         `json:"totalResults"`
	TotalPages   int         `json:"totalPages"`
}
