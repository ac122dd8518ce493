// Package claims holds the claim records the amend-claim pages work on and the caches keeping them
// between requests.
package claims

import (
	"fmt"
)

type AreaOfLaw string

const (
	AreaOfLawCivil AreaOfLaw = "CIVIL"
	AreaOfLawCrime AreaOfLaw = "CRIME"
)

type AmendStatus string

const (
	AmendStatusNotAmendable AmendStatus = "NOT_AMENDABLE"
	AmendStatusAmendable    AmendStatus = "AMENDABLE"
	AmendStatusAmended      AmendStatus = "AMENDED"
)

// ClaimField is one monetary or flag row of a claim as submitted, calculated and amended by a caseworker.
type ClaimField struct {
	Key        string      `json:"key"`
	Submitted  Value       `json:"submitted"`
	Calculated Value       `json:"calculated"`
	Amended    Value       `json:"amended"`
	Assessed   Value       `json:"assessed"`
	ChangeURL  string      `json:"changeUrl,omitempty"`
	Status     AmendStatus `json:"status,omitempty"`
}

func NewClaimField(key string, submitted, calculated Value) *ClaimField {
	return &ClaimField{
		Key:        key,
		Submitted:  submitted,
		Calculated: calculated,
		Amended:    submitted,
		Status:     AmendStatusNotAmendable,
	}
}

func (f *ClaimField) Label() string {
	return fmt.Sprintf("claimSummary.rows.%s", f.Key)
}

// ChangeURLFor expands the field's change url template, empty when the field is not editable.
func (f *ClaimField) ChangeURLFor(submissionID, claimID string) string {
	if f.ChangeURL == "" {
		return ""
	}
	return fmt.Sprintf(f.ChangeURL, submissionID, claimID)
}

type Claim struct {
	AreaOfLaw           AreaOfLaw `json:"areaOfLaw"`
	SubmissionID        string    `json:"submissionId"`
	ClaimID             string    `json:"claimId"`
	UniqueFileNumber    string    `json:"uniqueFileNumber,omitempty"`
	CaseReferenceNumber string    `json:"caseReferenceNumber,omitempty"`
	ClientSurname       string    `json:"clientSurname,omitempty"`
	ClientForename      string    `json:"clientForename,omitempty"`
	SubmittedDate       string    `json:"submittedDate,omitempty"`
	// SubmissionPeriod is formatted as 2006-01, the case dates as 2006-01-02.
	SubmissionPeriod string `json:"submissionPeriod,omitempty"`
	CaseStartDate    string `json:"caseStartDate,omitempty"`
	CaseEndDate      string `json:"caseEndDate,omitempty"`

	FeeScheme             string `json:"feeScheme,omitempty"`
	CategoryOfLaw         string `json:"categoryOfLaw,omitempty"`
	ScheduleReference     string `json:"scheduleReference,omitempty"`
	ProviderName          string `json:"providerName,omitempty"`
	ProviderAccountNumber string `json:"providerAccountNumber,omitempty"`
	Escaped               *bool  `json:"escaped,omitempty"`
	VatApplicable         *bool  `json:"vatApplicable,omitempty"`

	VatClaimed            *ClaimField `json:"vatClaimed,omitempty"`
	FixedFee              *ClaimField `json:"fixedFee,omitempty"`
	NetProfitCost         *ClaimField `json:"netProfitCost,omitempty"`
	NetDisbursementAmount *ClaimField `json:"netDisbursementAmount,omitempty"`
	TotalAmount           *ClaimField `json:"totalAmount,omitempty"`
	DisbursementVatAmount *ClaimField `json:"disbursementVatAmount,omitempty"`

	AssessmentOutcome OutcomeType `json:"assessmentOutcome,omitempty"`
}

func (c *Claim) ClientName() string {
	switch {
	case c.ClientForename != "" && c.ClientSurname != "":
		return c.ClientForename + " " + c.ClientSurname
	case c.ClientForename != "":
		return c.ClientForename
	default:
		return c.ClientSurname
	}
}

// SetNilledValues zeroes the amended costs, used when a claim is assessed as nilled.
func (c *Claim) SetNilledValues() {
	for _, f := range []*ClaimField{c.NetProfitCost, c.NetDisbursementAmount, c.DisbursementVatAmount} {
		if f != nil {
			f.Amended = IntAmount(0)
		}
	}
}

type OutcomeType string

const (
	OutcomePaidInFull        OutcomeType = "paid-in-full"
	OutcomeReduced           OutcomeType = "reduced-still-escaped"
	OutcomeReducedToFixedFee OutcomeType = "reduced-to-fixed-fee-assessed"
	OutcomeNilled            OutcomeType = "nilled"
)

var outcomeMessageKeys = map[OutcomeType]string{
	OutcomePaidInFull:        "outcome.paidInFull",
	OutcomeReduced:           "outcome.reduced",
	OutcomeReducedToFixedFee: "outcome.reducedToFixedFee",
	OutcomeNilled:            "outcome.nilled",
}

func ParseOutcome(formValue string) (OutcomeType, bool) {
	o := OutcomeType(formValue)
	_, ok := outcomeMessageKeys[o]
	return o, ok
}

func (o OutcomeType) MessageKey() string { return outcomeMessageKeys[o] }

func (o OutcomeType) CanAmendCosts() bool {
	_, known := outcomeMessageKeys[o]
	return known && o != OutcomeNilled
}
