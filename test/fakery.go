package test

import (
	"math/rand/v2"
	"time"

	"github.com/amirrezaask/claimcache/claims"
	"github.com/brianvoe/gofakeit/v7"
)

func Fakery() *gofakeit.Faker {
	return gofakeit.New(0)
}

func RandomElement[T any](list ...T) T {
	return list[rand.IntN(len(list))]
}

func amountField(f *gofakeit.Faker, key string) *claims.ClaimField {
	submitted := claims.FloatAmount(f.Price(10, 5000))
	return claims.NewClaimField(key, submitted, submitted)
}

// FakeClaim builds a fully populated claim. Every call returns a fresh claim id.
func FakeClaim(f *gofakeit.Faker) claims.Claim {
	start := f.DateRange(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	escaped := f.Bool()
	vat := f.Bool()
	return claims.Claim{
		AreaOfLaw:             RandomElement(claims.AreaOfLawCivil, claims.AreaOfLawCrime),
		SubmissionID:          f.UUID(),
		ClaimID:               f.UUID(),
		UniqueFileNumber:      start.Format("020106") + "/" + f.Numerify("###"),
		CaseReferenceNumber:   f.Lexify("???") + f.Numerify("#####"),
		ClientSurname:         f.LastName(),
		ClientForename:        f.FirstName(),
		SubmittedDate:         start.AddDate(0, 2, 0).Format("2006-01-02"),
		SubmissionPeriod:      start.AddDate(0, 1, 0).Format("2006-01"),
		CaseStartDate:         start.Format("2006-01-02"),
		CaseEndDate:           start.AddDate(0, 1, 0).Format("2006-01-02"),
		FeeScheme:             f.Lexify("????"),
		CategoryOfLaw:         RandomElement("FAMILY", "HOUSING", "IMMIGRATION", "DEBT"),
		ScheduleReference:     f.Numerify("SCH/####"),
		ProviderName:          f.Company(),
		ProviderAccountNumber: f.Numerify("#") + f.Lexify("???") + f.Numerify("##"),
		Escaped:               &escaped,
		VatApplicable:         &vat,
		VatClaimed:            claims.NewClaimField("vat", claims.Flag(vat), claims.Flag(vat)),
		FixedFee:              amountField(f, "fixedFee"),
		NetProfitCost:         amountField(f, "netProfitCost"),
		NetDisbursementAmount: amountField(f, "netDisbursementAmount"),
		TotalAmount:           amountField(f, "totalAmount"),
		DisbursementVatAmount: amountField(f, "disbursementVatAmount"),
		AssessmentOutcome: RandomElement(claims.OutcomePaidInFull, claims.OutcomeReduced,
			claims.OutcomeReducedToFixedFee, claims.OutcomeNilled),
	}
}

func FakeSearchResult(f *gofakeit.Faker, q claims.SearchQuery, n int) claims.SearchResult {
	result := claims.SearchResult{Query: q, TotalResults: n, TotalPages: (n + 9) / 10}
	for i := 0; i < n && i < 10; i++ {
		c := FakeClaim(f)
		c.ProviderAccountNumber = q.ProviderAccountNumber
		result.Claims = append(result.Claims, c)
	}
	return result
}
