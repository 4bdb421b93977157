package accounting

import (
	"sort"
	"time"

	"github.com/SscSPs/property_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

type apartmentAcc struct {
	figures domain.SettlementFigures
	mora    decimal.Decimal
}

type ownerAcc struct {
	figures    domain.SettlementFigures
	mora       decimal.Decimal
	apartments map[string]*apartmentAcc
}

func newOwnerAcc() *ownerAcc {
	return &ownerAcc{figures: domain.ZeroFigures(), mora: decimal.Zero, apartments: map[string]*apartmentAcc{}}
}

func (o *ownerAcc) apartment(id string) *apartmentAcc {
	a, ok := o.apartments[id]
	if !ok {
		a = &apartmentAcc{figures: domain.ZeroFigures(), mora: decimal.Zero}
		o.apartments[id] = a
	}
	return a
}

// ObligationFigures returns the contribution of one obligation to a settlement.
// Only paid obligations contribute.
func ObligationFigures(ob *domain.Obligation) domain.SettlementFigures {
	f := domain.ZeroFigures()
	if ob.Status != domain.StatusPaid {
		return f
	}
	switch {
	case ob.OwnerImpact.IsPositive():
		f.Collected = ob.OwnerImpact
	case ob.OwnerImpact.IsNegative():
		f.Adjustments = ob.OwnerImpact.Abs()
	}
	if ob.Type == domain.ObligationRent {
		f.Commissions = ob.AgencyImpact
	}
	f.Finalize()
	return f
}

// MoraOf returns the outstanding balance an overdue obligation adds to mora.
func MoraOf(ob *domain.Obligation) decimal.Decimal {
	if ob.Status != domain.StatusOverdue {
		return decimal.Zero
	}
	return ob.Outstanding()
}

// MonthsBetween lists the first-of-month dates from 'from' to 'to', inclusive.
func MonthsBetween(from, to time.Time) []time.Time {
	from, to = domain.FirstOfMonth(from), domain.FirstOfMonth(to)
	var months []time.Time
	for m := from; !m.After(to); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

func apartmentKey(ob *domain.Obligation) string {
	if ob.ApartmentID == nil {
		return ""
	}
	return *ob.ApartmentID
}

// AggregateSettlement builds the settlement statement from a snapshot. It never mutates the
// snapshot and its output only depends on its inputs.
func AggregateSettlement(snap domain.SettlementSnapshot, q domain.SettlementQuery, calc *Calculator) *domain.SettlementSummary {
	owners := map[string]*ownerAcc{}
	ownerFor := func(id string) *ownerAcc {
		o, ok := owners[id]
		if !ok {
			o = newOwnerAcc()
			owners[id] = o
		}
		return o
	}

	months := MonthsBetween(q.PeriodFrom, q.PeriodTo)
	buckets := make(map[string]*domain.SettlementFigures, len(months))
	for _, m := range months {
		f := domain.ZeroFigures()
		buckets[m.Format(domain.SettlementPeriodLayout)] = &f
	}

	totals := domain.ZeroFigures()
	var discrepancies []string

	for i := range snap.InPeriod {
		ob := &snap.InPeriod[i]
		if !q.Matches(ob) || !q.InPeriod(ob) {
			continue
		}
		// Only paid obligations and mora open a row; pending ones contribute nothing.
		if ob.Status != domain.StatusPaid {
			continue
		}
		owner := ownerFor(ob.OwnerID)
		apt := owner.apartment(apartmentKey(ob))

		f := ObligationFigures(ob)
		totals.Add(f)
		owner.figures.Add(f)
		apt.figures.Add(f)
		if b, ok := buckets[domain.FirstOfMonth(ob.Period).Format(domain.SettlementPeriodLayout)]; ok {
			b.Add(f)
		}

		if calc != nil {
			if ok, err := calc.Verify(ob); err != nil || !ok {
				discrepancies = append(discrepancies, ob.ObligationID)
			}
		}
	}

	mora := decimal.Zero
	for i := range snap.Overdue {
		ob := &snap.Overdue[i]
		if ob.Status != domain.StatusOverdue || !q.Matches(ob) {
			continue
		}
		m := MoraOf(ob)
		mora = mora.Add(m)
		owner := ownerFor(ob.OwnerID)
		owner.mora = owner.mora.Add(m)
		apt := owner.apartment(apartmentKey(ob))
		apt.mora = apt.mora.Add(m)
	}

	summary := &domain.SettlementSummary{
		PeriodFrom:    q.PeriodFrom.Format(domain.SettlementPeriodLayout),
		PeriodTo:      q.PeriodTo.Format(domain.SettlementPeriodLayout),
		OwnerID:       q.OwnerID,
		ApartmentID:   q.ApartmentID,
		Totals:        totals,
		Mora:          mora,
		Monthly:       make([]domain.SettlementBucket, 0, len(months)),
		Owners:        make([]domain.OwnerSettlement, 0, len(owners)),
		Discrepancies: []string{},
	}

	for _, m := range months {
		key := m.Format(domain.SettlementPeriodLayout)
		summary.Monthly = append(summary.Monthly, domain.SettlementBucket{Period: key, SettlementFigures: *buckets[key]})
	}

	ownerIDs := make([]string, 0, len(owners))
	for id := range owners {
		ownerIDs = append(ownerIDs, id)
	}
	sort.Strings(ownerIDs)
	for _, id := range ownerIDs {
		acc := owners[id]
		aptIDs := make([]string, 0, len(acc.apartments))
		for aptID := range acc.apartments {
			aptIDs = append(aptIDs, aptID)
		}
		sort.Strings(aptIDs)

		settlement := domain.OwnerSettlement{
			OwnerID:           id,
			SettlementFigures: acc.figures,
			Mora:              acc.mora,
			Apartments:        make([]domain.ApartmentSettlement, 0, len(aptIDs)),
		}
		for _, aptID := range aptIDs {
			a := acc.apartments[aptID]
			settlement.Apartments = append(settlement.Apartments, domain.ApartmentSettlement{
				ApartmentID:       aptID,
				SettlementFigures: a.figures,
				Mora:              a.mora,
			})
		}
		summary.Owners = append(summary.Owners, settlement)
	}

	sort.Strings(discrepancies)
	summary.Discrepancies = append(summary.Discrepancies, discrepancies...)
	return summary
}
