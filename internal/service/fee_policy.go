package service

import (
	"github.com/noah-isme/fee-tracker-console/internal/models"
	"github.com/noah-isme/fee-tracker-console/pkg/config"
)

// NewCatalog builds the fixed enumerations from configuration.
func NewCatalog(cfg config.CatalogConfig) models.Catalog {
	activities := make([]models.CatalogActivity, 0, len(cfg.Activities))
	for _, a := range cfg.Activities {
		activities = append(activities, models.CatalogActivity{ID: a.ID, Name: a.Name, Fee: models.Amount(a.Fee)})
	}
	terms := append([]string(nil), cfg.Terms...)
	return models.Catalog{
		Grades:     models.GradeLabels(cfg.GradeCount),
		Activities: activities,
		Terms:      terms,
		FeeTarget:  models.Amount(cfg.FeeTarget),
		Currency:   cfg.Currency,
	}
}

// FeePolicy is the single place derived payment fields are computed.
type FeePolicy struct {
	catalog models.Catalog
}

// NewFeePolicy constructs a FeePolicy over the catalog.
func NewFeePolicy(catalog models.Catalog) FeePolicy {
	return FeePolicy{catalog: catalog}
}

// Catalog returns the catalog the policy resolves against.
func (p FeePolicy) Catalog() models.Catalog {
	return p.catalog
}

// Status classifies a paid amount: paid only at the exact fee target.
func (p FeePolicy) Status(amount models.Amount) models.FeeStatus {
	switch {
	case amount == p.catalog.FeeTarget:
		return models.FeeStatusPaid
	case amount > 0:
		return models.FeeStatusPartial
	default:
		return models.FeeStatusPending
	}
}

// StudentRow derives the presentation fields of a student.
func (p FeePolicy) StudentRow(s models.Student) models.StudentRow {
	return models.StudentRow{
		Student:   s.Clone(),
		FullName:  s.FullName(),
		FeeStatus: p.Status(s.AmountPaid),
	}
}

// ActivityFee resolves the fee of an activity line: its own fee, then the
// catalog by id, then the catalog by name.
func (p FeePolicy) ActivityFee(a models.Activity) models.Amount {
	if a.ActivityFee != nil {
		return *a.ActivityFee
	}
	if entry, ok := p.catalog.ActivityByID(a.ActivityID); ok {
		return entry.Fee
	}
	if entry, ok := p.catalog.ActivityByName(a.ActivityName); ok {
		return entry.Fee
	}
	return 0
}

// ActivityDeficit is fee minus paid, negative when overpaid.
func (p FeePolicy) ActivityDeficit(a models.Activity) models.Amount {
	return p.ActivityFee(a) - a.Paid()
}

// ActivityRow derives the presentation fields of an activity line.
func (p FeePolicy) ActivityRow(a models.Activity) models.ActivityRow {
	fee := p.ActivityFee(a)
	paid := a.Paid()
	return models.ActivityRow{
		Activity: a.Clone(),
		FullName: a.FullName(),
		Fee:      fee,
		Paid:     paid,
		Deficit:  fee - paid,
	}
}
