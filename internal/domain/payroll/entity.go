package payroll

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/validator"
)

// Period - Payroll month
type Period struct {
	Year  int
	Month int
}

func (p Period) Validate() error {
	if !validator.IsValidPeriod(p.Year, p.Month) {
		return ErrInvalidPeriod
	}
	return nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// SalaryComponents - Editable salary figures of one employee for one period.
// Commission is only valid for the sales role.
type SalaryComponents struct {
	BaseSalary              decimal.Decimal
	BonusPayment            decimal.Decimal
	YearEndBonus            decimal.Decimal
	TransportationAllowance decimal.Decimal
	Commission              decimal.NullDecimal
	MpfDeduction            decimal.Decimal
}

// Equal compares field by field on value, so 100 and 100.00 are equal.
func (c SalaryComponents) Equal(o SalaryComponents) bool {
	if c.Commission.Valid != o.Commission.Valid {
		return false
	}
	if c.Commission.Valid && !c.Commission.Decimal.Equal(o.Commission.Decimal) {
		return false
	}
	return c.BaseSalary.Equal(o.BaseSalary) &&
		c.BonusPayment.Equal(o.BonusPayment) &&
		c.YearEndBonus.Equal(o.YearEndBonus) &&
		c.TransportationAllowance.Equal(o.TransportationAllowance) &&
		c.MpfDeduction.Equal(o.MpfDeduction)
}

// Get returns the value of field. An absent commission reads as zero.
func (c SalaryComponents) Get(field Field) decimal.Decimal {
	switch field {
	case FieldBaseSalary:
		return c.BaseSalary
	case FieldBonusPayment:
		return c.BonusPayment
	case FieldYearEndBonus:
		return c.YearEndBonus
	case FieldTransportationAllowance:
		return c.TransportationAllowance
	case FieldCommission:
		return c.Commission.Decimal
	case FieldMpfDeduction:
		return c.MpfDeduction
	}
	return decimal.Zero
}

// With returns a copy of c with field set to amount.
func (c SalaryComponents) With(field Field, amount decimal.Decimal) SalaryComponents {
	switch field {
	case FieldBaseSalary:
		c.BaseSalary = amount
	case FieldBonusPayment:
		c.BonusPayment = amount
	case FieldYearEndBonus:
		c.YearEndBonus = amount
	case FieldTransportationAllowance:
		c.TransportationAllowance = amount
	case FieldCommission:
		c.Commission = decimal.NewNullDecimal(amount)
	case FieldMpfDeduction:
		c.MpfDeduction = amount
	}
	return c
}

// Derived - Totals computed by the data source, never by the edit session
type Derived struct {
	GrossPayment       decimal.Decimal
	MpfDeductionAmount decimal.Decimal
	NetPayment         decimal.Decimal
}

// Statement - Server-confirmed salary record with its totals
type Statement struct {
	EmployeeID string
	Period     Period
	Components SalaryComponents
	Derived    Derived
}

// Field enum
type Field string

const (
	FieldBaseSalary              Field = "base_salary"
	FieldBonusPayment            Field = "bonus_payment"
	FieldYearEndBonus            Field = "year_end_bonus"
	FieldTransportationAllowance Field = "transportation_allowance"
	FieldCommission              Field = "commission"
	FieldMpfDeduction            Field = "mpf_deduction"
)

var fieldAliases = map[string]Field{
	"basesalary":              FieldBaseSalary,
	"bonuspayment":            FieldBonusPayment,
	"yearendbonus":            FieldYearEndBonus,
	"transportationallowance": FieldTransportationAllowance,
	"commission":              FieldCommission,
	"mpfdeduction":            FieldMpfDeduction,
}

// ParseField accepts both snake_case and camelCase names.
func ParseField(s string) (Field, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	if f, ok := fieldAliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
}

// Mode enum
type Mode string

const (
	ModeViewing Mode = "viewing"
	ModeEditing Mode = "editing"
)

// SaveStatus enum
type SaveStatus string

const (
	SaveIdle      SaveStatus = "idle"
	SavePending   SaveStatus = "pending"
	SaveSucceeded SaveStatus = "succeeded"
	SaveFailed    SaveStatus = "failed"
)

// SaveState carries a message only when Status is SaveFailed.
type SaveState struct {
	Status  SaveStatus
	Message string
}

func (s SaveState) IsPending() bool {
	return s.Status == SavePending
}

// SalaryUpdate - Partial update sent to the write boundary. Commission is
// nil when it must not be sent at all.
type SalaryUpdate struct {
	EmployeeID              string
	Period                  Period
	BaseSalary              decimal.Decimal
	BonusPayment            decimal.Decimal
	YearEndBonus            decimal.Decimal
	TransportationAllowance decimal.Decimal
	Commission              *decimal.Decimal
}

// BuildUpdate takes the editable amounts from draft. MpfDeduction is never
// part of an update.
func BuildUpdate(employeeID string, period Period, draft SalaryComponents, includeCommission bool) SalaryUpdate {
	update := SalaryUpdate{
		EmployeeID:              employeeID,
		Period:                  period,
		BaseSalary:              draft.BaseSalary,
		BonusPayment:            draft.BonusPayment,
		YearEndBonus:            draft.YearEndBonus,
		TransportationAllowance: draft.TransportationAllowance,
	}
	if includeCommission {
		commission := draft.Commission.Decimal
		update.Commission = &commission
	}
	return update
}

// Apply returns c with the update's amounts. An omitted commission keeps
// the current one.
func (u SalaryUpdate) Apply(c SalaryComponents) SalaryComponents {
	c.BaseSalary = u.BaseSalary
	c.BonusPayment = u.BonusPayment
	c.YearEndBonus = u.YearEndBonus
	c.TransportationAllowance = u.TransportationAllowance
	if u.Commission != nil {
		c.Commission = decimal.NewNullDecimal(*u.Commission)
	}
	return c
}
