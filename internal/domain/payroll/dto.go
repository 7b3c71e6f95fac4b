package payroll

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/validator"
)

// ========== PORTAL DTOs ==========

type SetFieldRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

func (r *SetFieldRequest) Validate() (Field, error) {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Field) {
		errs.Add("field", "field is required")
		return "", errs
	}
	field, err := ParseField(r.Field)
	if err != nil {
		errs.Add("field", "unknown salary field")
		return "", errs
	}
	return field, nil
}

// Amount coerces Value, which may be a JSON number or string, into an amount.
func (r *SetFieldRequest) Amount() decimal.Decimal {
	raw := strings.TrimSpace(string(r.Value))
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return CoerceAmount(s)
	}
	return CoerceAmount(raw)
}

type ComponentsResponse struct {
	BaseSalary              decimal.Decimal  `json:"base_salary"`
	BonusPayment            decimal.Decimal  `json:"bonus_payment"`
	YearEndBonus            decimal.Decimal  `json:"year_end_bonus"`
	TransportationAllowance decimal.Decimal  `json:"transportation_allowance"`
	Commission              *decimal.Decimal `json:"commission,omitempty"`
	MpfDeduction            decimal.Decimal  `json:"mpf_deduction"`
}

// NewComponentsResponse hides the commission unless showCommission is set.
func NewComponentsResponse(c SalaryComponents, showCommission bool) ComponentsResponse {
	resp := ComponentsResponse{
		BaseSalary:              c.BaseSalary,
		BonusPayment:            c.BonusPayment,
		YearEndBonus:            c.YearEndBonus,
		TransportationAllowance: c.TransportationAllowance,
		MpfDeduction:            c.MpfDeduction,
	}
	if showCommission {
		commission := c.Commission.Decimal
		resp.Commission = &commission
	}
	return resp
}

type DerivedResponse struct {
	GrossPayment       decimal.Decimal `json:"gross_payment"`
	MpfDeductionAmount decimal.Decimal `json:"mpf_deduction_amount"`
	NetPayment         decimal.Decimal `json:"net_payment"`
}

// SessionResponse is the portal view of a payroll edit session. Derived
// always reflects Baseline, never Draft.
type SessionResponse struct {
	Year              int                `json:"year"`
	Month             int                `json:"month"`
	Mode              Mode               `json:"mode"`
	Draft             ComponentsResponse `json:"draft"`
	Baseline          ComponentsResponse `json:"baseline"`
	Derived           DerivedResponse    `json:"derived"`
	CommissionVisible bool               `json:"commission_visible"`
	SaveStatus        SaveStatus         `json:"save_status"`
	Error             string             `json:"error,omitempty"`
}

// ========== BACKEND DTOs ==========

// UpdateSalaryRequest is the PATCH body of the profile update endpoint.
type UpdateSalaryRequest struct {
	BaseSalary              decimal.Decimal  `json:"base_salary"`
	BonusPayment            decimal.Decimal  `json:"bonus_payment"`
	YearEndBonus            decimal.Decimal  `json:"year_end_bonus"`
	TransportationAllowance decimal.Decimal  `json:"transportation_allowance"`
	Commission              *decimal.Decimal `json:"commission,omitempty"`
}

func NewUpdateSalaryRequest(u SalaryUpdate) UpdateSalaryRequest {
	return UpdateSalaryRequest{
		BaseSalary:              u.BaseSalary,
		BonusPayment:            u.BonusPayment,
		YearEndBonus:            u.YearEndBonus,
		TransportationAllowance: u.TransportationAllowance,
		Commission:              u.Commission,
	}
}

// SalaryStatementResponse is the body of the employee salary endpoint.
type SalaryStatementResponse struct {
	EmployeeID              string           `json:"employee_id"`
	Year                    int              `json:"year"`
	Month                   int              `json:"month"`
	BaseSalary              decimal.Decimal  `json:"base_salary"`
	BonusPayment            decimal.Decimal  `json:"bonus_payment"`
	YearEndBonus            decimal.Decimal  `json:"year_end_bonus"`
	TransportationAllowance decimal.Decimal  `json:"transportation_allowance"`
	Commission              *decimal.Decimal `json:"commission"`
	MpfDeduction            decimal.Decimal  `json:"mpf_deduction"`
	GrossPayment            decimal.Decimal  `json:"gross_payment"`
	MpfDeductionAmount      decimal.Decimal  `json:"mpf_deduction_amount"`
	NetPayment              decimal.Decimal  `json:"net_payment"`
}

func (r SalaryStatementResponse) ToStatement(period Period) Statement {
	components := SalaryComponents{
		BaseSalary:              r.BaseSalary,
		BonusPayment:            r.BonusPayment,
		YearEndBonus:            r.YearEndBonus,
		TransportationAllowance: r.TransportationAllowance,
		MpfDeduction:            r.MpfDeduction,
	}
	if r.Commission != nil {
		components.Commission = decimal.NewNullDecimal(*r.Commission)
	}
	return Statement{
		EmployeeID: r.EmployeeID,
		Period:     period,
		Components: components,
		Derived: Derived{
			GrossPayment:       r.GrossPayment,
			MpfDeductionAmount: r.MpfDeductionAmount,
			NetPayment:         r.NetPayment,
		},
	}
}
