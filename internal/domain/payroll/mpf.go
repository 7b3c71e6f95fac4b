package payroll

import "github.com/shopspring/decimal"

// MPFRule is the employee side of the mandatory provident fund contribution.
type MPFRule struct {
	Rate              decimal.Decimal
	MinRelevantIncome decimal.Decimal
	MaxRelevantIncome decimal.Decimal
}

// DefaultMPFRule: 5% of relevant income, nothing below 7,100 and capped at
// 30,000 per month.
func DefaultMPFRule() MPFRule {
	return MPFRule{
		Rate:              decimal.NewFromFloat(0.05),
		MinRelevantIncome: decimal.NewFromInt(7100),
		MaxRelevantIncome: decimal.NewFromInt(30000),
	}
}

// Contribution returns the deduction for a monthly relevant income.
func (r MPFRule) Contribution(income decimal.Decimal) decimal.Decimal {
	if income.LessThan(r.MinRelevantIncome) {
		return decimal.Zero
	}
	if income.GreaterThan(r.MaxRelevantIncome) {
		income = r.MaxRelevantIncome
	}
	return income.Mul(r.Rate).Round(2)
}

// GrossPayment sums every salary component. Commission counts only when set.
func GrossPayment(c SalaryComponents) decimal.Decimal {
	gross := c.BaseSalary.
		Add(c.BonusPayment).
		Add(c.YearEndBonus).
		Add(c.TransportationAllowance)
	if c.Commission.Valid {
		gross = gross.Add(c.Commission.Decimal)
	}
	return gross
}

// Derive computes gross, MPF and net for c.
func (r MPFRule) Derive(c SalaryComponents) Derived {
	gross := GrossPayment(c)
	mpf := r.Contribution(gross)
	return Derived{
		GrossPayment:       gross,
		MpfDeductionAmount: mpf,
		NetPayment:         gross.Sub(mpf),
	}
}
