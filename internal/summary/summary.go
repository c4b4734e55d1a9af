// Package summary renders a financial record into the plain-text report that
// is handed to the assistant as context. Rendering is pure: the same record
// always yields the same bytes.
package summary

import (
	"fmt"
	"strings"
	"time"

	"finsight/internal/models"
	"finsight/internal/money"

	"github.com/shopspring/decimal"
)

// NoData stands in for a summary when the user has no financial record.
const NoData = "No financial data provided by user"

type Totals struct {
	BankBalance      decimal.Decimal `json:"bankBalance"`
	Investments      decimal.Decimal `json:"investments"`
	RealEstate       decimal.Decimal `json:"realEstate"`
	Loans            decimal.Decimal `json:"loans"`
	CreditCards      decimal.Decimal `json:"creditCards"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	NetWorth         decimal.Decimal `json:"netWorth"`
	MonthlyIncome    decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpenses  decimal.Decimal `json:"monthlyExpenses"`
	MonthlySurplus   decimal.Decimal `json:"monthlySurplus"`
	CreditScore      int             `json:"creditScore"`
}

func Compute(record models.FinancialRecord) Totals {
	t := Totals{
		BankBalance: money.Sum(record.Assets.BankAccounts, func(a models.BankAccount) decimal.Decimal { return a.Balance }),
		Investments: money.Sum(record.Assets.Investments, func(i models.Investment) decimal.Decimal { return i.Value }),
		RealEstate:  money.Sum(record.Assets.RealEstate, func(p models.RealEstate) decimal.Decimal { return p.Balance }),
		Loans:       money.Sum(record.Liabilities.Loans, func(l models.Loan) decimal.Decimal { return l.Balance }),
		CreditCards: money.Sum(record.Liabilities.CreditCards, func(c models.CreditCard) decimal.Decimal { return c.Outstanding }),

		MonthlyIncome:   record.Income.Monthly,
		MonthlyExpenses: record.Expenses.Monthly,
		CreditScore:     record.CreditScore.Value,
	}
	t.TotalAssets = t.BankBalance.Add(t.Investments).Add(t.RealEstate)
	t.TotalLiabilities = t.Loans.Add(t.CreditCards)
	t.NetWorth = t.TotalAssets.Sub(t.TotalLiabilities)
	t.MonthlySurplus = t.MonthlyIncome.Sub(t.MonthlyExpenses)
	return t
}

func NetWorth(record models.FinancialRecord) decimal.Decimal {
	return Compute(record).NetWorth
}

func Build(record models.FinancialRecord) string {
	var b strings.Builder
	w := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	w("### Financial Overview ###")
	w("")
	w("## Income:")
	w("- Monthly Income: %s (%s yearly)", money.Format(record.Income.Monthly), money.Format(record.Income.Yearly))
	w("- Income Sources:")
	for _, s := range record.Income.Sources {
		w("  - %s: %s (%s)", s.Name, money.Format(s.Amount), s.Type)
	}
	w("")
	w("## Expenses:")
	w("- Monthly Expenses: %s", money.Format(record.Expenses.Monthly))
	w("- Expense Categories:")
	for _, c := range record.Expenses.Categories {
		w("  - %s: %s (%s)", c.Name, money.Format(c.Amount), c.Type)
	}
	w("")
	w("## Assets:")
	w("### Bank Accounts:")
	for _, a := range record.Assets.BankAccounts {
		w("- %s: %s (%s)", a.Name, money.Format(a.Balance), a.Type)
	}
	w("")
	w("### Investments:")
	for _, i := range record.Assets.Investments {
		w("- %s: %s (Type: %s, Return: %s%%, Risk: %s)", i.Name, money.Format(i.Value), i.Type, i.ReturnRate.String(), i.Risk)
	}
	w("")
	w("### Real Estate:")
	for _, p := range record.Assets.RealEstate {
		w("- %s: %s (Type: %s, Location: %s, Rental Income: %s/month)", p.Name, money.Format(p.Balance), p.Type, p.Location, money.Format(p.RentalIncome))
	}
	w("")
	w("## Liabilities:")
	w("### Loans:")
	for _, l := range record.Liabilities.Loans {
		w("- %s Loan: %s (Rate: %s%%, EMI: %s, Tenure: %d months)", l.Type, money.Format(l.Balance), l.InterestRate.String(), money.Format(l.EMI), l.Tenure)
	}
	w("")
	w("### Credit Cards:")
	for _, c := range record.Liabilities.CreditCards {
		w("- %s: %s (Limit: %s, Interest: %s%%, Due Date: %dth)", c.Issuer, money.Format(c.Outstanding), money.Format(c.Limit), c.InterestRate.String(), c.DueDate)
	}
	w("")
	w("## Financial Health Indicators:")
	w("- Credit Score: %d (Last Updated: %s)", record.CreditScore.Value, formatDate(record.CreditScore.LastUpdated))
	w("- Emergency Fund: %s (Covers %s months)", money.Format(record.EmergencyFund.Amount), record.EmergencyFund.MonthsCovered.String())
	w("- Net Worth: %s", money.Format(NetWorth(record)))
	w("")
	w("## Financial Goals:")
	for _, g := range record.Goals {
		w("- %s: %s by %d (Priority: %s)", g.Name, money.Format(g.TargetAmount), g.TargetYear, g.Priority)
	}
	w("")
	w("## Risk Profile:")
	w("- Risk Tolerance: %s", record.RiskProfile.Tolerance)
	w("- Investment Horizon: %s", record.RiskProfile.InvestmentHorizon)
	w("- Financial Knowledge: %s", record.RiskProfile.FinancialKnowledge)
	return b.String()
}

func formatDate(value *time.Time) string {
	if value == nil || value.IsZero() {
		return "N/A"
	}
	return value.UTC().Format("1/2/2006")
}
