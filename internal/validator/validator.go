package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"finsight/internal/models"

	"github.com/shopspring/decimal"
)

const MinPasswordLength = 6

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
	ErrInvalidRecord   = errors.New("invalid financial data")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > 100 {
		return ErrInvalidName
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateFinancialRecord checks the numeric and naming rules that JSON
// decoding cannot express. Enumerations are already closed by the model types.
func ValidateFinancialRecord(record models.FinancialRecord) error {
	var c checker
	c.nonNegative("income.monthly", record.Income.Monthly)
	c.nonNegative("income.yearly", record.Income.Yearly)
	for i, s := range record.Income.Sources {
		c.nonNegative(fmt.Sprintf("income.sources[%d].amount", i), s.Amount)
	}
	c.nonNegative("expenses.monthly", record.Expenses.Monthly)
	for i, e := range record.Expenses.Categories {
		c.nonNegative(fmt.Sprintf("expenses.categories[%d].amount", i), e.Amount)
	}
	for i, a := range record.Assets.BankAccounts {
		c.named(fmt.Sprintf("assets.bankAccounts[%d].name", i), a.Name)
		c.nonNegative(fmt.Sprintf("assets.bankAccounts[%d].balance", i), a.Balance)
	}
	for i, inv := range record.Assets.Investments {
		c.nonNegative(fmt.Sprintf("assets.investments[%d].value", i), inv.Value)
	}
	for i, p := range record.Assets.RealEstate {
		c.named(fmt.Sprintf("assets.realEstate[%d].name", i), p.Name)
		c.nonNegative(fmt.Sprintf("assets.realEstate[%d].balance", i), p.Balance)
		c.nonNegative(fmt.Sprintf("assets.realEstate[%d].rentalIncome", i), p.RentalIncome)
	}
	for i, l := range record.Liabilities.Loans {
		c.nonNegative(fmt.Sprintf("liabilities.loans[%d].balance", i), l.Balance)
		c.nonNegative(fmt.Sprintf("liabilities.loans[%d].interestRate", i), l.InterestRate)
		c.nonNegative(fmt.Sprintf("liabilities.loans[%d].emi", i), l.EMI)
		c.check(l.Tenure >= 0, fmt.Sprintf("liabilities.loans[%d].tenure", i))
	}
	for i, card := range record.Liabilities.CreditCards {
		c.nonNegative(fmt.Sprintf("liabilities.creditCards[%d].limit", i), card.Limit)
		c.nonNegative(fmt.Sprintf("liabilities.creditCards[%d].outstanding", i), card.Outstanding)
		c.check(card.DueDate >= 0 && card.DueDate <= 31, fmt.Sprintf("liabilities.creditCards[%d].dueDate", i))
	}
	c.check(record.CreditScore.Value >= 0 && record.CreditScore.Value <= 900, "creditScore.value")
	for i, g := range record.Goals {
		c.nonNegative(fmt.Sprintf("goals[%d].targetAmount", i), g.TargetAmount)
	}
	c.nonNegative("tax.taxSavingInvestments", record.Tax.TaxSavingInvestments)
	for i, d := range record.Tax.Deductions {
		c.nonNegative(fmt.Sprintf("tax.deductions[%d].amount", i), d.Amount)
	}
	c.nonNegative("emergencyFund.amount", record.EmergencyFund.Amount)
	c.nonNegative("emergencyFund.monthsCovered", record.EmergencyFund.MonthsCovered)
	return c.err
}

type checker struct {
	err error
}

func (c *checker) check(ok bool, field string) {
	if c.err == nil && !ok {
		c.err = fmt.Errorf("%w: %s", ErrInvalidRecord, field)
	}
}

func (c *checker) nonNegative(field string, value decimal.Decimal) {
	c.check(!value.IsNegative(), field+" must not be negative")
}

func (c *checker) named(field, value string) {
	c.check(strings.TrimSpace(value) != "", field+" is required")
}
