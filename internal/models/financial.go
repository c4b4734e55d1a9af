package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialRecord is the per-user document submitted from the financial data
// form. Only ID, UserID and CreatedAt are managed by the server.
type FinancialRecord struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Income        Income        `json:"income"`
	Expenses      Expenses      `json:"expenses"`
	Assets        Assets        `json:"assets"`
	Liabilities   Liabilities   `json:"liabilities"`
	CreditScore   CreditScore   `json:"creditScore"`
	Goals         []Goal        `json:"goals"`
	RiskProfile   RiskProfile   `json:"riskProfile"`
	Tax           Tax           `json:"tax"`
	EmergencyFund EmergencyFund `json:"emergencyFund"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type Income struct {
	Monthly decimal.Decimal `json:"monthly"`
	Yearly  decimal.Decimal `json:"yearly"`
	Sources []IncomeSource  `json:"sources"`
}

type IncomeSource struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Type   IncomeType      `json:"type"`
}

type Expenses struct {
	Monthly    decimal.Decimal   `json:"monthly"`
	Categories []ExpenseCategory `json:"categories"`
}

type ExpenseCategory struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Type   ExpenseType     `json:"type"`
}

type Assets struct {
	BankAccounts []BankAccount `json:"bankAccounts"`
	Investments  []Investment  `json:"investments"`
	RealEstate   []RealEstate  `json:"realEstate"`
}

type BankAccount struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	Type    BankAccountType `json:"type"`
}

type Investment struct {
	Name       string          `json:"name"`
	Type       InvestmentType  `json:"type"`
	Value      decimal.Decimal `json:"value"`
	ReturnRate decimal.Decimal `json:"returnRate"`
	Duration   string          `json:"duration"`
	Risk       RiskLevel       `json:"risk"`
}

type RealEstate struct {
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
	Type         RealEstateType  `json:"type"`
	Location     string          `json:"location"`
	RentalIncome decimal.Decimal `json:"rentalIncome"`
}

type Liabilities struct {
	Loans       []Loan       `json:"loans"`
	CreditCards []CreditCard `json:"creditCards"`
}

type Loan struct {
	Type         LoanType        `json:"type"`
	Balance      decimal.Decimal `json:"balance"`
	InterestRate decimal.Decimal `json:"interestRate"`
	Tenure       int             `json:"tenure"`
	EMI          decimal.Decimal `json:"emi"`
	StartDate    *time.Time      `json:"startDate,omitempty"`
}

type CreditCard struct {
	Issuer       string          `json:"issuer"`
	Limit        decimal.Decimal `json:"limit"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	DueDate      int             `json:"dueDate"`
	InterestRate decimal.Decimal `json:"interestRate"`
}

type CreditScore struct {
	Value       int        `json:"value"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

type Goal struct {
	Name         string          `json:"name"`
	Type         GoalType        `json:"type"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	TargetYear   int             `json:"targetYear"`
	Priority     Priority        `json:"priority"`
	Notes        string          `json:"notes"`
}

type RiskProfile struct {
	Tolerance          RiskTolerance      `json:"tolerance"`
	InvestmentHorizon  InvestmentHorizon  `json:"investmentHorizon"`
	FinancialKnowledge FinancialKnowledge `json:"financialKnowledge"`
}

type Tax struct {
	Slab                 TaxSlab         `json:"slab"`
	Deductions           []TaxDeduction  `json:"deductions"`
	TaxSavingInvestments decimal.Decimal `json:"taxSavingInvestments"`
}

type TaxDeduction struct {
	Section string          `json:"section"`
	Amount  decimal.Decimal `json:"amount"`
}

type EmergencyFund struct {
	MonthsCovered decimal.Decimal `json:"monthsCovered"`
	Amount        decimal.Decimal `json:"amount"`
	Location      string          `json:"location"`
}
