package models

import (
	"encoding/json"
	"fmt"
)

type (
	IncomeType         string
	ExpenseType        string
	BankAccountType    string
	InvestmentType     string
	RiskLevel          string
	RealEstateType     string
	LoanType           string
	GoalType           string
	Priority           string
	RiskTolerance      string
	InvestmentHorizon  string
	FinancialKnowledge string
	TaxSlab            string
)

var (
	incomeTypes         = []IncomeType{"salary", "business", "rental", "dividends", "other"}
	expenseTypes        = []ExpenseType{"housing", "food", "transport", "entertainment", "utilities", "debt", "other"}
	bankAccountTypes    = []BankAccountType{"savings", "current", "fixed deposit"}
	investmentTypes     = []InvestmentType{"FD", "MF", "ETF", "Gold", "Crypto", "Bonds", "PPF", "NPS"}
	riskLevels          = []RiskLevel{"low", "medium", "high"}
	realEstateTypes     = []RealEstateType{"residential", "commercial", "land"}
	loanTypes           = []LoanType{"home", "personal", "auto", "education", "business"}
	goalTypes           = []GoalType{"retirement", "house", "education", "marriage", "travel", "emergency", "other"}
	priorities          = []Priority{"high", "medium", "low"}
	riskTolerances      = []RiskTolerance{"conservative", "moderate", "aggressive"}
	investmentHorizons  = []InvestmentHorizon{"short-term (<3y)", "medium-term (3-7y)", "long-term (>7y)"}
	financialKnowledges = []FinancialKnowledge{"beginner", "intermediate", "advanced"}
	taxSlabs            = []TaxSlab{"5%", "20%", "30%"}
)

// EnumError reports a categorical value outside its closed set.
type EnumError struct {
	Kind  string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Value)
}

// decodeEnum accepts the empty string as "unset" and rejects anything else
// that is not in allowed.
func decodeEnum[T ~string](data []byte, kind string, allowed []T, dst *T) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &EnumError{Kind: kind, Value: string(data)}
	}
	if raw == "" {
		*dst = ""
		return nil
	}
	for _, value := range allowed {
		if string(value) == raw {
			*dst = value
			return nil
		}
	}
	return &EnumError{Kind: kind, Value: raw}
}

func (t *IncomeType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "income source type", incomeTypes, t)
}

func (t *ExpenseType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "expense category type", expenseTypes, t)
}

func (t *BankAccountType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "bank account type", bankAccountTypes, t)
}

func (t *InvestmentType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "investment type", investmentTypes, t)
}

func (t *RiskLevel) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "risk level", riskLevels, t)
}

func (t *RealEstateType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "real estate type", realEstateTypes, t)
}

func (t *LoanType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "loan type", loanTypes, t)
}

func (t *GoalType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "goal type", goalTypes, t)
}

func (t *Priority) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "priority", priorities, t)
}

func (t *RiskTolerance) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "risk tolerance", riskTolerances, t)
}

func (t *InvestmentHorizon) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "investment horizon", investmentHorizons, t)
}

func (t *FinancialKnowledge) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "financial knowledge", financialKnowledges, t)
}

func (t *TaxSlab) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "tax slab", taxSlabs, t)
}
