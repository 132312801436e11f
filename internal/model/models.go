package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Email         string          `db:"email" json:"email"`
	PasswordHash  *string         `db:"password_hash" json:"-"`
	Name          string          `db:"name" json:"name"`
	Currency      string          `db:"currency" json:"currency"`
	MonthlyIncome decimal.Decimal `db:"monthly_income" json:"monthlyIncome"`
	MonthlyBudget decimal.Decimal `db:"monthly_budget" json:"monthlyBudget"`
	SavingGoal    decimal.Decimal `db:"saving_goal" json:"savingGoal"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type RecurringCategory string

const (
	CategorySalary       RecurringCategory = "salary"
	CategoryRent         RecurringCategory = "rent"
	CategoryUtilities    RecurringCategory = "utilities"
	CategorySubscription RecurringCategory = "subscription"
	CategoryInsurance    RecurringCategory = "insurance"
	CategoryOther        RecurringCategory = "other"
)

type RecurringFrequency string

const (
	FrequencyDaily     RecurringFrequency = "daily"
	FrequencyWeekly    RecurringFrequency = "weekly"
	FrequencyBiweekly  RecurringFrequency = "biweekly"
	FrequencyMonthly   RecurringFrequency = "monthly"
	FrequencyQuarterly RecurringFrequency = "quarterly"
	FrequencyYearly    RecurringFrequency = "yearly"
)

type RecurringTransaction struct {
	ID           uuid.UUID          `db:"id" json:"id"`
	UserID       uuid.UUID          `db:"user_id" json:"userId"`
	Title        string             `db:"title" json:"title"`
	Amount       decimal.Decimal    `db:"amount" json:"amount"`
	Category     RecurringCategory  `db:"category" json:"category"`
	Frequency    RecurringFrequency `db:"frequency" json:"frequency"`
	Type         TransactionType    `db:"type" json:"type"`
	StartDate    time.Time          `db:"start_date" json:"startDate"`
	EndDate      *time.Time         `db:"end_date" json:"endDate,omitempty"`
	IsActive     bool               `db:"is_active" json:"isActive"`
	NextDueDate  time.Time          `db:"next_due_date" json:"nextDueDate"`
	NotifyBefore *int               `db:"notify_before" json:"notifyBefore,omitempty"` // days
	CreatedAt    time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updatedAt"`
}

type DebtType string

const (
	DebtTypeLoan       DebtType = "loan"
	DebtTypeCreditCard DebtType = "creditcard"
	DebtTypeEMI        DebtType = "emi"
)

type Debt struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	UserID         uuid.UUID        `db:"user_id" json:"userId"`
	Name           string           `db:"name" json:"name"`
	Principal      decimal.Decimal  `db:"principal" json:"principal"`
	CurrentBalance decimal.Decimal  `db:"current_balance" json:"currentBalance"`
	InterestRate   decimal.Decimal  `db:"interest_rate" json:"interestRate"` // annual %
	EMIAmount      *decimal.Decimal `db:"emi_amount" json:"emiAmount,omitempty"`
	TotalEMIs      *int             `db:"total_emis" json:"totalEmis,omitempty"`
	CompletedEMIs  int              `db:"completed_emis" json:"completedEmis"`
	DueDate        time.Time        `db:"due_date" json:"dueDate"`
	Type           DebtType         `db:"type" json:"type"`
	Creditor       *string          `db:"creditor" json:"creditor,omitempty"`
	Notes          *string          `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updatedAt"`
}

// DebtSummary aggregates the debt collection for dashboard widgets.
// AverageInterestRate is an unweighted mean, not balance-weighted.
type DebtSummary struct {
	TotalDebt           decimal.Decimal `json:"totalDebt"`
	AverageInterestRate decimal.Decimal `json:"averageInterestRate"`
	Count               int             `json:"count"`
}

type GoalCategory string

const (
	GoalCategoryEmergency GoalCategory = "emergency"
	GoalCategoryTravel    GoalCategory = "travel"
	GoalCategoryGadgets   GoalCategory = "gadgets"
	GoalCategoryEducation GoalCategory = "education"
	GoalCategoryHome      GoalCategory = "home"
	GoalCategoryOther     GoalCategory = "other"
)

type AutoSaveType string

const (
	AutoSaveFixed      AutoSaveType = "fixed"
	AutoSavePercentage AutoSaveType = "percentage"
)

type SavingsGoal struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	UserID        uuid.UUID        `db:"user_id" json:"userId"`
	Name          string           `db:"name" json:"name"`
	TargetAmount  decimal.Decimal  `db:"target_amount" json:"targetAmount"`
	CurrentAmount decimal.Decimal  `db:"current_amount" json:"currentAmount"`
	Deadline      time.Time        `db:"deadline" json:"deadline"`
	Category      GoalCategory     `db:"category" json:"category"`
	Color         string           `db:"color" json:"color"`
	AutoSaveType  *AutoSaveType    `db:"auto_save_type" json:"autoSaveType,omitempty"`
	AutoSaveValue *decimal.Decimal `db:"auto_save_value" json:"autoSaveValue,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updatedAt"`
}

// SavingsMilestone marks a checkpoint amount on a goal. Achieving one stamps
// AchievedAt; achieving it again keeps the original timestamp.
type SavingsMilestone struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	GoalID      uuid.UUID       `db:"goal_id" json:"goalId"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	AchievedAt  *time.Time      `db:"achieved_at" json:"achievedAt,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

type ContributionSource string

const (
	SourceManual   ContributionSource = "manual"
	SourceAutoSave ContributionSource = "auto-save"
	SourceRoundUp  ContributionSource = "round-up"
	SourceTransfer ContributionSource = "transfer"
)

// SavingsContribution rows are append-only; inserting one is the only
// mutation path for the owning goal's CurrentAmount.
type SavingsContribution struct {
	ID        uuid.UUID          `db:"id" json:"id"`
	GoalID    uuid.UUID          `db:"goal_id" json:"goalId"`
	Amount    decimal.Decimal    `db:"amount" json:"amount"`
	Date      time.Time          `db:"date" json:"date"`
	Source    ContributionSource `db:"source" json:"source"`
	CreatedAt time.Time          `db:"created_at" json:"createdAt"`
}

// SavingsStreak tracks consecutive contribution days per goal.
type SavingsStreak struct {
	GoalID               uuid.UUID  `db:"goal_id" json:"goalId"`
	CurrentStreak        int        `db:"current_streak" json:"currentStreak"`
	LongestStreak        int        `db:"longest_streak" json:"longestStreak"`
	LastContributionDate *time.Time `db:"last_contribution_date" json:"lastContributionDate,omitempty"`
}

type SavingsSummary struct {
	TotalSaved    decimal.Decimal `json:"totalSaved"`
	TotalTargeted decimal.Decimal `json:"totalTargeted"`
	GoalCount     int             `json:"goalCount"`
}

type InvestmentType string

const (
	InvestmentMutualFund   InvestmentType = "mutual_fund"
	InvestmentFixedDeposit InvestmentType = "fixed_deposit"
	InvestmentSIP          InvestmentType = "sip"
	InvestmentStock        InvestmentType = "stock"
	InvestmentGold         InvestmentType = "gold"
	InvestmentBond         InvestmentType = "bond"
	InvestmentOther        InvestmentType = "other"
)

// InvestmentTypes lists every supported type in rebalance-table order.
var InvestmentTypes = []InvestmentType{
	InvestmentMutualFund,
	InvestmentFixedDeposit,
	InvestmentSIP,
	InvestmentStock,
	InvestmentGold,
	InvestmentBond,
	InvestmentOther,
}

type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskModerate     RiskProfile = "moderate"
	RiskAggressive   RiskProfile = "aggressive"
)

type Investment struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	UserID       uuid.UUID        `db:"user_id" json:"userId"`
	Name         string           `db:"name" json:"name"`
	Type         InvestmentType   `db:"type" json:"type"`
	Amount       decimal.Decimal  `db:"amount" json:"amount"` // invested
	CurrentValue decimal.Decimal  `db:"current_value" json:"currentValue"`
	Provider     string           `db:"provider" json:"provider"`
	RiskLevel    RiskProfile      `db:"risk_level" json:"riskLevel"`
	PurchaseDate time.Time        `db:"purchase_date" json:"purchaseDate"`
	MaturityDate *time.Time       `db:"maturity_date" json:"maturityDate,omitempty"`
	InterestRate *decimal.Decimal `db:"interest_rate" json:"interestRate,omitempty"`
	LinkedGoalID *uuid.UUID       `db:"linked_goal_id" json:"linkedGoalId,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updatedAt"`
}

// PortfolioSummary aggregates the investment collection. Allocation maps are
// empty (never NaN) when TotalCurrentValue is zero.
type PortfolioSummary struct {
	TotalInvested      decimal.Decimal            `json:"totalInvested"`
	TotalCurrentValue  decimal.Decimal            `json:"totalCurrentValue"`
	TotalGainLoss      decimal.Decimal            `json:"totalGainLoss"`
	GainLossPercentage decimal.Decimal            `json:"gainLossPercentage"`
	AverageRiskLevel   RiskProfile                `json:"averageRiskLevel"`
	AllocationByType   map[InvestmentType]float64 `json:"allocationByType"`
	AllocationByRisk   map[RiskProfile]float64    `json:"allocationByRisk"`
}

type RebalanceSuggestion struct {
	Type                  InvestmentType `json:"type"`
	CurrentAllocation     float64        `json:"currentAllocation"`
	RecommendedAllocation float64        `json:"recommendedAllocation"`
}

type PaymentStatus string

// PaymentProcessing and PaymentFailed are part of the gateway callback
// vocabulary; no local transition assigns them.
const (
	PaymentInitiated  PaymentStatus = "initiated"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccess    PaymentStatus = "success"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

type Payment struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"userId"`
	OrderID       string          `db:"order_id" json:"orderId"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	RecipientUPI  string          `db:"recipient_upi" json:"recipientUPI"`
	RecipientName string          `db:"recipient_name" json:"recipientName"`
	Description   string          `db:"description" json:"description"`
	Status        PaymentStatus   `db:"status" json:"status"`
	PaymentID     *string         `db:"payment_id" json:"paymentId,omitempty"` // gateway-assigned
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// FinancialHealth is recomputed on demand and never persisted incrementally.
type FinancialHealth struct {
	OverallScore        float64       `json:"overallScore"` // 0-100
	SavingsRate         float64       `json:"savingsRate"`
	DebtToIncomeRatio   float64       `json:"debtToIncomeRatio"`
	EmergencyFundMonths float64       `json:"emergencyFundMonths"`
	BudgetAdherence     float64       `json:"budgetAdherence"`
	Trends              []HealthTrend `json:"trends"`
}

type TrendStatus string

const (
	TrendImproving TrendStatus = "improving"
	TrendStable    TrendStatus = "stable"
	TrendDeclining TrendStatus = "declining"
)

type HealthTrend struct {
	Label  string      `json:"label"`
	Value  float64     `json:"value"`
	Status TrendStatus `json:"status"`
}

// InterestRate is a scraped reference FD rate from a bank site.
type InterestRate struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	BankName   string          `db:"bank_name" json:"bankName"`
	TermMonths int             `db:"term_months" json:"termMonths"`
	Rate       decimal.Decimal `db:"rate" json:"rate"` // annual %
	ScrapedAt  time.Time       `db:"scraped_at" json:"scrapedAt"`
}
