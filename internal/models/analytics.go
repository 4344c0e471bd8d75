package models

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// DateFilter is a resolved date range. Dates are ISO calendar dates.
type DateFilter struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Period    Period `json:"period"`
}

// RevenuePoint keeps Date as the raw upstream string so a malformed value
// reaches the series builder instead of failing the whole decode.
type RevenuePoint struct {
	Date                string  `json:"date"`
	Revenue             float64 `json:"revenue"`
	TransactionsCount   int     `json:"transactions_count"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
}

type RevenueResponse struct {
	Data             []RevenuePoint `json:"data"`
	TotalRevenue     float64        `json:"total_revenue"`
	PeriodStart      string         `json:"period_start"`
	PeriodEnd        string         `json:"period_end"`
	SubscriptionTier Tier           `json:"subscription_tier"`
}

type ProductRecord struct {
	ProductID        int     `json:"product_id"`
	ProductName      string  `json:"product_name"`
	ProductType      string  `json:"product_type"`
	Category         string  `json:"category,omitempty"`
	TotalQuantity    float64 `json:"total_quantity"`
	TotalRevenue     float64 `json:"total_revenue"`
	TransactionCount int     `json:"transaction_count"`
	AvgPrice         float64 `json:"avg_price"`
	LastSaleDate     string  `json:"last_sale_date"`
}

type ProductsResponse struct {
	Data             []ProductRecord `json:"data"`
	TotalProducts    int             `json:"total_products"`
	SubscriptionTier Tier            `json:"subscription_tier"`
}

type CategoryAggregate struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage int     `json:"percentage"`
}

type DashboardStats struct {
	TotalRevenue        float64  `json:"total_revenue"`
	TotalTransactions   int      `json:"total_transactions"`
	TotalProducts       int      `json:"total_products"`
	AvgTransactionValue float64  `json:"avg_transaction_value"`
	RevenueGrowth       *float64 `json:"revenue_growth,omitempty"`
	TransactionGrowth   *float64 `json:"transaction_growth,omitempty"`
	SubscriptionTier    Tier     `json:"subscription_tier,omitempty"`
}

type ForecastPoint struct {
	Date             string  `json:"date"`
	PredictedRevenue float64 `json:"predicted_revenue"`
	ConfidenceLower  float64 `json:"confidence_lower"`
	ConfidenceUpper  float64 `json:"confidence_upper"`
	Trend            float64 `json:"trend"`
}

type ForecastResponse struct {
	Forecasts        []ForecastPoint `json:"forecasts"`
	ModelAccuracy    float64         `json:"model_accuracy"`
	ForecastPeriod   string          `json:"forecast_period"`
	GeneratedAt      string          `json:"generated_at"`
	SubscriptionTier Tier            `json:"subscription_tier"`
}

type SeasonalInsight struct {
	Season          string   `json:"season"`
	Period          string   `json:"period"`
	RevenueImpact   float64  `json:"revenue_impact"`
	TopProducts     []string `json:"top_products"`
	Recommendations []string `json:"recommendations"`
}

type SeasonalResponse struct {
	Insights         []SeasonalInsight `json:"insights"`
	UpcomingSeasons  []string          `json:"upcoming_seasons"`
	SubscriptionTier Tier              `json:"subscription_tier"`
}

type Recommendation struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImpactScore float64  `json:"impact_score"`
	ActionItems []string `json:"action_items"`
	Priority    string   `json:"priority"`
}

type RecommendationsResponse struct {
	Recommendations  []Recommendation `json:"recommendations"`
	AIConfidence     float64          `json:"ai_confidence"`
	GeneratedAt      string           `json:"generated_at"`
	SubscriptionTier Tier             `json:"subscription_tier"`
}

// Chart tuples.

type RevenueChartPoint struct {
	Label        string  `json:"label"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
	AvgValue     float64 `json:"avg_value"`
}

type ForecastChartPoint struct {
	Label      string   `json:"label"`
	Actual     *float64 `json:"actual"`
	Predicted  float64  `json:"predicted"`
	Lower      float64  `json:"lower"`
	Upper      float64  `json:"upper"`
	Confidence int      `json:"confidence"`
}

type DemandPattern struct {
	Product string `json:"product"`
	Demand  int    `json:"demand"`
	Trend   string `json:"trend"`
	Change  int    `json:"change"`
}

// Summary is the headline metric block shown above the revenue charts.
type Summary struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalTransactions   int     `json:"total_transactions"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	RevenueGrowth       float64 `json:"revenue_growth"`
	TransactionGrowth   float64 `json:"transaction_growth"`
}
