package courses

// Topic is one teaching point inside a module.
type Topic struct {
	Title string `json:"title"`
}

// Module is one completable learning unit.
type Module struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Topics      []Topic `json:"topics"`
	Outcome     string  `json:"outcome"`
	Duration    string  `json:"duration"`
	Level       string  `json:"level"`
}

// Track groups modules into a learning path.
type Track struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Modules     []Module `json:"modules"`
}

// Catalog is the static course offering.
var Catalog = []Track{
	{
		ID:          1,
		Title:       "Personal Finance & Foundations",
		Description: "Build a solid financial foundation before you start investing",
		Modules: []Module{
			{
				ID:          1,
				Title:       "Money Basics",
				Description: "Understanding the fundamentals of personal finance",
				Duration:    "45 min",
				Level:       "Beginner",
				Topics: []Topic{
					{Title: "What Is Personal Finance?"},
					{Title: "Net Worth & Cash Flow"},
					{Title: "Budgeting Methods (50/30/20, Zero-Based, Envelope)"},
					{Title: "Emergency Funds & Safety Nets"},
					{Title: "Interest, Debt, and Credit Scores"},
				},
				Outcome: "User understands financial health before investing.",
			},
			{
				ID:          2,
				Title:       "Intro to Investing",
				Description: "Learn why investing matters and what to expect",
				Duration:    "40 min",
				Level:       "Beginner",
				Topics: []Topic{
					{Title: "Why Invest? (Time Value of Money)"},
					{Title: "Risk vs. Reward"},
					{Title: "Compound Interest"},
					{Title: "Types of Investors (Passive, Active, Hybrid)"},
					{Title: "Misconceptions & Myths"},
				},
				Outcome: "User knows why investing matters and what to expect.",
			},
			{
				ID:          3,
				Title:       "Setting Goals",
				Description: "Create your investment plan and build your first portfolio",
				Duration:    "50 min",
				Level:       "Beginner",
				Topics: []Topic{
					{Title: "Short-, Medium-, and Long-Term Goals"},
					{Title: "Understanding Risk Tolerance"},
					{Title: "Creating an Investment Plan"},
					{Title: "\"How Much Should I Invest?\""},
					{Title: "Building Your First Simple Portfolio"},
				},
				Outcome: "User has a clear investment plan and knows how to start.",
			},
		},
	},
	{
		ID:          2,
		Title:       "Beginner Investing",
		Description: "Master the basics of the stock market and investment vehicles",
		Modules: []Module{
			{
				ID:          4,
				Title:       "The Stock Market",
				Description: "Learn how stocks work and how to buy your first stock",
				Duration:    "55 min",
				Level:       "Beginner",
				Topics: []Topic{
					{Title: "What Is a Stock?"},
					{Title: "Stock Exchanges & Market Mechanics"},
					{Title: "How to Buy Your First Stock"},
					{Title: "Brokers, Apps, and Fees"},
					{Title: "Order Types (Market, Limit, Stop)"},
				},
				Outcome: "User can confidently buy their first stock.",
			},
			{
				ID:          5,
				Title:       "Investment Vehicles",
				Description: "Explore different types of investments available",
				Duration:    "60 min",
				Level:       "Beginner",
				Topics: []Topic{
					{Title: "Stocks"},
					{Title: "Bonds"},
					{Title: "Mutual Funds"},
					{Title: "Index Funds"},
					{Title: "ETFs"},
					{Title: "Real Estate (REITs & Buying Property)"},
					{Title: "Commodities"},
					{Title: "Crypto (High-Level)"},
					{Title: "Cash & Money Markets"},
				},
				Outcome: "User understands different investment options.",
			},
			{
				ID:          6,
				Title:       "Risk & Diversification",
				Description: "Protect your portfolio by spreading risk",
				Duration:    "45 min",
				Level:       "Intermediate",
				Topics: []Topic{
					{Title: "Types of Investment Risk"},
					{Title: "Asset Allocation"},
					{Title: "Diversification Across Sectors & Regions"},
					{Title: "Rebalancing Basics"},
				},
				Outcome: "User can build a diversified starter portfolio.",
			},
		},
	},
}

// FindModule returns the module with the given id, if it exists.
func FindModule(id int) (Module, bool) {
	for _, track := range Catalog {
		for _, module := range track.Modules {
			if module.ID == id {
				return module, true
			}
		}
	}
	return Module{}, false
}

// TotalModules counts all modules across tracks.
func TotalModules() int {
	total := 0
	for _, track := range Catalog {
		total += len(track.Modules)
	}
	return total
}
