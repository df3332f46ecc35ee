package core

// DefaultCategories is the seed set a fresh install starts with. Stores
// return it when no categories have ever been saved.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Salary", Color: "#10b981", Context: Personal, Type: Income},
		{ID: "2", Name: "Freelance", Color: "#3b82f6", Context: Personal, Type: Income},
		{ID: "3", Name: "Food & Dining", Color: "#ef4444", Context: Personal, Type: Expense},
		{ID: "4", Name: "Transportation", Color: "#f59e0b", Context: Personal, Type: Expense},
		{ID: "5", Name: "Housing", Color: "#8b5cf6", Context: Personal, Type: Expense},
		{ID: "6", Name: "Entertainment", Color: "#ec4899", Context: Personal, Type: Expense},
		{ID: "7", Name: "Business Revenue", Color: "#10b981", Context: Business, Type: Income},
		{ID: "8", Name: "Business Expenses", Color: "#ef4444", Context: Business, Type: Expense},
		{ID: "9", Name: "Marketing", Color: "#f59e0b", Context: Business, Type: Expense},
		{ID: "10", Name: "Operations", Color: "#3b82f6", Context: Business, Type: Expense},
	}
}

// DefaultSettings is returned when no settings record exists yet.
func DefaultSettings() Settings {
	return Settings{
		Currency:      "USD",
		DateFormat:    "MM/DD/YYYY",
		Theme:         "light",
		Notifications: true,
	}
}
