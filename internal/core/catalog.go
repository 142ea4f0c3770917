package core

// Category is a static tag classifying transactions for breakdowns. Categories
// are seeded at process start and never created, edited or deleted at runtime.
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

// Catalog is an immutable id -> category mapping.
type Catalog struct {
	categories []Category
	byID       map[string]Category
}

// Display attributes substituted for category ids that have no catalog entry.
const (
	fallbackColor = "#999"
	fallbackIcon  = "📦"
)

// NewCatalog builds a catalog from a fixed category list. Later duplicates of
// an id are ignored.
func NewCatalog(categories []Category) *Catalog {
	byID := make(map[string]Category, len(categories))
	kept := make([]Category, 0, len(categories))
	for _, c := range categories {
		if _, exists := byID[c.ID]; exists {
			continue
		}
		byID[c.ID] = c
		kept = append(kept, c)
	}
	return &Catalog{categories: kept, byID: byID}
}

// DefaultCatalog returns the built-in category set.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultCategories)
}

// All returns the categories in seed order.
func (c *Catalog) All() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// ByID looks up a category by id.
func (c *Catalog) ByID(id string) (Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// ByType returns the categories offered for one transaction type. A category
// has exactly one type, so the two partitions never overlap.
func (c *Catalog) ByType(t TransactionType) []Category {
	var out []Category
	for _, cat := range c.categories {
		if cat.Type == t {
			out = append(out, cat)
		}
	}
	return out
}

// Resolve returns the category for id, or a placeholder carrying the raw id as
// its name when the id is unknown. Aggregation never fails on a dangling
// category reference.
func (c *Catalog) Resolve(id string) Category {
	if cat, ok := c.byID[id]; ok {
		return cat
	}
	return Category{
		ID:    id,
		Name:  id,
		Icon:  fallbackIcon,
		Color: fallbackColor,
	}
}

var defaultCategories = []Category{
	{ID: "food", Name: "Продукты", Icon: "🛒", Type: Expense, Color: "#ef4444"},
	{ID: "restaurant", Name: "Рестораны", Icon: "🍽️", Type: Expense, Color: "#f97316"},
	{ID: "transport", Name: "Транспорт", Icon: "🚗", Type: Expense, Color: "#eab308"},
	{ID: "housing", Name: "Жильё", Icon: "🏠", Type: Expense, Color: "#84cc16"},
	{ID: "utilities", Name: "Комм. услуги", Icon: "💡", Type: Expense, Color: "#22c55e"},
	{ID: "health", Name: "Здоровье", Icon: "💊", Type: Expense, Color: "#14b8a6"},
	{ID: "entertainment", Name: "Развлечения", Icon: "🎮", Type: Expense, Color: "#06b6d4"},
	{ID: "clothing", Name: "Одежда", Icon: "👕", Type: Expense, Color: "#3b82f6"},
	{ID: "education", Name: "Образование", Icon: "📚", Type: Expense, Color: "#6366f1"},
	{ID: "subscriptions", Name: "Подписки", Icon: "📱", Type: Expense, Color: "#8b5cf6"},
	{ID: "gifts", Name: "Подарки", Icon: "🎁", Type: Expense, Color: "#a855f7"},
	{ID: "other_expense", Name: "Прочие расходы", Icon: "📦", Type: Expense, Color: "#d946ef"},
	{ID: "salary", Name: "Зарплата", Icon: "💰", Type: Income, Color: "#10b981"},
	{ID: "freelance", Name: "Фриланс", Icon: "💻", Type: Income, Color: "#06b6d4"},
	{ID: "investments", Name: "Инвестиции", Icon: "📈", Type: Income, Color: "#3b82f6"},
	{ID: "business", Name: "Бизнес", Icon: "🏢", Type: Income, Color: "#8b5cf6"},
	{ID: "cashback", Name: "Кэшбэк", Icon: "💳", Type: Income, Color: "#f59e0b"},
	{ID: "other_income", Name: "Прочие доходы", Icon: "✨", Type: Income, Color: "#6366f1"},
}
