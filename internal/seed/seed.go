// Package seed generates a month of realistic demo transactions.
package seed

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

type template struct {
	categoryID   string
	descriptions []string
	min, max     int64
}

var expenseTemplates = []template{
	{"food", []string{"Пятёрочка", "Магнит", "Перекрёсток", "Лента", "ВкусВилл"}, 300, 3500},
	{"restaurant", []string{"Обед в кафе", "Пицца", "Суши", "Кофе"}, 200, 2500},
	{"transport", []string{"Метро", "Яндекс.Такси", "Бензин", "Каршеринг"}, 50, 2000},
	{"housing", []string{"Аренда квартиры"}, 25000, 45000},
	{"utilities", []string{"Электричество", "Вода", "Интернет", "Газ"}, 500, 3000},
	{"health", []string{"Аптека", "Врач", "Спортзал"}, 500, 5000},
	{"entertainment", []string{"Кино", "Концерт", "Steam", "Netflix"}, 200, 3000},
	{"clothing", []string{"Кроссовки", "Футболка", "Куртка"}, 1000, 8000},
	{"subscriptions", []string{"Яндекс.Плюс", "Spotify", "YouTube Premium"}, 169, 699},
}

// Index 0 is salary, handled by the fixed payday entries instead.
var incomeTemplates = []template{
	{"salary", []string{"Зарплата", "Аванс"}, 40000, 120000},
	{"freelance", []string{"Проект на фрилансе", "Консультация", "Дизайн"}, 5000, 50000},
	{"cashback", []string{"Кэшбэк Тинькофф", "Кэшбэк СберКарта"}, 200, 2000},
	{"investments", []string{"Дивиденды", "Проценты по вкладу"}, 1000, 15000},
}

// Generator produces demo data. The random source and clock are injectable so
// tests get deterministic output.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// Generate builds roughly a month of history: the last 31 calendar days each
// get 2 to 5 expenses, salary lands on the 1st and the 15th, and each day has
// a 20% chance of extra income.
func (g *Generator) Generate() []core.Transaction {
	now := g.now()
	var txs []core.Transaction

	for dayOffset := 30; dayOffset >= 0; dayOffset-- {
		day := now.AddDate(0, 0, -dayOffset)
		date := core.DateOf(day)

		expenseCount := g.rng.Intn(4) + 2
		for i := 0; i < expenseCount; i++ {
			t := expenseTemplates[g.rng.Intn(len(expenseTemplates))]
			txs = append(txs, g.transaction(core.Expense, t, date, day))
		}

		// Salary lands twice a month: full pay on the 1st, advance on the 15th.
		switch day.Day() {
		case 1:
			txs = append(txs, g.fixed(85000, "salary", "Зарплата", date, day))
		case 15:
			txs = append(txs, g.fixed(45000, "salary", "Аванс", date, day))
		}

		if g.rng.Float64() < 0.2 {
			t := incomeTemplates[g.rng.Intn(len(incomeTemplates)-1)+1]
			txs = append(txs, g.transaction(core.Income, t, date, day))
		}
	}

	return txs
}

func (g *Generator) transaction(typ core.TransactionType, t template, date core.Date, createdAt time.Time) core.Transaction {
	return core.Transaction{
		ID:          uuid.NewString(),
		Amount:      t.min + g.rng.Int63n(t.max-t.min),
		Type:        typ,
		CategoryID:  t.categoryID,
		Description: t.descriptions[g.rng.Intn(len(t.descriptions))],
		Date:        date,
		CreatedAt:   createdAt.UTC(),
	}
}

func (g *Generator) fixed(amount int64, categoryID, description string, date core.Date, createdAt time.Time) core.Transaction {
	return core.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Type:        core.Income,
		CategoryID:  categoryID,
		Description: description,
		Date:        date,
		CreatedAt:   createdAt.UTC(),
	}
}
