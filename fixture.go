package admindash

import (
	"fmt"
	"strings"
	"time"

	"github.com/youssefsiam38/admindash/storage"
)

var (
	fixtureFirstNames = []string{"John", "Jane", "Michael", "Emily", "David", "Sarah", "Robert", "Lisa", "James", "Mary",
		"William", "Patricia", "Richard", "Jennifer", "Thomas", "Linda", "Charles", "Barbara", "Daniel", "Elizabeth"}
	fixtureLastNames = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
		"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin"}
	fixtureProducts = []string{
		"Wireless Headphones", "Smart Watch", "Laptop Stand", "USB-C Cable", "Portable Charger",
		"Bluetooth Speaker", "Webcam HD", "Mechanical Keyboard", "Gaming Mouse", `Monitor 27"`,
		"Desk Lamp LED", "Phone Case", "Screen Protector", "Tablet", "Earbuds Pro",
		"Charging Dock", "HDMI Cable", "External SSD", "Mouse Pad", "Laptop Sleeve",
		"Wireless Charger", "Power Bank", "USB Hub", "Stylus Pen", "Cable Organizer",
	}

	// Six months of history, oldest first.
	fixtureRevenue    = []float64{42350, 51870, 47920, 63140, 58610, 71280}
	fixtureUserGrowth = []float64{318, 406, 389, 517, 472, 608}
)

// Fixture is the data set loaded by ResetData.
type Fixture struct {
	Users    []*User
	Products []*Product
	Metrics  []*storage.MetricPoint
}

// NewFixture builds the reset data set. Users and products are fixed; the
// metric history covers the six months ending in the month of now.
func NewFixture(now time.Time) *Fixture {
	f := &Fixture{}

	for i := 1; i <= 20; i++ {
		first := fixtureFirstNames[i-1]
		last := fixtureLastNames[(i*7)%len(fixtureLastNames)]
		status := UserStatuses[(i*5)%len(UserStatuses)]
		if i == 1 {
			status = UserStatusActive
		}
		f.Users = append(f.Users, &User{
			ID:               int64(i),
			Name:             first + " " + last,
			Email:            fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			Role:             UserRoles[(i-1)%len(UserRoles)],
			Status:           status,
			RegistrationDate: time.Date(2023, time.Month((i*5)%12+1), (i*11)%28+1, 0, 0, 0, 0, time.UTC),
		})
	}

	for i := 1; i <= len(fixtureProducts); i++ {
		stock := (i * 37) % 200
		if i%12 == 0 {
			stock = 0
		}
		name := fixtureProducts[i-1]
		category := ProductCategories[(i*5)%len(ProductCategories)]
		f.Products = append(f.Products, &Product{
			ID:          int64(i),
			Name:        name,
			Category:    category,
			Description: fmt.Sprintf("**%s** from the *%s* range.", name, strings.ToLower(category)),
			Price:       10 + float64((i*7919)%50000)/100,
			Stock:       stock,
			Status:      StockStatusFor(stock),
		})
	}

	for i, start := range lastMonths(now, len(fixtureRevenue)) {
		period := storage.Period(start)
		f.Metrics = append(f.Metrics,
			&storage.MetricPoint{Metric: storage.MetricRevenue, Period: period, Value: fixtureRevenue[i]},
			&storage.MetricPoint{Metric: storage.MetricUserGrowth, Period: period, Value: fixtureUserGrowth[i]},
		)
	}

	return f
}

// lastMonths returns the first instant of each of the n months ending in
// the month of now, oldest first.
func lastMonths(now time.Time, n int) []time.Time {
	y, m, _ := now.Date()
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(y, m-time.Month(n-1-i), 1, 0, 0, 0, 0, now.Location())
	}
	return out
}
