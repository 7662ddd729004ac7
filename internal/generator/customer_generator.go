package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/sirupsen/logrus"
	"github.com/vitebski/customer-data-cleaner/internal/table"
)

// Value pools for the default (fixed-pool) mode
var (
	firstNames = []string{"John", "Jane", "Mike", "Sarah", "David", "Emily", "Chris", "Lisa"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller"}
	statuses   = []string{"active", "INACTIVE", "Pending", "suspended", "Active"}

	ageOutlierValues    = []int64{5, 10, 150, 200}
	incomeOutlierValues = []float64{5000, 500000, 1000000}

	// Registration dates are rendered in one of these layouts, chosen per row
	dateFormats = []string{"2006-01-02", "01/02/2006", "02-01-2006", "January 02, 2006"}

	registrationStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	registrationEnd   = time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Defect injection rates and counts
const (
	missingNameRate  = 0.15
	invalidEmailRate = 0.10
	missingEmailRate = 0.05
	missingPhoneRate = 0.08
	duplicateRate    = 0.08

	ageOutlierRows    = 50
	incomeOutlierRows = 100
)

// CustomerGenerator produces synthetic customer tables with injected
// quality defects: missing names/emails/phones, malformed emails, mixed
// phone and date formats, inconsistent status casing, planted outliers and
// appended duplicate rows.
type CustomerGenerator struct {
	Seed      int64
	Realistic bool
	Faker     faker.Faker
	Rand      *rand.Rand
	Logger    *logrus.Logger
}

// NewCustomerGenerator creates a generator whose draws all come from a
// single source seeded with seed, so equal seeds and counts produce
// identical tables. With realistic enabled, names and valid e-mail
// addresses are synthesized instead of drawn from the fixed pools; the
// defect injection is unchanged.
func NewCustomerGenerator(seed int64, realistic bool, logger *logrus.Logger) *CustomerGenerator {
	src := rand.NewSource(seed)
	return &CustomerGenerator{
		Seed:      seed,
		Realistic: realistic,
		Faker:     faker.NewWithSeed(src),
		Rand:      rand.New(src),
		Logger:    logger,
	}
}

// Generate produces n base records plus a block of duplicated rows
func (cg *CustomerGenerator) Generate(n int) (*table.Table, error) {
	if n <= 0 {
		return nil, fmt.Errorf("record count must be positive, got %d", n)
	}

	cg.Logger.Infof("Generating %d customer records (seed %d)", n, cg.Seed)

	t := table.New("CustomerID", "Name", "Email", "Phone", "Age", "Income", "Registration_Date", "Status")

	for i := 0; i < n; i++ {
		t.AppendRow(table.Row{
			"CustomerID":        fmt.Sprintf("CUST_%06d", i+1),
			"Name":              cg.generateName(),
			"Email":             cg.generateEmail(i),
			"Phone":             cg.generatePhone(),
			"Age":               cg.generateAge(),
			"Income":            cg.generateIncome(),
			"Registration_Date": cg.generateRegistrationDate(),
			"Status":            statuses[cg.Rand.Intn(len(statuses))],
		})
	}

	// Null out a fixed share of names, chosen without replacement
	missingNames := int(missingNameRate * float64(n))
	for _, idx := range cg.Rand.Perm(n)[:missingNames] {
		t.Rows[idx]["Name"] = nil
	}

	// Plant implausible ages and incomes on a handful of rows
	ageRows := ageOutlierRows
	if ageRows > n {
		ageRows = n
	}
	for _, idx := range cg.Rand.Perm(n)[:ageRows] {
		t.Rows[idx]["Age"] = ageOutlierValues[cg.Rand.Intn(len(ageOutlierValues))]
	}

	incomeRows := incomeOutlierRows
	if incomeRows > n {
		incomeRows = n
	}
	for _, idx := range cg.Rand.Perm(n)[:incomeRows] {
		t.Rows[idx]["Income"] = incomeOutlierValues[cg.Rand.Intn(len(incomeOutlierValues))]
	}

	// Append exact copies of a sample of the base rows
	duplicates := int(duplicateRate * float64(n))
	for _, idx := range cg.Rand.Perm(n)[:duplicates] {
		t.AppendRow(t.Rows[idx].Copy())
	}

	cg.Logger.Infof("Generated %d rows (%d duplicates appended)", t.NumRows(), duplicates)
	return t, nil
}

// generateName picks from the fixed pools, or synthesizes a name in
// realistic mode
func (cg *CustomerGenerator) generateName() string {
	if cg.Realistic {
		return cg.Faker.Person().FirstName() + " " + cg.Faker.Person().LastName()
	}
	return firstNames[cg.Rand.Intn(len(firstNames))] + " " + lastNames[cg.Rand.Intn(len(lastNames))]
}

// generateEmail returns a valid address, a malformed one, or null
func (cg *CustomerGenerator) generateEmail(i int) interface{} {
	if cg.Rand.Float64() < invalidEmailRate {
		return fmt.Sprintf("invalid_email_%d", i)
	}
	if cg.Rand.Float64() < missingEmailRate {
		return nil
	}
	if cg.Realistic {
		return cg.Faker.Internet().Email()
	}
	return fmt.Sprintf("user%d@example.com", i)
}

// generatePhone returns a 10-digit US number in one of four renderings,
// or null
func (cg *CustomerGenerator) generatePhone() interface{} {
	if cg.Rand.Float64() < missingPhoneRate {
		return nil
	}

	area := cg.Rand.Intn(900) + 100
	prefix := cg.Rand.Intn(900) + 100
	line := cg.Rand.Intn(9000) + 1000

	switch cg.Rand.Intn(4) {
	case 0:
		return fmt.Sprintf("%d%d%d", area, prefix, line)
	case 1:
		return fmt.Sprintf("(%d) %d-%d", area, prefix, line)
	case 2:
		return fmt.Sprintf("%d-%d-%d", area, prefix, line)
	default:
		return fmt.Sprintf("+1%d%d%d", area, prefix, line)
	}
}

// generateAge draws from normal(35, 12) truncated and clamped to [18, 80]
func (cg *CustomerGenerator) generateAge() int64 {
	age := int64(cg.Rand.NormFloat64()*12 + 35)
	if age < 18 {
		age = 18
	}
	if age > 80 {
		age = 80
	}
	return age
}

// generateIncome draws from normal(55000, 20000) clamped to [20000, 200000]
func (cg *CustomerGenerator) generateIncome() float64 {
	income := cg.Rand.NormFloat64()*20000 + 55000
	if income < 20000 {
		income = 20000
	}
	if income > 200000 {
		income = 200000
	}
	return income
}

// generateRegistrationDate picks a uniform day in the registration window
// and renders it in one of the four layouts
func (cg *CustomerGenerator) generateRegistrationDate() string {
	span := int(registrationEnd.Sub(registrationStart).Hours()/24) + 1
	day := registrationStart.AddDate(0, 0, cg.Rand.Intn(span))
	return day.Format(dateFormats[cg.Rand.Intn(len(dateFormats))])
}
