package ledger

import (
	"context"
	"sort"
	"sync"

	"rentops/owner-ledger/internal/models"
)

type memoryOwner struct {
	owner      models.Owner
	properties map[string]*memoryProperty
	reports    map[string]models.MonthlyReport
}

type memoryProperty struct {
	property models.Property
	months   map[string]models.PropertyMonth
}

// MemoryStore is an in-memory Store used for dry runs and tests. It applies
// the same upsert semantics as the Postgres store but keeps nothing beyond
// the process lifetime.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	owners  map[string]*memoryOwner
	imports []models.ImportLog
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		owners: make(map[string]*memoryOwner),
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// SaveStatement applies the validated statement to the in-memory maps.
func (m *MemoryStore) SaveStatement(ctx context.Context, result *models.ValidationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ow, ok := m.owners[result.OwnerName]
	if !ok {
		ow = &memoryOwner{
			owner:      models.Owner{ID: m.id(), Name: result.OwnerName, CreatedAt: result.Report.ImportedAt},
			properties: make(map[string]*memoryProperty),
			reports:    make(map[string]models.MonthlyReport),
		}
		m.owners[result.OwnerName] = ow
	}

	report := result.Report
	report.OwnerID = ow.owner.ID
	if prev, ok := ow.reports[report.Period.String()]; ok {
		report.ID = prev.ID
	} else {
		report.ID = m.id()
	}
	ow.reports[report.Period.String()] = report

	for _, rec := range result.Properties {
		prop, ok := ow.properties[rec.Address]
		if !ok {
			prop = &memoryProperty{
				property: models.Property{ID: m.id(), OwnerID: ow.owner.ID, Address: rec.Address},
				months:   make(map[string]models.PropertyMonth),
			}
			ow.properties[rec.Address] = prop
		}
		if rec.Rent.IsPositive() {
			prop.property.CurrentRent = rec.Rent
		}
		if rec.Deposit.IsPositive() {
			prop.property.SecurityDeposit = rec.Deposit
		}

		month := rec.Month
		month.PropertyID = prop.property.ID
		if prev, ok := prop.months[month.Period.String()]; ok {
			month.ID = prev.ID
		} else {
			month.ID = m.id()
		}
		for i := range month.Expenses {
			month.Expenses[i].ID = m.id()
			month.Expenses[i].PropertyMonthID = month.ID
		}
		prop.months[month.Period.String()] = month
	}

	return nil
}

// InsertImportLog appends one audit entry.
func (m *MemoryStore) InsertImportLog(ctx context.Context, entry models.ImportLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports = append(m.imports, entry)
	return nil
}

// ListMonthlyReports returns all reports ordered by period start, then owner.
func (m *MemoryStore) ListMonthlyReports(ctx context.Context) ([]models.MonthlyReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var reports []models.MonthlyReport
	for _, ow := range m.owners {
		for _, r := range ow.reports {
			reports = append(reports, r)
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].Period.Start.Equal(reports[j].Period.Start) {
			return reports[i].Period.Start.Before(reports[j].Period.Start)
		}
		return reports[i].OwnerID < reports[j].OwnerID
	})
	return reports, nil
}

// ListImportLogs returns a copy of the audit trail in insertion order.
func (m *MemoryStore) ListImportLogs(ctx context.Context) ([]models.ImportLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ImportLog, len(m.imports))
	copy(out, m.imports)
	return out, nil
}

// PropertyPerformance aggregates every recorded month per property.
func (m *MemoryStore) PropertyPerformance(ctx context.Context) ([]PropertyPerformance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var perf []PropertyPerformance
	for _, ow := range m.owners {
		for addr, prop := range ow.properties {
			p := PropertyPerformance{
				Address:     addr,
				OwnerName:   ow.owner.Name,
				CurrentRent: prop.property.CurrentRent,
			}
			for _, month := range prop.months {
				p.TotalIncome = p.TotalIncome.Add(month.TotalIncome)
				p.TotalExpenses = p.TotalExpenses.Add(month.TotalExpenses)
				p.TotalRepairs = p.TotalRepairs.Add(month.Repairs)
				p.MonthsTracked++
			}
			p.NOI = p.TotalIncome.Sub(p.TotalExpenses)
			perf = append(perf, p)
		}
	}
	sort.Slice(perf, func(i, j int) bool {
		if perf[i].OwnerName != perf[j].OwnerName {
			return perf[i].OwnerName < perf[j].OwnerName
		}
		return perf[i].Address < perf[j].Address
	})
	return perf, nil
}

// Reset clears all stored records. Test helper.
func (m *MemoryStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners = make(map[string]*memoryOwner)
	m.imports = nil
	m.nextID = 1
}
