package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
	"rentops/owner-ledger/internal/parsererror"
)

// schema holds the DDL applied by Migrate. Statements are idempotent so the
// command can run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS owners (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id BIGSERIAL PRIMARY KEY,
		owner_id BIGINT NOT NULL REFERENCES owners(id),
		address TEXT NOT NULL,
		current_rent NUMERIC(12,2) NOT NULL DEFAULT 0,
		security_deposit NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (owner_id, address)
	)`,
	`CREATE TABLE IF NOT EXISTS monthly_reports (
		id BIGSERIAL PRIMARY KEY,
		owner_id BIGINT NOT NULL REFERENCES owners(id),
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		total_income NUMERIC(12,2) NOT NULL,
		total_expenses NUMERIC(12,2) NOT NULL,
		property_count INT NOT NULL,
		previous_balance NUMERIC(12,2) NOT NULL DEFAULT 0,
		management_fees NUMERIC(12,2) NOT NULL DEFAULT 0,
		contributions NUMERIC(12,2) NOT NULL DEFAULT 0,
		draws NUMERIC(12,2) NOT NULL DEFAULT 0,
		ending_balance NUMERIC(12,2) NOT NULL DEFAULT 0,
		due_to_owner NUMERIC(12,2) NOT NULL DEFAULT 0,
		source_document TEXT NOT NULL DEFAULT '',
		imported_at TIMESTAMPTZ NOT NULL,
		UNIQUE (owner_id, period_start, period_end)
	)`,
	`CREATE TABLE IF NOT EXISTS property_months (
		id BIGSERIAL PRIMARY KEY,
		property_id BIGINT NOT NULL REFERENCES properties(id),
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		total_income NUMERIC(12,2) NOT NULL,
		total_expenses NUMERIC(12,2) NOT NULL,
		management_fees NUMERIC(12,2) NOT NULL DEFAULT 0,
		repairs NUMERIC(12,2) NOT NULL DEFAULT 0,
		UNIQUE (property_id, period_start, period_end)
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		property_month_id BIGINT NOT NULL REFERENCES property_months(id) ON DELETE CASCADE,
		expense_date DATE,
		vendor TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount NUMERIC(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS import_logs (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		logged_at TIMESTAMPTZ NOT NULL
	)`,
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to databaseURL and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string, logger logging.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to ledger database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging ledger database: %w", err)
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Migrate applies the schema. Safe to call repeatedly.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// SaveStatement writes the validated statement in one transaction.
func (s *PostgresStore) SaveStatement(ctx context.Context, result *models.ValidationResult) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &parsererror.PersistenceError{Document: result.Report.SourceDocument, Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ownerID, err := s.upsertOwner(ctx, tx, result.OwnerName)
	if err != nil {
		return &parsererror.PersistenceError{Document: result.Report.SourceDocument, Err: err}
	}
	if err := s.upsertReport(ctx, tx, ownerID, result.Report); err != nil {
		return &parsererror.PersistenceError{Document: result.Report.SourceDocument, Err: err}
	}
	for _, rec := range result.Properties {
		propertyID, err := s.upsertProperty(ctx, tx, ownerID, rec)
		if err != nil {
			return &parsererror.PersistenceError{Document: result.Report.SourceDocument, Err: err}
		}
		if err := s.writePropertyMonth(ctx, tx, propertyID, rec.Month); err != nil {
			return &parsererror.PersistenceError{Document: result.Report.SourceDocument, Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &parsererror.PersistenceError{Document: result.Report.SourceDocument, Err: err}
	}
	s.logger.Debug("statement persisted", logging.Field{Key: logging.FieldOwner, Value: result.OwnerName})
	return nil
}

func (s *PostgresStore) upsertOwner(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO owners (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting owner %q: %w", name, err)
	}
	return id, nil
}

func (s *PostgresStore) upsertProperty(ctx context.Context, tx pgx.Tx, ownerID int64, rec models.PropertyMonthRecord) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO properties (owner_id, address, current_rent, security_deposit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, address) DO UPDATE SET
			current_rent = CASE WHEN EXCLUDED.current_rent > 0 THEN EXCLUDED.current_rent ELSE properties.current_rent END,
			security_deposit = CASE WHEN EXCLUDED.security_deposit > 0 THEN EXCLUDED.security_deposit ELSE properties.security_deposit END,
			updated_at = now()
		RETURNING id`,
		ownerID, rec.Address, rec.Rent, rec.Deposit).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting property %q: %w", rec.Address, err)
	}
	return id, nil
}

func (s *PostgresStore) upsertReport(ctx context.Context, tx pgx.Tx, ownerID int64, r models.MonthlyReport) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO monthly_reports (
			owner_id, period_start, period_end, total_income, total_expenses,
			property_count, previous_balance, management_fees, contributions,
			draws, ending_balance, due_to_owner, source_document, imported_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (owner_id, period_start, period_end) DO UPDATE SET
			total_income = EXCLUDED.total_income,
			total_expenses = EXCLUDED.total_expenses,
			property_count = EXCLUDED.property_count,
			previous_balance = EXCLUDED.previous_balance,
			management_fees = EXCLUDED.management_fees,
			contributions = EXCLUDED.contributions,
			draws = EXCLUDED.draws,
			ending_balance = EXCLUDED.ending_balance,
			due_to_owner = EXCLUDED.due_to_owner,
			source_document = EXCLUDED.source_document,
			imported_at = EXCLUDED.imported_at`,
		ownerID, r.Period.Start, r.Period.End, r.TotalIncome, r.TotalExpenses,
		r.PropertyCount, r.PreviousBalance, r.ManagementFees, r.Contributions,
		r.Draws, r.EndingBalance, r.DueToOwner, r.SourceDocument, r.ImportedAt)
	if err != nil {
		return fmt.Errorf("upserting monthly report: %w", err)
	}
	return nil
}

// writePropertyMonth replaces the month row and its expenses. Re-importing a
// corrected statement leaves no stale expense rows behind.
func (s *PostgresStore) writePropertyMonth(ctx context.Context, tx pgx.Tx, propertyID int64, month models.PropertyMonth) error {
	var monthID int64
	err := tx.QueryRow(ctx, `
		INSERT INTO property_months (
			property_id, period_start, period_end, total_income,
			total_expenses, management_fees, repairs)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (property_id, period_start, period_end) DO UPDATE SET
			total_income = EXCLUDED.total_income,
			total_expenses = EXCLUDED.total_expenses,
			management_fees = EXCLUDED.management_fees,
			repairs = EXCLUDED.repairs
		RETURNING id`,
		propertyID, month.Period.Start, month.Period.End, month.TotalIncome,
		month.TotalExpenses, month.ManagementFees, month.Repairs).Scan(&monthID)
	if err != nil {
		return fmt.Errorf("upserting property month: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM expenses WHERE property_month_id = $1`, monthID); err != nil {
		return fmt.Errorf("clearing expenses: %w", err)
	}
	for _, e := range month.Expenses {
		_, err := tx.Exec(ctx, `
			INSERT INTO expenses (property_month_id, expense_date, vendor, category, description, amount)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			monthID, e.Date, e.Vendor, e.Category, e.Description, e.Amount)
		if err != nil {
			return fmt.Errorf("inserting expense: %w", err)
		}
	}
	return nil
}

// InsertImportLog appends one audit row. Conflicting ids are rejected, not
// overwritten.
func (s *PostgresStore) InsertImportLog(ctx context.Context, entry models.ImportLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO import_logs (id, document_id, kind, outcome, detail, logged_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		entry.ID, entry.DocumentID, entry.Kind, entry.Outcome, entry.Detail, entry.Timestamp)
	if err != nil {
		return &parsererror.PersistenceError{Document: entry.DocumentID, Err: err}
	}
	return nil
}

// ListMonthlyReports returns all reports ordered by period start.
func (s *PostgresStore) ListMonthlyReports(ctx context.Context) ([]models.MonthlyReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, period_start, period_end, total_income, total_expenses,
			property_count, previous_balance, management_fees, contributions,
			draws, ending_balance, due_to_owner, source_document, imported_at
		FROM monthly_reports
		ORDER BY period_start, owner_id`)
	if err != nil {
		return nil, fmt.Errorf("listing monthly reports: %w", err)
	}
	defer rows.Close()

	var reports []models.MonthlyReport
	for rows.Next() {
		var r models.MonthlyReport
		err := rows.Scan(&r.ID, &r.OwnerID, &r.Period.Start, &r.Period.End,
			&r.TotalIncome, &r.TotalExpenses, &r.PropertyCount,
			&r.PreviousBalance, &r.ManagementFees, &r.Contributions,
			&r.Draws, &r.EndingBalance, &r.DueToOwner,
			&r.SourceDocument, &r.ImportedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning monthly report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// ListImportLogs returns the audit trail ordered by timestamp.
func (s *PostgresStore) ListImportLogs(ctx context.Context) ([]models.ImportLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, document_id, kind, outcome, detail, logged_at
		FROM import_logs
		ORDER BY logged_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing import logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ImportLog
	for rows.Next() {
		var l models.ImportLog
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.Kind, &l.Outcome, &l.Detail, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// PropertyPerformance aggregates every property month in SQL.
func (s *PostgresStore) PropertyPerformance(ctx context.Context) ([]PropertyPerformance, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.address, o.name, p.current_rent,
			COALESCE(SUM(pm.total_income), 0),
			COALESCE(SUM(pm.total_expenses), 0),
			COALESCE(SUM(pm.repairs), 0),
			COUNT(pm.id)
		FROM properties p
		JOIN owners o ON o.id = p.owner_id
		LEFT JOIN property_months pm ON pm.property_id = p.id
		GROUP BY p.address, o.name, p.current_rent
		ORDER BY o.name, p.address`)
	if err != nil {
		return nil, fmt.Errorf("aggregating property performance: %w", err)
	}
	defer rows.Close()

	var perf []PropertyPerformance
	for rows.Next() {
		var p PropertyPerformance
		err := rows.Scan(&p.Address, &p.OwnerName, &p.CurrentRent,
			&p.TotalIncome, &p.TotalExpenses, &p.TotalRepairs, &p.MonthsTracked)
		if err != nil {
			return nil, fmt.Errorf("scanning property performance: %w", err)
		}
		p.NOI = p.TotalIncome.Sub(p.TotalExpenses)
		perf = append(perf, p)
	}
	return perf, rows.Err()
}
