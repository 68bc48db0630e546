/*
Package sqlite provides the SQLite-backed persistence layer.

PURPOSE:
  Stores everything the service needs across restarts: allowance processes
  and their audit trail, the holiday calendar, user profiles with role
  assignments, and the administrator-tunable system parameters.

KEY TABLES:
  processos:          One row per allowance request, monetary figures frozen
                      at submission time
  processo_historico: Append-only audit trail of status transitions
  feriados:           Holiday calendar (date unique)
  profiles:           User profile data keyed by the identity provider's id
  profile_roles:      Role slugs per profile
  parametros:         Single-row table: UPM value and average fuel price

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/diaria.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - workflow/process.go: Process record definition
  - workflow/transitions.go: Status graph the stored statuses come from
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/workflow"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const timeLayout = time.RFC3339
const dateLayout = "2006-01-02"

// Store implements all persistence used by the service.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Allowance processes
	CREATE TABLE IF NOT EXISTS processos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		status TEXT NOT NULL,
		requester_id TEXT NOT NULL,
		requester_name TEXT NOT NULL,
		requester_email TEXT NOT NULL,
		objetivo TEXT NOT NULL,
		destino TEXT NOT NULL,
		region TEXT NOT NULL,
		data_saida TEXT NOT NULL,
		data_retorno TEXT NOT NULL,
		meio_transporte TEXT NOT NULL,
		placa_veiculo TEXT NOT NULL DEFAULT '',
		passagens_aereas INTEGER NOT NULL DEFAULT 0,
		tipo_diaria TEXT NOT NULL,
		viagem_antecipada INTEGER NOT NULL DEFAULT 0,
		justificativa_antecipacao TEXT NOT NULL DEFAULT '',
		justificativa_prazo TEXT NOT NULL DEFAULT '',
		solicita_inscricao INTEGER NOT NULL DEFAULT 0,
		distancia_km INTEGER NOT NULL DEFAULT 0,
		valor_diarias TEXT NOT NULL,
		valor_deslocamento TEXT NOT NULL,
		valor_inscricao TEXT NOT NULL,
		valor_empenhar TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_processos_requester ON processos(requester_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_processos_status ON processos(status);

	-- Audit trail (append-only)
	CREATE TABLE IF NOT EXISTS processo_historico (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		processo_id INTEGER NOT NULL REFERENCES processos(id) ON DELETE CASCADE,
		status_anterior TEXT NOT NULL,
		status_novo TEXT NOT NULL,
		responsavel_id TEXT NOT NULL,
		anotacao TEXT NOT NULL DEFAULT '',
		timestamp TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_historico_processo ON processo_historico(processo_id, timestamp);

	-- Holiday calendar
	CREATE TABLE IF NOT EXISTS feriados (
		data TEXT PRIMARY KEY,
		descricao TEXT NOT NULL
	);

	-- User profiles
	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		cpf TEXT NOT NULL DEFAULT '',
		cargo TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS profile_roles (
		user_id TEXT NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		PRIMARY KEY (user_id, role)
	);

	-- System parameters (single row, id fixed at 1)
	CREATE TABLE IF NOT EXISTS parametros (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		valor_upm TEXT NOT NULL,
		preco_gasolina TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data. Used by tests and the dev server.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{
		"processo_historico", "processos", "feriados", "profile_roles", "profiles", "parametros",
	} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// PROCESSES
// =============================================================================

// CreateProcess inserts a new process and its opening history entry in one
// transaction, returning the assigned id.
func (s *Store) CreateProcess(ctx context.Context, p *workflow.Process) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO processos (
			status, requester_id, requester_name, requester_email,
			objetivo, destino, region, data_saida, data_retorno,
			meio_transporte, placa_veiculo, passagens_aereas,
			tipo_diaria, viagem_antecipada,
			justificativa_antecipacao, justificativa_prazo,
			solicita_inscricao, distancia_km,
			valor_diarias, valor_deslocamento, valor_inscricao, valor_empenhar,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.Status), p.RequesterID, p.RequesterName, p.RequesterEmail,
		p.Objective, p.Destination, string(p.Region),
		p.Departure.UTC().Format(timeLayout), p.Return.UTC().Format(timeLayout),
		string(p.Transport), p.VehiclePlate, boolToInt(p.AirTickets),
		string(p.DiemType), boolToInt(p.AdvanceTravel),
		p.AdvanceJustification, p.DeadlineJustification,
		boolToInt(p.RegistrationFeeRequested), p.DistanceKm,
		p.TotalDiemValue.String(), p.TravelReimbursement.String(),
		p.RegistrationFee.String(), p.TotalToCommit.String(),
		now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert process: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO processo_historico (processo_id, status_anterior, status_novo, responsavel_id, anotacao, timestamp)
		VALUES (?, '', ?, ?, '', ?)`,
		id, string(p.Status), p.RequesterID, now.Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert opening history entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return id, nil
}

const processColumns = `
	id, status, requester_id, requester_name, requester_email,
	objetivo, destino, region, data_saida, data_retorno,
	meio_transporte, placa_veiculo, passagens_aereas,
	tipo_diaria, viagem_antecipada,
	justificativa_antecipacao, justificativa_prazo,
	solicita_inscricao, distancia_km,
	valor_diarias, valor_deslocamento, valor_inscricao, valor_empenhar,
	created_at, updated_at`

// GetProcess loads one process by id. Returns ErrNotFound when absent.
func (s *Store) GetProcess(ctx context.Context, id int64) (*workflow.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT"+processColumns+" FROM processos WHERE id = ?", id)
	return scanProcess(row)
}

// ListProcesses returns all processes, newest first. When requesterID is
// non-empty only that user's processes are returned.
func (s *Store) ListProcesses(ctx context.Context, requesterID string) ([]*workflow.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT" + processColumns + " FROM processos"
	args := []any{}
	if requesterID != "" {
		query += " WHERE requester_id = ?"
		args = append(args, requesterID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query processes: %w", err)
	}
	defer rows.Close()

	var out []*workflow.Process
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProcessStatus applies a completed workflow transition: the new
// status plus its audit entry, atomically.
func (s *Store) UpdateProcessStatus(ctx context.Context, id int64, entry workflow.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE processos SET status = ?, updated_at = ? WHERE id = ?",
		string(entry.To), entry.OccurredAt.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO processo_historico (processo_id, status_anterior, status_novo, responsavel_id, anotacao, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(entry.From), string(entry.To), entry.ActorID, entry.Note,
		entry.OccurredAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return tx.Commit()
}

// ListHistory returns the audit trail for a process, oldest first.
func (s *Store) ListHistory(ctx context.Context, processID int64) ([]workflow.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT status_anterior, status_novo, responsavel_id, anotacao, timestamp
		FROM processo_historico WHERE processo_id = ? ORDER BY timestamp, id`, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []workflow.HistoryEntry
	for rows.Next() {
		var e workflow.HistoryEntry
		var from, to, ts string
		if err := rows.Scan(&from, &to, &e.ActorID, &e.Note, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.From = workflow.Status(from)
		e.To = workflow.Status(to)
		if e.OccurredAt, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("failed to parse history timestamp: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// Holiday is one calendar entry.
type Holiday struct {
	Date time.Time
	Name string
}

// ListHolidays returns all holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT data, descricao FROM feriados ORDER BY data")
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var out []Holiday
	for rows.Next() {
		var h Holiday
		var d string
		if err := rows.Scan(&d, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		if h.Date, err = time.Parse(dateLayout, d); err != nil {
			return nil, fmt.Errorf("failed to parse holiday date: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// SaveHoliday inserts or renames one holiday.
func (s *Store) SaveHoliday(ctx context.Context, h Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feriados (data, descricao) VALUES (?, ?)
		ON CONFLICT(data) DO UPDATE SET descricao = excluded.descricao`,
		h.Date.Format(dateLayout), h.Name)
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// DeleteHoliday removes the holiday on the given date, if present.
func (s *Store) DeleteHoliday(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM feriados WHERE data = ?", date.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

// HolidayCalendar builds the business-day calendar from the stored dates.
func (s *Store) HolidayCalendar(ctx context.Context) (*diaria.BusinessCalendar, error) {
	holidays, err := s.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, len(holidays))
	for i, h := range holidays {
		dates[i] = h.Date
	}
	return diaria.NewBusinessCalendarFromDates(dates), nil
}

// =============================================================================
// PROFILES AND ROLES
// =============================================================================

// Profile is the locally stored complement to the identity provider's user
// record.
type Profile struct {
	UserID   string
	Name     string
	Email    string
	CPF      string
	Position string
	Roles    []workflow.Role
}

// GetProfile loads one profile with its roles. Returns ErrNotFound when the
// user has never saved a profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := &Profile{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		"SELECT name, email, cpf, cargo FROM profiles WHERE user_id = ?", userID).
		Scan(&p.Name, &p.Email, &p.CPF, &p.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT role FROM profile_roles WHERE user_id = ? ORDER BY role", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		p.Roles = append(p.Roles, workflow.Role(r))
	}
	return p, rows.Err()
}

// SaveProfile upserts a profile and replaces its role set.
func (s *Store) SaveProfile(ctx context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, email, cpf, cargo) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name, email = excluded.email,
			cpf = excluded.cpf, cargo = excluded.cargo`,
		p.UserID, p.Name, p.Email, p.CPF, p.Position)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM profile_roles WHERE user_id = ?", p.UserID); err != nil {
		return fmt.Errorf("failed to clear roles: %w", err)
	}
	for _, r := range p.Roles {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO profile_roles (user_id, role) VALUES (?, ?)",
			p.UserID, string(r)); err != nil {
			return fmt.Errorf("failed to save role: %w", err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// SYSTEM PARAMETERS
// =============================================================================

// Parameters are the administrator-tunable calculation inputs.
type Parameters struct {
	UnitValue decimal.Decimal // value of one UPM in BRL
	FuelPrice decimal.Decimal // average gasoline price per liter
}

// GetParameters loads the singleton parameter row. Returns ErrNotFound
// before the first save.
func (s *Store) GetParameters(ctx context.Context) (Parameters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var upm, fuel string
	err := s.db.QueryRowContext(ctx,
		"SELECT valor_upm, preco_gasolina FROM parametros WHERE id = 1").
		Scan(&upm, &fuel)
	if errors.Is(err, sql.ErrNoRows) {
		return Parameters{}, ErrNotFound
	}
	if err != nil {
		return Parameters{}, fmt.Errorf("failed to load parameters: %w", err)
	}

	p := Parameters{}
	if p.UnitValue, err = decimal.NewFromString(upm); err != nil {
		return Parameters{}, fmt.Errorf("stored UPM value is malformed: %w", err)
	}
	if p.FuelPrice, err = decimal.NewFromString(fuel); err != nil {
		return Parameters{}, fmt.Errorf("stored fuel price is malformed: %w", err)
	}
	return p, nil
}

// SaveParameters replaces the singleton parameter row.
func (s *Store) SaveParameters(ctx context.Context, p Parameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parametros (id, valor_upm, preco_gasolina) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			valor_upm = excluded.valor_upm, preco_gasolina = excluded.preco_gasolina`,
		p.UnitValue.String(), p.FuelPrice.String())
	if err != nil {
		return fmt.Errorf("failed to save parameters: %w", err)
	}
	return nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProcess(row rowScanner) (*workflow.Process, error) {
	var p workflow.Process
	var status, region, transport, diemType string
	var departure, ret, created, updated string
	var airTickets, advance, feeRequested int
	var diems, displacement, fee, commit string

	err := row.Scan(
		&p.ID, &status, &p.RequesterID, &p.RequesterName, &p.RequesterEmail,
		&p.Objective, &p.Destination, &region, &departure, &ret,
		&transport, &p.VehiclePlate, &airTickets,
		&diemType, &advance,
		&p.AdvanceJustification, &p.DeadlineJustification,
		&feeRequested, &p.DistanceKm,
		&diems, &displacement, &fee, &commit,
		&created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan process: %w", err)
	}

	p.Status = workflow.Status(status)
	p.Region = diaria.Region(region)
	p.Transport = diaria.TransportMode(transport)
	p.DiemType = diaria.DiemType(diemType)
	p.AirTickets = airTickets != 0
	p.AdvanceTravel = advance != 0
	p.RegistrationFeeRequested = feeRequested != 0

	for _, field := range []struct {
		raw string
		dst *decimal.Decimal
	}{
		{diems, &p.TotalDiemValue},
		{displacement, &p.TravelReimbursement},
		{fee, &p.RegistrationFee},
		{commit, &p.TotalToCommit},
	} {
		if *field.dst, err = decimal.NewFromString(field.raw); err != nil {
			return nil, fmt.Errorf("stored monetary value is malformed: %w", err)
		}
	}

	for _, field := range []struct {
		raw string
		dst *time.Time
	}{
		{departure, &p.Departure},
		{ret, &p.Return},
		{created, &p.CreatedAt},
		{updated, &p.UpdatedAt},
	} {
		if *field.dst, err = time.Parse(timeLayout, field.raw); err != nil {
			return nil, fmt.Errorf("stored timestamp is malformed: %w", err)
		}
	}

	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
