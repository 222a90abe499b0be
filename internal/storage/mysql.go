package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"api_vehicle_sales/internal/sales"
	"api_vehicle_sales/internal/vehicles"
)

// MySQLStorage is the durable store. Reserve and Settle run their
// check-then-set sequences inside one transaction, with conditional
// UPDATEs detecting conflicts by rows affected, so the one-sale-per-
// vehicle and process-once guarantees hold across service instances
// sharing the database.
type MySQLStorage struct {
	db *sql.DB
}

// NewMySQLStorage creates a MySQLStorage on top of an open connection
// pool. The DSN must carry parseTime=true.
func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

// EnsureSchema creates the vehicles and sales tables when missing.
func (m *MySQLStorage) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			external_id BIGINT NOT NULL,
			make VARCHAR(100) NOT NULL,
			model VARCHAR(100) NOT NULL,
			year INT NOT NULL,
			color VARCHAR(50) NOT NULL,
			price DOUBLE NOT NULL,
			status VARCHAR(16) NOT NULL,
			registered_at DATETIME NOT NULL,
			last_synced_at DATETIME NOT NULL,
			UNIQUE KEY uq_vehicles_external_id (external_id)
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			vehicle_id BIGINT NOT NULL,
			buyer_cpf VARCHAR(14) NOT NULL,
			payment_code CHAR(36) NOT NULL,
			payment_status VARCHAR(16) NOT NULL,
			created_at DATETIME NOT NULL,
			amount DOUBLE NOT NULL,
			UNIQUE KEY uq_sales_payment_code (payment_code),
			KEY idx_sales_vehicle_id (vehicle_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLStorage) UpsertVehicle(ctx context.Context, v *vehicles.Vehicle) (*vehicles.Vehicle, error) {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO vehicles (external_id, make, model, year, color, price, status, registered_at, last_synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			make = VALUES(make), model = VALUES(model), year = VALUES(year),
			color = VALUES(color), price = VALUES(price), status = VALUES(status),
			last_synced_at = VALUES(last_synced_at)`,
		v.ExternalID, v.Make, v.Model, v.Year, v.Color, v.Price, v.Status,
		v.RegisteredAt, v.LastSyncedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert vehicle: %w", err)
	}
	return m.VehicleByExternalID(ctx, v.ExternalID)
}

const vehicleColumns = `id, external_id, make, model, year, color, price, status, registered_at, last_synced_at`

func (m *MySQLStorage) VehicleByID(ctx context.Context, id int64) (*vehicles.Vehicle, error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id)
	return scanVehicle(row)
}

func (m *MySQLStorage) VehicleByExternalID(ctx context.Context, externalID int64) (*vehicles.Vehicle, error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE external_id = ?`, externalID)
	return scanVehicle(row)
}

func (m *MySQLStorage) VehiclesByStatus(ctx context.Context, status vehicles.Status) ([]*vehicles.Vehicle, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE status = ? ORDER BY price ASC`, status)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()

	result := make([]*vehicles.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func (m *MySQLStorage) Reserve(ctx context.Context, sale *sales.Sale) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// The status flip alone is not enough: a failed push followed by a
	// sync can bring the snapshot back to AVAILABLE while its sale is
	// still PENDING. The NOT EXISTS guard rejects that too.
	res, err := tx.ExecContext(ctx, `
		UPDATE vehicles SET status = ?
		WHERE id = ? AND status = ?
		  AND NOT EXISTS (
			SELECT 1 FROM sales
			WHERE vehicle_id = ? AND payment_status IN (?, ?)
		  )`,
		vehicles.StatusSold, sale.VehicleID, vehicles.StatusAvailable,
		sale.VehicleID, sales.PaymentPending, sales.PaymentConfirmed,
	)
	if err != nil {
		return fmt.Errorf("reserve vehicle: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return sales.ErrVehicleUnavailable
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO sales (vehicle_id, buyer_cpf, payment_code, payment_status, created_at, amount)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sale.VehicleID, sale.BuyerCPF, sale.PaymentCode, sale.PaymentStatus,
		sale.CreatedAt, sale.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	sale.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sale id: %w", err)
	}

	return tx.Commit()
}

func (m *MySQLStorage) Settle(ctx context.Context, paymentCode string, status sales.PaymentStatus) (*sales.Sale, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sales SET payment_status = ? WHERE payment_code = ? AND payment_status = ?`,
		status, paymentCode, sales.PaymentPending,
	)
	if err != nil {
		return nil, fmt.Errorf("settle sale: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		// Either the code is unknown or the sale already left PENDING.
		var current sales.PaymentStatus
		err := tx.QueryRowContext(ctx,
			`SELECT payment_status FROM sales WHERE payment_code = ?`, paymentCode,
		).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sales.ErrSaleNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("query sale status: %w", err)
		}
		return nil, &sales.AlreadyProcessedError{PaymentCode: paymentCode, Status: current}
	}

	sale, err := scanSale(tx.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE payment_code = ?`, paymentCode))
	if err != nil {
		return nil, err
	}

	if status == sales.PaymentCancelled {
		if _, err := tx.ExecContext(ctx,
			`UPDATE vehicles SET status = ? WHERE id = ?`,
			vehicles.StatusAvailable, sale.VehicleID,
		); err != nil {
			return nil, fmt.Errorf("release vehicle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit settle: %w", err)
	}
	return sale, nil
}

const saleColumns = `id, vehicle_id, buyer_cpf, payment_code, payment_status, created_at, amount`

func (m *MySQLStorage) SaleByPaymentCode(ctx context.Context, paymentCode string) (*sales.Sale, error) {
	return scanSale(m.db.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE payment_code = ?`, paymentCode))
}

func (m *MySQLStorage) AllSales(ctx context.Context) ([]*sales.Sale, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	result := make([]*sales.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*vehicles.Vehicle, error) {
	var v vehicles.Vehicle
	err := row.Scan(&v.ID, &v.ExternalID, &v.Make, &v.Model, &v.Year, &v.Color,
		&v.Price, &v.Status, &v.RegisteredAt, &v.LastSyncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, vehicles.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan vehicle: %w", err)
	}
	return &v, nil
}

func scanSale(row rowScanner) (*sales.Sale, error) {
	var s sales.Sale
	err := row.Scan(&s.ID, &s.VehicleID, &s.BuyerCPF, &s.PaymentCode,
		&s.PaymentStatus, &s.CreatedAt, &s.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sales.ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	return &s, nil
}
