package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/godilite/jsi-server/internal/insights"
)

// UpsertCustomer stores a customer's industry membership.
func (s *InsightsRepository) UpsertCustomer(ctx context.Context, c insights.Customer) error {
	const query = `
		INSERT INTO customers (id, name, industry_code, industry_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			industry_code = excluded.industry_code,
			industry_name = excluded.industry_name`

	if _, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.IndustryCode, c.IndustryName); err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

func (s *InsightsRepository) GetCustomer(ctx context.Context, id string) (insights.Customer, error) {
	const query = `SELECT id, name, industry_code, industry_name FROM customers WHERE id = ?`

	var c insights.Customer
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.IndustryCode, &c.IndustryName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return insights.Customer{}, ErrNotFound
		}
		return insights.Customer{}, fmt.Errorf("query GetCustomer: %w", err)
	}
	return c, nil
}

// ListCustomersByIndustry returns the members of an industry ordered by id.
func (s *InsightsRepository) ListCustomersByIndustry(ctx context.Context, industryCode string) ([]insights.Customer, error) {
	const query = `
		SELECT id, name, industry_code, industry_name
		FROM customers
		WHERE industry_code = ?
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, industryCode)
	if err != nil {
		return nil, fmt.Errorf("query ListCustomersByIndustry: %w", err)
	}
	defer rows.Close()

	var results []insights.Customer
	for rows.Next() {
		var c insights.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.IndustryCode, &c.IndustryName); err != nil {
			return nil, fmt.Errorf("scan ListCustomersByIndustry row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListCustomersByIndustry: %w", err)
	}
	return results, nil
}
