// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		recommendation_group TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		price REAL NOT NULL,
		category_id TEXT,
		image_url TEXT,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS recommendation_events (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL DEFAULT 0,
		experiment_name TEXT NOT NULL,
		"group" TEXT NOT NULL,
		action TEXT NOT NULL,
		product_id INTEGER,
		metadata TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_events_experiment_group_action ON recommendation_events (experiment_name, "group", action)`,
	`CREATE INDEX IF NOT EXISTS idx_events_user_created ON recommendation_events (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_products_status ON products (status)`,
}

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent adds the sample catalog required for a fresh deployment
// to serve recommendations. Idempotent: skipped when products already exist.
func (tc *TableCreator) SeedInitialContent(db *sql.DB) error {
	var productCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM products").Scan(&productCount); err != nil {
		return fmt.Errorf("failed to check for existing products: %w", err)
	}
	if productCount > 0 {
		return nil
	}

	seed := []struct {
		name        string
		description string
		price       float64
		categoryID  string
		imageURL    string
		status      string
	}{
		{"Smartphone", "Latest high-performance smartphone.", 25000, "electronics", "https://example.com/phone.jpg", "active"},
		{"Wireless Earbuds", "Comfortable wireless earbuds with excellent sound.", 3500, "electronics", "https://example.com/earbuds.jpg", "active"},
		{"Laptop", "Thin, light and powerful notebook.", 45000, "electronics", "https://example.com/laptop.jpg", "active"},
		{"Smart Watch", "Multi-function health tracking smart watch.", 8000, "wearables", "https://example.com/watch.jpg", "active"},
		{"Power Bank", "High-capacity fast-charging power bank.", 1200, "accessories", "https://example.com/powerbank.jpg", "active"},
		{"Mechanical Keyboard", "Responsive mechanical keyboard.", 2800, "accessories", "https://example.com/keyboard.jpg", "active"},
		{"Ergonomic Mouse", "Wireless mouse designed for long sessions.", 1500, "accessories", "https://example.com/mouse.jpg", "active"},
		{"4K Monitor", "Vivid high-resolution computer monitor.", 18000, "electronics", "https://example.com/monitor.jpg", "active"},
		{"Game Console", "Next-generation game console.", 15000, "gaming", "https://example.com/console.jpg", "active"},
		{"VR Headset", "Immersive virtual-reality headset.", 30000, "gaming", "https://example.com/vr.jpg", "active"},
		{"Coffee Machine", "Fully automatic espresso machine.", 5000, "home-appliances", "https://example.com/coffee.jpg", "active"},
		{"Air Purifier", "High-efficiency air filtration.", 7000, "home-appliances", "https://example.com/airpurifier.jpg", "active"},
		{"Running Shoes", "Lightweight cushioned running shoes.", 2000, "apparel", "https://example.com/shoes.jpg", "active"},
		{"Sports Bottle", "Leak-proof large-capacity sports bottle.", 300, "sporting-goods", "https://example.com/bottle.jpg", "active"},
		{"Travel Backpack", "Multi-function high-capacity travel backpack.", 1800, "travel", "https://example.com/backpack.jpg", "active"},
		{"Discontinued Item A", "No longer for sale.", 100, "misc", "https://example.com/deprecated_a.jpg", "inactive"},
		{"Sold Out Item B", "Currently out of stock.", 200, "misc", "https://example.com/deprecated_b.jpg", "sold_out"},
	}

	const query = `INSERT INTO products (name, description, price, category_id, image_url, status) VALUES (?, ?, ?, ?, ?, ?)`
	for _, p := range seed {
		if _, err := db.Exec(query, p.name, p.description, p.price, p.categoryID, p.imageURL, p.status); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.name, err)
		}
	}

	return nil
}
