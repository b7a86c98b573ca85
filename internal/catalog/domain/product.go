package domain

import "time"

type Category struct {
	ID   int64
	Name string
}

type Product struct {
	ID           int64
	Title        string
	Description  string
	PriceCents   int64
	CategoryID   int64
	CategoryName string
	CreatedAt    time.Time
}
