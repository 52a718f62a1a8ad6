package domain

import "time"

// Realm is a named SSO organisation. The name is globally unique; registering
// the same name again updates the start URL in place rather than creating a
// second row.
type Realm struct {
	ID        string
	Name      string
	StartURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
