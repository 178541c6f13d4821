package models

import "github.com/google/uuid"

// CounterSnapshot is the denormalized tally for one content item. Each field
// equals the count of live interaction rows of that type; it is only written
// inside the same transaction as the backing row.
type CounterSnapshot struct {
	ContentID uuid.UUID
	Views     int64
	Likes     int64
	Comments  int64
	Shares    int64
	Clicks    int64
}

func (c CounterSnapshot) Total() int64 {
	return c.Views + c.Likes + c.Comments + c.Shares + c.Clicks
}

func (c CounterSnapshot) Get(t InteractionType) int64 {
	switch t {
	case View:
		return c.Views
	case Like:
		return c.Likes
	case Comment:
		return c.Comments
	case Share:
		return c.Shares
	case Click:
		return c.Clicks
	}
	return 0
}
