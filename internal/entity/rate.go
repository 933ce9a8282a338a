package entity

import "time"

type Rate struct {
	CharCode     string    `db:"char_code" json:"char_code"`
	CurID        int       `db:"cur_id" json:"cur_id,omitempty"`
	Name         string    `db:"name" json:"name,omitempty"`
	Date         time.Time `db:"date" json:"date"`
	Periodicity  int       `db:"periodicity" json:"periodicity"`
	Scale        int       `db:"scale" json:"scale"`
	OfficialRate float64   `db:"official_rate" json:"official_rate"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// PerUnit is the BYN price of a single unit of the currency.
func (r Rate) PerUnit() float64 {
	if r.Scale == 0 {
		return 0
	}
	return r.OfficialRate / float64(r.Scale)
}
