package nbrb

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// Date is a calendar date as NBRB sends it ("2024-01-09T00:00:00", no zone).
type Date struct{ time.Time }

func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	s := strings.TrimSpace(strings.Trim(string(b), "\""))
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		t, err = time.Parse(dateLayout, s)
		if err != nil {
			return fmt.Errorf("parse date %q: %w", s, err)
		}
	}

	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%q", d.Time.Format(dateTimeLayout))), nil
}

func (d Date) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format(dateLayout)
}

type Currency struct {
	ID           int    `json:"Cur_ID"`
	ParentID     int    `json:"Cur_ParentID"`
	Code         string `json:"Cur_Code"`
	Abbreviation string `json:"Cur_Abbreviation"`
	Name         string `json:"Cur_Name"`
	NameBel      string `json:"Cur_Name_Bel"`
	NameEng      string `json:"Cur_Name_Eng"`
	QuotName     string `json:"Cur_QuotName"`
	QuotNameBel  string `json:"Cur_QuotName_Bel"`
	QuotNameEng  string `json:"Cur_QuotName_Eng"`
	NameMulti    string `json:"Cur_NameMulti"`
	NameBelMulti string `json:"Cur_Name_BelMulti"`
	NameEngMulti string `json:"Cur_Name_EngMulti"`
	Scale        int    `json:"Cur_Scale"`
	Periodicity  int    `json:"Cur_Periodicity"`
	DateStart    Date   `json:"Cur_DateStart"`
	DateEnd      Date   `json:"Cur_DateEnd"`
}

type Rate struct {
	ID           int             `json:"Cur_ID"`
	Date         Date            `json:"Date"`
	Abbreviation string          `json:"Cur_Abbreviation"`
	Scale        int             `json:"Cur_Scale"`
	Name         string          `json:"Cur_Name"`
	OfficialRate decimal.Decimal `json:"Cur_OfficialRate"`
}

// PerUnit returns the official rate for a single unit of the currency.
func (r Rate) PerUnit() (decimal.Decimal, error) {
	if r.Scale == 0 {
		return decimal.Zero, fmt.Errorf("zero scale for %s on %s", r.Abbreviation, r.Date)
	}
	return r.OfficialRate.Div(decimal.NewFromInt(int64(r.Scale))), nil
}
