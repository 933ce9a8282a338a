package usecase

type CurrencyResponse struct {
	ID           int    `json:"id"`
	CharCode     string `json:"char_code"`
	NumCode      string `json:"num_code,omitempty"`
	Name         string `json:"name"`
	NameEng      string `json:"name_eng,omitempty"`
	Scale        int    `json:"scale"`
	Periodicity  int    `json:"periodicity"`
	DateStart    string `json:"date_start,omitempty"`
	DateEnd      string `json:"date_end,omitempty"`
	ParentID     int    `json:"parent_id,omitempty"`
	QuotNameEng  string `json:"quot_name_eng,omitempty"`
	NameEngMulti string `json:"name_eng_multi,omitempty"`
}

type RateResponse struct {
	CharCode     string  `json:"char_code"`
	CurID        int     `json:"cur_id"`
	Name         string  `json:"name,omitempty"`
	Date         string  `json:"date"`
	Periodicity  int     `json:"periodicity"`
	Scale        int     `json:"scale"`
	OfficialRate float64 `json:"official_rate"`
	ValueBYN     float64 `json:"value_byn"`
}

type PeriodResponse struct {
	CharCode string             `json:"char_code"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Rates    map[string]float64 `json:"rates"`
}

type SyncResponse struct {
	Date    string `json:"date,omitempty"`
	Monthly bool   `json:"monthly"`
	Stored  int    `json:"stored"`
}
