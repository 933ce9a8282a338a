package handler

type RateQuery struct {
	Date    string `form:"date"`
	Monthly bool   `form:"monthly"`
}

type PeriodQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// ArchiveQuery selects either one archived date or a from/to range.
type ArchiveQuery struct {
	Date    string `form:"date"`
	From    string `form:"from"`
	To      string `form:"to"`
	Monthly bool   `form:"monthly"`
}
