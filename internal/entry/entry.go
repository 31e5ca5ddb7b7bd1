package entry

// Entry represents a single timesheet row
type Entry struct {
	Date        string `json:"date"`
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	TimeElapsed string `json:"time_elapsed"`
	Task        string `json:"task"`
}

// Columns is the header row of the persisted timesheet, in column order
var Columns = []string{"Date", "Day", "Start Time", "End Time", "Time Elapsed", "Task"}

// Row returns the entry's values in Columns order
func (e Entry) Row() []string {
	return []string{e.Date, e.Day, e.StartTime, e.EndTime, e.TimeElapsed, e.Task}
}

// FromRow builds an entry from spreadsheet cells in Columns order.
// Missing trailing cells are left empty and extra cells are ignored.
func FromRow(row []string) Entry {
	cells := make([]string, len(Columns))
	copy(cells, row)
	return Entry{
		Date:        cells[0],
		Day:         cells[1],
		StartTime:   cells[2],
		EndTime:     cells[3],
		TimeElapsed: cells[4],
		Task:        cells[5],
	}
}
