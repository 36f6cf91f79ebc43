package consolidate

// Report summarises one consolidation run.
type Report struct {
	FileRows map[string]int

	ConcatenatedRows int
	NullDates        int
	Buckets          int

	TemperatureRows    int
	TemperatureDropped int

	MergedRows        int
	InterpolatedCells int

	DemandOutput      string
	TemperatureOutput string
	CleanedOutput     string
	WorkbookOutput    string

	StoredRows int
}
