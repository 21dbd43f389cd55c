package validate

// Entry is a single diagnostic with exact provenance: the field path it
// refers to and a human-readable message.
type Entry struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Status is the aggregate state of a validation category.
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
	StatusPending Status = "pending"
)

// Category partitions diagnostics for presentation.
type Category string

const (
	CategorySchema    Category = "schema"
	CategoryRequired  Category = "required"
	CategoryIntegrity Category = "integrity"
	CategorySecurity  Category = "security"
)

// Result is the outcome of one validation pass. Valid is true iff Errors is
// empty; Warnings never affect it.
type Result struct {
	Valid         bool                `json:"is_valid"`
	Errors        []Entry             `json:"errors"`
	Warnings      []Entry             `json:"warnings"`
	Categories    map[Category]Status `json:"categories"`
	OverallStatus Status              `json:"overall_status"`
}

// Pending returns a result with no diagnostics and every category pending.
// Used for placeholder documents that stand in for undecryptable payloads,
// which must not be reported as invalid.
func Pending() *Result {
	return &Result{
		Valid:    true,
		Errors:   []Entry{},
		Warnings: []Entry{},
		Categories: map[Category]Status{
			CategorySchema:    StatusPending,
			CategoryRequired:  StatusPending,
			CategoryIntegrity: StatusPending,
			CategorySecurity:  StatusPending,
		},
		OverallStatus: StatusPending,
	}
}

// collector accumulates diagnostics during a pass. All rules run; nothing
// short-circuits, so the caller gets the complete list in one pass.
type collector struct {
	errors    []Entry
	warnings  []Entry
	errCount  map[Category]int
	warnCount map[Category]int
}

func newCollector() *collector {
	return &collector{
		errCount:  make(map[Category]int),
		warnCount: make(map[Category]int),
	}
}

func (c *collector) errorf(cat Category, field, message string) {
	c.errors = append(c.errors, Entry{Field: field, Message: message})
	c.errCount[cat]++
}

func (c *collector) warnf(cat Category, field, message string) {
	c.warnings = append(c.warnings, Entry{Field: field, Message: message})
	c.warnCount[cat]++
}

func (c *collector) result() *Result {
	categories := make(map[Category]Status, 4)
	for _, cat := range []Category{CategorySchema, CategoryRequired, CategoryIntegrity} {
		switch {
		case c.errCount[cat] > 0:
			categories[cat] = StatusFail
		case c.warnCount[cat] > 0:
			categories[cat] = StatusWarning
		default:
			categories[cat] = StatusGood
		}
	}
	// Security reflects the crypto envelope, not the structural pass; the
	// pipeline overwrites it when an envelope is present.
	categories[CategorySecurity] = StatusGood

	overall := StatusGood
	if len(c.warnings) > 0 {
		overall = StatusWarning
	}
	if len(c.errors) > 0 {
		overall = StatusFail
	}

	errs := c.errors
	if errs == nil {
		errs = []Entry{}
	}
	warns := c.warnings
	if warns == nil {
		warns = []Entry{}
	}
	return &Result{
		Valid:         len(c.errors) == 0,
		Errors:        errs,
		Warnings:      warns,
		Categories:    categories,
		OverallStatus: overall,
	}
}
