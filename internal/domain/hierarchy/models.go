package hierarchy

// ChainEntry is one edge of an employee's approval chain. Level 1 is the
// direct manager; higher levels sit further up the hierarchy.
type ChainEntry struct {
	Level     int    `json:"level"`
	ManagerID string `json:"managerId"`
}

// ChainReport is the inspection view of one employee's chain, including any
// sequence gaps left behind by a broken import.
type ChainReport struct {
	EmployeeID    string       `json:"employeeId"`
	Entries       []ChainEntry `json:"entries"`
	MissingLevels []int        `json:"missingLevels,omitempty"`
	Contiguous    bool         `json:"contiguous"`
}
