package hierarchy

// FirstManager returns the lowest-level manager in the chain.
func FirstManager(chain []ChainEntry) (string, bool) {
	if len(chain) == 0 {
		return "", false
	}
	first := chain[0]
	for _, entry := range chain[1:] {
		if entry.Level < first.Level {
			first = entry
		}
	}
	return first.ManagerID, true
}

// NextAfter returns the manager one position above the given manager. The
// position is located by identity rather than by stored level so the answer
// stays correct when chain levels are renumbered between submit and approve.
// An unknown manager or the last chain position yields no further routing.
func NextAfter(chain []ChainEntry, managerID string) (string, bool) {
	for i, entry := range chain {
		if entry.ManagerID == managerID {
			if i+1 < len(chain) {
				return chain[i+1].ManagerID, true
			}
			return "", false
		}
	}
	return "", false
}

// Contains reports whether the manager appears anywhere in the chain.
func Contains(chain []ChainEntry, managerID string) bool {
	for _, entry := range chain {
		if entry.ManagerID == managerID {
			return true
		}
	}
	return false
}

// MissingLevels lists the sequence levels absent from a chain that should be
// contiguous starting at 1. Gaps indicate a broken import; callers report
// them rather than fail.
func MissingLevels(chain []ChainEntry) []int {
	if len(chain) == 0 {
		return nil
	}
	present := make(map[int]bool, len(chain))
	maxLevel := 0
	for _, entry := range chain {
		present[entry.Level] = true
		if entry.Level > maxLevel {
			maxLevel = entry.Level
		}
	}
	var missing []int
	for level := 1; level <= maxLevel; level++ {
		if !present[level] {
			missing = append(missing, level)
		}
	}
	return missing
}
