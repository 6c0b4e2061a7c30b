package jobs

// Job status constants (single source of truth)
const (
	StatusNieuw        = "nieuw"
	StatusOnderweg     = "onderweg"
	StatusKlaar        = "klaar"
	StatusGefactureerd = "gefactureerd"
)

const (
	PrioriteitLaag    = "laag"
	PrioriteitNormaal = "normaal"
	PrioriteitHoog    = "hoog"
	PrioriteitUrgent  = "urgent"
)

// kanbanOrder is the happy-path column order on the dashboard.
var kanbanOrder = []string{StatusNieuw, StatusOnderweg, StatusKlaar, StatusGefactureerd}

func IsValidStatus(s string) bool {
	for _, v := range kanbanOrder {
		if s == v {
			return true
		}
	}
	return false
}

func IsValidPrioriteit(p string) bool {
	switch p {
	case PrioriteitLaag, PrioriteitNormaal, PrioriteitHoog, PrioriteitUrgent:
		return true
	}
	return false
}

// NextStatus returns the status one kanban column to the right. The second
// return is false when the job is already in the last column (or the status is
// unknown); there is nothing past "gefactureerd".
func NextStatus(s string) (string, bool) {
	for i, v := range kanbanOrder {
		if s == v && i+1 < len(kanbanOrder) {
			return kanbanOrder[i+1], true
		}
	}
	return s, false
}
