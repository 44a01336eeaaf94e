package rules

// Totals are the recomputed per-workday aggregates.
type Totals struct {
	BreakTotalMinutes       int `json:"break_total_minutes"`
	ExceededTotalMinutes    int `json:"exceeded_total_minutes"`
	CompensationMinutes     int `json:"compensation_minutes"`
	CompensationWorkMinutes int `json:"compensation_work_minutes"`
}

// Result is the common shape of every transition outcome. A policy
// rejection sets OK=false and Error to a human-readable reason; it is an
// expected business outcome, not a failure.
type Result struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func Reject(reason string) Result {
	return Result{OK: false, Error: reason}
}

type CheckInResult struct {
	Result
	LateMinutes int    `json:"late_minutes"`
	WorkdayID   string `json:"workday_id,omitempty"`
	Notice      string `json:"notice,omitempty"`
	Flex        bool   `json:"flex"`
}

type CheckOutResult struct {
	Result
	Flex bool `json:"flex"`
}

type LunchResult struct {
	Result
}

type MiniBreakStartResult struct {
	Result
	MiniBreakID     string `json:"mini_break_id,omitempty"`
	MiniCountBefore int    `json:"mini_count_before"`
	Phase           string `json:"phase,omitempty"`
	Notice          string `json:"notice,omitempty"`
}

type MiniBreakEndResult struct {
	Result
	DurationMinutes int    `json:"duration_minutes"`
	ExceededMinutes int    `json:"exceeded_minutes"`
	Totals          Totals `json:"totals"`
}
