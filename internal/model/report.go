package model

// SkippedItem is a privilege that was not sent to the server.
type SkippedItem struct {
	Privilege string `json:"privilege"`
	Reason    string `json:"reason"`
}

// FailedStatement is a native statement the server rejected.
type FailedStatement struct {
	Statement string `json:"statement"`
	Error     string `json:"error"`
}

// ApplyReport summarizes a GRANT or REVOKE fan-out against one account.
type ApplyReport struct {
	Account    string            `json:"account"`
	Statements []string          `json:"statements"`
	Skipped    []SkippedItem     `json:"skipped,omitempty"`
	Failed     []FailedStatement `json:"failed,omitempty"`
}

func (r *ApplyReport) Skip(privilege, reason string) {
	r.Skipped = append(r.Skipped, SkippedItem{Privilege: privilege, Reason: reason})
}

func (r *ApplyReport) Fail(statement string, err error) {
	r.Failed = append(r.Failed, FailedStatement{Statement: statement, Error: err.Error()})
}

// SyncReport summarizes a tracked-vs-native account reconciliation.
type SyncReport struct {
	Created  []string          `json:"created"`
	Existing []string          `json:"existing"`
	Failed   []FailedStatement `json:"failed,omitempty"`
}
