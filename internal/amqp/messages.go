package amqp

import (
	"encoding/json"
	"time"

	"awardstats/internal/aggregate"
	"awardstats/internal/core"
)

// SummaryMessage announces one closed state-year summary. Downstream
// consumers (dashboards, diff jobs) get the headline figures inline and can
// pull category detail from the archive.
type SummaryMessage struct {
	FiscalYear  int       `json:"fiscal_year"`
	State       string    `json:"state"`
	Recipients  int       `json:"recipients"`
	Obligations int64     `json:"obligations"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewSummaryMessage(fiscalYear int, state string, t aggregate.Totals) *SummaryMessage {
	return &SummaryMessage{
		FiscalYear:  fiscalYear,
		State:       state,
		Recipients:  t.Recipients[core.AllRecipients],
		Obligations: t.Obligations[core.AllRecipients],
		Timestamp:   time.Now(),
	}
}

func (m *SummaryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SummaryMessageFromJSON(data []byte) (*SummaryMessage, error) {
	var msg SummaryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
