package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// dateLayouts are the accepted request date formats. A plain date is
// midnight UTC.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// ParseDate parses an RFC 3339 timestamp or a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want RFC 3339 or YYYY-MM-DD", s)
}

// requestDate decodes a JSON string through ParseDate.
type requestDate struct {
	time.Time
}

func (d *requestDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (r *TransferRequest) UnmarshalJSON(b []byte) error {
	type plain TransferRequest
	aux := struct {
		*plain
		Date *requestDate `json:"date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Date != nil {
		r.Date = aux.Date.Time
	}
	return nil
}

func (r *CreateTransactionRequest) UnmarshalJSON(b []byte) error {
	type plain CreateTransactionRequest
	aux := struct {
		*plain
		Date *requestDate `json:"date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Date != nil {
		r.Date = aux.Date.Time
	}
	return nil
}

func (r *UpdateTransactionRequest) UnmarshalJSON(b []byte) error {
	type plain UpdateTransactionRequest
	aux := struct {
		*plain
		Date *requestDate `json:"date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Date != nil {
		t := aux.Date.Time
		r.Date = &t
	}
	return nil
}
