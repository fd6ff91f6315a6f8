package models

// Tick is a single live trade print from an exchange stream. Timestamp is
// unix seconds.
type Tick struct {
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"t"`
	Price     float64 `json:"c"`
	Volume    float64 `json:"v"`
}
