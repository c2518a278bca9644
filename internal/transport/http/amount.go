package http

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// amountField accepts a JSON number or a numeric string; legacy clients send
// both. An absent or unparseable value surfaces as NaN so the service can
// reject it.
type amountField struct {
	value float64
	set   bool
}

func (a *amountField) UnmarshalJSON(data []byte) error {
	a.set = true

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		a.value = n
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("amount must be a number or numeric string")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		a.value = math.NaN()
		return nil
	}
	a.value = n
	return nil
}

func (a amountField) float() float64 {
	if !a.set {
		return math.NaN()
	}
	return a.value
}
