package payroll

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abc", "0"},
		{"", "0"},
		{"   ", "0"},
		{"-5", "0"},
		{"30000", "30000"},
		{" 1500.5 ", "1500.5"},
		{"99.999", "100"},
		{"1,234.56", "1234.56"},
		{"0.004", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CoerceAmount(tt.input)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSetFieldRequest_Amount(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"number", `2500.75`, "2500.75"},
		{"numeric string", `"2500.75"`, "2500.75"},
		{"garbage string", `"abc"`, "0"},
		{"null", `null`, "0"},
		{"missing", ``, "0"},
		{"boolean", `true`, "0"},
		{"negative number", `-10`, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := SetFieldRequest{Field: "base_salary", Value: json.RawMessage(tt.value)}
			got := req.Amount()
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSetFieldRequest_Validate(t *testing.T) {
	req := SetFieldRequest{Field: "baseSalary"}
	field, err := req.Validate()
	assert.NoError(t, err)
	assert.Equal(t, FieldBaseSalary, field)

	req = SetFieldRequest{Field: "overtime"}
	_, err = req.Validate()
	assert.Error(t, err)

	req = SetFieldRequest{}
	_, err = req.Validate()
	assert.Error(t, err)
}
