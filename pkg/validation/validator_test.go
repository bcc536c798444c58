package validation

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

type sampleDTO struct {
	Username  string      `validate:"required,username"`
	Phone     null.String `validate:"omitempty,th_phone"`
	Checklist null.String `validate:"omitempty,json_doc"`
	Rating    int         `validate:"required,min=1,max=5"`
	Role      string      `validate:"required,role"`
}

func TestValidator_CustomRules(t *testing.T) {
	v := New()

	valid := sampleDTO{
		Username:  "somchai.t",
		Phone:     null.StringFrom("0812345678"),
		Checklist: null.StringFrom(`{"filter":"cleaned","coil":{"ok":true}}`),
		Rating:    5,
		Role:      "TECHNICIAN",
	}
	assert.NoError(t, v.Validate(valid))

	absent := valid
	absent.Phone = null.String{}
	absent.Checklist = null.String{}
	assert.NoError(t, v.Validate(absent))

	tests := map[string]func(d *sampleDTO){
		"bad username":  func(d *sampleDTO) { d.Username = "a b" },
		"bad phone":     func(d *sampleDTO) { d.Phone = null.StringFrom("12345") },
		"bad checklist": func(d *sampleDTO) { d.Checklist = null.StringFrom(`{"filter":`) },
		"rating zero":   func(d *sampleDTO) { d.Rating = 0 },
		"rating six":    func(d *sampleDTO) { d.Rating = 6 },
		"bad role":      func(d *sampleDTO) { d.Role = "ROOT" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			d := valid
			mutate(&d)
			assert.Error(t, v.Validate(d))
		})
	}
}
