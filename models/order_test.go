package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func sections(state string, keys ...string) datatypes.JSONMap {
	m := datatypes.JSONMap{}
	for _, k := range keys {
		m[k] = state
	}
	return m
}

func TestIsFullyCompleted(t *testing.T) {
	all := sections(SectionStateCompleted, RequiredSections...)

	partial := sections(SectionStateCompleted, RequiredSections...)
	partial["snacks"] = "en_proceso"

	missing := sections(SectionStateCompleted, "desayuno", "almuerzo", "cena")

	extraOnly := sections(SectionStateCompleted, RequiredSections...)
	extraOnly["merienda"] = "pendiente" // unknown keys are ignored

	nonString := sections(SectionStateCompleted, RequiredSections...)
	nonString["cena"] = true

	cases := []struct {
		name string
		m    datatypes.JSONMap
		want bool
	}{
		{"nil map", nil, false},
		{"empty map", datatypes.JSONMap{}, false},
		{"all completed", all, true},
		{"one section short", partial, false},
		{"required keys missing", missing, false},
		{"extra keys ignored", extraOnly, true},
		{"non-string value", nonString, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := Order{SectionStatus: tc.m}
			assert.Equal(t, tc.want, o.IsFullyCompleted())
		})
	}
}
