package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleStruct struct {
	Name string `validate:"required"`
	Zoom int    `validate:"gte=1,lte=22"`
	Kind string `validate:"oneof=baseline fallback"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		err := ValidateStruct(sampleStruct{Name: "osm", Zoom: 19, Kind: "baseline"})
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		err := ValidateStruct(sampleStruct{Zoom: 19, Kind: "baseline"})
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "Name")
		assert.Contains(t, vErr.Error(), "Name is required")
	})

	t.Run("range violations", func(t *testing.T) {
		err := ValidateStruct(sampleStruct{Name: "osm", Zoom: 30, Kind: "fallback"})
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields["Zoom"], "less than or equal to 22")
	})

	t.Run("oneof violation", func(t *testing.T) {
		err := ValidateStruct(sampleStruct{Name: "osm", Zoom: 10, Kind: "satellite"})
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields["Kind"], "must be one of")
	})
}
