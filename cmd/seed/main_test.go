package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFile_Ghana(t *testing.T) {
	seed, err := loadSeedFile("../../configs/statutory/ghana.yaml")
	require.NoError(t, err)

	require.Len(t, seed.TaxBands, 2)
	monthly := seed.TaxBands[0]
	assert.Equal(t, 2024, monthly.TaxYear)
	assert.False(t, monthly.IsAnnual)
	require.Len(t, monthly.Bands, 7)
	assert.Equal(t, "0", monthly.Bands[0].BandStart)
	assert.Empty(t, monthly.Bands[6].BandEnd)

	require.Len(t, seed.SsnitRates, 1)
	assert.Equal(t, "0.055", seed.SsnitRates[0].EmployeeRate)

	assert.Len(t, seed.WithholdingRates, 3)
}
