package output

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/geoseis/ccstack/config"
	"github.com/geoseis/ccstack/finisher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureResult() *finisher.Result {
	return &finisher.Result{
		Rows:      [][]float64{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}},
		Count:     []int32{3, 5},
		Delta:     0.1,
		T0:        -0.1,
		T1:        0.1,
		DistStart: 0,
		DistStep:  1,
	}
}

func TestWriteGroupedRoundTripsMagicAndHeader(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "run")
	res := fixtureResult()

	require.NoError(t, WriteGrouped(prefix, res))

	raw, err := os.ReadFile(prefix + ".ccstack.bin")
	require.NoError(t, err)
	assert.Equal(t, groupedMagic, string(raw[:4]))

	hdrLen := int32(binary.LittleEndian.Uint32(raw[4:8]))
	assert.Greater(t, hdrLen, int32(0))
}

func TestWritePerBinNamesFilesByDistance(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "run")
	res := fixtureResult()

	require.NoError(t, WritePerBin(prefix, res))

	_, err := os.Stat(fmt.Sprintf("%s_%05.1f_.wav", prefix, 0.0))
	assert.NoError(t, err)
	_, err = os.Stat(fmt.Sprintf("%s_%05.1f_.wav", prefix, 1.0))
	assert.NoError(t, err)
	_, err = os.Stat(fmt.Sprintf("%s_%05.1f_.wav.hdr.json", prefix, 0.0))
	assert.NoError(t, err)
}

func TestWriteDispatchesBothFormats(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{OutputPrefix: filepath.Join(dir, "run"), OutputFormats: []string{"grouped", "per_bin"}}
	res := fixtureResult()

	require.NoError(t, Write(cfg, res))

	_, err := os.Stat(cfg.OutputPrefix + ".ccstack.bin")
	assert.NoError(t, err)
	_, err = os.Stat(fmt.Sprintf("%s_%05.1f_.wav", cfg.OutputPrefix, 0.0))
	assert.NoError(t, err)
}

func TestWriteUnknownFormatErrors(t *testing.T) {
	cfg := &config.Config{OutputPrefix: filepath.Join(t.TempDir(), "run"), OutputFormats: []string{"parquet"}}
	err := Write(cfg, fixtureResult())
	assert.Error(t, err)
}
