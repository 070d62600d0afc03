package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/types"
)

func TestRunInit(t *testing.T) {
	setupCmdTest(t)

	var buf bytes.Buffer
	require.NoError(t, runInit(&buf, nil))
	assert.Equal(t, "Created project.igbc.yaml (20/40 points)\n", buf.String())

	in, err := project.Load(defaultSnapshotFile)
	require.NoError(t, err)
	assert.Equal(t, project.Quantity("1000"), in.Topography.SiteArea)

	err = runInit(io.Discard, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	initForce = true
	require.NoError(t, runInit(io.Discard, nil))
}

func TestRunInit_Formats(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"yaml", "site.igbc.yml", nil},
		{"json", "site.igbc.json", nil},
		{"toml", "site.igbc.toml", nil},
		{"unsupported", "notes.txt", project.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCmdTest(t)
			viper.Set("quiet", true)

			var buf bytes.Buffer
			err := runInit(&buf, []string{tt.path})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.NoFileExists(t, tt.path)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, buf.String())

			in, err := project.Load(tt.path)
			require.NoError(t, err)
			assert.Equal(t, types.SourcePreset, in.Energy.Sources.RETV)
		})
	}
}

func TestRunSet(t *testing.T) {
	setupCmdTest(t)
	viper.Set("quiet", true)
	writeSnapshot(t, "a.igbc.yaml", project.Defaults())

	require.NoError(t, runSet(io.Discard, "a.igbc.yaml", []string{
		"topography.naturalArea=200",
		"amenities.playArea=true",
		"amenities.nearby.bank=false",
	}))

	in, err := project.Load("a.igbc.yaml")
	require.NoError(t, err)
	assert.Equal(t, project.Quantity("200"), in.Topography.NaturalArea)
	assert.True(t, in.Amenities.PlayArea)
	assert.False(t, in.Amenities.Nearby.Has("bank"))
	assert.True(t, in.Amenities.Nearby.Has("transport"))
}

func TestRunSet_Console(t *testing.T) {
	setupCmdTest(t)
	writeSnapshot(t, "a.igbc.yaml", project.Defaults())

	var buf bytes.Buffer
	require.NoError(t, runSet(&buf, "a.igbc.yaml", []string{"topography.naturalArea=200"}))
	assert.Contains(t, buf.String(), "Updated a.igbc.yaml: 20 -> 21 points")
}

func TestRunSet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{"missing equals", []string{"topography.naturalArea"}, nil, "expected field=value"},
		{"unknown field", []string{"bogus.field=1"}, project.ErrUnknownField, ""},
		{"invalid flag value", []string{"amenities.playArea=maybe"}, project.ErrInvalidValue, ""},
		{"preset locked", []string{"enhancedEnergy.retv=16"}, project.ErrPresetLocked, ""},
		{"second edit rejected", []string{"topography.naturalArea=300", "enhancedEnergy.retv=16"}, project.ErrPresetLocked, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCmdTest(t)
			viper.Set("quiet", true)
			writeSnapshot(t, "a.igbc.yaml", project.Defaults())
			before, err := os.ReadFile("a.igbc.yaml")
			require.NoError(t, err)

			err = runSet(io.Discard, "a.igbc.yaml", tt.args)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}

			after, err := os.ReadFile("a.igbc.yaml")
			require.NoError(t, err)
			assert.Equal(t, string(before), string(after), "rejected edits leave the file unchanged")
		})
	}
}

func TestRunSet_MissingFile(t *testing.T) {
	setupCmdTest(t)
	viper.Set("quiet", true)

	err := runSet(io.Discard, "missing.igbc.yaml", []string{"amenities.playArea=true"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading snapshot")
}

func TestRunSource(t *testing.T) {
	setupCmdTest(t)
	viper.Set("quiet", true)
	writeSnapshot(t, "a.igbc.yaml", project.Defaults())

	require.NoError(t, runSource(io.Discard, "a.igbc.yaml", "retv", "custom"))
	require.NoError(t, runSet(io.Discard, "a.igbc.yaml", []string{"enhancedEnergy.retv=16"}))

	in, err := project.Load("a.igbc.yaml")
	require.NoError(t, err)
	assert.Equal(t, types.SourceCustom, in.Energy.Sources.RETV)
	assert.Equal(t, project.Quantity("16"), in.Energy.RETV)

	require.NoError(t, runSource(io.Discard, "a.igbc.yaml", "retv", "preset"))

	in, err = project.Load("a.igbc.yaml")
	require.NoError(t, err)
	assert.Equal(t, types.SourcePreset, in.Energy.Sources.RETV)
	assert.Equal(t, project.Quantity("12.5"), in.Energy.RETV)
}

func TestRunSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		group   string
		source  string
		wantErr error
		wantMsg string
	}{
		{"unknown group", "bogus", "custom", project.ErrUnknownSourceGroup, "renewableGeneration"},
		{"invalid source", "retv", "sd+", project.ErrInvalidValue, "preset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCmdTest(t)
			viper.Set("quiet", true)
			writeSnapshot(t, "a.igbc.yaml", project.Defaults())

			err := runSource(io.Discard, "a.igbc.yaml", tt.group, tt.source)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRunValidate(t *testing.T) {
	setupCmdTest(t)
	writeSnapshot(t, "good.igbc.yaml", project.Defaults())

	var buf bytes.Buffer
	require.NoError(t, runValidate(&buf, nil))
	assert.Contains(t, buf.String(), "✓ good.igbc.yaml")
	assert.Contains(t, buf.String(), "1 file(s) validated, 0 error(s)")

	writeFile(t, "bad.igbc.yaml", "topography:\n  option: C\n")

	buf.Reset()
	err := runValidate(&buf, nil)
	require.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, buf.String(), "✗ bad.igbc.yaml")
	assert.Contains(t, buf.String(), "✓ good.igbc.yaml")
	assert.Contains(t, buf.String(), "2 file(s) validated")
}

func TestRunValidate_NoFiles(t *testing.T) {
	setupCmdTest(t)

	var buf bytes.Buffer
	require.NoError(t, runValidate(&buf, nil))
	assert.Equal(t, "No snapshot files found\n", buf.String())
}

func TestRunCredits_Console(t *testing.T) {
	setupCmdTest(t)

	var buf bytes.Buffer
	require.NoError(t, runCredits(&buf))
	out := buf.String()
	assert.Contains(t, out, "Sustainable Design  20 points")
	assert.Contains(t, out, "Energy Efficiency  20 points")
	assert.Contains(t, out, "sd-cr-1")
	assert.Contains(t, out, "Option A: ≥ 15% → 1, ≥ 25% → 2")
	assert.Contains(t, out, "RETV: ≤ 15 W/m² → 1")
	assert.Contains(t, out, "Maximum total: 40 points")
}

func TestRunCredits_Quiet(t *testing.T) {
	setupCmdTest(t)
	viper.Set("quiet", true)

	var buf bytes.Buffer
	require.NoError(t, runCredits(&buf))
	assert.Contains(t, buf.String(), "ee-cr-5")
	assert.NotContains(t, buf.String(), "Option A")
}

func TestRunCredits_JSON(t *testing.T) {
	setupCmdTest(t)
	viper.Set("format", "json")

	var buf bytes.Buffer
	require.NoError(t, runCredits(&buf))

	var doc creditsDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc.Categories, 2)
	require.Len(t, doc.Credits, 13)
	assert.Equal(t, 40, doc.MaxTotal)
	assert.Equal(t, types.SDCredit1, doc.Credits[0].ID)
	assert.Len(t, doc.Credits[0].Ladders, 2)
	assert.Empty(t, doc.Credits[3].Ladders, "universal design has no ladder")
}

func TestFormatLadder(t *testing.T) {
	tests := []struct {
		name   string
		ladder catalog.Ladder
		want   string
	}{
		{"percent", catalog.TopographyOptionB, "Option B: ≥ 30% → 3, ≥ 40% → 4"},
		{"at most with unit", catalog.RoofUValue, "Roof U-value: ≤ 1.2 W/m²K → 1, ≤ 1 W/m²K → 2"},
		{"no unit", catalog.Ladder{Name: "Spaces", Steps: []catalog.Threshold{{Value: 2, Points: 1}}}, "Spaces: ≥ 2 → 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatLadder(tt.ladder))
		})
	}
}

func TestRunFmt(t *testing.T) {
	const raw = "topography:\n  option: B\n"

	t.Run("stdout", func(t *testing.T) {
		setupCmdTest(t)
		writeFile(t, "a.igbc.yaml", raw)

		var buf bytes.Buffer
		require.NoError(t, runFmt(&buf, nil))
		assert.Contains(t, buf.String(), "option: B")
		assert.Contains(t, buf.String(), "siteArea:")

		content, err := os.ReadFile("a.igbc.yaml")
		require.NoError(t, err)
		assert.Equal(t, raw, string(content), "stdout mode leaves files alone")
	})

	t.Run("check then write", func(t *testing.T) {
		setupCmdTest(t)
		writeFile(t, "a.igbc.yaml", raw)

		var buf bytes.Buffer
		fmtCheck = true
		require.ErrorIs(t, runFmt(&buf, nil), errChecksFailed)
		assert.Equal(t, "a.igbc.yaml needs formatting\n", buf.String())

		fmtCheck, fmtWrite = false, true
		buf.Reset()
		require.NoError(t, runFmt(&buf, nil))
		assert.Equal(t, "Formatted a.igbc.yaml\n", buf.String())

		in, err := project.Load("a.igbc.yaml")
		require.NoError(t, err)
		assert.Equal(t, "B", in.Topography.Option)

		fmtCheck, fmtWrite = true, false
		buf.Reset()
		require.NoError(t, runFmt(&buf, nil))
		assert.Empty(t, buf.String())
	})

	t.Run("diff", func(t *testing.T) {
		setupCmdTest(t)
		writeFile(t, "a.igbc.yaml", raw)

		var buf bytes.Buffer
		fmtDiff = true
		require.NoError(t, runFmt(&buf, nil))
		assert.Contains(t, buf.String(), "--- a.igbc.yaml")
		assert.Contains(t, buf.String(), "+++ a.igbc.yaml")
	})

	t.Run("summary across files", func(t *testing.T) {
		setupCmdTest(t)
		writeSnapshot(t, "a.igbc.yaml", project.Defaults())
		writeSnapshot(t, "b.igbc.json", project.Defaults())

		var buf bytes.Buffer
		fmtCheck = true
		require.NoError(t, runFmt(&buf, nil))
		assert.Contains(t, buf.String(), "All 2 files already formatted")
	})

	t.Run("no files", func(t *testing.T) {
		setupCmdTest(t)
		err := runFmt(io.Discard, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no files to format")
	})
}

func TestRunServe_Canceled(t *testing.T) {
	setupCmdTest(t)
	viper.Set("quiet", true)
	viper.Set("server.addr", "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, runServe(ctx))
}
