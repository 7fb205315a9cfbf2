package dboptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantisdb/optionengine/pkg/options"
)

func TestDBOptionsConfigureFromStringRoundTrips(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)

	db := NewDBOptions()
	err = db.ConfigureFromString(ctx, "create_if_missing=true;max_open_files=512;"+
		"write_buffer_manager={size=64M;share_across_cfs=true};"+
		"storage_provider=id=pure-go;cache={id=default;capacity=32M}")
	require.NoError(t, err)

	assert.True(t, db.CreateIfMissing)
	assert.EqualValues(t, 512, db.MaxOpenFiles)
	assert.EqualValues(t, 64<<20, db.WriteBufferManager.Size)
	assert.True(t, db.WriteBufferManager.ShareAcrossCFs)
	require.NotNil(t, db.StorageProvider)
	assert.Equal(t, "pure-go", db.StorageProvider.GetID())
	require.NotNil(t, db.Cache)
	assert.Equal(t, "default", db.Cache.GetID())

	require.NoError(t, db.PrepareOptions(ctx))
	require.NoError(t, db.ValidateOptions(ctx))

	out, err := db.GetOptionString(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "create_if_missing=true")
	assert.Contains(t, out, "id=pure-go")
}

func TestDBOptionsRejectsUseCGOOnPureGoProvider(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)

	db := NewDBOptions()
	err = db.ConfigureFromString(ctx, "storage_provider={id=pure-go;use_cgo=true}")
	require.Error(t, err, "configuring use_cgo=true under pure-go should fail at prepare time")
}

func TestDBOptionsConfigureFromMapResetsOnFailure(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)

	db := NewDBOptions()
	require.NoError(t, db.ConfigureFromString(ctx, "max_open_files=100"))

	err = db.ConfigureFromMap(ctx, []options.KV{
		{Key: "max_open_files", Value: "200"},
		{Key: "no_such_option", Value: "x"},
	})
	require.Error(t, err)
	assert.EqualValues(t, 100, db.MaxOpenFiles, "a failed ConfigureFromMap must restore the prior value")
}

func TestCFOptionsVectorAndCustomizableFields(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)

	cf := NewCFOptions()
	err = cf.ConfigureFromString(ctx, "compression=id=lz4;checksum=id=xxhash;"+
		"target_file_size_multipliers=1:2:4:8:16")
	require.NoError(t, err)

	require.NotNil(t, cf.Compression)
	assert.Equal(t, "lz4", cf.Compression.GetID())
	require.NotNil(t, cf.Checksum)
	assert.Equal(t, "xxhash", cf.Checksum.GetID())
	assert.Equal(t, []int64{1, 2, 4, 8, 16}, cf.TargetFileSizeMultipliers)
}

func TestCFOptionsFixedDomainEnumRoundTrips(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)

	cf := NewCFOptions()
	err = cf.ConfigureFromString(ctx, "compaction_style=universal;compaction_pri=oldest-first;"+
		"compaction_stop_style=total-size;encoding_type=dictionary")
	require.NoError(t, err)
	assert.Equal(t, 1, cf.CompactionStyle)
	assert.Equal(t, 1, cf.CompactionPri)
	assert.Equal(t, 1, cf.CompactionStopStyle)
	assert.Equal(t, 2, cf.EncodingType)

	out, err := cf.GetOptionString(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "compaction_style=universal")
	assert.Contains(t, out, "compaction_pri=oldest-first")
	assert.Contains(t, out, "compaction_stop_style=total-size")
	assert.Contains(t, out, "encoding_type=dictionary")
}

func TestMatchesReportsMismatchPath(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)

	a := NewCFOptions()
	require.NoError(t, a.ConfigureFromString(ctx, "compression=id=lz4"))
	b := NewCFOptions()
	require.NoError(t, b.ConfigureFromString(ctx, "compression=id=zstd"))

	ok, mismatch := a.Matches(ctx, b)
	assert.False(t, ok)
	assert.Contains(t, mismatch, "compression")
}
