package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/mapgw/internal/domain"
)

func TestValidateMapName(t *testing.T) {
	t.Parallel()

	valid := []string{"world", "World_2", "roads-main", "a", "0", "A-b_C-9"}
	for _, name := range valid {
		assert.NoError(t, domain.ValidateMapName(name), name)
	}

	invalid := []string{"", "world.map", "../etc", "a/b", "with space", "ünï", "name?x=1"}
	for _, name := range invalid {
		err := domain.ValidateMapName(name)
		assert.ErrorIs(t, err, domain.ErrInvalidMapName, name)
	}
}

func TestNewMapRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mapName      string
		mapfilePath  string
		templatePath string
		wantErr      bool
		wantMapfile  string
	}{
		{
			name:         "valid record",
			mapName:      "world",
			mapfilePath:  "/srv/userdata/world.map",
			templatePath: "/srv/userdata/world.html",
			wantMapfile:  "/srv/userdata/world.map",
		},
		{
			name:         "path normalized",
			mapName:      "world",
			mapfilePath:  "/srv//userdata/./world.map",
			templatePath: "/srv/userdata/world.html",
			wantMapfile:  "/srv/userdata/world.map",
		},
		{
			name:         "invalid name",
			mapName:      "../world",
			mapfilePath:  "/srv/userdata/world.map",
			templatePath: "/srv/userdata/world.html",
			wantErr:      true,
		},
		{
			name:         "empty mapfile path",
			mapName:      "world",
			templatePath: "/srv/userdata/world.html",
			wantErr:      true,
		},
		{
			name:        "empty template path",
			mapName:     "world",
			mapfilePath: "/srv/userdata/world.map",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, err := domain.NewMapRecord(tt.mapName, tt.mapfilePath, tt.templatePath)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidMapName)
				assert.Nil(t, rec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mapName, rec.Name)
			assert.Equal(t, tt.wantMapfile, rec.MapfilePath)
			assert.Empty(t, rec.ID)
		})
	}
}

func TestStorageFiles(t *testing.T) {
	t.Parallel()

	mapPath, tplPath := domain.StorageFiles("/srv/userdata", "world")
	assert.Equal(t, filepath.Join("/srv/userdata", "world.map"), mapPath)
	assert.Equal(t, filepath.Join("/srv/userdata", "world.html"), tplPath)
}
