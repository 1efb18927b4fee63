package domain_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sufield/mapgw/internal/domain"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"unrelated", errors.New("boom"), 0},
		{"storage", domain.ErrStorageNotWritable, 1},
		{"unreachable", domain.ErrEngineUnreachable, 2},
		{"binding", domain.ErrNativeBindingMissing, 3},
		{"config write", domain.ErrConfigWriteFailed, 4},
		{"dispatch", domain.ErrDispatchFailed, 5},
		{"render", domain.ErrRenderFailed, 6},
		{"file io", domain.ErrFileIOFailed, 7},
		{"map load", domain.ErrMapLoadFailed, 8},
		{"wrapped", fmt.Errorf("at http://localhost/cgi-bin/mapserv: %w", domain.ErrEngineUnreachable), 2},
		{"wrapped with cause", fmt.Errorf("%w: %w", domain.ErrConfigWriteFailed, fs.ErrPermission), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Code(tt.err))
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		domain.ErrStorageNotWritable,
		domain.ErrEngineUnreachable,
		domain.ErrNativeBindingMissing,
		domain.ErrConfigWriteFailed,
		domain.ErrDispatchFailed,
		domain.ErrRenderFailed,
		domain.ErrFileIOFailed,
		domain.ErrMapLoadFailed,
		domain.ErrMapNotFound,
		domain.ErrInvalidMapName,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
		}
	}
}

func TestCode_RegistryErrorsHaveNoCode(t *testing.T) {
	assert.Zero(t, domain.Code(domain.ErrMapNotFound))
	assert.Zero(t, domain.Code(fmt.Errorf("lookup: %w", domain.ErrInvalidMapName)))
}
