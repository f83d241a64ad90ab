package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/vector-aws-secrets/internal/backend"
	"github.com/systmms/vector-aws-secrets/internal/errors"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    backend.Kind
		wantErr bool
	}{
		{input: "ssm", want: backend.KindSSM},
		{input: "secretsmanager", want: backend.KindSecretsManager},
		{input: "SSM", wantErr: true},
		{input: "vault", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := backend.ParseKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.StartupMisconfiguration, errors.KindOf(err))
				assert.Contains(t, err.Error(), "ssm, secretsmanager")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestKindStringUnknown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "unknown", backend.Kind(0).String())
}
